package fs

import (
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
)

// NewChecksumTask wraps a multi-file digest computation in a work unit. The
// unit's result is the combined digest string. Hashing has no side effects,
// so the unit is dry-run safe from construction.
func NewChecksumTask(hasher ports.Hasher, name string, paths []string) *domain.Unit[string] {
	description := name
	if description == "" {
		description = "checksum " + strings.Join(paths, " ")
	}

	unit := domain.NewUnit(description, func(ec *domain.Context) (string, error) {
		digest, err := hasher.ComputeDigest(ec.Context(), paths)
		if err != nil {
			return "", err
		}
		ec.LogInfo("checksum " + digest)
		return digest, nil
	})
	return unit.MarkDryRunSafe()
}
