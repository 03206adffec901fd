package shell

import (
	"strings"

	"go.trai.ch/rig/internal/core/domain"
	"go.trai.ch/rig/internal/core/ports"
)

// NewCommandTask wraps one shell invocation in a work unit. The unit's
// result is the command's exit code, which is always zero on success. During
// a dry run the command is logged instead of executed unless the unit has
// been marked dry-run safe.
func NewCommandTask(executor ports.Executor, name string, cmd *ports.Command) *domain.Unit[int] {
	description := name
	if description == "" {
		description = strings.Join(cmd.Argv, " ")
	}

	var unit *domain.Unit[int]
	unit = domain.NewUnit(description, func(ec *domain.Context) (int, error) {
		if ec.DryRun() && !unit.DryRunSafe() {
			ec.LogInfo("dry run: would execute " + strings.Join(cmd.Argv, " "))
			return 0, nil
		}
		if err := executor.Execute(ec.Context(), cmd); err != nil {
			return 0, err
		}
		return 0, nil
	})
	return unit
}
