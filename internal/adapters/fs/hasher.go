// Package fs provides file hashing and the checksum work unit.
package fs

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/rig/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher implements ports.Hasher using XXHash.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer func() { _ = f.Close() }()

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file"), "path", path)
	}
	return digest.Sum64(), nil
}

// ComputeDigest computes a combined digest over the given files. Files hash
// concurrently; the combination is over the sorted path list, so the digest
// is deterministic across declaration order.
func (h *Hasher) ComputeDigest(ctx context.Context, paths []string) (string, error) {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	hashes := make([]uint64, len(sorted))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range sorted {
		g.Go(func() error {
			sum, err := h.ComputeFileHash(path)
			if err != nil {
				return err
			}
			hashes[i] = sum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	combined := xxhash.New()
	var buf [8]byte
	for _, sum := range hashes {
		binary.BigEndian.PutUint64(buf[:], sum)
		_, _ = combined.Write(buf[:])
	}
	return fmt.Sprintf("%016x", combined.Sum64()), nil
}
