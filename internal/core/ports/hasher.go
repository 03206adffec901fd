package ports

import "context"

// Hasher computes content hashes for files.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash returns the hash of a single file's content.
	ComputeFileHash(path string) (uint64, error)
	// ComputeDigest returns a combined digest over the given files,
	// deterministic across path order.
	ComputeDigest(ctx context.Context, paths []string) (string, error)
}
