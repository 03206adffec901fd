package ports

import "go.trai.ch/rig/internal/core/domain"

// ConfigLoader loads a build definition into a populated target registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the build definition at path and returns the registry it
	// describes, with targets, dependencies, tasks and the default target
	// already in place.
	Load(path string) (*domain.Registry, error)
}
