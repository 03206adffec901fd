package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/fs"    //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/rig/internal/adapters/shell" //nolint:depguard // Wired in adapter wiring
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the config loader Graft node.
const NodeID graft.ID = "adapter.config"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID, fs.HasherNodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewFileConfigLoader(executor, hasher), nil
		},
	})
}
