package session

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/rig/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rig/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/rig/internal/core/ports"
)

// NodeID is the unique identifier for the session Graft node.
const NodeID graft.ID = "engine.session"

func init() {
	graft.Register(graft.Node[*Session]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Session, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return New(log, tracer), nil
		},
	})
}
