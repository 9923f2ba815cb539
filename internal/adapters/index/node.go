package index

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/obr/internal/adapters/logger"
	"go.trai.ch/obr/internal/core/ports"
)

// NodeID is the unique identifier for the index parser Graft node.
const NodeID graft.ID = "adapter.index"

func init() {
	graft.Register(graft.Node[ports.IndexParser]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.IndexParser, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewParser(log), nil
		},
	})
}
