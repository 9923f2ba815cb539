package connector

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
)

// NodeID is the unique identifier for the connector Graft node.
const NodeID graft.ID = "adapter.connector"

func init() {
	graft.Register(graft.Node[ports.Connector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Connector, error) {
			// Per-repository timeouts are applied with context deadlines.
			return New(domain.DefaultTimeout), nil
		},
	})
}
