package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/obr/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/obr/internal/adapters/connector" //nolint:depguard // Wired in app layer
	"go.trai.ch/obr/internal/adapters/index"     //nolint:depguard // Wired in app layer
	"go.trai.ch/obr/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/obr/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/obr/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components is the root of the dependency graph handed to the CLI.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			connector.NodeID,
			index.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	conn, err := graft.Dep[ports.Connector](ctx)
	if err != nil {
		return nil, err
	}

	parser, err := graft.Dep[ports.IndexParser](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.IndexWatcher](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, conn, parser, w, log), nil
}
