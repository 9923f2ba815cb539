// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/obr/internal/adapters/config"
	_ "go.trai.ch/obr/internal/adapters/connector"
	_ "go.trai.ch/obr/internal/adapters/index"
	_ "go.trai.ch/obr/internal/adapters/logger"
	_ "go.trai.ch/obr/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/obr/internal/app"
)
