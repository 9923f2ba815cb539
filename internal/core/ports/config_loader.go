package ports

import "go.trai.ch/obr/internal/core/domain"

// ConfigLoader defines the interface for loading the repository configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path and returns the resolved repository config.
	// Relative locations and the cache directory are resolved against the file's directory.
	Load(path string) (*domain.RepositoryConfig, error)
}
