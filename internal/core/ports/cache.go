package ports

import (
	"context"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/obr/internal/core/domain"
)

// Handle is a lazily materializable reference to a resource's content.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type Handle interface {
	// Name returns the file name the content is stored under.
	Name() string

	// Location returns the absolute URL the handle was resolved from.
	Location() string

	// Request materializes the content and returns the local file path.
	Request(ctx context.Context) (string, error)

	// Digest returns the canonical digest of the content Request materialized.
	Digest() (digest.Digest, error)
}

// ResourceCache maps resource URLs to handles on local files.
type ResourceCache interface {
	// Handle resolves resourceURL, possibly relative to baseURL, into a handle using mode.
	// A local reference that does not exist yields domain.ErrBrokenLink.
	Handle(resourceURL, baseURL string, mode domain.CacheMode) (Handle, error)

	// Clean removes every cached file.
	Clean() error
}
