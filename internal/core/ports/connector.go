// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
	"net/url"
)

// Connector opens byte streams for URLs.
//
//go:generate go run go.uber.org/mock/mockgen -source=connector.go -destination=mocks/mock_connector.go -package=mocks
type Connector interface {
	// Open returns a stream for the resource at u. The caller closes it.
	Open(ctx context.Context, u *url.URL) (io.ReadCloser, error)
}
