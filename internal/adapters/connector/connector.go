// Package connector opens byte streams for index and artifact URLs.
package connector

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/zerr"
)

// Connector implements ports.Connector for http, https and file URLs.
type Connector struct {
	httpClient *http.Client
}

var _ ports.Connector = (*Connector)(nil)

// New creates a Connector whose remote requests are bounded by timeout. Zero means no bound.
func New(timeout time.Duration) *Connector {
	return &Connector{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithClient creates a Connector using client for remote requests.
func NewWithClient(client *http.Client) *Connector {
	return &Connector{httpClient: client}
}

// Open returns the content behind u. The caller closes the stream.
func (c *Connector) Open(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	switch u.Scheme {
	case "http", "https":
		return c.openRemote(ctx, u)
	case "file":
		return openFile(u)
	default:
		err := zerr.With(domain.ErrUnsupportedScheme, "scheme", u.Scheme)
		return nil, zerr.With(err, "url", u.String())
	}
}

func (c *Connector) openRemote(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", u.String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", u.String())
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		statusErr := zerr.With(domain.ErrDownloadFailed, "status_code", resp.StatusCode)
		return nil, zerr.With(statusErr, "url", u.String())
	}

	return resp.Body, nil
}

func openFile(u *url.URL) (io.ReadCloser, error) {
	path := FilePath(u)
	//nolint:gosec // Path comes from the configured repository index
	f, err := os.Open(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "path", path)
	}
	return f, nil
}

// FilePath returns the local path of a file URL, accepting both file:/p and file:///p forms.
func FilePath(u *url.URL) string {
	if u.Path != "" {
		return u.Path
	}
	return u.Opaque
}
