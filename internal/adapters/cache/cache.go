// Package cache maps resource URLs onto local files, downloading remote content into a
// browsable on-disk cache.
package cache

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/obr/internal/adapters/connector"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// Cache implements ports.ResourceCache.
type Cache struct {
	dir       string
	connector ports.Connector
	logger    ports.Logger

	// downloads deduplicates concurrent fetches of the same cache file.
	downloads singleflight.Group
}

var _ ports.ResourceCache = (*Cache)(nil)

// New creates a Cache rooted at dir, creating the directory if needed.
func New(dir string, conn ports.Connector, logger ports.Logger) (*Cache, error) {
	cleanDir := filepath.Clean(dir)
	if err := os.MkdirAll(cleanDir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "dir", cleanDir)
	}
	return &Cache{
		dir:       cleanDir,
		connector: conn,
		logger:    logger,
	}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Handle resolves resourceURL against baseURL. Local references are checked for existence
// immediately; remote ones are materialized on Request.
func (c *Cache) Handle(resourceURL, baseURL string, mode domain.CacheMode) (ports.Handle, error) {
	abs, err := resolve(resourceURL, baseURL)
	if err != nil {
		return nil, brokenLink(err, resourceURL, baseURL)
	}

	switch abs.Scheme {
	case "", "file":
		path := filepath.Clean(connector.FilePath(abs))
		if _, err := os.Stat(path); err != nil {
			return nil, brokenLink(err, resourceURL, baseURL)
		}
		return &fileHandle{path: path, location: abs.String()}, nil
	case "http", "https":
		return &remoteHandle{
			cache:    c,
			url:      abs,
			path:     filepath.Join(c.dir, Key(abs.String())),
			mode:     mode,
			location: abs.String(),
		}, nil
	default:
		err := zerr.With(domain.ErrUnsupportedScheme, "scheme", abs.Scheme)
		return nil, brokenLink(err, resourceURL, baseURL)
	}
}

// Clean removes every cached file and recreates the empty cache root.
func (c *Cache) Clean() error {
	if err := os.RemoveAll(c.dir); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "dir", c.dir)
	}
	if err := os.MkdirAll(c.dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "dir", c.dir)
	}
	return nil
}

// Key returns the cache-relative path of a remote URL: the escaped parent path names the
// sub directory and the escaped last segment names the file.
func Key(rawURL string) string {
	idx := strings.LastIndex(rawURL, "/")
	if idx < 0 {
		return url.PathEscape(rawURL)
	}
	name := rawURL[idx+1:]
	if name == "" {
		name = "_"
	}
	return filepath.Join(url.PathEscape(rawURL[:idx]), url.PathEscape(name))
}

func resolve(resourceURL, baseURL string) (*url.URL, error) {
	ref, err := url.Parse(resourceURL)
	if err != nil {
		return nil, err
	}
	if baseURL == "" || ref.IsAbs() {
		return ref, nil
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	return base.ResolveReference(ref), nil
}

func brokenLink(cause error, resourceURL, baseURL string) error {
	err := zerr.Wrap(cause, domain.ErrBrokenLink.Error())
	if errors.Is(cause, fs.ErrNotExist) {
		err = zerr.With(err, "reason", "file does not exist")
	}
	err = zerr.With(err, "url", resourceURL)
	return zerr.With(err, "base_url", baseURL)
}
