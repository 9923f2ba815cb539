package cache

import (
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/zerr"
)

// fileHandle points at a file already on the local disk.
type fileHandle struct {
	path     string
	location string
}

func (h *fileHandle) Name() string { return filepath.Base(h.path) }

func (h *fileHandle) Location() string { return h.location }

func (h *fileHandle) Request(context.Context) (string, error) {
	return h.path, nil
}

func (h *fileHandle) Digest() (digest.Digest, error) {
	return digestFile(h.path)
}

// remoteHandle materializes a remote URL into its cache file.
type remoteHandle struct {
	cache    *Cache
	url      *url.URL
	path     string
	mode     domain.CacheMode
	location string

	digest digest.Digest
}

func (h *remoteHandle) Name() string { return filepath.Base(h.path) }

func (h *remoteHandle) Location() string { return h.location }

// Digest returns the digest recorded by the last download, or digests the cache file when
// the content was served from the cache.
func (h *remoteHandle) Digest() (digest.Digest, error) {
	if h.digest != "" {
		return h.digest, nil
	}
	return digestFile(h.path)
}

// Request returns the cache file, downloading according to the handle's mode.
func (h *remoteHandle) Request(ctx context.Context) (string, error) {
	if h.mode == domain.PreferCache && exists(h.path) {
		return h.path, nil
	}

	d, err := h.cache.download(ctx, h.url, h.path)
	// A shared download aborted by another caller is retried while ctx is live.
	for err != nil && ctx.Err() == nil && cancelled(err) {
		d, err = h.cache.download(ctx, h.url, h.path)
	}
	if err == nil {
		h.digest = d
		return h.path, nil
	}

	if h.mode == domain.PreferRemote && exists(h.path) {
		h.cache.logger.Warn("using cached copy of " + h.location + ": " + err.Error())
		return h.path, nil
	}
	return "", err
}

// download fetches u into path through a temp file and an atomic rename.
// Concurrent downloads of the same path share one fetch.
func (c *Cache) download(ctx context.Context, u *url.URL, path string) (digest.Digest, error) {
	v, err, _ := c.downloads.Do(path, func() (any, error) {
		d, err := c.fetch(ctx, u, path)
		if err != nil {
			return digest.Digest(""), err
		}
		c.logger.Debug("downloaded " + u.String() + " " + d.String())
		return d, nil
	})
	d, _ := v.(digest.Digest)
	return d, err
}

func (c *Cache) fetch(ctx context.Context, u *url.URL, path string) (digest.Digest, error) {
	rc, err := c.connector.Open(ctx, u)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = rc.Close()
	}()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "dir", dir)
	}

	tmpFile, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "dir", dir)
	}
	tmpName := tmpFile.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	digester := digest.Canonical.Digester()
	if _, err := io.Copy(io.MultiWriter(tmpFile, digester.Hash()), rc); err != nil {
		_ = tmpFile.Close()
		return "", zerr.With(zerr.Wrap(err, domain.ErrDownloadFailed.Error()), "url", u.String())
	}
	if err := tmpFile.Close(); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", tmpName)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return digester.Digest(), nil
}

// cancelled reports a download aborted by its caller. Client timeouts are not retried.
func cancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func digestFile(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", zerr.With(err, "path", path)
	}
	defer func() {
		_ = f.Close()
	}()
	d, err := digest.Canonical.FromReader(f)
	if err != nil {
		return "", zerr.With(err, "path", path)
	}
	return d, nil
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
