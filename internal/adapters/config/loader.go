// Package config loads repository configuration from obr.yaml.
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

var _ ports.ConfigLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the config file at path. Relative locations and the cache directory are
// resolved against the directory holding the file.
func (l *Loader) Load(path string) (*domain.RepositoryConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	//nolint:gosec // Path is provided by the user on the command line
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", absPath)
	}

	var file RepositoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", absPath)
	}

	return l.resolve(&file, filepath.Dir(absPath))
}

func (l *Loader) resolve(file *RepositoryFile, dir string) (*domain.RepositoryConfig, error) {
	cfg := &domain.RepositoryConfig{
		Name:          strings.TrimSpace(file.Name),
		CacheDir:      file.Cache,
		ReferralDepth: domain.DefaultReferralDepth,
		Timeout:       domain.DefaultTimeout,
	}
	if cfg.Name == "" {
		cfg.Name = filepath.Base(dir)
	}

	for _, loc := range file.Locations {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		abs := locationURL(loc, dir)
		if slices.Contains(cfg.Locations, abs) {
			l.Logger.Warn("ignoring duplicate index location " + abs)
			continue
		}
		cfg.Locations = append(cfg.Locations, abs)
	}
	if len(cfg.Locations) == 0 {
		return nil, zerr.With(domain.ErrNoLocations, "repository", cfg.Name)
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = filepath.Join(domain.ObrDirName, domain.CacheDirName)
	}
	if !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(dir, cfg.CacheDir)
	}

	for _, m := range file.Modes {
		mode := domain.ResolutionMode(strings.ToLower(strings.TrimSpace(m)))
		if mode != "" && !slices.Contains(cfg.Modes, mode) {
			cfg.Modes = append(cfg.Modes, mode)
		}
	}
	if len(cfg.Modes) == 0 {
		cfg.Modes = domain.DefaultModes()
	}

	if file.ReferralDepth != nil {
		cfg.ReferralDepth = max(*file.ReferralDepth, 0)
	}

	if file.Timeout != "" {
		d, err := time.ParseDuration(file.Timeout)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "timeout", file.Timeout)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// locationURL turns a configured location into an absolute URL. Plain paths become file URLs.
func locationURL(loc, dir string) string {
	if u, err := url.Parse(loc); err == nil && len(u.Scheme) > 1 {
		return loc
	}
	if !filepath.IsAbs(loc) {
		loc = filepath.Join(dir, loc)
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(loc)}).String()
}
