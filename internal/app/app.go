// Package app implements the application layer for obr.
package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gobwas/glob"
	"go.trai.ch/obr/internal/adapters/cache"
	"go.trai.ch/obr/internal/adapters/connector"
	"go.trai.ch/obr/internal/adapters/telemetry"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/obr/internal/engine/repository"
	"go.trai.ch/zerr"
)

// App wires configuration, adapters and the repository engine for the CLI.
type App struct {
	configLoader ports.ConfigLoader
	connector    ports.Connector
	parser       ports.IndexParser
	watcher      ports.IndexWatcher
	logger       ports.Logger
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	conn ports.Connector,
	parser ports.IndexParser,
	watcher ports.IndexWatcher,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		connector:    conn,
		parser:       parser,
		watcher:      watcher,
		logger:       log,
	}
}

// Options are the global flags shared by every command.
type Options struct {
	Config  string
	JSON    bool
	Verbose bool
	Trace   bool
}

// Configure applies the logging flags. The returned function flushes tracing.
func (a *App) Configure(opts Options) func(context.Context) error {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(opts.JSON)
	}
	if l, ok := a.logger.(interface{ SetVerbose(bool) }); ok {
		l.SetVerbose(opts.Verbose)
	}
	if !opts.Trace {
		return func(context.Context) error { return nil }
	}
	return telemetry.Setup(a.logger)
}

// session is a repository opened from one config file.
type session struct {
	cfg   *domain.RepositoryConfig
	repo  *repository.Repository
	cache *cache.Cache
}

func (a *App) open(configPath string) (*session, error) {
	cfg, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	c, err := cache.New(cfg.CacheDir, a.connector, a.logger)
	if err != nil {
		return nil, err
	}
	return &session{
		cfg:   cfg,
		repo:  repository.New(cfg, c, a.parser, a.logger),
		cache: c,
	}, nil
}

// ListOptions configures List.
type ListOptions struct {
	Pattern string
	Glob    string
}

// List returns the symbolic names matching a regular expression or a glob.
func (a *App) List(ctx context.Context, configPath string, opts ListOptions) ([]string, error) {
	s, err := a.open(configPath)
	if err != nil {
		return nil, err
	}
	if opts.Glob == "" {
		return s.repo.List(ctx, opts.Pattern)
	}

	g, err := glob.Compile(opts.Glob, '.')
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "glob", opts.Glob)
	}
	return s.repo.ListFunc(ctx, g.Match)
}

// Versions returns the indexed versions of bsn in ascending order.
func (a *App) Versions(ctx context.Context, configPath, bsn string) ([]domain.Version, error) {
	s, err := a.open(configPath)
	if err != nil {
		return nil, err
	}
	return s.repo.Versions(ctx, bsn)
}

// GetOptions configures Get.
type GetOptions struct {
	SymbolicName string
	Range        string
	Strategy     string
	All          bool
}

// Get materializes the artifacts of a bundle. With All every matching version is returned,
// otherwise the one picked by the strategy.
func (a *App) Get(ctx context.Context, configPath string, opts GetOptions) ([]string, error) {
	strategy, err := domain.ParseStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}
	s, err := a.open(configPath)
	if err != nil {
		return nil, err
	}
	if opts.All {
		return s.repo.Get(ctx, opts.SymbolicName, opts.Range)
	}

	path, err := s.repo.GetOne(ctx, opts.SymbolicName, opts.Range, strategy, map[string]string{})
	if err != nil || path == "" {
		return nil, err
	}
	return []string{path}, nil
}

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	Package  string
	Range    string
	Filter   string
	Strategy string
	Mode     string
}

// Resolution is the outcome of a package request.
type Resolution struct {
	File        string
	Location    string
	Digest      string
	Uses        []string
	ExternalUse []string
}

// Resolve finds the resource exporting a package. A nil Resolution means no match.
func (a *App) Resolve(ctx context.Context, configPath string, opts ResolveOptions) (*Resolution, error) {
	strategy, err := domain.ParseStrategy(opts.Strategy)
	if err != nil {
		return nil, err
	}
	s, err := a.open(configPath)
	if err != nil {
		return nil, err
	}

	props := map[string]string{}
	if opts.Mode != "" {
		props[domain.PropertyMode] = opts.Mode
	}
	h, err := s.repo.GetHandle(ctx, repository.Request{
		Package:    opts.Package,
		Range:      opts.Range,
		Filter:     opts.Filter,
		Strategy:   strategy,
		Properties: props,
	})
	if err != nil || h == nil {
		return nil, err
	}

	path, err := h.Request(ctx)
	if err != nil {
		return nil, err
	}
	d, err := h.Digest()
	if err != nil {
		return nil, err
	}
	return &Resolution{
		File:        path,
		Location:    h.Location(),
		Digest:      d.String(),
		Uses:        splitList(props[domain.PropImportUses]),
		ExternalUse: splitList(props[domain.PropImportUsesExternal]),
	}, nil
}

// Put uploads an artifact. Index backed repositories reject it.
func (a *App) Put(ctx context.Context, configPath, artifact string) (string, error) {
	s, err := a.open(configPath)
	if err != nil {
		return "", err
	}
	return s.repo.Put(ctx, artifact)
}

// CleanCache removes every downloaded index and artifact.
func (a *App) CleanCache(_ context.Context, configPath string) error {
	s, err := a.open(configPath)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("removing %s...", s.cache.Dir()))
	if err := s.cache.Clean(); err != nil {
		return err
	}
	a.logger.Info("cache cleaned")
	return nil
}

// Watch keeps the index warm until ctx is done, rebuilding it whenever a local index
// document changes.
func (a *App) Watch(ctx context.Context, configPath string) error {
	s, err := a.open(configPath)
	if err != nil {
		return err
	}
	if err := a.report(ctx, s); err != nil {
		return err
	}

	sources, err := s.repo.Sources(ctx)
	if err != nil {
		return err
	}
	paths := localPaths(sources)
	if len(paths) == 0 {
		a.logger.Warn("no local index documents to watch")
		<-ctx.Done()
		return nil
	}

	a.logger.Info(fmt.Sprintf("watching %d index documents", len(paths)))
	return a.watcher.Watch(ctx, paths, func(path string) {
		a.logger.Info("index changed: " + path)
		s.repo.Reset()
		if err := a.report(ctx, s); err != nil {
			a.logger.Error(err)
		}
	})
}

func (a *App) report(ctx context.Context, s *session) error {
	names, err := s.repo.List(ctx, "")
	if err != nil {
		return err
	}
	fp, err := s.repo.Fingerprint(ctx)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("%s: %d bundles (index %016x)", s.repo.Name(), len(names), fp))
	return nil
}

func localPaths(urls []string) []string {
	var paths []string
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme != "file" {
			continue
		}
		paths = append(paths, connector.FilePath(u))
	}
	return paths
}

// splitList splits a comma joined property. Commas inside a quoted filter, as in
// "b;filter='(|(a=1,2)(a=3))'", do not separate entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var (
		out    []string
		start  int
		quoted bool
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			quoted = !quoted
		case ',':
			if !quoted {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}
