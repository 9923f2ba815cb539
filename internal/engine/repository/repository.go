// Package repository implements the in-memory bundle repository index and request resolution.
package repository

import (
	"context"
	"errors"
	"regexp"
	"slices"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// TracerName is the instrumentation name of repository spans.
const TracerName = "go.trai.ch/obr/repository"

// Repository is a read-only repository backed by federated index documents.
// All methods are safe for concurrent use.
type Repository struct {
	cfg    *domain.RepositoryConfig
	cache  ports.ResourceCache
	parser ports.IndexParser
	logger ports.Logger
	tracer trace.Tracer

	mu      sync.RWMutex
	state   domain.IndexState
	epoch   uint64
	current *tables

	inits singleflight.Group
}

// New creates an uninitialized Repository.
func New(
	cfg *domain.RepositoryConfig,
	cache ports.ResourceCache,
	parser ports.IndexParser,
	logger ports.Logger,
) *Repository {
	return &Repository{
		cfg:     cfg,
		cache:   cache,
		parser:  parser,
		logger:  logger,
		tracer:  otel.Tracer(TracerName),
		current: newTables(),
	}
}

// Name returns the display name of the repository.
func (r *Repository) Name() string {
	return r.cfg.Name
}

// State returns the lifecycle state of the index.
func (r *Repository) State() domain.IndexState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Init builds the index if it is not ready. Concurrent callers share one build. Failures of
// individual index documents are logged and leave out only that document's resources.
func (r *Repository) Init(ctx context.Context) error {
	for {
		r.mu.RLock()
		state, epoch := r.state, r.epoch
		r.mu.RUnlock()
		if state == domain.IndexReady {
			return nil
		}

		_, err, _ := r.inits.Do(strconv.FormatUint(epoch, 10), func() (any, error) {
			t, err := r.load(ctx)
			if err != nil {
				return nil, err
			}

			r.mu.Lock()
			defer r.mu.Unlock()
			// A Reset during the build makes this generation stale.
			if r.epoch == epoch {
				r.current = t
				r.state = domain.IndexReady
			}
			return nil, nil
		})
		if err == nil {
			continue
		}
		// Another caller's cancelled build must not fail this one.
		if ctx.Err() == nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			continue
		}
		return err
	}
}

// Reset marks the index for regeneration on the next read.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = domain.IndexUninitialized
	r.epoch++
}

// snapshot returns the current generation, building it first if needed.
func (r *Repository) snapshot(ctx context.Context) (*tables, error) {
	if err := r.Init(ctx); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, nil
}

// List returns the sorted symbolic names matching pattern. An empty pattern lists everything.
func (r *Repository) List(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		return r.ListFunc(ctx, nil)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", pattern)
	}
	return r.ListFunc(ctx, re.MatchString)
}

// ListFunc returns the sorted symbolic names accepted by keep. A nil keep accepts all names.
func (r *Repository) ListFunc(ctx context.Context, keep func(string) bool) ([]string, error) {
	t, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(t.bundles))
	for bsn := range t.bundles {
		if keep == nil || keep(bsn) {
			names = append(names, bsn)
		}
	}
	slices.Sort(names)
	return names, nil
}

// Versions returns the indexed versions of bsn in ascending order.
func (r *Repository) Versions(ctx context.Context, bsn string) ([]domain.Version, error) {
	t, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return t.bundles[bsn].Versions(), nil
}

// Packages returns the sorted names of all exported packages.
func (r *Repository) Packages(ctx context.Context) ([]string, error) {
	t, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	pkgs := make([]string, 0, len(t.packages))
	for pkg := range t.packages {
		pkgs = append(pkgs, pkg)
	}
	slices.Sort(pkgs)
	return pkgs, nil
}

// Sources returns the URLs of the index documents that make up the current generation.
func (r *Repository) Sources(ctx context.Context) ([]string, error) {
	t, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(t.sources), nil
}

// Fingerprint digests the current index. Rebuilding from unchanged documents yields the
// same value.
func (r *Repository) Fingerprint(ctx context.Context) (uint64, error) {
	t, err := r.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	return t.fingerprint(), nil
}

// Put always fails: index backed repositories are read-only.
func (r *Repository) Put(_ context.Context, artifact string) (string, error) {
	err := zerr.With(domain.ErrReadOnlyRepository, "repository", r.cfg.Name)
	return "", zerr.With(err, "artifact", artifact)
}
