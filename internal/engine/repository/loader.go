package repository

import (
	"context"
	"net/url"
	"os"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the number of root documents fetched at once.
const maxConcurrentFetches = 4

// load builds a fresh generation from the configured locations. Roots are fetched
// concurrently and merged in configured order.
func (r *Repository) load(ctx context.Context) (*tables, error) {
	ctx, span := r.tracer.Start(ctx, "repository.init", trace.WithAttributes(
		attribute.String("repository", r.cfg.Name),
		attribute.Int("locations", len(r.cfg.Locations)),
	))
	defer span.End()

	walks := make([]*walk, len(r.cfg.Locations))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, loc := range r.cfg.Locations {
		w := &walk{repo: r, visited: make(map[string]bool)}
		walks[i] = w
		g.Go(func() error {
			w.visit(gctx, loc, 0, r.cfg.ReferralDepth)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	t := newTables()
	resources := 0
	for _, w := range walks {
		for _, res := range w.resources {
			t.add(res)
		}
		resources += len(w.resources)
		t.sources = append(t.sources, w.sources...)
	}
	span.SetAttributes(attribute.Int("resources", resources))
	r.logger.Debug("indexed " + strconv.Itoa(resources) + " resources from " +
		strconv.Itoa(len(t.sources)) + " documents in " + r.cfg.Name)
	return t, nil
}

// walk collects the resources reachable from one root document.
type walk struct {
	repo      *Repository
	visited   map[string]bool
	resources []*domain.Resource
	sources   []string
}

// visit fetches and parses one document, following its referrals. Failures are logged and
// drop only this document's own resources.
func (w *walk) visit(ctx context.Context, docURL string, depth, maxDepth int) {
	if w.visited[docURL] {
		w.repo.logger.Debug("skipping already visited index " + docURL)
		return
	}
	w.visited[docURL] = true

	doc, err := w.repo.parseDocument(ctx, w, docURL, depth, maxDepth)
	if err != nil {
		w.repo.logger.Error(err)
		return
	}
	w.resources = append(w.resources, doc.resources...)
	w.sources = append(w.sources, docURL)
}

func (r *Repository) parseDocument(ctx context.Context, w *walk, docURL string, depth, maxDepth int) (*document, error) {
	ctx, span := r.tracer.Start(ctx, "repository.fetch", trace.WithAttributes(
		attribute.String("url", docURL),
		attribute.Int("depth", depth),
	))
	defer span.End()

	path, err := r.fetch(ctx, docURL)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	//nolint:gosec // Path is produced by the resource cache
	f, err := os.Open(path)
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrIndexFetchFailed.Error()), "url", docURL)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	doc := &document{
		ctx:      ctx,
		walk:     w,
		url:      docURL,
		depth:    depth,
		maxDepth: maxDepth,
	}
	if err := r.parser.Parse(ctx, f, docURL, doc); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("resources", len(doc.resources)))
	return doc, nil
}

// fetch materializes an index document, always preferring fresh remote content.
func (r *Repository) fetch(ctx context.Context, docURL string) (string, error) {
	h, err := r.cache.Handle(docURL, "", domain.PreferRemote)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrIndexFetchFailed.Error())
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	path, err := h.Request(ctx)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrIndexFetchFailed.Error())
	}
	return path, nil
}

// document receives the parse events of one index document.
type document struct {
	ctx       context.Context
	walk      *walk
	url       string
	depth     int
	maxDepth  int
	resources []*domain.Resource
}

var _ ports.IndexListener = (*document)(nil)

func (d *document) Accept(res *domain.Resource) domain.ParseAction {
	if d.ctx.Err() != nil {
		return domain.ParseStop
	}
	d.resources = append(d.resources, res)
	return domain.ParseContinue
}

// Referral follows ref while the traversal stays within its depth budget. A referral may
// shrink the budget but never extend it.
func (d *document) Referral(ctx context.Context, ref domain.Referral) {
	ref.CurrentDepth = d.depth
	target, err := resolveReferral(ref.URL, d.url)
	if err != nil {
		d.walk.repo.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrIndexFetchFailed.Error()), "referral", ref.URL))
		return
	}
	if ref.CurrentDepth >= d.maxDepth {
		d.walk.repo.logger.Debug("not following referral " + target + ": depth limit reached")
		return
	}

	childMax := d.maxDepth
	if ref.MaxDepth > 0 {
		childMax = min(d.maxDepth, ref.CurrentDepth+ref.MaxDepth)
	}
	d.walk.visit(ctx, target, ref.CurrentDepth+1, childMax)
}

func resolveReferral(ref, base string) (string, error) {
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}
