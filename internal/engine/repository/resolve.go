package repository

import (
	"context"
	"strings"

	"go.trai.ch/obr/internal/core/domain"
	"go.trai.ch/obr/internal/core/ports"
	"go.trai.ch/zerr"
)

// Request asks for one resource, either by symbolic name or by exported package.
type Request struct {
	// SymbolicName selects a bundle. Exactly one of SymbolicName and Package is set.
	SymbolicName string
	// Package selects the resource exporting this package.
	Package string
	// Range is a version, a version range, "latest" or "project".
	Range string
	// Filter is an LDAP filter over {package, version}. Package requests only; overrides Range.
	Filter string
	// Strategy picks among several matches.
	Strategy domain.Strategy
	// Properties carries hints such as "mode" in and receives the expanded package uses.
	Properties map[string]string
}

// GetHandle resolves req to a handle. No match yields a nil handle and a nil error; a match
// whose URL cannot be mapped yields domain.ErrBrokenLink.
func (r *Repository) GetHandle(ctx context.Context, req Request) (ports.Handle, error) {
	if (req.SymbolicName == "") == (req.Package == "") {
		return nil, domain.ErrAmbiguousRequest
	}
	if strings.TrimSpace(req.Range) == domain.RangeProject {
		return nil, nil
	}

	t, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var res *domain.Resource
	if req.SymbolicName != "" {
		res, err = resolveBundle(t.bundles[req.SymbolicName], req)
	} else {
		res, err = r.resolvePackage(t.packages[req.Package], req)
	}
	if err != nil || res == nil {
		return nil, err
	}
	return r.cache.Handle(res.URL(), res.BaseURL(), domain.PreferCache)
}

// GetHandles returns a handle for every version of bsn inside rangeExpr.
func (r *Repository) GetHandles(ctx context.Context, bsn, rangeExpr string) ([]ports.Handle, error) {
	if strings.TrimSpace(rangeExpr) == domain.RangeProject {
		return nil, nil
	}

	t, err := r.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := NarrowByVersionRange(t.bundles[bsn], rangeExpr)
	if err != nil {
		return nil, err
	}

	handles := make([]ports.Handle, 0, len(entries))
	for _, e := range entries {
		h, err := r.cache.Handle(e.Resource.URL(), e.Resource.BaseURL(), domain.PreferCache)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Get returns the local file of every version of bsn inside rangeExpr.
func (r *Repository) Get(ctx context.Context, bsn, rangeExpr string) ([]string, error) {
	handles, err := r.GetHandles(ctx, bsn, rangeExpr)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(handles))
	for _, h := range handles {
		path, err := h.Request(ctx)
		if err != nil {
			return nil, zerr.With(err, "bsn", bsn)
		}
		files = append(files, path)
	}
	return files, nil
}

// GetOne returns the local file of the version of bsn chosen by strategy, or "" when none matches.
func (r *Repository) GetOne(
	ctx context.Context,
	bsn, rangeExpr string,
	strategy domain.Strategy,
	props map[string]string,
) (string, error) {
	h, err := r.GetHandle(ctx, Request{
		SymbolicName: bsn,
		Range:        rangeExpr,
		Strategy:     strategy,
		Properties:   props,
	})
	if err != nil || h == nil {
		return "", err
	}
	return h.Request(ctx)
}

func resolveBundle(vm *VersionMap, req Request) (*domain.Resource, error) {
	if req.Strategy == domain.StrategyExact {
		v, ok := literalVersion(req.Range)
		if !ok {
			return nil, nil
		}
		res, _ := vm.Get(v)
		return res, nil
	}

	entries, err := NarrowByVersionRange(vm, req.Range)
	if err != nil {
		return nil, err
	}
	return pick(entries, req.Strategy), nil
}

func (r *Repository) resolvePackage(vm *VersionMap, req Request) (*domain.Resource, error) {
	mode := domain.ModeBuild
	if m := req.Properties[domain.PropertyMode]; m != "" {
		mode = domain.ResolutionMode(strings.ToLower(m))
	}
	if !r.cfg.SupportsMode(mode) {
		return nil, zerr.With(domain.ErrUnsupportedMode, "mode", string(mode))
	}

	var entries []Entry
	switch {
	case req.Filter != "":
		f, err := domain.ParseFilter(req.Filter)
		if err != nil {
			return nil, err
		}
		entries = NarrowByFilter(req.Package, vm, f)
	case req.Strategy == domain.StrategyExact:
		v, ok := literalVersion(req.Range)
		if !ok {
			return nil, nil
		}
		if res, found := vm.Get(v); found {
			entries = []Entry{{Version: v, Resource: res}}
		}
	default:
		var err error
		entries, err = NarrowByVersionRange(vm, req.Range)
		if err != nil {
			return nil, err
		}
	}

	entries = filterMode(entries, mode)

	var res *domain.Resource
	if req.Strategy == domain.StrategyExact {
		// With a filter the match must be unique.
		if len(entries) != 1 {
			return nil, nil
		}
		res = entries[0].Resource
	} else {
		res = pick(entries, req.Strategy)
	}
	if res == nil {
		return nil, nil
	}

	if req.Properties != nil {
		internal, external := ExpandUses(res, req.Package)
		req.Properties[domain.PropImportUses] = strings.Join(internal, ",")
		req.Properties[domain.PropImportUsesExternal] = strings.Join(external, ",")
	}
	return res, nil
}

// literalVersion reports whether expr names a single version.
func literalVersion(expr string) (domain.Version, bool) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == domain.RangeLatest || strings.ContainsAny(expr, "[](),") {
		return domain.Version{}, false
	}
	v, err := domain.ParseVersion(expr)
	if err != nil {
		return domain.Version{}, false
	}
	return v, true
}

func pick(entries []Entry, strategy domain.Strategy) *domain.Resource {
	if len(entries) == 0 {
		return nil
	}
	if strategy == domain.StrategyLowest {
		return entries[0].Resource
	}
	return entries[len(entries)-1].Resource
}

// filterMode drops resources whose mode requirement rejects mode. A mode requirement
// without a filter can never be satisfied.
func filterMode(entries []Entry, mode domain.ResolutionMode) []Entry {
	kept := entries[:0:0]
	for _, e := range entries {
		req, ok := e.Resource.FindRequire(domain.RequireMode)
		if !ok {
			kept = append(kept, e)
			continue
		}
		if req.Filter == "" {
			continue
		}
		f, err := domain.ParseFilter(req.Filter)
		if err != nil {
			continue
		}
		if f.Match(map[string]string{domain.PropertyMode: string(mode)}) {
			kept = append(kept, e)
		}
	}
	return kept
}
