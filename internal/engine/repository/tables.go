package repository

import (
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/obr/internal/core/domain"
)

// tables is one immutable generation of the repository index.
type tables struct {
	bundles  map[string]*VersionMap
	packages map[string]*VersionMap
	sources  []string
}

func newTables() *tables {
	return &tables{
		bundles:  make(map[string]*VersionMap),
		packages: make(map[string]*VersionMap),
	}
}

func (t *tables) add(res *domain.Resource) {
	put(t.bundles, res.SymbolicName(), res.Version(), res)
	for _, c := range res.Capabilities() {
		if c.Name() != domain.CapabilityPackage {
			continue
		}
		if pkg, ok := c.Property(domain.PropertyPackage); ok && pkg != "" {
			put(t.packages, pkg, c.PackageVersion(), res)
		}
	}
}

func put(m map[string]*VersionMap, key string, v domain.Version, res *domain.Resource) {
	vm, ok := m[key]
	if !ok {
		vm = &VersionMap{}
		m[key] = vm
	}
	vm.Put(v, res)
}

// fingerprint digests the shape of both tables.
func (t *tables) fingerprint() uint64 {
	d := xxhash.New()
	for _, m := range []map[string]*VersionMap{t.bundles, t.packages} {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			_, _ = d.WriteString(k)
			_, _ = d.Write([]byte{0})
			for _, e := range m[k].entries {
				_, _ = d.WriteString(e.Version.String())
				_, _ = d.Write([]byte{0})
				_, _ = d.WriteString(e.Resource.SymbolicName())
				_, _ = d.Write([]byte{0})
				_, _ = d.WriteString(e.Resource.URL())
				_, _ = d.Write([]byte{0})
			}
		}
		_, _ = d.Write([]byte{1})
	}
	return d.Sum64()
}
