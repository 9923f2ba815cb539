package repository

import (
	"strings"

	"go.trai.ch/obr/internal/core/domain"
)

// NarrowByVersionRange returns the entries of vm inside expr in ascending order.
// "latest" selects only the highest entry and an empty expression selects everything.
func NarrowByVersionRange(vm *VersionMap, expr string) ([]Entry, error) {
	expr = strings.TrimSpace(expr)
	if vm.Len() == 0 {
		return nil, nil
	}
	if expr == domain.RangeLatest {
		e, _ := vm.Highest()
		return []Entry{e}, nil
	}
	if expr == "" {
		return vm.Entries(), nil
	}

	r, err := domain.ParseVersionRange(expr)
	if err != nil {
		return nil, err
	}

	var matches []Entry
	for _, e := range vm.entries[vm.seek(r.Low):] {
		if r.Above(e.Version) {
			break
		}
		if r.Includes(e.Version) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// NarrowByFilter returns the entries of vm whose {package, version} properties match f.
func NarrowByFilter(pkgName string, vm *VersionMap, f *domain.Filter) []Entry {
	var matches []Entry
	for _, e := range vm.Entries() {
		props := map[string]string{
			domain.PropertyPackage: pkgName,
			domain.PropertyVersion: e.Version.String(),
		}
		if f.Match(props) {
			matches = append(matches, e)
		}
	}
	return matches
}
