package repository

import (
	"slices"

	"go.trai.ch/obr/internal/core/domain"
)

// ExpandUses reads the uses directive of the capability exporting pkg. Used packages the
// resource exports itself are internal and listed after pkg. Used packages it only imports
// are external, rendered as "name;filter='...'".
func ExpandUses(res *domain.Resource, pkg string) (internal, external []string) {
	internal = []string{pkg}

	c := res.FindPackageCapability(pkg)
	if c == nil {
		return internal, nil
	}

	for _, used := range c.Uses() {
		if slices.Contains(internal, used) {
			continue
		}
		if res.FindPackageCapability(used) != nil {
			internal = append(internal, used)
			continue
		}
		if req, ok := res.FindPackageRequire(used); ok {
			entry := used + ";filter='" + req.Filter + "'"
			if !slices.Contains(external, entry) {
				external = append(external, entry)
			}
		}
	}
	return internal, external
}
