// Package domain contains the core domain models of the bundle repository: resources,
// their capabilities and requirements, versions, ranges and filters.
package domain

import (
	"slices"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// Well-known capability, requirement and property names.
const (
	CapabilityPackage = "package"
	CapabilityBundle  = "bundle"

	RequirePackage = "package"
	RequireMode    = "mode"

	PropertyPackage = "package"
	PropertyVersion = "version"
	PropertyUses    = "uses"
	PropertyMode    = "mode"
)

// Property is a typed key/value pair attached to a capability.
type Property struct {
	Name  string
	Type  string
	Value string
}

// Capability is a named facet a resource provides, such as an exported package.
type Capability struct {
	name       string
	properties []Property
}

// Name returns the capability name.
func (c *Capability) Name() string {
	return c.name
}

// Properties returns a copy of the capability properties in declaration order.
func (c *Capability) Properties() []Property {
	return slices.Clone(c.properties)
}

// Property returns the value of the first property with the given name.
func (c *Capability) Property(name string) (string, bool) {
	for _, p := range c.properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// PackageVersion returns the exported version of a package capability.
// A missing or malformed version yields ZeroVersion.
func (c *Capability) PackageVersion() Version {
	v, _ := c.Property(PropertyVersion)
	return ParseVersionOrZero(v)
}

// Uses returns the comma separated "uses" directive as a list of package names.
func (c *Capability) Uses() []string {
	v, ok := c.Property(PropertyUses)
	if !ok {
		return nil
	}
	var uses []string
	for _, u := range strings.Split(v, ",") {
		if u = strings.TrimSpace(u); u != "" {
			uses = append(uses, u)
		}
	}
	return uses
}

// CapabilityBuilder accumulates properties for a Capability.
type CapabilityBuilder struct {
	name       string
	properties []Property
}

// NewCapabilityBuilder starts a capability with the given name.
func NewCapabilityBuilder(name string) *CapabilityBuilder {
	return &CapabilityBuilder{name: name}
}

// AddProperty appends a property.
func (b *CapabilityBuilder) AddProperty(p Property) *CapabilityBuilder {
	b.properties = append(b.properties, p)
	return b
}

// Build returns the immutable capability.
func (b *CapabilityBuilder) Build() *Capability {
	return &Capability{
		name:       b.name,
		properties: slices.Clone(b.properties),
	}
}

// Require is a named facet a resource needs, optionally constrained by a filter.
type Require struct {
	Name     string
	Filter   string
	Optional bool
}

// Resource describes one versioned artifact published in a repository index.
type Resource struct {
	id               string
	presentationName string
	symbolicName     string
	baseURL          string
	url              string
	version          string
	capabilities     []*Capability
	requires         []Require

	parsedVersion func() Version
}

// ID returns the resource id.
func (r *Resource) ID() string { return r.id }

// PresentationName returns the human readable name.
func (r *Resource) PresentationName() string { return r.presentationName }

// SymbolicName returns the stable identity of the resource.
func (r *Resource) SymbolicName() string { return r.symbolicName }

// BaseURL returns the URL of the index document that declared the resource.
func (r *Resource) BaseURL() string { return r.baseURL }

// URL returns the declared artifact location, possibly relative to BaseURL.
func (r *Resource) URL() string { return r.url }

// VersionString returns the version exactly as declared.
func (r *Resource) VersionString() string { return r.version }

// Version returns the parsed version, falling back to ZeroVersion when malformed.
func (r *Resource) Version() Version { return r.parsedVersion() }

// Capabilities returns a copy of the capability list.
func (r *Resource) Capabilities() []*Capability { return slices.Clone(r.capabilities) }

// Requires returns a copy of the requirement list.
func (r *Resource) Requires() []Require { return slices.Clone(r.requires) }

// FindPackageCapability returns the first package capability exporting pkgName.
func (r *Resource) FindPackageCapability(pkgName string) *Capability {
	for _, c := range r.capabilities {
		if c.name != CapabilityPackage {
			continue
		}
		if name, ok := c.Property(PropertyPackage); ok && name == pkgName {
			return c
		}
	}
	return nil
}

// FindRequire returns the first requirement with the given name.
func (r *Resource) FindRequire(name string) (Require, bool) {
	for _, req := range r.requires {
		if req.Name == name {
			return req, true
		}
	}
	return Require{}, false
}

// FindPackageRequire returns the first package requirement whose filter references usedPkgName.
func (r *Resource) FindPackageRequire(usedPkgName string) (Require, bool) {
	needle := "(" + PropertyPackage + "=" + usedPkgName + ")"
	for _, req := range r.requires {
		if req.Name == RequirePackage && strings.Contains(req.Filter, needle) {
			return req, true
		}
	}
	return Require{}, false
}

// ExportedPackages returns the names of all packages the resource exports, in declaration order.
func (r *Resource) ExportedPackages() []string {
	var pkgs []string
	for _, c := range r.capabilities {
		if c.name != CapabilityPackage {
			continue
		}
		if name, ok := c.Property(PropertyPackage); ok {
			pkgs = append(pkgs, name)
		}
	}
	return pkgs
}

// ResourceBuilder accumulates the parts of a Resource during index parsing.
type ResourceBuilder struct {
	ID               string
	PresentationName string
	SymbolicName     string
	BaseURL          string
	URL              string
	Version          string

	capabilities []*Capability
	requires     []Require
}

// AddCapability appends a capability.
func (b *ResourceBuilder) AddCapability(c *Capability) *ResourceBuilder {
	b.capabilities = append(b.capabilities, c)
	return b
}

// AddRequire appends a requirement.
func (b *ResourceBuilder) AddRequire(req Require) *ResourceBuilder {
	b.requires = append(b.requires, req)
	return b
}

// Build validates the builder and returns an immutable Resource.
func (b *ResourceBuilder) Build() (*Resource, error) {
	if b.SymbolicName == "" {
		return nil, withIdentity(ErrMissingSymbolicName, b)
	}
	if b.URL == "" {
		return nil, withIdentity(ErrMissingURL, b)
	}

	version := b.Version
	return &Resource{
		id:               b.ID,
		presentationName: b.PresentationName,
		symbolicName:     b.SymbolicName,
		baseURL:          b.BaseURL,
		url:              b.URL,
		version:          version,
		capabilities:     slices.Clone(b.capabilities),
		requires:         slices.Clone(b.requires),
		parsedVersion: sync.OnceValue(func() Version {
			return ParseVersionOrZero(version)
		}),
	}, nil
}

func withIdentity(err error, b *ResourceBuilder) error {
	err = zerr.With(err, "id", b.ID)
	return zerr.With(err, "base_url", b.BaseURL)
}
