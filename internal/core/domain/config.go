package domain

import (
	"slices"
	"time"
)

const (
	// DefaultReferralDepth is how many referral hops are followed from a root index.
	DefaultReferralDepth = 1

	// DefaultTimeout bounds a single remote fetch.
	DefaultTimeout = 30 * time.Second
)

// RepositoryConfig is the resolved configuration of one repository instance.
type RepositoryConfig struct {
	// Name is the display name of the repository.
	Name string

	// Locations are the root index documents, as absolute URLs.
	Locations []string

	// CacheDir is the local directory holding downloaded indexes and artifacts.
	CacheDir string

	// Modes are the resolution modes the repository accepts.
	Modes []ResolutionMode

	// ReferralDepth is the maximum referral depth followed from a root document.
	ReferralDepth int

	// Timeout bounds a single remote fetch. Zero disables the bound.
	Timeout time.Duration
}

// SupportsMode reports whether mode is one of the configured resolution modes.
func (c *RepositoryConfig) SupportsMode(mode ResolutionMode) bool {
	return slices.Contains(c.Modes, mode)
}
