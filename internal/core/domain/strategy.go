package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Strategy selects one resource among several version matches.
type Strategy int

const (
	// StrategyHighest picks the highest matching version.
	StrategyHighest Strategy = iota
	// StrategyLowest picks the lowest matching version.
	StrategyLowest
	// StrategyExact requires the range to be a single literal version present in the index.
	StrategyExact
)

// String returns the lower case strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyLowest:
		return "lowest"
	case StrategyExact:
		return "exact"
	default:
		return "highest"
	}
}

// ParseStrategy converts a strategy name, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "highest":
		return StrategyHighest, nil
	case "lowest":
		return StrategyLowest, nil
	case "exact":
		return StrategyExact, nil
	default:
		return StrategyHighest, zerr.With(ErrInvalidStrategy, "strategy", s)
	}
}

// ResolutionMode is the phase a package is being resolved for.
type ResolutionMode string

const (
	// ModeBuild resolves against compile-time artifacts.
	ModeBuild ResolutionMode = "build"
	// ModeRuntime resolves against artifacts deployed at runtime.
	ModeRuntime ResolutionMode = "runtime"
)

// DefaultModes lists the modes a repository supports unless configured otherwise.
func DefaultModes() []ResolutionMode {
	return []ResolutionMode{ModeBuild, ModeRuntime}
}

// IndexState is the lifecycle state of a repository index.
type IndexState int

const (
	// IndexUninitialized means the lookup tables must be (re)built before use.
	IndexUninitialized IndexState = iota
	// IndexReady means the lookup tables reflect the configured index documents.
	IndexReady
)

// String returns the state name.
func (s IndexState) String() string {
	if s == IndexReady {
		return "ready"
	}
	return "uninitialized"
}

// ParseAction tells an index parser whether to keep reading the current document.
type ParseAction int

const (
	// ParseContinue keeps reading.
	ParseContinue ParseAction = iota
	// ParseStop ends the current document immediately. It is not an error.
	ParseStop
)

// Special range expressions understood by the repository.
const (
	// RangeLatest selects only the highest indexed version.
	RangeLatest = "latest"
	// RangeProject denotes a project-local dependency that no repository provides.
	RangeProject = "project"
)

// Property keys written back by package resolution.
const (
	PropImportUses         = "import-uses"
	PropImportUsesExternal = "import-uses-external"
)
