package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidVersion is returned when a version string cannot be parsed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidVersionRange is returned when a version range expression cannot be parsed.
	ErrInvalidVersionRange = zerr.New("invalid version range")

	// ErrInvalidFilter is returned when an LDAP filter expression cannot be parsed.
	ErrInvalidFilter = zerr.New("invalid filter")

	// ErrMissingSymbolicName is returned when a resource is built without a symbolic name.
	ErrMissingSymbolicName = zerr.New("resource is missing a symbolic name")

	// ErrMissingURL is returned when a resource is built without a url.
	ErrMissingURL = zerr.New("resource is missing a url")

	// ErrIndexParseFailed is returned when an index document is malformed.
	ErrIndexParseFailed = zerr.New("failed to parse repository index")

	// ErrIndexFetchFailed is returned when an index document cannot be retrieved.
	ErrIndexFetchFailed = zerr.New("failed to fetch repository index")

	// ErrBrokenLink is returned when a resource URL cannot be mapped to a file.
	ErrBrokenLink = zerr.New("broken link in repository index")

	// ErrReadOnlyRepository is returned by Put on repositories that cannot be written to.
	ErrReadOnlyRepository = zerr.New("read-only repository")

	// ErrAmbiguousRequest is returned when a request names both or neither of a bundle and a package.
	ErrAmbiguousRequest = zerr.New("request must name exactly one of a symbolic name or a package")

	// ErrUnsupportedMode is returned when the requested resolution mode is not configured.
	ErrUnsupportedMode = zerr.New("unsupported resolution mode")

	// ErrInvalidStrategy is returned when a strategy name is unknown.
	ErrInvalidStrategy = zerr.New("invalid strategy, expected 'exact', 'lowest' or 'highest'")

	// ErrUnsupportedScheme is returned when a URL scheme has no connector.
	ErrUnsupportedScheme = zerr.New("unsupported url scheme")

	// ErrDownloadFailed is returned when a remote resource cannot be downloaded.
	ErrDownloadFailed = zerr.New("failed to download resource")

	// ErrCacheCreateFailed is returned when the cache directory cannot be created.
	ErrCacheCreateFailed = zerr.New("failed to create cache directory")

	// ErrCacheWriteFailed is returned when a downloaded resource cannot be stored in the cache.
	ErrCacheWriteFailed = zerr.New("failed to write to cache")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrNoLocations is returned when a repository config lists no index locations.
	ErrNoLocations = zerr.New("no index locations configured")

	// ErrInvalidPattern is returned when a list pattern cannot be compiled.
	ErrInvalidPattern = zerr.New("invalid name pattern")
)
