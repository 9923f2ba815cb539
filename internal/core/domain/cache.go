package domain

// CacheMode is the consistency policy used when materializing a remote resource.
type CacheMode int

const (
	// PreferCache returns an existing cached copy unconditionally and downloads only on a cold cache.
	PreferCache CacheMode = iota
	// PreferRemote always tries a fresh download and falls back to the cached copy on failure.
	PreferRemote
)

// String returns the mode name.
func (m CacheMode) String() string {
	if m == PreferRemote {
		return "prefer-remote"
	}
	return "prefer-cache"
}
