package domain

import "path/filepath"

const (
	// ObrDirName is the name of the internal workspace directory.
	ObrDirName = ".obr"

	// CacheDirName is the name of the download cache directory.
	CacheDirName = "cache"

	// ConfigFileName is the name of the repository configuration file.
	ConfigFileName = "obr.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultCachePath returns the default path for the download cache.
// It joins .obr and cache.
func DefaultCachePath() string {
	return filepath.Join(ObrDirName, CacheDirName)
}
