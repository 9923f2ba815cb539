package ports

import "context"

// IndexWatcher notifies when local index documents change.
//
//go:generate go run go.uber.org/mock/mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type IndexWatcher interface {
	// Watch blocks until ctx is done, calling onChange after any index file is written,
	// created, renamed or removed.
	Watch(ctx context.Context, paths []string, onChange func(path string)) error
}
