// Package watcher reports debounced changes to specification files.
package watcher

import "context"

// SpecWatcher monitors a directory tree for specification changes.
type SpecWatcher interface {
	// Start begins watching, calling callback with each debounced batch of
	// changed specification paths (sorted, deduplicated). Removed files are
	// reported too; callers check existence.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and cleans up resources. Safe to call repeatedly.
	Stop() error
}

// Matcher decides which files under Root are specifications.
// *discovery.SpecDiscovery satisfies it.
type Matcher interface {
	Root() string
	Matches(relPath string) bool
}
