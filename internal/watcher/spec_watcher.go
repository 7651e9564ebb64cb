package watcher

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 300 * time.Millisecond

// specWatcher implements SpecWatcher.
type specWatcher struct {
	watcher       *fsnotify.Watcher
	matcher       Matcher
	debounceTime  time.Duration        // Quiet period before firing callback
	callback      func(files []string) // Callback to invoke with changed specs
	ctx           context.Context
	cancel        context.CancelFunc
	accumulated   map[string]bool // Accumulated spec changes
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once     // Ensures Stop() is idempotent
	doneCh        chan struct{} // Signals watch goroutine has finished
}

// New creates a watcher over matcher.Root(), recursively.
// A non-positive debounce selects DefaultDebounce.
func New(matcher Matcher, debounce time.Duration) (SpecWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	sw := &specWatcher{
		watcher:      watcher,
		matcher:      matcher,
		debounceTime: debounce,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	if err := sw.addDirectoriesRecursively(matcher.Root()); err != nil {
		watcher.Close()
		return nil, err
	}

	return sw, nil
}

// Start begins watching for specification changes.
func (sw *specWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	sw.callback = callback
	sw.ctx, sw.cancel = context.WithCancel(ctx)

	go sw.watch()
	return nil
}

// Stop stops the watcher.
func (sw *specWatcher) Stop() error {
	var err error
	sw.stopOnce.Do(func() {
		if sw.cancel != nil {
			sw.cancel()
			<-sw.doneCh
		} else {
			// Never started
			close(sw.doneCh)
		}

		err = sw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (sw *specWatcher) watch() {
	defer close(sw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-sw.ctx.Done():
			sw.stopDebounceTimer()
			return

		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}

			// New directories may hold specs later
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := sw.addDirectoriesRecursively(event.Name); err != nil {
						log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
					}
				}
			}

			if !sw.shouldProcessEvent(event) {
				continue
			}

			sw.accumulatedMu.Lock()
			sw.accumulated[event.Name] = true
			sw.accumulatedMu.Unlock()

			sw.resetDebounceTimer(fireCh)

		case <-fireCh:
			sw.flush()

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Spec watcher error: %v", err)
		}
	}
}

// flush hands the accumulated paths to the callback.
func (sw *specWatcher) flush() {
	sw.accumulatedMu.Lock()
	if len(sw.accumulated) == 0 {
		sw.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(sw.accumulated))
	for file := range sw.accumulated {
		files = append(files, file)
	}
	sw.accumulated = make(map[string]bool)
	sw.accumulatedMu.Unlock()

	sort.Strings(files)
	sw.callback(files)
}

// resetDebounceTimer restarts the quiet period.
func (sw *specWatcher) resetDebounceTimer(fireCh chan struct{}) {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
	}

	sw.debounceTimer = time.AfterFunc(sw.debounceTime, func() {
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

func (sw *specWatcher) stopDebounceTimer() {
	sw.timerMu.Lock()
	defer sw.timerMu.Unlock()

	if sw.debounceTimer != nil {
		sw.debounceTimer.Stop()
		sw.debounceTimer = nil
	}
}

// shouldProcessEvent keeps write, create, remove and rename events on specification files.
func (sw *specWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	rel, err := filepath.Rel(sw.matcher.Root(), event.Name)
	if err != nil {
		return false
	}
	return sw.matcher.Matches(filepath.ToSlash(rel))
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (sw *specWatcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// If it's the root path, fail immediately
			if path == rootPath {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if err := sw.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
