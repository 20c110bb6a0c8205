package audio

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// cacheInvalidator drops stale decoded sounds.
type cacheInvalidator interface {
	InvalidateCache(path string)
}

// Watcher invalidates cached sounds when their files change on disk.
// Directories are watched so that replaced files are still seen.
type Watcher struct {
	mu      sync.Mutex
	logger  *slog.Logger
	cache   cacheInvalidator
	watcher *fsnotify.Watcher

	paths map[string]bool // cleaned file paths
	dirs  map[string]int  // watched directory reference counts

	done    chan struct{}
	running bool
}

// NewWatcher creates a watcher that invalidates entries in cache.
func NewWatcher(cache cacheInvalidator, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		logger: logger,
		cache:  cache,
		paths:  make(map[string]bool),
		dirs:   make(map[string]int),
	}
}

// Watch adds path to the watch list. Paths added before Start are
// registered when it runs.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.paths[path] {
		return
	}
	w.paths[path] = true
	dir := filepath.Dir(path)
	w.dirs[dir]++
	if w.running && w.dirs[dir] == 1 {
		w.addDir(dir)
	}
}

// Unwatch removes path from the watch list.
func (w *Watcher) Unwatch(path string) {
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.paths[path] {
		return
	}
	delete(w.paths, path)
	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return
	}
	delete(w.dirs, dir)
	if w.running {
		_ = w.watcher.Remove(dir)
	}
}

// Start begins watching.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = fw
	w.done = make(chan struct{})
	w.running = true
	for dir := range w.dirs {
		w.addDir(dir)
	}

	go w.watch(ctx, fw, w.done)
	w.logger.Debug("sound watcher started", "files", len(w.paths))
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.done)
	_ = w.watcher.Close()
}

// IsRunning reports whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// addDir must be called with mu held.
func (w *Watcher) addDir(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
	}
}

func (w *Watcher) watch(ctx context.Context, fw *fsnotify.Watcher, done chan struct{}) {
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			path := filepath.Clean(event.Name)
			w.mu.Lock()
			watched := w.paths[path]
			w.mu.Unlock()
			if watched {
				w.logger.Debug("sound file changed", "path", path)
				w.cache.InvalidateCache(path)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("sound watcher error", "error", err)

		case <-ctx.Done():
			return

		case <-done:
			return
		}
	}
}
