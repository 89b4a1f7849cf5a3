package balance

import (
	"os"
	"sync"
	"time"
)

// FileWatcher polls file modification times and triggers a callback on change.
type FileWatcher struct {
	Paths    []string
	Interval time.Duration

	onChange  func(string) // called with path that changed
	stopCh    chan struct{}
	stopOnce  sync.Once
	lastMTime map[string]time.Time
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start primes the mtime cache, then polls in a goroutine.
func (w *FileWatcher) Start() {
	w.Scan(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. Safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Scan checks mtimes and invokes onChange for files that changed since the
// last scan. A file that appears after priming counts as a change. Scan is
// not safe to call concurrently with a running Start loop.
func (w *FileWatcher) Scan(prime bool) {
	for _, p := range w.Paths {
		fi, err := os.Stat(p)
		if err != nil {
			// missing file: forget it so its reappearance is reported
			delete(w.lastMTime, p)
			continue
		}
		mt := fi.ModTime()
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || w.onChange == nil {
			continue
		}
		if !ok || mt.After(last) {
			w.onChange(p)
		}
	}
}

// Reloader re-reads a Loader's override file whenever it changes and hands
// the freshly normalized table, or the error, to apply.
type Reloader struct {
	loader  *Loader
	watcher *FileWatcher
	apply   func(Table, error)
}

// NewReloader watches loader's override path every interval.
func NewReloader(loader *Loader, interval time.Duration, apply func(Table, error)) *Reloader {
	r := &Reloader{loader: loader, apply: apply}
	r.watcher = NewFileWatcher([]string{loader.Path()}, interval, r.reload)
	return r
}

func (r *Reloader) reload(string) {
	r.loader.Invalidate()
	t, err := r.loader.Load()
	r.apply(t, err)
}

// Start begins watching. A loader without an override path watches nothing.
func (r *Reloader) Start() {
	if r.loader.Path() == "" {
		return
	}
	r.watcher.Start()
}

// Stop ends watching.
func (r *Reloader) Stop() { r.watcher.Stop() }
