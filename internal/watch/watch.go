// Package watch regenerates the output whenever one of the definition
// files changes. Parent directories are watched rather than the files
// themselves, so editors that replace files on save (write to temp,
// rename over) keep being observed.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of events from a single save.
const DefaultDebounce = 250 * time.Millisecond

// Watcher triggers a callback when any watched file changes.
type Watcher struct {
	paths    map[string]bool
	debounce time.Duration
	log      *slog.Logger
	onChange func() error
}

// New returns a watcher over the given files. onChange runs once at
// startup and again after every debounced change; its errors are logged,
// not fatal, so a transiently broken definition file can be fixed and
// saved again.
func New(files []string, onChange func() error, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	w := &Watcher{
		paths:    make(map[string]bool, len(files)),
		debounce: DefaultDebounce,
		log:      log,
		onChange: onChange,
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", f, err)
		}
		w.paths[abs] = true
	}
	return w, nil
}

// Run watches until ctx is cancelled. The initial generation happens
// before the first event is processed.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fsw.Close()

	dirs := make(map[string]bool)
	for path := range w.paths {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	w.fire()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.paths[abs] {
				continue
			}
			w.log.Debug("definition file changed", "path", abs, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.fire()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "err", err)
		}
	}
}

func (w *Watcher) fire() {
	if err := w.onChange(); err != nil {
		w.log.Error("regeneration failed", "err", err)
	}
}
