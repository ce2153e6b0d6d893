// Package watch reloads the blog when files in the posts directory change.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogotex/blog/pkg/logger"
)

// DefaultDebounce is how long the watcher waits after the last change.
const DefaultDebounce = 500 * time.Millisecond

// Reloader is satisfied by service.Service.
type Reloader interface {
	Reload(ctx context.Context) (int, error)
}

// Watcher calls Reload once a burst of changes to a directory settles.
type Watcher struct {
	dir      string
	target   Reloader
	debounce time.Duration
	fsw      *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

// New watches dir. A non-positive debounce selects DefaultDebounce.
func New(dir string, target Reloader, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, target: target, debounce: debounce, fsw: fsw}, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()
	logger.Infof("watching %s for post changes", w.dir)
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				logger.Debugf("change detected: %s (%s)", event.Name, event.Op.String())
				w.schedule(ctx)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warnf("watcher error: %v", err)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		n, err := w.target.Reload(ctx)
		if err != nil {
			logger.Err(err, "reload after change failed")
			return
		}
		logger.Infof("reloaded %d posts after change", n)
	})
}
