package assets

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports files of a directory that were written or created. Events
// are collected on a background goroutine and drained from the render thread
// with Changed.
type Watcher struct {
	w       *fsnotify.Watcher
	mu      sync.Mutex
	pending map[string]struct{}
	done    chan struct{}
}

// Watch starts watching dir (not recursively).
func Watch(dir string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %q: %w", dir, err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %q: %w", dir, err)
	}
	w := &Watcher{w: fw, pending: map[string]struct{}{}, done: make(chan struct{})}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			w.pending[filepath.Base(ev.Name)] = struct{}{}
			w.mu.Unlock()
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}
			slog.Warn("assets: watch error", "error", err)
		}
	}
}

// Changed returns the base names touched since the last call, in no
// particular order.
func (w *Watcher) Changed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	names := make([]string, 0, len(w.pending))
	for name := range w.pending {
		names = append(names, name)
	}
	clear(w.pending)
	return names
}

func (w *Watcher) Close() error {
	err := w.w.Close()
	<-w.done
	return err
}
