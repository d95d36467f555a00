package watcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"davitframe/internal/service"

	"github.com/fsnotify/fsnotify"
)

// ChangeFunc is called once per settled burst of changes. An error is
// logged and watching continues.
type ChangeFunc func(ctx context.Context) error

// Watcher watches a file for changes
type Watcher struct {
	path     string
	onChange ChangeFunc
	debounce time.Duration
	eventBus *service.EventBus
}

// New creates a new file watcher
func New(path string, onChange ChangeFunc) *Watcher {
	return &Watcher{
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond,
	}
}

// WithDebounce sets the debounce duration
func (w *Watcher) WithDebounce(d time.Duration) *Watcher {
	if d > 0 {
		w.debounce = d
	}
	return w
}

// WithEventBus publishes a config_reloaded event after each successful change
func (w *Watcher) WithEventBus(bus *service.EventBus) *Watcher {
	w.eventBus = bus
	return w
}

// Watch starts watching the file for changes. It blocks until the context is
// cancelled or the watcher fails to start. onChange runs on the watching
// goroutine, so reloads never overlap.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory containing the file
	// This handles cases where the file is replaced (e.g., by editors)
	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)
	filename := filepath.Base(abs)

	if err := watcher.Add(dir); err != nil {
		return err
	}

	log.Printf("Watching %s for changes", abs)

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Base(event.Name) != filename {
				continue
			}

			// Each event restarts the quiet period
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce == nil {
					debounce = time.NewTimer(w.debounce)
				} else {
					debounce.Reset(w.debounce)
				}
				fire = debounce.C
			}

		case <-fire:
			fire = nil
			log.Printf("File changed: %s", abs)
			if err := w.onChange(ctx); err != nil {
				log.Printf("Reload failed: %v", err)
				continue
			}
			w.eventBus.Publish(service.Event{
				Type:    service.EventConfigReloaded,
				Payload: map[string]string{"path": abs},
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Watcher error: %v", err)

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
