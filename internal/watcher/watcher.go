// Package watcher re-runs a callback whenever a watched file changes.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a change triggers the callback.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls fn after path is written, created or renamed into place,
// coalescing bursts of events within debounce. Callbacks run one at a
// time; changes seen while fn is running queue a single further call. It
// blocks until ctx is cancelled and returns nil then. Callback errors are
// logged, not returned, so one bad edit does not end the watch.
//
// The parent directory is watched rather than the file so that editors
// which replace files atomically keep triggering events.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, fn func(context.Context) error) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Debug("watching file", "path", abs)

	// The debounce timer only signals; the runner is the sole caller of fn.
	pending := make(chan struct{}, 1)
	stop := make(chan struct{})
	var runner sync.WaitGroup
	runner.Add(1)
	go func() {
		defer runner.Done()
		for {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case <-pending:
				select {
				case <-stop:
					return
				default:
				}
				logger.Debug("file changed", "path", abs)
				if err := fn(ctx); err != nil {
					logger.Error("watch callback failed", "path", abs, "error", err)
				}
			}
		}
	}()

	timer := time.AfterFunc(debounce, func() {
		select {
		case pending <- struct{}{}:
		default:
		}
	})
	timer.Stop()
	defer func() {
		timer.Stop()
		close(stop)
		runner.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}
