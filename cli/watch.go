package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Debounce delay - editors often write files in multiple steps
const debounceDelay = 100 * time.Millisecond

// watch calls run once, then again after every change to the file at path
// until ctx is done. Calls to run never overlap.
func watch(ctx context.Context, path string, w io.Writer, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, atomic saves replace the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	run()
	printInfof(w, "Watching %s for changes", pathStyle.Render(path))

	changed := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})

		case <-changed:
			printInfof(w, "%s changed", pathStyle.Render(filepath.Base(path)))
			run()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(w, fmt.Sprintf("file watcher error: %v", err))
		}
	}
}
