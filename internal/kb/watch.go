package kb

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"agentops/internal/logging"
)

// Watch reloads the base whenever the YAML file at path changes. It
// blocks until ctx is cancelled; run it in its own goroutine. Reload
// failures are logged and the previous entry set stays in effect.
func (b *Base) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors often replace
	// the file on save, which drops a direct file watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}
	target := filepath.Clean(path)

	logging.KB("Watching %s for knowledge base changes", target)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := b.Load(target); err != nil {
				logging.Get(logging.CategoryKB).Warn("Reload failed, keeping previous entries: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Get(logging.CategoryKB).Warn("Watcher error: %v", err)
		}
	}
}
