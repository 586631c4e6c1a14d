package recommendation

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// WatchRegistry reloads the registry file whenever it changes, until ctx is
// done. The parent directory is watched so editors that replace the file by
// rename are picked up. A reload that fails validation is logged and the
// previous templates are kept. The returned channel receives the result of
// every reload attempt and is closed when watching stops.
func (e *Engine) WatchRegistry(ctx context.Context) (<-chan error, error) {
	path := e.config.RegistryPath
	if path == "" {
		return nil, fmt.Errorf("no registry path configured")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create registry watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch registry directory: %w", err)
	}

	target := filepath.Clean(path)
	reloads := make(chan error, 16)

	go func() {
		defer close(reloads)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}

				err := e.LoadRegistry(path)
				if err != nil {
					e.logger.Warn("template registry reload failed, keeping previous templates", map[string]interface{}{
						"path":  path,
						"error": err,
					})
				}
				select {
				case reloads <- err:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				e.logger.Warn("template registry watcher error", map[string]interface{}{
					"error": err,
				})
			}
		}
	}()

	return reloads, nil
}
