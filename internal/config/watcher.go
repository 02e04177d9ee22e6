package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/skoller/showsync/internal/logger"
)

// Watch reloads the configuration whenever the config file changes on
// disk. It blocks until the context is cancelled, so callers run it in
// its own goroutine. Editors that replace the file trigger Create
// events, hence both Write and Create are handled.
func Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	logger.Info("Watching configuration file for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := Load(path); err != nil {
				logger.Error("Failed to reload configuration", "path", path, "error", err)
				continue
			}
			logger.Info("Configuration reloaded", "path", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Configuration watcher error", "error", err)
		}
	}
}
