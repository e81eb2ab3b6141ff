package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/loandesk/loandesk/pkg/logger"
)

// Watch reloads the global configuration whenever the config file is
// written, created or renamed into place, then calls onChange with the new
// value. It blocks until ctx is done. The parent directory is watched so
// editors that replace the file are handled.
func Watch(ctx context.Context, onChange func(*Config)) error {
	path := Path()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if err := Reload(); err != nil {
				logger.Default().Warn().Err(err).Str("path", path).Msg("config reload failed, keeping previous configuration")
				continue
			}
			cfg := Get()
			logger.Default().Info().Str("path", path).Msg("configuration reloaded")
			if onChange != nil {
				onChange(cfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Default().Warn().Err(err).Msg("config watcher error")
		case <-ctx.Done():
			return nil
		}
	}
}
