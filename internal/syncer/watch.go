package syncer

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ealexisaraujo/nao/internal/dbt"
)

// debounceDelay batches bursts of file events (editor saves, git checkouts)
// into a single re-sync.
const debounceDelay = 500 * time.Millisecond

// Watch runs an initial sync, then re-syncs whenever a model, schema, or
// project file under the repos directory changes. It blocks until the
// context is cancelled.
func (s *Syncer) Watch(ctx context.Context) error {
	if _, err := s.Run(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watchDirRecursive(watcher, s.ReposDir); err != nil {
		s.Logger.Error("failed to watch repos directory", "error", err)
		// Continue with whatever watches were registered.
	}

	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			return nil

		case event := <-watcher.Events:
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			// New directories need their own watches.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchDirRecursive(watcher, event.Name)
				}
			}

			if !isRelevantPath(event.Name) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				s.Logger.Debug("file changed, re-syncing", "file", event.Name)
				if _, err := s.Run(ctx); err != nil {
					s.Logger.Error("sync failed", "error", err)
				}
			})

		case err := <-watcher.Errors:
			s.Logger.Error("watcher error", "error", err)
		}
	}
}

// isRelevantPath reports whether a change to the path can affect the index.
func isRelevantPath(path string) bool {
	if filepath.Base(path) == dbt.ProjectFile {
		return true
	}
	switch filepath.Ext(path) {
	case ".sql", ".yml", ".yaml":
		return true
	}
	return false
}

// watchDirRecursive adds a directory and all subdirectories to the watcher.
func watchDirRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
