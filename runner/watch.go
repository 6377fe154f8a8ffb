package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settle is how long Watch waits after a write before calling back, so that
// editors saving in several steps trigger one run.
const settle = 100 * time.Millisecond

// Watch calls onChange with the path of every model file written under paths
// until ctx is done.
func Watch(ctx context.Context, logger *zap.Logger, paths []string, onChange func(path string)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := addWatch(watcher, p); err != nil {
			return fmt.Errorf("error adding %s to watcher: %w", p, err)
		}
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !IsModelFile(event.Name) {
				continue
			}
			pending[event.Name] = struct{}{}
			timer.Reset(settle)

		case <-timer.C:
			for name := range pending {
				delete(pending, name)
				onChange(name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", zap.Error(err))
		}
	}
}

// addWatch registers directories recursively; a file registers its parent
// directory.
func addWatch(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(p)
		}
		return nil
	})
}
