package transync

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change before syncing.
const DefaultDebounce = 300 * time.Millisecond

// Watch runs a sync pass every time extracted catalogs change, until ctx
// is cancelled. Bursts of events are collapsed into one pass after
// debounce. onSync receives the outcome of every pass; a failing pass
// does not stop the watcher.
//
// If ready is non-nil, a value is sent after the watcher is fully set up,
// allowing callers to synchronize without time.Sleep.
func (s *Syncer) Watch(ctx context.Context, cfg Config, debounce time.Duration, onSync func(SyncReport, error), ready chan<- struct{}) error {
	if !ExtractionExists(cfg) {
		if err := os.MkdirAll(cfg.ExtractedDir, 0755); err != nil {
			return err
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	// fsnotify is not recursive: register every directory up front and
	// newly created ones as they appear.
	err = filepath.WalkDir(cfg.ExtractedDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", cfg.ExtractedDir, err)
	}
	s.logger.Info("Watching %s for extracted catalogs", relPath(cfg.ExtractedDir))

	if ready != nil {
		ready <- struct{}{}
	}

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
					timer.Reset(debounce)
					continue
				}
			}
			if !strings.EqualFold(filepath.Ext(event.Name), CatalogExt) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debug("change detected: %s", event)
			timer.Reset(debounce)
		case <-timer.C:
			report, err := s.Sync(ctx, cfg)
			if onSync != nil {
				onSync(report, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch: %v", err)
		}
	}
}
