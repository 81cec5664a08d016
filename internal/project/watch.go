package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/namedgen/internal/gen"
)

// watchDebounce coalesces editor save bursts into one regeneration.
const watchDebounce = 200 * time.Millisecond

// Watch regenerates on every .ngo change under roots until the context
// is cancelled. rebuild is called with the directories whose sources
// changed since the last call; its errors are reported through report
// rather than stopping the watch.
func Watch(ctx context.Context, roots []string, rebuild func(dirs []string) error, report func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range roots {
		if err := watchTree(watcher, root); err != nil {
			return err
		}
	}

	var timer *time.Timer
	var fired <-chan time.Time
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// New directories need watching before their files change.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchTree(watcher, event.Name)
					continue
				}
			}
			if !strings.HasSuffix(event.Name, gen.SourceExt) {
				continue
			}
			pending[filepath.Dir(event.Name)] = true
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fired = timer.C

		case <-fired:
			fired = nil
			dirs := make([]string, 0, len(pending))
			for dir := range pending {
				dirs = append(dirs, dir)
				delete(pending, dir)
			}
			if err := rebuild(dirs); err != nil {
				report(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			report(err)
		}
	}
}

// watchTree adds dir and every non-skipped directory below it to the
// watcher. Passing a file is a no-op.
func watchTree(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
