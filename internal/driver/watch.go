package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"cfmt/internal/logging"
)

// Editors often write a file in several steps.
const watchDebounce = 100 * time.Millisecond

// Watch formats paths, then keeps formatting the files that change below
// them until ctx is cancelled. Every run is passed to report. Directories are
// watched recursively, including ones created later.
func Watch(ctx context.Context, paths []string, opts FormatOptions, report func([]FormatResult, error)) error {
	logger := logging.FromContext(ctx)
	report(FormatPaths(ctx, paths, opts))

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var dirs []string
	files := make(map[string]struct{})
	for _, p := range paths {
		p = filepath.Clean(p)
		if err := watchTree(watcher, p, opts.Exclude); err != nil {
			return err
		}
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs = append(dirs, p)
		} else {
			files[p] = struct{}{}
		}
	}
	wanted := func(name string) bool {
		if _, ok := files[name]; ok {
			return true
		}
		if !slices.Contains(exts, filepath.Ext(name)) || excluded(name, opts.Exclude) {
			return false
		}
		for _, dir := range dirs {
			if rel, err := filepath.Rel(dir, name); err == nil && !strings.HasPrefix(rel, "..") {
				return true
			}
		}
		return false
	}

	var (
		mu      sync.Mutex
		runMu   sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
	)
	flush := func() {
		runMu.Lock()
		defer runMu.Unlock()
		mu.Lock()
		changed := make([]string, 0, len(pending))
		for name := range pending {
			if _, err := os.Stat(name); err == nil {
				changed = append(changed, name)
			}
		}
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || ctx.Err() != nil {
			return
		}
		report(FormatPaths(ctx, changed, opts))
	}
	defer func() {
		if timer != nil {
			timer.Stop()
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
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
				if event.Op&fsnotify.Create != 0 {
					if err := watchTree(watcher, event.Name, opts.Exclude); err != nil {
						logger.Warn("failed to watch", logging.FieldPath, event.Name, logging.FieldError, err)
					}
				}
				continue
			}
			if !wanted(filepath.Clean(event.Name)) {
				continue
			}
			mu.Lock()
			pending[filepath.Clean(event.Name)] = struct{}{}
			mu.Unlock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, flush)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", logging.FieldError, err)
		}
	}
}

// watchTree adds root and every directory below it to watcher. A file root
// is watched through its directory.
func watchTree(watcher *fsnotify.Watcher, root string, exclude []string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name != root && excluded(name, exclude) {
			return filepath.SkipDir
		}
		return watcher.Add(name)
	})
}
