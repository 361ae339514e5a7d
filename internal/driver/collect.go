package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoSources is returned when the given paths hold no files to format.
var ErrNoSources = errors.New("no source files found")

// DefaultExtensions lists the file extensions formatted when a directory is
// walked.
var DefaultExtensions = []string{".c", ".h"}

// Collect expands paths into the sorted list of files to format. Files named
// explicitly are kept whatever their extension; directories are walked for
// files with one of exts. Paths matching an exclude pattern are skipped, and
// so are directories, which prunes their contents. Patterns are matched
// against the slash separated path and against its base name.
func Collect(ctx context.Context, paths, exts, exclude []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, pat := range exclude {
		if _, err := path.Match(pat, ""); err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pat, err)
		}
	}

	var files []string
	seen := make(map[string]struct{})
	addFile := func(name string) {
		name = filepath.Clean(name)
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		files = append(files, name)
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !excluded(p, exclude) {
				addFile(p)
			}
			continue
		}
		err = filepath.WalkDir(p, func(name string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if name != p && excluded(name, exclude) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if slices.Contains(exts, filepath.Ext(name)) {
				addFile(name)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	slices.Sort(files)
	return files, nil
}

func excluded(name string, patterns []string) bool {
	slash := filepath.ToSlash(filepath.Clean(name))
	base := filepath.Base(name)
	for _, pat := range patterns {
		pat = strings.TrimSuffix(filepath.ToSlash(pat), "/")
		if ok, _ := path.Match(pat, slash); ok {
			return true
		}
		if ok, _ := path.Match(pat, base); ok {
			return true
		}
	}
	return false
}
