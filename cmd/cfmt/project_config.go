package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"cfmt/internal/diag"
	"cfmt/internal/source"
)

const projectConfigName = "cfmt.toml"

type projectConfig struct {
	// Path is the file the configuration was read from; empty when none was
	// found.
	Path   string       `toml:"-"`
	Format formatConfig `toml:"format"`
}

type formatConfig struct {
	Extensions []string `toml:"extensions"`
	Exclude    []string `toml:"exclude"`
	Jobs       int      `toml:"jobs"`
	Cache      *bool    `toml:"cache"`
	Style      string   `toml:"style"`
}

// Root returns the directory holding the configuration file.
func (c projectConfig) Root() string {
	if c.Path == "" {
		return ""
	}
	return filepath.Dir(c.Path)
}

// StylePath returns the configured style file resolved against the
// configuration directory.
func (c projectConfig) StylePath() string {
	st := strings.TrimSpace(c.Format.Style)
	if st == "" || filepath.IsAbs(st) {
		return st
	}
	return filepath.Join(c.Root(), filepath.FromSlash(st))
}

// CacheEnabled reports whether the result cache may be used; it is on
// unless disabled explicitly.
func (c projectConfig) CacheEnabled() bool {
	return c.Format.Cache == nil || *c.Format.Cache
}

func findProjectConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, projectConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// discoverProjectConfig loads the cfmt.toml closest to startDir. A missing
// file yields the zero configuration.
func discoverProjectConfig(startDir string) (projectConfig, error) {
	path, ok, err := findProjectConfig(startDir)
	if err != nil || !ok {
		return projectConfig{}, err
	}
	return loadProjectConfig(path)
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return projectConfig{}, err
		}
		return projectConfig{}, &projectConfigError{Path: path, Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, &projectConfigError{Path: path, Err: fmt.Errorf("unknown key %s", undecoded[0])}
	}
	if cfg.Format.Jobs < 0 {
		return projectConfig{}, &projectConfigError{Path: path, Err: errors.New("[format].jobs must not be negative")}
	}
	for i, ext := range cfg.Format.Extensions {
		if !strings.HasPrefix(ext, ".") {
			cfg.Format.Extensions[i] = "." + ext
		}
	}
	cfg.Path = path
	return cfg, nil
}

// projectConfigError is a cfmt.toml that could be read but not used.
type projectConfigError struct {
	Path string
	Err  error
}

func (e *projectConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *projectConfigError) Unwrap() error { return e.Err }

// diagnostics reports e against the configuration file, pointing at the
// offending bytes when the TOML parser located them.
func (e *projectConfigError) diagnostics() (*diag.Bag, *source.FileSet) {
	files := source.NewFileSet()
	bag := diag.NewBag(1)
	id, err := files.Load(e.Path)
	if err != nil {
		id = files.AddVirtual(e.Path, nil)
	}
	span := source.Span{File: id}
	msg := e.Err.Error()
	var parseErr toml.ParseError
	if errors.As(e.Err, &parseErr) {
		msg = parseErr.Message
		start, errStart := safecast.Conv[uint32](parseErr.Position.Start)
		end, errEnd := safecast.Conv[uint32](parseErr.Position.Start + parseErr.Position.Len)
		if errStart == nil && errEnd == nil && int(end) <= len(files.Get(id).Content) {
			span.Start, span.End = start, end
		}
	}
	bag.Add(diag.NewError(diag.PrjConfigInvalid, span, msg))
	return bag, files
}
