package style

import (
	"path/filepath"
	"sync"

	"cfmt/internal/diag"
	"cfmt/internal/source"
)

// Resolver hands out the style governing a source file. Styles are looked
// up once per directory and shared between goroutines; the returned values
// must not be modified.
type Resolver struct {
	// Explicit, when set, is used for every file instead of searching.
	Explicit string
	Reporter diag.Reporter

	mu     sync.Mutex
	fs     *source.FileSet
	byDir  map[string]*Style
	byPath map[string]*Style
}

// NewResolver returns a resolver using explicit for every file when it is
// not empty.
func NewResolver(explicit string, r diag.Reporter) *Resolver {
	return &Resolver{
		Explicit: explicit,
		Reporter: r,
		fs:       source.NewFileSet(),
		byDir:    make(map[string]*Style),
		byPath:   make(map[string]*Style),
	}
}

// FileSet returns the file set holding the loaded style files, used to
// resolve the spans of style diagnostics.
func (rs *Resolver) FileSet() *source.FileSet { return rs.fs }

// ForFile returns the style for the source file at path.
func (rs *Resolver) ForFile(path string) (*Style, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.Explicit != "" {
		return rs.load(rs.Explicit)
	}
	dir := filepath.Dir(path)
	if s, ok := rs.byDir[dir]; ok {
		return s, nil
	}
	found, err := Find(dir)
	if err != nil {
		return nil, err
	}
	s := Defaults()
	if found != "" {
		if s, err = rs.load(found); err != nil {
			return nil, err
		}
	}
	rs.byDir[dir] = s
	return s, nil
}

func (rs *Resolver) load(path string) (*Style, error) {
	if s, ok := rs.byPath[path]; ok {
		return s, nil
	}
	s, err := Load(rs.fs, path, rs.Reporter)
	if err != nil {
		return nil, err
	}
	rs.byPath[path] = s
	return s, nil
}
