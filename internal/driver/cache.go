package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cfmt/internal/version"
)

// Current schema version - increment when cacheEntry format changes
const cacheSchemaVersion uint16 = 1

// Digest is a SHA-256 sum.
type Digest = [32]byte

// Cache remembers files already known to be formatted, keyed by the hash of
// their contents and the hash of the style they were checked against.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cacheEntry struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path    string
	Content Digest
	Style   Digest
	// Formatter release that produced the verdict.
	Version string
}

// OpenCache initializes and returns a cache at the standard location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return NewCache(filepath.Join(base, app))
}

// NewCache returns a cache stored under dir.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the directory holding the cache.
func (c *Cache) Dir() string { return c.dir }

func cacheKey(content, style Digest) Digest {
	h := sha256.New()
	h.Write(content[:])
	h.Write(style[:])
	var key Digest
	h.Sum(key[:0])
	return key
}

func (c *Cache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "fmt", hexKey[:2], hexKey+".mp")
}

// Formatted reports whether content was recorded as formatted under style.
func (c *Cache) Formatted(content, style Digest) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(cacheKey(content, style)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	var entry cacheEntry
	if err := msgpack.NewDecoder(f).Decode(&entry); err != nil {
		return false, err
	}
	ok := entry.Schema == cacheSchemaVersion &&
		entry.Content == content &&
		entry.Style == style &&
		entry.Version == version.Version
	return ok, nil
}

// MarkFormatted records that content, found at path, is formatted under style.
func (c *Cache) MarkFormatted(path string, content, style Digest) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(cacheKey(content, style))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	entry := cacheEntry{
		Schema:  cacheSchemaVersion,
		Path:    path,
		Content: content,
		Style:   style,
		Version: version.Version,
	}
	if err := msgpack.NewEncoder(f).Encode(&entry); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// DropAll invalidates the cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
