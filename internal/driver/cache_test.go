package driver_test

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfmt/internal/driver"
)

func TestCache(t *testing.T) {
	cache, err := driver.NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	content := sha256.Sum256([]byte("int x;\n"))
	styleA := sha256.Sum256([]byte("a"))
	styleB := sha256.Sum256([]byte("b"))

	ok, err := cache.Formatted(content, styleA)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.MarkFormatted("x.c", content, styleA))
	ok, err = cache.Formatted(content, styleA)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = cache.Formatted(content, styleB)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.DropAll())
	ok, err = cache.Formatted(content, styleA)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNilCache(t *testing.T) {
	var cache *driver.Cache
	ok, err := cache.Formatted([32]byte{}, [32]byte{})
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.MarkFormatted("x.c", [32]byte{}, [32]byte{}))
	assert.NoError(t, cache.DropAll())
}

func TestOpenCacheUsesXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)
	cache, err := driver.OpenCache("cfmt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "cfmt"), cache.Dir())
}
