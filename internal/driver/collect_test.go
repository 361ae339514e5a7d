package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfmt/internal/driver"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"b.c":             "",
		"a.h":             "",
		"notes.txt":       "",
		"sub/c.c":         "",
		"vendor/skip.c":   "",
		"sub/gen_x.c":     "",
		"sub/deep/keep.h": "",
	})

	got, err := driver.Collect(context.Background(),
		[]string{root, filepath.Join(root, "b.c"), filepath.Join(root, "notes.txt")},
		nil, []string{"vendor", "gen_*.c"})
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "a.h"),
		filepath.Join(root, "b.c"),
		filepath.Join(root, "notes.txt"),
		filepath.Join(root, "sub", "c.c"),
		filepath.Join(root, "sub", "deep", "keep.h"),
	}
	assert.Equal(t, want, got)
}

func TestCollectExtensions(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.c": "", "b.cc": "", "c.h": ""})

	got, err := driver.Collect(context.Background(), []string{root}, []string{".cc"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b.cc")}, got)
}

func TestCollectErrors(t *testing.T) {
	_, err := driver.Collect(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, nil, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = driver.Collect(context.Background(), []string{t.TempDir()}, nil, []string{"["})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = driver.Collect(ctx, []string{t.TempDir()}, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
