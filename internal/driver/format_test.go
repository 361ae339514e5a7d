package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfmt/internal/diag"
	"cfmt/internal/driver"
	"cfmt/internal/style"
)

// newProject writes files under a fresh directory holding a .clang-format,
// so the style search stops there.
func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{".clang-format": "ColumnLimit: 80\n"})
	writeFiles(t, root, files)
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFormatPathsWritesBack(t *testing.T) {
	root := newProject(t, map[string]string{
		"a.c": "x=1;\n",
		"b.c": "int y = 2;\n",
	})
	a := filepath.Join(root, "a.c")
	require.NoError(t, os.Chmod(a, 0o600))

	results, err := driver.FormatPaths(context.Background(), []string{root}, driver.FormatOptions{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, a, results[0].Path)
	assert.True(t, results[0].Changed)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, filepath.Join(root, "b.c"), results[1].Path)
	assert.False(t, results[1].Changed)

	assert.Equal(t, "x = 1;\n", readFile(t, a))
	info, err := os.Stat(a)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".cfmt-"), "temporary file %s left behind", e.Name())
	}
}

func TestFormatPathsCheck(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "x=1;\n"})
	path := filepath.Join(root, "a.c")

	results, err := driver.FormatPaths(context.Background(), []string{path}, driver.FormatOptions{Check: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Changed)
	assert.Nil(t, results[0].Formatted)
	assert.Equal(t, "x=1;\n", readFile(t, path))
}

func TestFormatPathsStdout(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "x=1;\n"})
	path := filepath.Join(root, "a.c")

	results, err := driver.FormatPaths(context.Background(), []string{path}, driver.FormatOptions{Stdout: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "x = 1;\n", string(results[0].Formatted))
	assert.Equal(t, "x=1;\n", readFile(t, path))
}

func TestFormatPathsOrder(t *testing.T) {
	files := make(map[string]string)
	var want []string
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		files[name+".c"] = "int " + name + ";\n"
	}
	root := newProject(t, files)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		want = append(want, filepath.Join(root, name+".c"))
	}

	results, err := driver.FormatPaths(context.Background(), []string{root}, driver.FormatOptions{Jobs: 4})
	require.NoError(t, err)
	var got []string
	for _, r := range results {
		got = append(got, r.Path)
	}
	assert.Equal(t, want, got)
}

func TestFormatPathsNoSources(t *testing.T) {
	root := newProject(t, map[string]string{"README": "x"})
	_, err := driver.FormatPaths(context.Background(), []string{root}, driver.FormatOptions{})
	assert.ErrorIs(t, err, driver.ErrNoSources)
}

func TestFormatPathsFailureIsPerFile(t *testing.T) {
	root := newProject(t, map[string]string{
		"bad.c":  "int x = `;\n",
		"good.c": "x=1;\n",
	})

	results, err := driver.FormatPaths(context.Background(), []string{root}, driver.FormatOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	assert.True(t, results[0].Bag.HasErrors())
	assert.NoError(t, results[1].Err)
	assert.Equal(t, "x = 1;\n", readFile(t, filepath.Join(root, "good.c")))
	assert.Equal(t, "int x = `;\n", readFile(t, filepath.Join(root, "bad.c")))

	s := driver.Summarize(results)
	assert.Equal(t, 2, s.Files)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Changed)
}

func TestFormatPathsCache(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "x=1;\n"})
	cache, err := driver.NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	opts := driver.FormatOptions{Cache: cache}

	first, err := driver.FormatPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	assert.True(t, first[0].Changed)
	assert.False(t, first[0].Cached)

	second, err := driver.FormatPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	assert.True(t, second[0].Cached)
	assert.False(t, second[0].Changed)

	// A different style misses the cache.
	other := filepath.Join(t.TempDir(), "style")
	require.NoError(t, os.WriteFile(other, []byte("IndentWidth: 4\n"), 0o644))
	opts.Styles = style.NewResolver(other, diag.NopReporter{})
	third, err := driver.FormatPaths(context.Background(), []string{root}, opts)
	require.NoError(t, err)
	assert.False(t, third[0].Cached)
}

func TestFormatPathsProgress(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "x=1;\n", "b.c": "int b;\n"})
	var (
		mu     sync.Mutex
		events []driver.Event
	)
	sink := driver.SinkFunc(func(ev driver.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	})

	_, err := driver.FormatPaths(context.Background(), []string{root}, driver.FormatOptions{Progress: sink})
	require.NoError(t, err)

	last := make(map[string]driver.Event)
	queued := 0
	for _, ev := range events {
		if ev.Status == driver.StatusQueued {
			queued++
		}
		last[filepath.Base(ev.File)] = ev
	}
	assert.Equal(t, 2, queued)
	assert.Equal(t, driver.StatusDone, last["a.c"].Status)
	assert.True(t, last["a.c"].Changed)
	assert.Equal(t, driver.StatusDone, last["b.c"].Status)
	assert.False(t, last["b.c"].Changed)
}

func TestFormatPathsTimings(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "int a;\n"})
	results, err := driver.FormatPaths(context.Background(), []string{root}, driver.FormatOptions{Timings: true})
	require.NoError(t, err)
	require.NotNil(t, results[0].Timing)

	var found bool
	for _, d := range results[0].Bag.Items() {
		if d.Code == diag.ObsTimings {
			found = true
			require.Len(t, d.Notes, 1)
			assert.Contains(t, d.Notes[0].Msg, `"phases"`)
		}
	}
	assert.True(t, found, "no timing diagnostic")
}

func TestFormatReader(t *testing.T) {
	root := newProject(t, nil)
	res, err := driver.FormatReader(context.Background(), strings.NewReader("x=1;"),
		filepath.Join(root, "stdin.c"), driver.FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "x = 1;\n", string(res.Formatted))
	assert.True(t, res.Changed)
}
