package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfmt/internal/driver"
)

func TestWatch(t *testing.T) {
	root := newProject(t, map[string]string{"a.c": "int a;\n"})
	path := filepath.Join(root, "a.c")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runs := make(chan []driver.FormatResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- driver.Watch(ctx, []string{root}, driver.FormatOptions{}, func(res []driver.FormatResult, err error) {
			if err != nil {
				return
			}
			select {
			case runs <- res:
			default:
			}
		})
	}()

	select {
	case res := <-runs:
		require.Len(t, res, 1)
		assert.False(t, res[0].Changed)
	case <-time.After(5 * time.Second):
		t.Fatal("no initial run")
	}

	// Give the watcher time to register the directory.
	deadline := time.After(5 * time.Second)
	for changed := false; !changed; {
		require.NoError(t, os.WriteFile(path, []byte("x=1;\n"), 0o644))
		select {
		case res := <-runs:
			if len(res) == 1 && res[0].Changed {
				changed = true
			}
		case <-time.After(300 * time.Millisecond):
		case <-deadline:
			t.Fatal("change not picked up")
		}
	}
	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(path)
		return err == nil && string(data) == "x = 1;\n"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
