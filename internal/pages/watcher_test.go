package pages

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapsolve/internal/models"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", contentFile), "v1")

	results := make(chan models.PagesResult, 8)
	w := NewWatcher(root, func(r models.PagesResult) { results <- r })
	w.SetDebounce(20 * time.Millisecond)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeFile(t, filepath.Join(root, "a", contentFile), "v2")

	select {
	case res := <-results:
		require.True(t, res.Success)
		require.Len(t, res.Pages, 1)
		assert.Equal(t, "v2", res.Pages[0].Content)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload")
	}
}

func TestWatcher_StartFailsForMissingRoot(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, w.Start(context.Background()))
	w.Stop()
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w := NewWatcher(t.TempDir(), nil)
	require.NoError(t, w.Start(context.Background()))
	w.Stop()
	w.Stop()
}
