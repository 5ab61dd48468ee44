package unit_tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapsolve/internal/config"
	"snapsolve/internal/events"
	"snapsolve/internal/models"
	"snapsolve/internal/services"
)

func writePage(t *testing.T, root, folder, content string) {
	t.Helper()
	dir := filepath.Join(root, folder)
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "content.txt"), []byte(content), 0644))
}

func newPageService(t *testing.T) (*services.PageService, *config.Store, *events.Recorder, string) {
	t.Helper()
	base := t.TempDir()
	store := config.NewStore(filepath.Join(base, "config.json"), nil)
	store.SetEnvLookup(func(string) string { return "" })
	require.NoError(t, store.Load())
	rec := events.NewRecorder(nil)
	svc := services.NewPageService(store, base, rec)
	t.Cleanup(svc.Close)
	return svc, store, rec, base
}

func TestPageService_LoadAllResolvesRelativeDir(t *testing.T) {
	svc, _, rec, base := newPageService(t)
	writePage(t, filepath.Join(base, "pages"), "two-sum", "hash map")

	res := svc.LoadAll()

	require.True(t, res.Success, res.Error)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, "two sum", res.Pages[0].Name)
	assert.Equal(t, filepath.Join(base, "pages"), svc.Root())
	assert.Equal(t, 1, rec.Count(events.PagesChanged))

	// Served from cache until Reload.
	writePage(t, filepath.Join(base, "pages"), "valid-parens", "stack")
	assert.Len(t, svc.LoadAll().Pages, 1)
	assert.Len(t, svc.Reload().Pages, 2)
}

func TestPageService_MissingRootReportsError(t *testing.T) {
	svc, _, _, _ := newPageService(t)

	res := svc.LoadAll()

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Pages)
}

func TestPageService_FollowsConfiguredDir(t *testing.T) {
	svc, store, _, _ := newPageService(t)
	other := t.TempDir()
	writePage(t, other, "graphs", "bfs")

	cfg := store.Get()
	cfg.PagesDir = other
	_, err := store.Update(cfg)
	require.NoError(t, err)

	assert.Equal(t, other, svc.Root())
	res := svc.LoadAll()
	require.True(t, res.Success)
	assert.Equal(t, "graphs", res.Pages[0].ID)
}

func TestPageService_WatcherEmitsOnChange(t *testing.T) {
	svc, _, rec, base := newPageService(t)
	root := filepath.Join(base, "pages")
	writePage(t, root, "arrays", "v1")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Startup(ctx)
	before := rec.Count(events.PagesChanged)

	writePage(t, root, "arrays", "v2")

	require.Eventually(t, func() bool {
		for _, e := range rec.Events() {
			if e.Name != events.PagesChanged {
				continue
			}
			res := e.Payload[0].(models.PagesResult)
			if len(res.Pages) == 1 && res.Pages[0].Content == "v2" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
	assert.Greater(t, rec.Count(events.PagesChanged), before)
}
