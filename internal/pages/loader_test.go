package pages

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapsolve/internal/models"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadAll_SortsByFolderName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b", contentFile), "second")
	writeFile(t, filepath.Join(root, "a", contentFile), "first")

	res := LoadAll(root)
	require.True(t, res.Success)
	require.Len(t, res.Pages, 2)
	assert.Equal(t, "a", res.Pages[0].ID)
	assert.Equal(t, "b", res.Pages[1].ID)
}

func TestLoadAll_SinglePageWithoutImage(t *testing.T) {
	base := t.TempDir()
	writeFile(t, filepath.Join(base, "pages", "algorithms", contentFile), "Big-O basics")

	res := LoadAll(filepath.Join(base, "pages"))
	require.True(t, res.Success)
	assert.Equal(t, []models.PageRecord{{
		ID:      "algorithms",
		Name:    "algorithms",
		Content: "Big-O basics",
		Image:   nil,
	}}, res.Pages)
}

func TestLoadAll_SkipsFoldersWithoutContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "empty", "notes.md"), "ignored")
	writeFile(t, filepath.Join(root, "graphs", contentFile), "BFS")
	writeFile(t, filepath.Join(root, "loose.txt"), "not a folder")

	res := LoadAll(root)
	require.True(t, res.Success)
	require.Len(t, res.Pages, 1)
	assert.Equal(t, "graphs", res.Pages[0].ID)
}

func TestLoadAll_EncodesImageByPriority(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "trees", contentFile), "tries")
	writeFile(t, filepath.Join(root, "trees", "image.gif"), "GIF89a")
	writeFile(t, filepath.Join(root, "trees", "image.png"), "\x89PNG\r\n\x1a\n")

	res := LoadAll(root)
	require.True(t, res.Success)
	require.Len(t, res.Pages, 1)
	require.NotNil(t, res.Pages[0].Image)
	assert.True(t, strings.HasPrefix(*res.Pages[0].Image, "data:image/png;base64,"))
}

func TestLoadAll_SVGImage(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "heap", contentFile), "heaps")
	writeFile(t, filepath.Join(root, "heap", "image.svg"), "<svg/>")

	res := LoadAll(root)
	require.Len(t, res.Pages, 1)
	require.NotNil(t, res.Pages[0].Image)
	assert.True(t, strings.HasPrefix(*res.Pages[0].Image, "data:image/svg+xml;base64,"))
}

func TestLoadAll_MissingRoot(t *testing.T) {
	res := LoadAll(filepath.Join(t.TempDir(), "nope"))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, res.Pages)

	res = LoadAll(" ")
	assert.False(t, res.Success)
	assert.Equal(t, "pages directory is not set", res.Error)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "dynamic programming", DisplayName("dynamic-programming"))
	assert.Equal(t, "two pointers", DisplayName("two__pointers"))
	assert.Equal(t, "Graphs", DisplayName("Graphs"))
}
