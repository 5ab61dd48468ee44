// Package pages loads the local reference pages: one folder per page with a
// content.txt and an optional image.
package pages

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	filepathx "github.com/yargevad/filepathx"

	"snapsolve/internal/logging"
	"snapsolve/internal/models"
	"snapsolve/internal/utils"
)

const contentFile = "content.txt"

// imageExtensions is also the lookup priority when a folder has several images.
var imageExtensions = []string{"png", "jpg", "jpeg", "svg", "gif"}

// LoadAll reads every immediate subfolder of root, sorted by folder name.
// Folders without content.txt are skipped; only a missing or unreadable root
// fails the whole load.
func LoadAll(root string) models.PagesResult {
	root = strings.TrimSpace(root)
	if root == "" {
		return models.PagesResult{Success: false, Error: "pages directory is not set", Pages: []models.PageRecord{}}
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return models.PagesResult{Success: false, Error: fmt.Sprintf("read pages directory: %v", err), Pages: []models.PageRecord{}}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	pages := make([]models.PageRecord, 0, len(names))
	for _, name := range names {
		page, err := loadPage(filepath.Join(root, name), name)
		if err != nil {
			logging.L().Debugw("skipping page folder", "folder", name, "error", err)
			continue
		}
		pages = append(pages, page)
	}
	return models.PagesResult{Success: true, Pages: pages}
}

func loadPage(dir, name string) (models.PageRecord, error) {
	content, err := utils.ReadUTF8File(filepath.Join(dir, contentFile))
	if err != nil {
		return models.PageRecord{}, err
	}
	page := models.PageRecord{
		ID:      name,
		Name:    DisplayName(name),
		Content: content,
	}
	if img := findImage(dir); img != "" {
		uri, err := utils.FileDataURI(img)
		if err != nil {
			logging.L().Warnw("failed to encode page image", "path", img, "error", err)
		} else {
			page.Image = &uri
		}
	}
	return page, nil
}

// findImage returns the first image.<ext> in dir following imageExtensions
// order, matching the extension case-insensitively.
func findImage(dir string) string {
	matches, err := filepathx.Glob(filepath.Join(dir, "image.*"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	byExt := make(map[string]string, len(matches))
	for _, m := range matches {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(m), "."))
		if _, seen := byExt[ext]; !seen {
			byExt[ext] = m
		}
	}
	for _, ext := range imageExtensions {
		if m, ok := byExt[ext]; ok {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				return m
			}
		}
	}
	return ""
}

// DisplayName turns a folder name into the label shown in the page list.
func DisplayName(folder string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(folder)
	return strings.Join(strings.Fields(name), " ")
}
