package models

// PageRecord is a snapshot of one reference page folder.
type PageRecord struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

// PagesResult is what a full pages load hands to the UI.
type PagesResult struct {
	Success bool         `json:"success"`
	Error   string       `json:"error,omitempty"`
	Pages   []PageRecord `json:"pages"`
}
