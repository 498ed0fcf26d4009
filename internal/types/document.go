package types

import (
	"strings"
	"time"
)

// UploadedDocument is the metadata of a file the user selected locally.
// The file contents never leave the client; URL is the client's own
// ephemeral reference (typically a blob: URL).
type UploadedDocument struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Size       int64     `json:"size"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DocumentInput is what the client registers when a file is selected.
type DocumentInput struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
	Size int64  `json:"size" validate:"gte=0"`
	URL  string `json:"url"`
}

func (d *DocumentInput) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.TrimSpace(d.Type)
	d.URL = strings.TrimSpace(d.URL)
}
