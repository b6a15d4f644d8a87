// Package models holds the uploaded asset record.
package models

import (
	"path/filepath"
	"strings"
	"time"
)

// Asset describes one uploaded image. Filename is the stored name under the
// upload directory; OriginalName is what the client sent.
type Asset struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	Name         string    `json:"name"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	Hash         string    `json:"hash"`
	URI          string    `json:"uri"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// AllowedTypes maps the accepted MIME types to the stored file extension.
var AllowedTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

// IsAllowed reports whether mimeType may be uploaded.
func IsAllowed(mimeType string) bool {
	_, ok := AllowedTypes[mimeType]
	return ok
}

// DisplayName derives a default name from the uploaded file name.
func DisplayName(originalName string) string {
	base := filepath.Base(strings.ReplaceAll(originalName, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
