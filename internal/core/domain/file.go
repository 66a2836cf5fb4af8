package domain

import (
	"strings"
	"time"
)

// File is the metadata record of an uploaded object. The bytes live in the object store.
type File struct {
	ID          string            `json:"id"`
	WorkspaceID string            `json:"workspace_id"`
	ChannelID   string            `json:"channel_id,omitempty"`
	Filename    string            `json:"filename"`
	ContentType string            `json:"content_type"`
	Length      int64             `json:"length"`
	UploadedBy  string            `json:"uploaded_by,omitempty"`
	UploadedAt  time.Time         `json:"uploaded_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// fileCategories maps short category names to MIME prefixes.
var fileCategories = map[string]string{
	"image":    "image/",
	"images":   "image/",
	"video":    "video/",
	"audio":    "audio/",
	"text":     "text/",
	"pdf":      "application/pdf",
	"zip":      "application/zip",
	"json":     "application/json",
	"document": "application/vnd.openxmlformats-officedocument.wordprocessingml",
}

// ContentTypePrefix turns a file type filter into the content type prefix it selects.
// A full MIME type ("image/png") selects itself; a category ("image") selects its family.
func ContentTypePrefix(fileType string) string {
	ft := strings.ToLower(strings.TrimSpace(fileType))
	if ft == "" {
		return ""
	}
	if strings.Contains(ft, "/") {
		return ft
	}
	if prefix, ok := fileCategories[ft]; ok {
		return prefix
	}
	return ft + "/"
}
