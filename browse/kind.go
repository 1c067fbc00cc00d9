// Package browse lists one directory level of the media tree with
// search/type filtering, sorting and per-directory statistics.
package browse

import (
	"mime"
	"path/filepath"
	"strings"
)

// Coarse file kinds derived from the filename extension.
const (
	KindImage = "image"
	KindVideo = "video"
	KindOther = "other"

	// KindAll is the filter sentinel that disables kind filtering.
	KindAll = "all"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".bmp": true, ".tiff": true, ".svg": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".webm": true, ".ogg": true, ".mov": true,
	".avi": true, ".mkv": true, ".m4v": true,
}

// Classify returns the coarse kind for a filename.
func Classify(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case imageExtensions[ext]:
		return KindImage
	case videoExtensions[ext]:
		return KindVideo
	default:
		return KindOther
	}
}

// MimeFor returns the MIME type for a filename from its extension.
func MimeFor(name string) string {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if mimeType == "" {
		return "application/octet-stream"
	}
	return mimeType
}
