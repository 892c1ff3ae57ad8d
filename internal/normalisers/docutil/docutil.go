// Package docutil holds helpers shared by the format normalisers.
package docutil

import (
	"path/filepath"
	"strings"

	"github.com/KartikeyShuklaDev/HireSense-AI/internal/core/domain"
)

// NewDocument builds a normalised document for raw with the given content.
// Metadata is copied and tagged with the MIME type and format.
func NewDocument(raw *domain.RawDocument, title, content, format string) domain.Document {
	meta := CopyMetadata(raw.Metadata)
	if meta == nil {
		meta = make(map[string]any, 2)
	}
	meta["mime_type"] = raw.MIMEType
	if format != "" {
		meta["format"] = format
	}

	return domain.Document{
		Source:   raw.Source,
		URI:      raw.URI,
		Title:    title,
		Content:  content,
		Metadata: meta,
	}
}

// TitleFromURI derives a readable title from a file path:
// "/books/data_structures-3e.pdf" becomes "data structures 3e".
func TitleFromURI(uri string) string {
	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

// TitleFromMetadataOrURI prefers Metadata["title"] over the URI.
func TitleFromMetadataOrURI(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return TitleFromURI(raw.URI)
}

// FirstLine returns the first non-blank line of content, trimmed.
func FirstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// CopyMetadata creates a shallow copy of metadata.
func CopyMetadata(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
