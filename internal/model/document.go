package model

import (
	"fmt"
	"time"
)

// Document is a user-owned record pointing at externally stored content.
// It is immutable once added to a store.
type Document struct {
	ID         string    `json:"id" yaml:"id"`
	Name       string    `json:"name" yaml:"name"`
	ContentRef string    `json:"content_ref" yaml:"content_ref"`
	Category   string    `json:"category" yaml:"category"`
	UploadedAt time.Time `json:"uploaded_at" yaml:"uploaded_at"`
	MimeType   string    `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	SizeBytes  int64     `json:"size_bytes" yaml:"size_bytes"`
}

// DocumentMeta is what a caller supplies when adding a document.
type DocumentMeta struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	ContentRef string `json:"content_ref"`
	MimeType   string `json:"mime_type,omitempty"`
	SizeBytes  int64  `json:"size_bytes"`
}

func (m *DocumentMeta) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("document name is required")
	}
	if m.SizeBytes < 0 {
		return fmt.Errorf("document size cannot be negative")
	}
	return nil
}
