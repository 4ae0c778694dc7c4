// ABOUTME: Document represents the department reference text the index is built from
// ABOUTME: Immutable once loaded; identified by its source path
package models

import (
	"fmt"
	"os"
	"strings"
)

// Document is the raw source text plus its identifier.
type Document struct {
	DocumentID string `json:"document_id"`
	Path       string `json:"path"`
	Content    string `json:"content"`
}

// LoadDocument reads a document from disk.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	content := string(data)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("document %s is empty", path)
	}
	return &Document{
		DocumentID: path,
		Path:       path,
		Content:    content,
	}, nil
}
