// ABOUTME: Splits the reference document into overlapping rune-based chunks
// ABOUTME: Deterministic: same text and parameters always yield the same sequence
package rag

import (
	"fmt"
	"strings"

	"deptchat/internal/models"
)

// SplitDocument splits a document into overlapping chunks of at most maxSize
// runes, each sharing the trailing overlap runes with its successor. A
// document shorter than maxSize yields exactly one chunk. Chunk IDs are
// derived from the ordinal so re-chunking is reproducible.
func SplitDocument(doc *models.Document, maxSize, overlap int) ([]models.Chunk, error) {
	if maxSize <= 0 {
		return nil, &ChunkingError{Reason: fmt.Sprintf("max size must be positive, got %d", maxSize)}
	}
	if overlap < 0 || overlap >= maxSize {
		return nil, &ChunkingError{Reason: fmt.Sprintf("overlap must be in [0, max size), got %d", overlap)}
	}
	if doc == nil || strings.TrimSpace(doc.Content) == "" {
		return nil, &ChunkingError{Reason: "document is empty"}
	}

	runes := []rune(doc.Content)
	stride := maxSize - overlap

	var chunks []models.Chunk
	for start := 0; start < len(runes); start += stride {
		end := start + maxSize
		if end > len(runes) {
			end = len(runes)
		}

		chunks = append(chunks, models.Chunk{
			ChunkID:    fmt.Sprintf("chunk_%04d", len(chunks)),
			DocumentID: doc.DocumentID,
			Ordinal:    len(chunks),
			Content:    string(runes[start:end]),
		})

		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}
