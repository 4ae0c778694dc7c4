// ABOUTME: Error taxonomy for the retrieval pipeline
// ABOUTME: Distinguishes document, embedding, and index failures for callers
package rag

import (
	"errors"
	"fmt"
)

// ErrIndexUnavailable is returned when retrieval is attempted before any
// index has been built. Distinct from a built-but-empty index, which
// retrieves an empty context without error.
var ErrIndexUnavailable = errors.New("index unavailable: build it first")

// ChunkingError indicates a malformed or unreadable document. Fatal to an
// index build.
type ChunkingError struct {
	Reason string
}

func (e *ChunkingError) Error() string {
	return "chunking error: " + e.Reason
}

// EmbeddingServiceError wraps a failure from the upstream embedding service,
// including unexpected vector dimensions. Aborts the current build or query
// without touching any previously published index.
type EmbeddingServiceError struct {
	Err error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("embedding service error: %v", e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error {
	return e.Err
}
