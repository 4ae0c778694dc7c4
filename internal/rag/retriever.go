// ABOUTME: Retriever embeds a question and runs nearest-neighbor search over an index
// ABOUTME: Distinguishes an unbuilt index (error) from a built-but-empty one (empty result)
package rag

import (
	"context"
	"fmt"

	"deptchat/internal/models"
)

// Retriever answers questions with the closest indexed chunks
type Retriever struct {
	embedder Embedder
}

// NewRetriever creates a Retriever
func NewRetriever(embedder Embedder) *Retriever {
	return &Retriever{embedder: embedder}
}

// Retrieve returns the k chunks most similar to the question, closest
// first. A nil index means no build has succeeded yet and yields
// ErrIndexUnavailable; an empty index yields an empty result.
func (r *Retriever) Retrieve(ctx context.Context, idx *Index, question string, k int) ([]models.ScoredChunk, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be at least 1, got %d", k)
	}
	if idx == nil {
		return nil, ErrIndexUnavailable
	}
	if idx.Len() == 0 {
		return nil, nil
	}

	query, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, &EmbeddingServiceError{Err: err}
	}

	return idx.Search(query, k), nil
}
