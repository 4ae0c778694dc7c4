// ABOUTME: Embedding models for vector storage and semantic search
// ABOUTME: Defines Embedding and ScoredChunk structures
package models

import "time"

// Embedding represents a stored embedding vector for a chunk
type Embedding struct {
	ChunkID   string    `json:"chunk_id"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// ScoredChunk is a retrieval result: a chunk and its cosine distance
// from the query (smaller is closer).
type ScoredChunk struct {
	Chunk    Chunk   `json:"chunk"`
	Distance float64 `json:"distance"`
}
