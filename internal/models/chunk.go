// ABOUTME: Chunk represents an overlapping slice of the reference document
// ABOUTME: The unit of retrieval for the RAG pipeline
package models

// Chunk is a contiguous slice of a document's text. Ordinal records the
// position in the original chunk sequence and doubles as the tiebreaker
// for equal-distance retrieval results.
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	DocumentID string `json:"document_id"`
	Ordinal    int    `json:"ordinal"`
	Content    string `json:"content"`
}
