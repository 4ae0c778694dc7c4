// ABOUTME: Immutable in-memory index snapshot and the builder that produces it
// ABOUTME: Builds are atomic: embed everything, persist in one transaction, then publish
package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"deptchat/internal/models"
)

// Embedder turns text into fixed-dimension vectors via an external service.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// IndexStore persists chunk/vector pairs durably.
type IndexStore interface {
	Replace(generation int64, chunks []models.Chunk, vectors [][]float64) error
	Load() (int64, []models.Chunk, [][]float64, error)
	MaxGeneration() (int64, error)
}

// Index is an immutable snapshot of embedded chunks. Once published it is
// never mutated; a rebuild produces a fresh Index with a higher generation.
type Index struct {
	generation int64
	chunks     []models.Chunk
	vectors    [][]float64
}

// NewIndex creates an index snapshot from parallel chunk and vector slices
func NewIndex(generation int64, chunks []models.Chunk, vectors [][]float64) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}
	return &Index{
		generation: generation,
		chunks:     chunks,
		vectors:    vectors,
	}, nil
}

// Generation returns the build generation of this snapshot
func (idx *Index) Generation() int64 {
	return idx.generation
}

// Len returns the number of indexed chunks
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Search returns the k chunks closest to the query vector by cosine
// distance, closest first. Ties keep original chunk order (stable sort).
func (idx *Index) Search(query []float64, k int) []models.ScoredChunk {
	results := make([]models.ScoredChunk, 0, len(idx.chunks))
	for i, chunk := range idx.chunks {
		results = append(results, models.ScoredChunk{
			Chunk:    chunk,
			Distance: 1 - CosineSimilarity(query, idx.vectors[i]),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > k {
		results = results[:k]
	}
	return results
}

// Builder constructs and persists index snapshots
type Builder struct {
	embedder  Embedder
	store     IndexStore
	dimension int
}

// NewBuilder creates a Builder. dimension is the expected embedding width;
// any vector of a different width aborts the build.
func NewBuilder(embedder Embedder, store IndexStore, dimension int) *Builder {
	return &Builder{
		embedder:  embedder,
		store:     store,
		dimension: dimension,
	}
}

// Build chunks the document, embeds every chunk, and replaces the persisted
// index in a single transaction. Nothing is written until every embedding
// has arrived with the expected dimension, so a failed build leaves the
// previous index untouched.
func (b *Builder) Build(ctx context.Context, doc *models.Document, maxSize, overlap int) (*Index, error) {
	chunks, err := SplitDocument(doc, maxSize, overlap)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, &EmbeddingServiceError{Err: err}
	}
	if len(vectors) != len(chunks) {
		return nil, &EmbeddingServiceError{Err: fmt.Errorf("expected %d vectors, got %d", len(chunks), len(vectors))}
	}
	for i, vec := range vectors {
		if len(vec) != b.dimension {
			return nil, &EmbeddingServiceError{Err: fmt.Errorf("chunk %d: expected dimension %d, got %d", i, b.dimension, len(vec))}
		}
	}

	prev, err := b.store.MaxGeneration()
	if err != nil {
		return nil, fmt.Errorf("reading index generation: %w", err)
	}
	generation := prev + 1

	if err := b.store.Replace(generation, chunks, vectors); err != nil {
		return nil, fmt.Errorf("persisting index: %w", err)
	}

	return NewIndex(generation, chunks, vectors)
}

// Load restores the most recently persisted index snapshot. Returns nil
// (and no error) when nothing has been persisted yet.
func (b *Builder) Load() (*Index, error) {
	generation, chunks, vectors, err := b.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading persisted index: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil
	}
	return NewIndex(generation, chunks, vectors)
}

// CosineSimilarity calculates cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
