// ABOUTME: Persisted vector index storage for SQLite
// ABOUTME: Vectors stored as little-endian float64 BLOBs; rebuild is full replacement
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"deptchat/internal/models"
)

// IndexStore handles the persisted chunk/vector index
type IndexStore struct {
	db *DB
}

// NewIndexStore creates a new IndexStore
func NewIndexStore(db *DB) *IndexStore {
	return &IndexStore{db: db}
}

// Replace atomically swaps the persisted index for a new chunk set.
// The old rows are deleted and the new ones inserted in one transaction,
// so a failed rebuild never leaves a half-written index behind.
func (s *IndexStore) Replace(generation int64, chunks []models.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("begin index replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM index_chunks`); err != nil {
		return fmt.Errorf("clearing old index: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO index_chunks (chunk_id, document_id, ordinal, content, vector, generation)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing index insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, chunk := range chunks {
		blob := vectorToBlob(vectors[i])
		if _, err := stmt.Exec(chunk.ChunkID, chunk.DocumentID, chunk.Ordinal, chunk.Content, blob, generation); err != nil {
			return fmt.Errorf("inserting chunk %d: %w", chunk.Ordinal, err)
		}
	}

	return tx.Commit()
}

// Load reads the persisted index in chunk order. Returns the generation,
// chunks, and vectors; generation 0 with no chunks means nothing persisted.
func (s *IndexStore) Load() (int64, []models.Chunk, [][]float64, error) {
	rows, err := s.db.Query(`
		SELECT chunk_id, document_id, ordinal, content, vector, generation
		FROM index_chunks
		ORDER BY ordinal ASC
	`)
	if err != nil {
		return 0, nil, nil, err
	}
	defer func() { _ = rows.Close() }()

	var (
		generation int64
		chunks     []models.Chunk
		vectors    [][]float64
	)

	for rows.Next() {
		var (
			chunk models.Chunk
			blob  []byte
			gen   int64
		)
		if err := rows.Scan(&chunk.ChunkID, &chunk.DocumentID, &chunk.Ordinal, &chunk.Content, &blob, &gen); err != nil {
			return 0, nil, nil, err
		}
		generation = gen
		chunks = append(chunks, chunk)
		vectors = append(vectors, blobToVector(blob))
	}

	return generation, chunks, vectors, rows.Err()
}

// MaxGeneration returns the highest generation ever persisted
func (s *IndexStore) MaxGeneration() (int64, error) {
	var gen sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(generation) FROM index_chunks`).Scan(&gen)
	if err != nil {
		return 0, err
	}
	if !gen.Valid {
		return 0, nil
	}
	return gen.Int64, nil
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
