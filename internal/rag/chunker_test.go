// ABOUTME: Tests for deterministic overlapping document chunking
// ABOUTME: Verifies determinism, the overlap property, and parameter validation

package rag

import (
	"errors"
	"strings"
	"testing"

	"deptchat/internal/models"
)

func testDoc(content string) *models.Document {
	return &models.Document{
		DocumentID: "doc_test",
		Path:       "test.txt",
		Content:    content,
	}
}

func TestSplitDocument_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		maxSize int
		overlap int
	}{
		{"zero max size", 0, 0},
		{"negative max size", -5, 0},
		{"negative overlap", 10, -1},
		{"overlap equals max size", 10, 10},
		{"overlap exceeds max size", 10, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitDocument(testDoc("some text"), tt.maxSize, tt.overlap)
			if err == nil {
				t.Fatal("Expected error for invalid params")
			}
			var chunkErr *ChunkingError
			if !errors.As(err, &chunkErr) {
				t.Errorf("Expected ChunkingError, got %T", err)
			}
		})
	}
}

func TestSplitDocument_EmptyDocument(t *testing.T) {
	for _, content := range []string{"", "   ", "\t\n"} {
		_, err := SplitDocument(testDoc(content), 100, 10)
		if err == nil {
			t.Errorf("Expected error for content %q", content)
		}
	}
}

func TestSplitDocument_ShortDocumentSingleChunk(t *testing.T) {
	text := "short text"
	chunks, err := SplitDocument(testDoc(text), 100, 10)
	if err != nil {
		t.Fatalf("SplitDocument() error = %v", err)
	}

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != text {
		t.Errorf("Chunk content = %q, want %q", chunks[0].Content, text)
	}
	if chunks[0].Ordinal != 0 {
		t.Errorf("Ordinal = %d, want 0", chunks[0].Ordinal)
	}
}

func TestSplitDocument_Deterministic(t *testing.T) {
	text := strings.Repeat("The department offers many courses. ", 40)

	first, err := SplitDocument(testDoc(text), 100, 20)
	if err != nil {
		t.Fatalf("SplitDocument() error = %v", err)
	}
	second, err := SplitDocument(testDoc(text), 100, 20)
	if err != nil {
		t.Fatalf("SplitDocument() error = %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Chunk %d differs between runs", i)
		}
	}
}

func TestSplitDocument_OverlapProperty(t *testing.T) {
	text := strings.Repeat("abcdefghij", 30)
	maxSize, overlap := 50, 10

	chunks, err := SplitDocument(testDoc(text), maxSize, overlap)
	if err != nil {
		t.Fatalf("SplitDocument() error = %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}

	// The trailing overlap runes of chunk i equal the leading overlap
	// runes of chunk i+1, except possibly at the document boundary.
	for i := 0; i < len(chunks)-1; i++ {
		cur := []rune(chunks[i].Content)
		next := []rune(chunks[i+1].Content)
		if len(cur) < overlap || len(next) < overlap {
			continue
		}
		tail := string(cur[len(cur)-overlap:])
		head := string(next[:overlap])
		if tail != head {
			t.Errorf("Chunk %d/%d overlap mismatch: %q vs %q", i, i+1, tail, head)
		}
	}
}

func TestSplitDocument_NoEmptyChunks(t *testing.T) {
	// 61 runes with stride 30 would leave a 1-rune tail; make sure every
	// produced chunk is non-empty and the full text is covered.
	text := strings.Repeat("x", 61)
	chunks, err := SplitDocument(testDoc(text), 40, 10)
	if err != nil {
		t.Fatalf("SplitDocument() error = %v", err)
	}

	for i, chunk := range chunks {
		if chunk.Content == "" {
			t.Errorf("Chunk %d is empty", i)
		}
	}

	last := chunks[len(chunks)-1].Content
	if !strings.HasSuffix(text, last) {
		t.Error("Last chunk does not cover the document tail")
	}
}

func TestSplitDocument_DepartmentScenario(t *testing.T) {
	text := "CSC dept offers 4 courses: A, B, C, D."
	chunks, err := SplitDocument(testDoc(text), 20, 5)
	if err != nil {
		t.Fatalf("SplitDocument() error = %v", err)
	}

	if len(chunks) < 2 {
		t.Fatalf("Expected at least 2 chunks, got %d", len(chunks))
	}

	var joined strings.Builder
	for _, chunk := range chunks {
		joined.WriteString(chunk.Content)
	}
	if !strings.Contains(joined.String(), "courses") {
		t.Error("Chunks lost document content")
	}
}
