// ABOUTME: Error types for the generation service boundary
// ABOUTME: Keeps upstream LLM failures distinguishable from valid empty answers
package llm

import (
	"errors"
	"fmt"
	"io"
)

// GenerationServiceError wraps an upstream LLM failure (network, auth, rate
// limit, or a mid-stream transport break). Never produced for an empty but
// valid answer.
type GenerationServiceError struct {
	Err error
}

func (e *GenerationServiceError) Error() string {
	return fmt.Sprintf("generation service error: %v", e.Err)
}

func (e *GenerationServiceError) Unwrap() error {
	return e.Err
}

// isEOF reports whether err is the normal end-of-stream signal
func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}
