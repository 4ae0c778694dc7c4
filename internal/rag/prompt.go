// ABOUTME: Assembles the grounded generation prompt from retrieved context and a question
// ABOUTME: Pure string composition; scope judgment is delegated to the model via instructions
package rag

import (
	"fmt"
	"strings"

	"deptchat/internal/models"
)

// Canned fallback messages the model is instructed to emit verbatim.
// The first covers in-scope questions the context cannot answer; the
// second covers questions outside the department entirely.
const (
	FallbackNoDetails  = "I don't have details on that in the department reference material."
	FallbackOutOfScope = "I can only answer questions about the department, and that is outside that scope."
)

// PromptTemplate holds the fixed instruction pieces of a generation request
type PromptTemplate struct {
	Persona    string
	NoDetails  string
	OutOfScope string
}

// DefaultTemplate returns the standard department-assistant template
func DefaultTemplate() PromptTemplate {
	return PromptTemplate{
		Persona:    "You are the assistant for the university's Computer Science (CSC) department. You answer questions about the department using only the reference excerpts provided below.",
		NoDetails:  FallbackNoDetails,
		OutOfScope: FallbackOutOfScope,
	}
}

// ContextText concatenates retrieved chunks into a single context block,
// preserving retrieval order.
func ContextText(results []models.ScoredChunk) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}

// AssemblePrompt interpolates context and question into the template.
// Deterministic: the same inputs always produce the same prompt, and an
// empty context still yields a well-formed prompt.
func AssemblePrompt(contextText, question string, tmpl PromptTemplate) string {
	var sb strings.Builder

	sb.WriteString(tmpl.Persona)
	sb.WriteString("\n\nReference excerpts:\n")
	if contextText == "" {
		sb.WriteString("(none available)\n")
	} else {
		sb.WriteString(contextText)
		sb.WriteString("\n")
	}

	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "If the question is about the department but the excerpts do not contain the answer, reply exactly: %q\n", tmpl.NoDetails)
	fmt.Fprintf(&sb, "If the question is not about the department at all, reply exactly: %q\n", tmpl.OutOfScope)

	return sb.String()
}
