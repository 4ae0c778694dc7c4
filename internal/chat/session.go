// ABOUTME: Conversation session: ordered turn history driving the RAG pipeline
// ABOUTME: Appends the user turn before generation; streaming falls back once to blocking
package chat

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"deptchat/internal/llm"
	"deptchat/internal/models"
	"deptchat/internal/rag"
)

// Generator produces answers for assembled prompts, whole or streamed.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
	StreamComplete(ctx context.Context, prompt string) (FragmentStream, error)
}

// FragmentStream is a finite, non-restartable sequence of answer fragments.
// Recv returns io.EOF on normal completion; any other error means the
// transport failed mid-answer.
type FragmentStream interface {
	Recv() (string, error)
	Close() error
}

// HistoryStore persists per-user chat history.
type HistoryStore interface {
	Save(username string, role models.Role, content string, timestamp time.Time) error
	Messages(username string) ([]models.Turn, error)
	Clear(username string) error
}

// Session holds the ordered conversation for one authenticated user and
// drives retrieval and generation. At most one generation is in flight at
// a time; the mutex serializes Ask/AskStream.
type Session struct {
	username  string
	index     *rag.Index
	retriever *rag.Retriever
	generator Generator
	history   HistoryStore
	template  rag.PromptTemplate
	topK      int

	mu    sync.Mutex
	turns []models.Turn
}

// NewSession creates a session for a user, restoring persisted history.
// The index and generator are constructed once at process start and passed
// in by reference; the session never rebuilds them.
func NewSession(username string, index *rag.Index, retriever *rag.Retriever, generator Generator, history HistoryStore, template rag.PromptTemplate, topK int) (*Session, error) {
	turns, err := history.Messages(username)
	if err != nil {
		return nil, err
	}

	return &Session{
		username:  username,
		index:     index,
		retriever: retriever,
		generator: generator,
		history:   history,
		template:  template,
		topK:      topK,
		turns:     turns,
	}, nil
}

// Username returns the owning user
func (s *Session) Username() string {
	return s.username
}

// Turns returns a copy of the conversation history in append order
func (s *Session) Turns() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// ClearHistory drops the conversation, in memory and persisted
func (s *Session) ClearHistory() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.history.Clear(s.username); err != nil {
		return err
	}
	s.turns = nil
	return nil
}

// Ask answers a question in blocking mode. The user turn is appended and
// persisted before generation starts, so a failed turn still shows the
// question; the assistant turn is appended only on success.
func (s *Session) Ask(ctx context.Context, question string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompt, err := s.beginTurn(ctx, question)
	if err != nil {
		return "", err
	}

	answer, err := s.generator.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	return answer, s.finishTurn(answer)
}

// AskStream answers a question in streaming mode, invoking onFragment for
// each fragment in emission order. Fallback policy: any streaming failure,
// at start or mid-stream, falls back exactly once to blocking generation;
// if that also fails the error is surfaced and no assistant turn is
// written. Fragments already delivered are not retracted — the returned
// answer is the finalized text the caller should render.
func (s *Session) AskStream(ctx context.Context, question string, onFragment func(string)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prompt, err := s.beginTurn(ctx, question)
	if err != nil {
		return "", err
	}

	answer, streamErr := s.consumeStream(ctx, prompt, onFragment)
	if streamErr != nil {
		// One fallback attempt in blocking mode, then surface.
		answer, err = s.generator.Complete(ctx, prompt)
		if err != nil {
			return "", err
		}
	}

	return answer, s.finishTurn(answer)
}

// beginTurn appends and persists the user turn, then assembles the prompt.
// Caller must hold the mutex.
func (s *Session) beginTurn(ctx context.Context, question string) (string, error) {
	userTurn, err := models.NewTurn(models.RoleUser, question)
	if err != nil {
		return "", err
	}

	s.turns = append(s.turns, *userTurn)
	if err := s.history.Save(s.username, userTurn.Role, userTurn.Content, userTurn.Timestamp); err != nil {
		return "", err
	}

	results, err := s.retriever.Retrieve(ctx, s.index, question, s.topK)
	if err != nil {
		return "", err
	}

	return rag.AssemblePrompt(rag.ContextText(results), question, s.template), nil
}

// finishTurn appends and persists the assistant turn. Caller must hold the
// mutex. The turn is built directly because an empty-but-valid answer is
// still a legitimate assistant turn.
func (s *Session) finishTurn(answer string) error {
	turn := models.Turn{
		Role:      models.RoleAssistant,
		Content:   answer,
		Timestamp: time.Now().UTC(),
	}

	s.turns = append(s.turns, turn)
	return s.history.Save(s.username, turn.Role, turn.Content, turn.Timestamp)
}

// consumeStream drains a fragment stream, concatenating in emission order
func (s *Session) consumeStream(ctx context.Context, prompt string, onFragment func(string)) (string, error) {
	stream, err := s.generator.StreamComplete(ctx, prompt)
	if err != nil {
		return "", err
	}
	defer func() { _ = stream.Close() }()

	var sb strings.Builder
	for {
		frag, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return sb.String(), err
		}
		sb.WriteString(frag)
		if onFragment != nil {
			onFragment(frag)
		}
	}
}

// clientGenerator adapts the concrete OpenAI client to the Generator
// interface (the concrete stream type does not satisfy it directly).
type clientGenerator struct {
	client *llm.Client
}

// NewGenerator wraps the OpenAI client as a Generator
func NewGenerator(client *llm.Client) Generator {
	return clientGenerator{client: client}
}

func (g clientGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return g.client.Complete(ctx, prompt)
}

func (g clientGenerator) StreamComplete(ctx context.Context, prompt string) (FragmentStream, error) {
	stream, err := g.client.StreamComplete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return stream, nil
}
