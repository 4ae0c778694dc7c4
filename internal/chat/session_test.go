// ABOUTME: Tests for conversation session ordering and the streaming fallback policy
// ABOUTME: Uses mock generators and an in-memory history store

package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"deptchat/internal/models"
	"deptchat/internal/rag"
)

// stubEmbedder returns the same vector for every text so retrieval always
// succeeds without caring about similarity.
type stubEmbedder struct{}

func (stubEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	return []float64{1, 0}, nil
}

func (stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	vecs := make([][]float64, len(texts))
	for i := range texts {
		vecs[i] = []float64{1, 0}
	}
	return vecs, nil
}

// memHistory is an in-memory HistoryStore.
type memHistory struct {
	turns   map[string][]models.Turn
	saveErr error
}

func newMemHistory() *memHistory {
	return &memHistory{turns: make(map[string][]models.Turn)}
}

func (m *memHistory) Save(username string, role models.Role, content string, timestamp time.Time) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.turns[username] = append(m.turns[username], models.Turn{Role: role, Content: content, Timestamp: timestamp})
	return nil
}

func (m *memHistory) Messages(username string) ([]models.Turn, error) {
	return m.turns[username], nil
}

func (m *memHistory) Clear(username string) error {
	delete(m.turns, username)
	return nil
}

// fakeStream emits canned fragments, then failErr or io.EOF.
type fakeStream struct {
	frags   []string
	failErr error
	pos     int
	closed  bool
}

func (f *fakeStream) Recv() (string, error) {
	if f.pos < len(f.frags) {
		frag := f.frags[f.pos]
		f.pos++
		return frag, nil
	}
	if f.failErr != nil {
		return "", f.failErr
	}
	return "", io.EOF
}

func (f *fakeStream) Close() error {
	f.closed = true
	return nil
}

// fakeGenerator answers with a fixed string, with independent failure knobs
// for the blocking and streaming paths.
type fakeGenerator struct {
	answer        string
	echoPrompt    bool
	completeErr   error
	streamErr     error
	stream        *fakeStream
	completeCalls int
	streamCalls   int
}

func (g *fakeGenerator) Complete(_ context.Context, prompt string) (string, error) {
	g.completeCalls++
	if g.completeErr != nil {
		return "", g.completeErr
	}
	if g.echoPrompt {
		return prompt, nil
	}
	return g.answer, nil
}

func (g *fakeGenerator) StreamComplete(_ context.Context, _ string) (FragmentStream, error) {
	g.streamCalls++
	if g.streamErr != nil {
		return nil, g.streamErr
	}
	if g.stream != nil {
		return g.stream, nil
	}
	return &fakeStream{frags: []string{g.answer}}, nil
}

func newTestIndex(t *testing.T, contents ...string) *rag.Index {
	t.Helper()

	chunks := make([]models.Chunk, len(contents))
	vectors := make([][]float64, len(contents))
	for i, content := range contents {
		chunks[i] = models.Chunk{ChunkID: fmt.Sprintf("chunk_%04d", i), Ordinal: i, Content: content}
		vectors[i] = []float64{1, 0}
	}

	index, err := rag.NewIndex(1, chunks, vectors)
	if err != nil {
		t.Fatalf("NewIndex() error = %v", err)
	}
	return index
}

func newTestSession(t *testing.T, index *rag.Index, gen Generator, history HistoryStore) *Session {
	t.Helper()

	session, err := NewSession("alice", index, rag.NewRetriever(stubEmbedder{}), gen, history, rag.DefaultTemplate(), 2)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return session
}

func TestSession_AskAppendsTurnPairs(t *testing.T) {
	gen := &fakeGenerator{answer: "an answer"}
	history := newMemHistory()
	session := newTestSession(t, newTestIndex(t, "some context"), gen, history)

	questions := []string{"first?", "second?", "third?"}
	for _, q := range questions {
		if _, err := session.Ask(context.Background(), q); err != nil {
			t.Fatalf("Ask(%q) error = %v", q, err)
		}
	}

	turns := session.Turns()
	if len(turns) != 2*len(questions) {
		t.Fatalf("Turns = %d, want %d", len(turns), 2*len(questions))
	}
	for i, turn := range turns {
		wantRole := models.RoleUser
		if i%2 == 1 {
			wantRole = models.RoleAssistant
		}
		if turn.Role != wantRole {
			t.Errorf("Turn %d role = %s, want %s", i, turn.Role, wantRole)
		}
	}

	persisted, _ := history.Messages("alice")
	if len(persisted) != len(turns) {
		t.Errorf("Persisted %d turns, want %d", len(persisted), len(turns))
	}
}

func TestSession_FailedGenerationKeepsUserTurn(t *testing.T) {
	gen := &fakeGenerator{completeErr: errors.New("model unavailable")}
	history := newMemHistory()
	session := newTestSession(t, newTestIndex(t, "some context"), gen, history)

	_, err := session.Ask(context.Background(), "doomed question")
	if err == nil {
		t.Fatal("Expected error from failing generator")
	}

	turns := session.Turns()
	if len(turns) != 1 {
		t.Fatalf("Turns = %d, want 1 (user only)", len(turns))
	}
	if turns[0].Role != models.RoleUser || turns[0].Content != "doomed question" {
		t.Errorf("Surviving turn = %+v, want the user question", turns[0])
	}

	persisted, _ := history.Messages("alice")
	if len(persisted) != 1 {
		t.Errorf("Persisted %d turns, want 1", len(persisted))
	}
}

func TestSession_EmptyQuestionRejected(t *testing.T) {
	gen := &fakeGenerator{answer: "x"}
	session := newTestSession(t, newTestIndex(t, "ctx"), gen, newMemHistory())

	for _, q := range []string{"", "   "} {
		if _, err := session.Ask(context.Background(), q); err == nil {
			t.Errorf("Expected error for question %q", q)
		}
	}
	if len(session.Turns()) != 0 {
		t.Error("Rejected question must not append a turn")
	}
}

func TestSession_NilIndexSurfacesUnavailable(t *testing.T) {
	gen := &fakeGenerator{answer: "x"}
	session := newTestSession(t, nil, gen, newMemHistory())

	_, err := session.Ask(context.Background(), "is anything indexed?")
	if !errors.Is(err, rag.ErrIndexUnavailable) {
		t.Fatalf("Expected ErrIndexUnavailable, got %v", err)
	}

	// The user turn was already appended before retrieval ran.
	turns := session.Turns()
	if len(turns) != 1 || turns[0].Role != models.RoleUser {
		t.Errorf("Turns = %+v, want single user turn", turns)
	}
	if gen.completeCalls != 0 {
		t.Error("Generator must not run without an index")
	}
}

func TestSession_AskStreamMatchesBlocking(t *testing.T) {
	stream := &fakeStream{frags: []string{"The answer ", "is ", "42."}}
	gen := &fakeGenerator{stream: stream}
	session := newTestSession(t, newTestIndex(t, "ctx"), gen, newMemHistory())

	var got []string
	answer, err := session.AskStream(context.Background(), "question?", func(frag string) {
		got = append(got, frag)
	})
	if err != nil {
		t.Fatalf("AskStream() error = %v", err)
	}

	if answer != "The answer is 42." {
		t.Errorf("Answer = %q", answer)
	}
	if strings.Join(got, "") != answer {
		t.Errorf("Fragments %q do not concatenate to answer %q", got, answer)
	}
	if !stream.closed {
		t.Error("Stream was not closed")
	}

	turns := session.Turns()
	if len(turns) != 2 || turns[1].Content != answer {
		t.Errorf("Assistant turn not recorded with streamed answer")
	}
}

func TestSession_StreamStartFailureFallsBackOnce(t *testing.T) {
	gen := &fakeGenerator{answer: "blocking answer", streamErr: errors.New("stream refused")}
	session := newTestSession(t, newTestIndex(t, "ctx"), gen, newMemHistory())

	answer, err := session.AskStream(context.Background(), "question?", nil)
	if err != nil {
		t.Fatalf("AskStream() error = %v", err)
	}

	if answer != "blocking answer" {
		t.Errorf("Answer = %q, want fallback result", answer)
	}
	if gen.streamCalls != 1 || gen.completeCalls != 1 {
		t.Errorf("Calls stream=%d complete=%d, want 1 and 1", gen.streamCalls, gen.completeCalls)
	}
}

func TestSession_MidStreamFailureFallsBack(t *testing.T) {
	stream := &fakeStream{frags: []string{"partial ", "output "}, failErr: errors.New("connection reset")}
	gen := &fakeGenerator{answer: "complete blocking answer", stream: stream}
	session := newTestSession(t, newTestIndex(t, "ctx"), gen, newMemHistory())

	var frags []string
	answer, err := session.AskStream(context.Background(), "question?", func(frag string) {
		frags = append(frags, frag)
	})
	if err != nil {
		t.Fatalf("AskStream() error = %v", err)
	}

	if answer != "complete blocking answer" {
		t.Errorf("Answer = %q, want the blocking result", answer)
	}
	if len(frags) != 2 {
		t.Errorf("Delivered %d fragments before failure, want 2", len(frags))
	}

	// The recorded assistant turn holds the finalized answer, not the
	// partial fragments.
	turns := session.Turns()
	if turns[len(turns)-1].Content != answer {
		t.Errorf("Assistant turn = %q, want %q", turns[len(turns)-1].Content, answer)
	}
}

func TestSession_FallbackFailureSurfaces(t *testing.T) {
	gen := &fakeGenerator{
		streamErr:   errors.New("stream refused"),
		completeErr: errors.New("model unavailable"),
	}
	history := newMemHistory()
	session := newTestSession(t, newTestIndex(t, "ctx"), gen, history)

	_, err := session.AskStream(context.Background(), "question?", nil)
	if err == nil {
		t.Fatal("Expected error after fallback also failed")
	}
	if gen.streamCalls != 1 || gen.completeCalls != 1 {
		t.Errorf("Calls stream=%d complete=%d, want exactly one each", gen.streamCalls, gen.completeCalls)
	}

	turns := session.Turns()
	if len(turns) != 1 {
		t.Errorf("Turns = %d, want 1 (no assistant turn on failure)", len(turns))
	}
}

func TestSession_RestoresPersistedHistory(t *testing.T) {
	history := newMemHistory()
	_ = history.Save("alice", models.RoleUser, "earlier question", time.Now().UTC())
	_ = history.Save("alice", models.RoleAssistant, "earlier answer", time.Now().UTC())

	session := newTestSession(t, newTestIndex(t, "ctx"), &fakeGenerator{answer: "x"}, history)

	turns := session.Turns()
	if len(turns) != 2 {
		t.Fatalf("Restored %d turns, want 2", len(turns))
	}
	if turns[0].Content != "earlier question" || turns[1].Content != "earlier answer" {
		t.Error("History restored out of order")
	}
}

func TestSession_ClearHistory(t *testing.T) {
	history := newMemHistory()
	session := newTestSession(t, newTestIndex(t, "ctx"), &fakeGenerator{answer: "x"}, history)

	if _, err := session.Ask(context.Background(), "question?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if err := session.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}

	if len(session.Turns()) != 0 {
		t.Error("In-memory turns survived clear")
	}
	persisted, _ := history.Messages("alice")
	if len(persisted) != 0 {
		t.Error("Persisted turns survived clear")
	}
}

func TestSession_DepartmentScenario(t *testing.T) {
	// An echoing generator returns the assembled prompt, so the answer
	// must carry the retrieved course list through to the caller.
	index := newTestIndex(t, "CSC dept offers 4 courses: A, B, C, D.")
	gen := &fakeGenerator{echoPrompt: true}
	session := newTestSession(t, index, gen, newMemHistory())

	answer, err := session.Ask(context.Background(), "What courses does the dept offer?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if !strings.Contains(answer, "A, B, C, D") {
		t.Errorf("Answer does not carry the course list: %q", answer)
	}
}

func TestSession_OutOfScopeSentinel(t *testing.T) {
	gen := &fakeGenerator{answer: rag.FallbackOutOfScope}
	session := newTestSession(t, newTestIndex(t, "department info"), gen, newMemHistory())

	answer, err := session.Ask(context.Background(), "What's a good pasta recipe?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}
	if answer != rag.FallbackOutOfScope {
		t.Errorf("Answer = %q, want the out-of-scope message verbatim", answer)
	}

	// The sentinel reply is still a recorded assistant turn.
	turns := session.Turns()
	if len(turns) != 2 || turns[1].Content != rag.FallbackOutOfScope {
		t.Error("Out-of-scope reply was not recorded as an assistant turn")
	}
}
