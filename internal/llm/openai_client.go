// ABOUTME: OpenAI client for embeddings and answer generation
// ABOUTME: Embeddings retry with backoff; generation is never auto-retried
package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"deptchat/internal/util"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     time.Second * 2,
	}
}

// Client wraps the OpenAI API for the embedding and generation services
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a client with default configuration
func NewClient(apiKey string) (*Client, error) {
	return NewClientWithConfig(DefaultConfig(apiKey))
}

// NewClientWithConfig creates a client with custom configuration
func NewClientWithConfig(config *ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &Client{
		client:         openai.NewClient(config.APIKey),
		chatModel:      config.ChatModel,
		embeddingModel: openai.EmbeddingModel(config.EmbeddingModel),
		timeout:        config.Timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// Embed generates an embedding vector for a single text
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embedding vectors for a list of texts, preserving
// input order. Retries transient failures with exponential backoff.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)

		resp, err := c.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}

		if len(resp.Data) != len(texts) {
			lastErr = fmt.Errorf("attempt %d: expected %d embeddings, got %d", attempt+1, len(texts), len(resp.Data))
			continue
		}

		vectors := make([][]float64, len(texts))
		for _, item := range resp.Data {
			vector := make([]float64, len(item.Embedding))
			for i, v := range item.Embedding {
				vector[i] = float64(v)
			}
			vectors[item.Index] = vector
		}

		return vectors, nil
	}

	return nil, fmt.Errorf("failed to generate embeddings after %d attempts: %w", c.maxRetries+1, lastErr)
}

// Complete sends the full prompt and waits for the complete answer.
// Failures are wrapped in GenerationServiceError; retry policy belongs to
// the caller.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", &GenerationServiceError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationServiceError{Err: fmt.Errorf("no completion choices returned")}
	}

	return resp.Choices[0].Message.Content, nil
}

// StreamComplete sends the prompt and returns a stream of answer fragments.
// The stream terminates with io.EOF; any other error from Recv means the
// transport failed mid-answer. It is not restartable.
func (c *Client) StreamComplete(ctx context.Context, prompt string) (*CompletionStream, error) {
	stream, err := c.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.2,
		Stream:      true,
	})
	if err != nil {
		return nil, &GenerationServiceError{Err: err}
	}

	return &CompletionStream{inner: stream}, nil
}

// CompletionStream is a finite, non-restartable sequence of answer fragments
type CompletionStream struct {
	inner *openai.ChatCompletionStream
}

// Recv returns the next non-empty fragment in emission order. Returns
// io.EOF when the service signals completion, or a GenerationServiceError
// on transport failure.
func (s *CompletionStream) Recv() (string, error) {
	for {
		resp, err := s.inner.Recv()
		if err != nil {
			if isEOF(err) {
				return "", err
			}
			return "", &GenerationServiceError{Err: err}
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

// Close releases the underlying HTTP stream
func (s *CompletionStream) Close() error {
	return s.inner.Close()
}
