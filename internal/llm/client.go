package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL points at the Groq OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultChatModel is the model used for answer synthesis.
	DefaultChatModel = "llama-3.1-8b-instant"
	// DefaultEmbeddingModel is the model used for chunk and query embeddings.
	// Indexing and querying must use the same model; a mismatch silently
	// degrades retrieval quality.
	DefaultEmbeddingModel = "text-embedding-ada-002"
	// DefaultEmbeddingDimensions is the vector dimension of the default model.
	DefaultEmbeddingDimensions = 1536

	chatTemperature = 0.2
	chatMaxTokens   = 2048
)

var (
	// ErrNoTexts is returned when an embedding batch is empty
	ErrNoTexts = errors.New("texts cannot be empty")
	// ErrWrongDimensions is returned when an embedding has unexpected dimensions
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// API defines the upstream calls the client depends on.
type API interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	CreateChatCompletion(ctx context.Context, system, user string) (string, error)
}

// GenerationResult is the typed outcome of a generation call. Callers branch
// on Err instead of recovering from the transport layer.
type GenerationResult struct {
	Text string
	Err  error
}

// Failed reports whether the generation call did not produce text.
func (r GenerationResult) Failed() bool {
	return r.Err != nil
}

// Client wraps an OpenAI-compatible API for embeddings and chat completion.
// Safe for concurrent use.
type Client struct {
	api        API
	dimensions int
}

type Config struct {
	APIKey              string
	BaseURL             string
	ChatModel           string
	EmbeddingModel      string
	EmbeddingDimensions int
}

type openAIAdapter struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
}

func newOpenAIAdapter(cfg Config) *openAIAdapter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	} else {
		clientCfg.BaseURL = DefaultBaseURL
	}

	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}

	return &openAIAdapter{
		client:         openai.NewClientWithConfig(clientCfg),
		chatModel:      chatModel,
		embeddingModel: openai.EmbeddingModel(embeddingModel),
	}
}

func (a *openAIAdapter) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: a.embeddingModel,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

func (a *openAIAdapter) CreateChatCompletion(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		TopP:        1,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no completion choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// NewClient creates a client with the given configuration.
func NewClient(cfg Config) *Client {
	dimensions := cfg.EmbeddingDimensions
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Client{
		api:        newOpenAIAdapter(cfg),
		dimensions: dimensions,
	}
}

// EmbedTexts generates one embedding per input text, preserving input order.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrNoTexts
	}

	vectors, err := c.api.CreateEmbeddings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	for _, v := range vectors {
		if len(v) != c.dimensions {
			return nil, ErrWrongDimensions
		}
	}

	return vectors, nil
}

// Generate sends a system/user prompt pair to the chat model and returns a
// typed result. Transport and API failures are carried in the result, never
// propagated as a Go error.
func (c *Client) Generate(ctx context.Context, system, user string) GenerationResult {
	text, err := c.api.CreateChatCompletion(ctx, system, user)
	if err != nil {
		return GenerationResult{Err: fmt.Errorf("chat completion failed: %w", err)}
	}
	return GenerationResult{Text: text}
}
