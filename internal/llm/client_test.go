package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAPI is a mock for the upstream OpenAI-compatible API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float32), args.Error(1)
}

func (m *MockAPI) CreateChatCompletion(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func TestClient_EmbedTexts_Success(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI, dimensions: 3}

	ctx := context.Background()
	texts := []string{"first chunk", "second chunk"}
	expected := [][]float32{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}}

	mockAPI.On("CreateEmbeddings", ctx, texts).Return(expected, nil)

	vectors, err := client.EmbedTexts(ctx, texts)

	require.NoError(t, err)
	assert.Equal(t, expected, vectors)
	mockAPI.AssertExpectations(t)
}

func TestClient_EmbedTexts_EmptyInput(t *testing.T) {
	client := NewClient(Config{APIKey: "test"})

	vectors, err := client.EmbedTexts(context.Background(), nil)

	assert.Error(t, err)
	assert.Nil(t, vectors)
	assert.Equal(t, ErrNoTexts, err)
}

func TestClient_EmbedTexts_WrongDimensions(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI, dimensions: 3}

	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).
		Return([][]float32{{0.1, 0.2}}, nil)

	vectors, err := client.EmbedTexts(context.Background(), []string{"text"})

	assert.Error(t, err)
	assert.Nil(t, vectors)
	assert.Equal(t, ErrWrongDimensions, err)
}

func TestClient_EmbedTexts_APIError(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI, dimensions: 3}

	mockAPI.On("CreateEmbeddings", mock.Anything, mock.Anything).
		Return(nil, errors.New("rate limit exceeded"))

	vectors, err := client.EmbedTexts(context.Background(), []string{"text"})

	assert.Error(t, err)
	assert.Nil(t, vectors)
	assert.Contains(t, err.Error(), "failed to create embeddings")
}

func TestClient_Generate_Success(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI, dimensions: 3}

	mockAPI.On("CreateChatCompletion", mock.Anything, "system prompt", "user question").
		Return("generated answer", nil)

	result := client.Generate(context.Background(), "system prompt", "user question")

	assert.False(t, result.Failed())
	assert.Equal(t, "generated answer", result.Text)
	mockAPI.AssertExpectations(t)
}

func TestClient_Generate_FailureIsTyped(t *testing.T) {
	mockAPI := new(MockAPI)
	client := &Client{api: mockAPI, dimensions: 3}

	mockAPI.On("CreateChatCompletion", mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("upstream unavailable"))

	result := client.Generate(context.Background(), "system", "user")

	assert.True(t, result.Failed())
	assert.Empty(t, result.Text)
	assert.Contains(t, result.Err.Error(), "chat completion failed")
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})

	assert.NotNil(t, client)
	assert.NotNil(t, client.api)
	assert.Equal(t, DefaultEmbeddingDimensions, client.dimensions)
}
