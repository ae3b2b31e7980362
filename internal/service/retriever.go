package service

import (
	"context"
	"fmt"

	"github.com/astro-insight/insight/internal/domain"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// EmbeddingClient generates embeddings for chunk texts and questions.
type EmbeddingClient interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChunkQuerier performs nearest-neighbor lookups against the chunk index.
type ChunkQuerier interface {
	Query(ctx context.Context, embedding []float32, topK int) ([]domain.RelevantChunk, error)
}

// Retriever embeds an incoming question and fetches the most similar chunks
// from the index.
type Retriever struct {
	embedder EmbeddingClient
	index    ChunkQuerier
	topK     int
}

// NewRetriever creates a retriever with the default top-k.
func NewRetriever(embedder EmbeddingClient, index ChunkQuerier) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		topK:     DefaultTopK,
	}
}

// Retrieve returns the chunks most similar to the question in descending
// similarity order. An empty index result is an empty slice, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]domain.RelevantChunk, error) {
	vectors, err := r.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	chunks, err := r.index.Query(ctx, vectors[0], r.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	if chunks == nil {
		chunks = []domain.RelevantChunk{}
	}
	return chunks, nil
}
