//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/astro-insight/insight/internal/domain"
	"github.com/astro-insight/insight/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSchema mirrors the production migration with a small embedding
// dimension so tests can use hand-written vectors.
const testSchema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE paper_chunks (
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    year       INTEGER NOT NULL,
    url        TEXT NOT NULL,
    content    TEXT NOT NULL,
    embedding  vector(3) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func setupIndex(t *testing.T) (*ChunkIndex, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	container := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	pool, err := pgxpool.New(ctx, container.ConnectionString())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, testSchema)
	require.NoError(t, err)

	return NewChunkIndex(pool), pool
}

func embedded(id, title string, year int, text string, vec []float32) domain.EmbeddedChunk {
	return domain.EmbeddedChunk{
		Chunk: domain.Chunk{
			ID:   id,
			Text: text,
			Metadata: domain.Metadata{
				Title: title,
				Year:  year,
				URL:   "https://example.org/" + id,
			},
		},
		Embedding: vec,
	}
}

func TestChunkIndex_AddAndQuery(t *testing.T) {
	index, _ := setupIndex(t)
	ctx := context.Background()

	err := index.Add(ctx, []domain.EmbeddedChunk{
		embedded("pub_0_chunk_0", "Near Paper", 2014, "closest text", []float32{1, 0, 0}),
		embedded("pub_1_chunk_0", "Mid Paper", 2016, "middle text", []float32{0.5, 0.5, 0}),
		embedded("pub_2_chunk_0", "Far Paper", 2018, "farthest text", []float32{0, 0, 1}),
	})
	require.NoError(t, err)

	chunks, err := index.Query(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	// Nearest by cosine distance first.
	assert.Equal(t, "closest text", chunks[0].Document)
	assert.Equal(t, "Near Paper", chunks[0].Metadata.Title)
	assert.Equal(t, 2014, chunks[0].Metadata.Year)
	assert.Equal(t, "middle text", chunks[1].Document)
}

func TestChunkIndex_QueryEmptyIndex(t *testing.T) {
	index, _ := setupIndex(t)

	chunks, err := index.Query(context.Background(), []float32{1, 0, 0}, 5)

	require.NoError(t, err)
	assert.NotNil(t, chunks)
	assert.Empty(t, chunks)
}

func TestChunkIndex_AddConflictingIDsIgnored(t *testing.T) {
	index, _ := setupIndex(t)
	ctx := context.Background()

	first := embedded("pub_0_chunk_0", "Original", 2014, "original text", []float32{1, 0, 0})
	require.NoError(t, index.Add(ctx, []domain.EmbeddedChunk{first}))

	// Re-adding the same id leaves the original row in place.
	dup := embedded("pub_0_chunk_0", "Replacement", 2020, "replacement text", []float32{0, 1, 0})
	require.NoError(t, index.Add(ctx, []domain.EmbeddedChunk{dup}))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	chunks, err := index.Query(ctx, []float32{1, 0, 0}, 1)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Original", chunks[0].Metadata.Title)
}

func TestChunkIndex_AddEmptyBatch(t *testing.T) {
	index, _ := setupIndex(t)

	require.NoError(t, index.Add(context.Background(), nil))

	count, err := index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestChunkIndex_Count(t *testing.T) {
	index, _ := setupIndex(t)
	ctx := context.Background()

	require.NoError(t, index.Add(ctx, []domain.EmbeddedChunk{
		embedded("pub_0_chunk_0", "A", 2014, "a", []float32{1, 0, 0}),
		embedded("pub_0_chunk_1", "A", 2014, "b", []float32{0, 1, 0}),
	}))

	count, err := index.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
