package repository

import (
	"context"
	"fmt"

	"github.com/astro-insight/insight/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// ChunkIndex is the persistent nearest-neighbor store for embedded chunks,
// backed by a pgvector table. Reads are safe for concurrent use; ingestion is
// the only writer.
type ChunkIndex struct {
	db dbtx
}

// NewChunkIndex creates an index over the given pool.
func NewChunkIndex(pool *pgxpool.Pool) *ChunkIndex {
	return &ChunkIndex{db: pool}
}

// Add inserts embedded chunks in a single batched round trip. Chunk ids are
// generated once per run, so an id conflict is treated as should-not-happen
// and ignored.
func (r *ChunkIndex) Add(ctx context.Context, chunks []domain.EmbeddedChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(
			`INSERT INTO paper_chunks (id, title, year, url, content, embedding)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (id) DO NOTHING`,
			c.ID,
			c.Metadata.Title,
			c.Metadata.Year,
			c.Metadata.URL,
			c.Text,
			pgvector.NewVector(c.Embedding),
		)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()

	for range chunks {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	return nil
}

// Query returns the topK chunks nearest to the embedding by cosine distance,
// most similar first. An empty index yields an empty slice.
func (r *ChunkIndex) Query(ctx context.Context, embedding []float32, topK int) ([]domain.RelevantChunk, error) {
	if topK <= 0 {
		topK = 5
	}

	rows, err := r.db.Query(ctx,
		`SELECT content, title, year, url
		 FROM paper_chunks
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(embedding),
		topK,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chunks := make([]domain.RelevantChunk, 0, topK)
	for rows.Next() {
		var chunk domain.RelevantChunk
		if err := rows.Scan(&chunk.Document, &chunk.Metadata.Title, &chunk.Metadata.Year, &chunk.Metadata.URL); err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// Count returns the number of stored chunks.
func (r *ChunkIndex) Count(ctx context.Context) (int64, error) {
	rows, err := r.db.Query(ctx, `SELECT COUNT(*) FROM paper_chunks`)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, err
		}
	}
	return count, rows.Err()
}
