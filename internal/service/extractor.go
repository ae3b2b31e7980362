package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/astro-insight/insight/internal/corpus"
	"github.com/astro-insight/insight/internal/domain"
	"github.com/astro-insight/insight/internal/scrape"
)

const (
	// DefaultIndexBatchSize stays below the store's per-call item limit.
	DefaultIndexBatchSize = 4000

	// DefaultFetchDelay is the politeness pause between page fetches.
	DefaultFetchDelay = 500 * time.Millisecond
)

// PageFetcher downloads a publication page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ChunkWriter persists embedded chunks to the index.
type ChunkWriter interface {
	Add(ctx context.Context, chunks []domain.EmbeddedChunk) error
}

// ExtractorConfig tunes the ingestion run.
type ExtractorConfig struct {
	BatchSize  int
	FetchDelay time.Duration
}

// Extractor turns publication records into persisted embedded chunks:
// fetch, parse year and body, chunk, embed in one batch, write in bounded
// batches. Per-record failures are isolated; one bad record never aborts
// the run.
type Extractor struct {
	fetcher  PageFetcher
	chunker  *Chunker
	embedder EmbeddingClient
	index    ChunkWriter
	cfg      ExtractorConfig
}

// RunReport summarizes an ingestion run.
type RunReport struct {
	Records int
	Skipped int
	Chunks  int
}

// NewExtractor creates an extractor with default batching and politeness delay.
func NewExtractor(fetcher PageFetcher, chunker *Chunker, embedder EmbeddingClient, index ChunkWriter) *Extractor {
	return NewExtractorWithConfig(fetcher, chunker, embedder, index, ExtractorConfig{
		BatchSize:  DefaultIndexBatchSize,
		FetchDelay: DefaultFetchDelay,
	})
}

// NewExtractorWithConfig creates an extractor with explicit configuration.
func NewExtractorWithConfig(fetcher PageFetcher, chunker *Chunker, embedder EmbeddingClient, index ChunkWriter, cfg ExtractorConfig) *Extractor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultIndexBatchSize
	}
	return &Extractor{
		fetcher:  fetcher,
		chunker:  chunker,
		embedder: embedder,
		index:    index,
		cfg:      cfg,
	}
}

// Run processes every record sequentially, then embeds all chunks in one
// batched call and writes them to the index in bounded batches.
func (e *Extractor) Run(ctx context.Context, records []corpus.PublicationRecord) (*RunReport, error) {
	report := &RunReport{Records: len(records)}

	var all []domain.Chunk
	for i, record := range records {
		chunks, err := e.processRecord(ctx, i, record)
		if err != nil {
			log.Printf("skipping record %d (%s): %v", i, record.Title, err)
			report.Skipped++
		} else {
			all = append(all, chunks...)
		}

		if i < len(records)-1 && e.cfg.FetchDelay > 0 {
			time.Sleep(e.cfg.FetchDelay)
		}
	}

	report.Chunks = len(all)
	if len(all) == 0 {
		return report, nil
	}

	embedded, err := e.embedChunks(ctx, all)
	if err != nil {
		return report, err
	}

	for start := 0; start < len(embedded); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(embedded))
		if err := e.index.Add(ctx, embedded[start:end]); err != nil {
			return report, fmt.Errorf("failed to write index batch: %w", err)
		}
	}

	return report, nil
}

// processRecord produces the chunks of a single record as one immutable batch.
func (e *Extractor) processRecord(ctx context.Context, index int, record corpus.PublicationRecord) ([]domain.Chunk, error) {
	html, err := e.fetcher.Fetch(ctx, record.Link)
	if err != nil {
		return nil, err
	}

	page, err := scrape.ParsePage(html)
	if err != nil {
		return nil, err
	}

	year, ok := page.Year()
	if !ok {
		return nil, domain.ErrYearNotFound
	}

	body := page.BodyText()
	if body == "" {
		return nil, domain.ErrEmptyBody
	}

	metadata := domain.Metadata{
		Title: record.Title,
		Year:  year,
		URL:   record.Link,
	}

	texts := e.chunker.Split(body)
	chunks := make([]domain.Chunk, 0, len(texts))
	for j, text := range texts {
		chunks = append(chunks, domain.Chunk{
			ID:       domain.ChunkID(index, j),
			Text:     text,
			Metadata: metadata,
		})
	}

	return chunks, nil
}

func (e *Extractor) embedChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.EmbeddedChunk, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := e.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunks: %w", err)
	}

	embedded := make([]domain.EmbeddedChunk, len(chunks))
	for i, c := range chunks {
		embedded[i] = domain.EmbeddedChunk{Chunk: c, Embedding: vectors[i]}
	}
	return embedded, nil
}
