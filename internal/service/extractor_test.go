package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/astro-insight/insight/internal/corpus"
	"github.com/astro-insight/insight/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodPageHTML = `<html><body>
<section class="pmc-layout__citation"><p>Published online 2014 Aug 12.</p></section>
<section id="s1"><p>The mice adapted to microgravity. Bone density decreased.</p></section>
<section id="s2"><p>Recovery took several weeks.</p></section>
</body></html>`

const noYearPageHTML = `<html><body>
<section class="pmc-layout__citation"><p>No date available.</p></section>
<section id="s1"><p>Some body text here.</p></section>
</body></html>`

const noBodyPageHTML = `<html><body>
<section class="pmc-layout__citation"><p>Published 2015.</p></section>
<div><p>Text outside any content section.</p></div>
</body></html>`

type fakeFetcher struct {
	pages  map[string]string
	errors map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (string, error) {
	if err, ok := f.errors[url]; ok {
		return "", err
	}
	return f.pages[url], nil
}

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	f.calls++
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{float32(i)}
	}
	return vectors, nil
}

type captureIndex struct {
	batches [][]domain.EmbeddedChunk
}

func (c *captureIndex) Add(_ context.Context, chunks []domain.EmbeddedChunk) error {
	batch := make([]domain.EmbeddedChunk, len(chunks))
	copy(batch, chunks)
	c.batches = append(c.batches, batch)
	return nil
}

func (c *captureIndex) all() []domain.EmbeddedChunk {
	var out []domain.EmbeddedChunk
	for _, b := range c.batches {
		out = append(out, b...)
	}
	return out
}

func newTestExtractor(t *testing.T, fetcher PageFetcher, index ChunkWriter, batchSize int) (*Extractor, *fakeEmbedder) {
	t.Helper()
	chunker, err := NewChunker(wordCounter{}, 100)
	require.NoError(t, err)

	embedder := &fakeEmbedder{}
	extractor := NewExtractorWithConfig(fetcher, chunker, embedder, index, ExtractorConfig{
		BatchSize:  batchSize,
		FetchDelay: 0,
	})
	return extractor, embedder
}

func TestExtractor_Run_HappyPath(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://pmc/one": goodPageHTML,
		"https://pmc/two": goodPageHTML,
	}}
	index := &captureIndex{}
	extractor, embedder := newTestExtractor(t, fetcher, index, 100)

	records := []corpus.PublicationRecord{
		{Title: "Paper One", Link: "https://pmc/one"},
		{Title: "Paper Two", Link: "https://pmc/two"},
	}

	report, err := extractor.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Records)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 2, report.Chunks)

	chunks := index.all()
	require.Len(t, chunks, 2)
	assert.Equal(t, "pub_0_chunk_0", chunks[0].ID)
	assert.Equal(t, "pub_1_chunk_0", chunks[1].ID)
	assert.Equal(t, "Paper One", chunks[0].Metadata.Title)
	assert.Equal(t, 2014, chunks[0].Metadata.Year)
	assert.Equal(t, "https://pmc/one", chunks[0].Metadata.URL)
	assert.Contains(t, chunks[0].Text, "The mice adapted to microgravity.")

	// All chunks are embedded in a single batched call.
	assert.Equal(t, 1, embedder.calls)
}

func TestExtractor_Run_SkipsFailedFetch(t *testing.T) {
	fetcher := &fakeFetcher{
		pages:  map[string]string{"https://pmc/ok": goodPageHTML},
		errors: map[string]error{"https://pmc/bad": errors.New("connection reset")},
	}
	index := &captureIndex{}
	extractor, _ := newTestExtractor(t, fetcher, index, 100)

	records := []corpus.PublicationRecord{
		{Title: "Bad", Link: "https://pmc/bad"},
		{Title: "Good", Link: "https://pmc/ok"},
	}

	report, err := extractor.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)

	chunks := index.all()
	require.Len(t, chunks, 1)
	// Ids keep the original record index even when earlier records are skipped.
	assert.Equal(t, "pub_1_chunk_0", chunks[0].ID)
	assert.Equal(t, "Good", chunks[0].Metadata.Title)
}

func TestExtractor_Run_SkipsRecordWithoutYear(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://pmc/noyear": noYearPageHTML}}
	index := &captureIndex{}
	extractor, embedder := newTestExtractor(t, fetcher, index, 100)

	report, err := extractor.Run(context.Background(), []corpus.PublicationRecord{
		{Title: "No Year", Link: "https://pmc/noyear"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Chunks)
	assert.Empty(t, index.batches)
	assert.Equal(t, 0, embedder.calls)
}

func TestExtractor_Run_SkipsRecordWithoutBody(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://pmc/nobody": noBodyPageHTML}}
	index := &captureIndex{}
	extractor, _ := newTestExtractor(t, fetcher, index, 100)

	report, err := extractor.Run(context.Background(), []corpus.PublicationRecord{
		{Title: "No Body", Link: "https://pmc/nobody"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, index.batches)
}

func TestExtractor_Run_WritesBoundedBatches(t *testing.T) {
	pages := make(map[string]string)
	var records []corpus.PublicationRecord
	for i := 0; i < 5; i++ {
		url := fmt.Sprintf("https://pmc/%d", i)
		pages[url] = goodPageHTML
		records = append(records, corpus.PublicationRecord{
			Title: fmt.Sprintf("Paper %d", i),
			Link:  url,
		})
	}

	index := &captureIndex{}
	extractor, _ := newTestExtractor(t, &fakeFetcher{pages: pages}, index, 2)

	report, err := extractor.Run(context.Background(), records)

	require.NoError(t, err)
	assert.Equal(t, 5, report.Chunks)
	require.Len(t, index.batches, 3)
	assert.Len(t, index.batches[0], 2)
	assert.Len(t, index.batches[1], 2)
	assert.Len(t, index.batches[2], 1)
}

func TestExtractor_Run_NoRecords(t *testing.T) {
	index := &captureIndex{}
	extractor, embedder := newTestExtractor(t, &fakeFetcher{}, index, 100)

	report, err := extractor.Run(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 0, report.Chunks)
	assert.Empty(t, index.batches)
	assert.Equal(t, 0, embedder.calls)
}
