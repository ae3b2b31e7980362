package domain

import "fmt"

// Metadata identifies the publication a chunk was extracted from.
type Metadata struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	URL   string `json:"url"`
}

// Chunk is a token-bounded span of a publication's body text, the unit of
// embedding and retrieval. Chunks are written once during ingestion and never
// updated.
type Chunk struct {
	ID       string
	Text     string
	Metadata Metadata
}

// EmbeddedChunk is a Chunk with its embedding vector attached.
type EmbeddedChunk struct {
	Chunk
	Embedding []float32
}

// RelevantChunk is the retrieval-time view of a stored chunk. Similarity rank
// is implicit in slice order.
type RelevantChunk struct {
	Document string
	Metadata Metadata
}

// ChunkID derives the stable chunk identifier from the source record index and
// the chunk ordinal within that record.
func ChunkID(recordIndex, chunkIndex int) string {
	return fmt.Sprintf("pub_%d_chunk_%d", recordIndex, chunkIndex)
}
