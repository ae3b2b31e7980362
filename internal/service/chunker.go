package service

import (
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// DefaultMaxChunkTokens is the token budget per chunk used at ingestion time.
const DefaultMaxChunkTokens = 512

// TokenCounter reports how many tokens a piece of text encodes to. The same
// counter must be used for every chunking run so budgets stay stable.
type TokenCounter interface {
	Count(text string) int
}

// Chunker splits document text into sentence-aware, token-bounded chunks.
type Chunker struct {
	counter   TokenCounter
	tokenizer *sentences.DefaultSentenceTokenizer
	maxTokens int
}

// NewChunker creates a chunker with the given token counter and budget.
func NewChunker(counter TokenCounter, maxTokens int) (*Chunker, error) {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxChunkTokens
	}

	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, err
	}

	return &Chunker{
		counter:   counter,
		tokenizer: tokenizer,
		maxTokens: maxTokens,
	}, nil
}

// Split greedily packs sentences into chunks. A chunk is flushed when adding
// the next sentence would exceed the token budget; a single sentence larger
// than the budget becomes its own oversized chunk. Sentence order and content
// are preserved.
func (c *Chunker) Split(text string) []string {
	clean := strings.TrimSpace(text)
	if clean == "" {
		return nil
	}

	var chunks []string
	var current []string
	currentTokens := 0

	for _, s := range c.tokenizer.Tokenize(clean) {
		sentence := strings.TrimSpace(s.Text)
		if sentence == "" {
			continue
		}

		tokens := c.counter.Count(sentence)
		if currentTokens+tokens > c.maxTokens && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = current[:0]
			currentTokens = 0
		}

		current = append(current, sentence)
		currentTokens += tokens
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}

	return chunks
}
