package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/astro-insight/insight/internal/domain"
	"github.com/astro-insight/insight/internal/llm"
)

// Fixed user-facing answers for the fail-soft paths.
const (
	NoResultsAnswer        = "I could not find any relevant information in the knowledge base to answer your question."
	GenerationFailedAnswer = "Sorry, I encountered an error while generating a response."

	contextSeparator = "\n\n---\n\n"
)

// GenerationClient produces a synthesized answer for a system/user prompt pair.
type GenerationClient interface {
	Generate(ctx context.Context, system, user string) llm.GenerationResult
}

// Synthesizer assembles a grounded prompt from retrieved chunks, calls the
// generation service, and maps the outcome into an AnswerResult. Every failure
// is absorbed into a fixed answer so callers always get a valid shape.
type Synthesizer struct {
	client GenerationClient
}

// NewSynthesizer creates a synthesizer backed by the given generation client.
func NewSynthesizer(client GenerationClient) *Synthesizer {
	return &Synthesizer{client: client}
}

// Synthesize produces a cited answer for the question from the retrieved
// chunks. With no chunks it returns the fixed not-found answer without calling
// the generation service.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, chunks []domain.RelevantChunk) domain.AnswerResult {
	if len(chunks) == 0 {
		return domain.EmptyAnswer(NoResultsAnswer)
	}

	result := s.client.Generate(ctx, buildSystemPrompt(chunks), question)
	if result.Failed() {
		log.Printf("generation failed: %v", result.Err)
		return domain.EmptyAnswer(GenerationFailedAnswer)
	}

	// Citations come from retrieval regardless of the model's own refusal
	// wording; the refusal directive in the prompt is content-level only.
	citations := domain.DedupeCitations(chunks)

	return domain.AnswerResult{
		Answer:                 result.Text,
		Citations:              citations,
		CitationsNamesWithYear: domain.CitationNames(citations),
	}
}

func buildSystemPrompt(chunks []domain.RelevantChunk) string {
	documents := make([]string, 0, len(chunks))
	for _, c := range chunks {
		documents = append(documents, c.Document)
	}
	context := strings.Join(documents, contextSeparator)

	return fmt.Sprintf(
		"CONTEXT:\n%s\n\n---\n\n"+
			"Based on the context above, please answer the user question provided to you:\n"+
			"if you think that the context has no answer please respond with "+
			"'Unfortunately, we don't have an adequate answer for your question.' with empty citations\n",
		context,
	)
}
