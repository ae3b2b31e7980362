package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/astro-insight/insight/internal/api"
	"github.com/astro-insight/insight/internal/domain"
	"github.com/astro-insight/insight/internal/service"
	"github.com/astro-insight/insight/internal/telemetry"
)

// Retriever fetches the chunks most relevant to a question.
type Retriever interface {
	Retrieve(ctx context.Context, question string) ([]domain.RelevantChunk, error)
}

// Synthesizer turns a question and its relevant chunks into a cited answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, chunks []domain.RelevantChunk) domain.AnswerResult
}

// AskHandler serves GET /ask. It always responds 200 with a valid
// AnswerResult: retrieval and generation failures degrade to fixed answers
// instead of surfacing as 5xx.
type AskHandler struct {
	retriever   Retriever
	synthesizer Synthesizer
}

func NewAskHandler(retriever Retriever, synthesizer Synthesizer) *AskHandler {
	return &AskHandler{retriever: retriever, synthesizer: synthesizer}
}

// Ask handles GET /ask?question=<string>. An empty or missing question is
// passed through to the pipeline unchanged.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	question := r.URL.Query().Get("question")

	chunks, err := h.retriever.Retrieve(ctx, question)
	if err != nil {
		log.Printf("retrieval failed: %v", err)
		telemetry.CaptureError(ctx, err)
		api.JSON(w, http.StatusOK, domain.EmptyAnswer(service.GenerationFailedAnswer))
		return
	}

	api.JSON(w, http.StatusOK, h.synthesizer.Synthesize(ctx, question, chunks))
}
