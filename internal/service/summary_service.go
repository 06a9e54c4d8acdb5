package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"visit-translator/internal/domain"
	"visit-translator/internal/llm"
	"visit-translator/internal/metrics"
)

// FailedSummaryText es la respuesta legible cuando no se pudo generar el resumen.
const FailedSummaryText = "Failed to generate summary."

var ErrSummaryFailed = errors.New("summary generation failed")

const summaryPrompt = "You are a medical assistant. Summarize the following conversation including Symptoms, Diagnosis, and Plan. Use Markdown formatting."

// Summarizer genera un resumen tipado; un error significa que no hay resumen utilizable.
type Summarizer interface {
	TrySummarize(ctx context.Context, transcript string) (string, error)
}

// SummaryService es el gateway de resumen contra el LLM.
type SummaryService struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewSummaryService(llmClient llm.LLMClient, logger *zap.Logger, m *metrics.Metrics) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{llmClient: llmClient, logger: logger, metrics: m}
}

// Summarize devuelve FailedSummaryText ante cualquier falla.
func (s *SummaryService) Summarize(ctx context.Context, transcript string) string {
	out, err := s.TrySummarize(ctx, transcript)
	if err != nil {
		return FailedSummaryText
	}
	return out
}

func (s *SummaryService) TrySummarize(ctx context.Context, transcript string) (out string, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveGateway("summary", err, started) }()

	out, err = s.llmClient.Generate(ctx, llm.Request{
		System:      summaryPrompt,
		User:        transcript,
		Temperature: 0.5,
	})
	if err != nil {
		s.logger.Warn("summary failed", zap.Error(err))
		return "", errors.Join(ErrSummaryFailed, err)
	}
	return out, nil
}

// BuildTranscript arma una linea "<role>: <originalText>" por mensaje, en orden.
func BuildTranscript(messages []domain.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, string(m.Role)+": "+m.OriginalText)
	}
	return strings.Join(lines, "\n")
}
