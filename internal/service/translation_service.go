package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"visit-translator/internal/domain"
	"visit-translator/internal/llm"
	"visit-translator/internal/metrics"
)

// UnknownLanguage es el idioma detectado que se reporta cuando la traduccion falla.
const UnknownLanguage = "unknown"

var ErrEmptyTranslation = errors.New("empty translation in llm response")

// TranslationResult es la salida del gateway de traduccion.
type TranslationResult struct {
	TranslatedText string `json:"translatedText"`
	DetectedLang   string `json:"detectedLang"`
}

// Translator traduce sin propagar errores: las fallas vuelven como texto "Error: ...".
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) TranslationResult
}

// FailedTranslation construye el resultado legible para una traduccion fallida.
func FailedTranslation(cause string) TranslationResult {
	if strings.TrimSpace(cause) == "" {
		cause = "Unknown Error"
	}
	return TranslationResult{
		TranslatedText: "Error: " + cause,
		DetectedLang:   UnknownLanguage,
	}
}

// TranslationService es el gateway de traduccion contra el LLM.
type TranslationService struct {
	llmClient llm.LLMClient
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewTranslationService(llmClient llm.LLMClient, logger *zap.Logger, m *metrics.Metrics) *TranslationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranslationService{llmClient: llmClient, logger: logger, metrics: m}
}

// Translate nunca falla: cualquier error se devuelve dentro del resultado.
func (s *TranslationService) Translate(ctx context.Context, text, targetLang string) TranslationResult {
	res, err := s.TryTranslate(ctx, text, targetLang)
	if err != nil {
		s.logger.Warn("translation failed", zap.String("target_lang", targetLang), zap.Error(err))
		return FailedTranslation(err.Error())
	}
	return res
}

// TryTranslate es la variante tipada de Translate.
func (s *TranslationService) TryTranslate(ctx context.Context, text, targetLang string) (res TranslationResult, err error) {
	started := time.Now()
	defer func() { s.metrics.ObserveGateway("translate", err, started) }()

	raw, err := s.llmClient.Generate(ctx, llm.Request{
		System:      translationPrompt(targetLang),
		User:        text,
		Temperature: 0.3,
		JSON:        true,
	})
	if err != nil {
		return TranslationResult{}, err
	}
	s.logger.Debug("translation raw response", zap.String("content", raw))

	var parsed struct {
		TranslatedText   string `json:"translatedText"`
		DetectedLanguage string `json:"detectedLanguage"`
	}
	if err := decodeLLMJSON(raw, &parsed); err != nil {
		return TranslationResult{}, err
	}
	if strings.TrimSpace(parsed.TranslatedText) == "" {
		return TranslationResult{}, ErrEmptyTranslation
	}
	detected := strings.TrimSpace(parsed.DetectedLanguage)
	if detected == "" {
		detected = UnknownLanguage
	}
	return TranslationResult{TranslatedText: parsed.TranslatedText, DetectedLang: detected}, nil
}

// translationPrompt solo distingue "es"; cualquier otro destino se traduce a ingles.
func translationPrompt(targetLang string) string {
	language := "English"
	if targetLang == domain.LangSpanish {
		language = "Spanish"
	}
	return fmt.Sprintf(`You are a helpful medical translation assistant.
Translate the user's text to %s.
Output ONLY valid JSON in this format:
{ "translatedText": "...", "detectedLanguage": "..." }
Do not add markdown formatting or explanations.`, language)
}
