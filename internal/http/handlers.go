package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visit-translator/internal/service"
)

// TextTranslator es el gateway de traduccion visto por los handlers.
type TextTranslator interface {
	Translate(ctx context.Context, text, targetLang string) service.TranslationResult
}

// Handlers expone los gateways de traduccion y resumen por HTTP.
type Handlers struct {
	logger     *zap.Logger
	translator TextTranslator
	summarizer service.Summarizer
}

// NewHandlers crea una instancia de Handlers con las dependencias necesarias.
func NewHandlers(logger *zap.Logger, translator TextTranslator, summarizer service.Summarizer) *Handlers {
	return &Handlers{
		logger:     logger,
		translator: translator,
		summarizer: summarizer,
	}
}

// Translate maneja POST /translate.
func (h *Handlers) Translate(c *gin.Context) {
	var req struct {
		Text       string `json:"text"`
		TargetLang string `json:"targetLang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid translate request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Text == "" || req.TargetLang == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing text or targetLang"})
		return
	}

	// El gateway nunca falla: los errores llegan como "Error: ..." en el resultado.
	c.JSON(http.StatusOK, h.translator.Translate(c.Request.Context(), req.Text, req.TargetLang))
}

// Summary maneja POST /summary.
func (h *Handlers) Summary(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid summary request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	summary, err := h.summarizer.TrySummarize(c.Request.Context(), req.Text)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, service.ErrSummaryFailed) {
			status = http.StatusBadGateway
		}
		h.logger.Warn("summary request failed", zap.Error(err))
		c.JSON(status, gin.H{"error": service.FailedSummaryText})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// Health maneja GET /healthz.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
