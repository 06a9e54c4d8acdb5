package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"visit-translator/internal/audio"
	"visit-translator/internal/domain"
	"visit-translator/internal/service"
	"visit-translator/internal/store"
)

// ChatHandler mantiene dependencias para endpoints de consultas y mensajes.
type ChatHandler struct {
	logger        *zap.Logger
	store         store.Store
	conversations *service.ConversationService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, st store.Store, conversations *service.ConversationService) *ChatHandler {
	return &ChatHandler{
		logger:        logger,
		store:         st,
		conversations: conversations,
	}
}

// ListConversations maneja GET /conversations?q=.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	convs := h.store.ListConversations(c.Request.Context())
	if q := c.Query("q"); q != "" {
		convs = service.FilterConversations(convs, q)
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// CreateConversation maneja POST /conversations.
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	conv, err := h.store.CreateConversation(c.Request.Context())
	if err != nil {
		h.logger.Error("create conversation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create conversation"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"conversation": conv})
}

// GetConversation maneja GET /conversations/:id.
func (h *ChatHandler) GetConversation(c *gin.Context) {
	ctx := c.Request.Context()
	conv, ok := h.store.GetConversation(ctx, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"conversation": conv,
		"messages":     h.store.ListMessages(ctx, conv.ID),
	})
}

// PostMessage maneja POST /conversations/:id/messages.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Text      string `json:"text"`
		Role      string `json:"role" binding:"required"`
		AudioData string `json:"audioData"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be doctor or patient"})
		return
	}
	if req.AudioData != "" {
		if _, _, err := audio.DecodeDataURL(req.AudioData); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid audioData"})
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			req.Text = domain.AudioPlaceholder
		}
	}
	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	ctx := c.Request.Context()
	conv, ok := h.store.GetConversation(ctx, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	msg, err := h.conversations.Send(ctx, conv.ID, role, req.Text, req.AudioData)
	if err != nil {
		h.logger.Error("post message failed", zap.Error(err), zap.String("conversation_id", conv.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not post message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// GenerateSummary maneja POST /conversations/:id/summary.
func (h *ChatHandler) GenerateSummary(c *gin.Context) {
	ctx := c.Request.Context()
	conv, ok := h.store.GetConversation(ctx, c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		return
	}

	summary, err := h.conversations.Summarize(ctx, conv.ID, h.store.ListMessages(ctx, conv.ID))
	switch {
	case errors.Is(err, service.ErrNoMessages):
		c.JSON(http.StatusConflict, gin.H{"error": "conversation has no messages"})
		return
	case errors.Is(err, service.ErrSummaryFailed):
		h.logger.Warn("summary generation failed", zap.Error(err), zap.String("conversation_id", conv.ID))
		c.JSON(http.StatusBadGateway, gin.H{"error": service.FailedSummaryText})
		return
	case err != nil:
		h.logger.Error("store summary failed", zap.Error(err), zap.String("conversation_id", conv.ID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store summary"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
