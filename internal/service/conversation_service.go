package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"visit-translator/internal/domain"
	"visit-translator/internal/store"
)

var (
	ErrNoMessages   = errors.New("conversation has no messages")
	ErrEmptyMessage = errors.New("message text is empty")
)

// ConversationService agrupa las operaciones sin estado sobre una consulta:
// traducir y guardar un mensaje, y generar y guardar el resumen.
type ConversationService struct {
	store      store.Store
	translator Translator
	summarizer Summarizer
	logger     *zap.Logger
}

func NewConversationService(st store.Store, translator Translator, summarizer Summarizer, logger *zap.Logger) *ConversationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationService{
		store:      st,
		translator: translator,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Send traduce segun el rol y agrega el mensaje aunque la traduccion haya fallado.
func (s *ConversationService) Send(ctx context.Context, conversationID string, role domain.Role, text, audioData string) (domain.Message, error) {
	if _, err := domain.ParseRole(string(role)); err != nil {
		return domain.Message{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	source, target := role.Languages()
	res := s.translator.Translate(ctx, text, target)

	msg, err := s.store.AppendMessage(ctx, conversationID, domain.NewMessage{
		Role:           role,
		OriginalText:   text,
		TranslatedText: res.TranslatedText,
		OriginalLang:   source,
		TargetLang:     target,
		AudioData:      audioData,
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("store message: %w", err)
	}
	return msg, nil
}

// Summarize resume los mensajes dados y persiste el resultado solo si es valido,
// de modo que una falla nunca pisa un resumen anterior.
func (s *ConversationService) Summarize(ctx context.Context, conversationID string, messages []domain.Message) (string, error) {
	if len(messages) == 0 {
		return "", ErrNoMessages
	}

	summary, err := s.summarizer.TrySummarize(ctx, BuildTranscript(messages))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(summary) == "" || summary == FailedSummaryText {
		return "", ErrSummaryFailed
	}

	if err := s.store.UpdateConversationSummary(ctx, conversationID, summary); err != nil {
		return "", fmt.Errorf("store summary: %w", err)
	}
	s.logger.Info("summary stored", zap.String("conversation_id", conversationID))
	return summary, nil
}

// FilterConversations aplica la busqueda del historial: id por substring
// exacto; resumen y ultimo mensaje sin distinguir mayusculas.
func FilterConversations(convs []domain.Conversation, query string) []domain.Conversation {
	out := make([]domain.Conversation, 0, len(convs))
	lowered := strings.ToLower(query)
	for _, c := range convs {
		if strings.Contains(c.ID, query) ||
			(c.Summary != "" && strings.Contains(strings.ToLower(c.Summary), lowered)) ||
			(c.LastMessage != "" && strings.Contains(strings.ToLower(c.LastMessage), lowered)) {
			out = append(out, c)
		}
	}
	return out
}
