package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"visit-translator/internal/domain"
	"visit-translator/internal/kv"
	"visit-translator/internal/metrics"
)

// Claves del almacenamiento local; compatibles con el layout historico.
const (
	ConversationsKey  = "healthcare_app_conversations"
	MessagesKeyPrefix = "healthcare_app_messages_"
)

// Store es la persistencia de consultas y mensajes.
// Las lecturas nunca fallan: datos ausentes o corruptos equivalen a listas vacias.
type Store interface {
	ListConversations(ctx context.Context) []domain.Conversation
	GetConversation(ctx context.Context, id string) (domain.Conversation, bool)
	CreateConversation(ctx context.Context) (domain.Conversation, error)
	UpdateConversationSummary(ctx context.Context, id, summary string) error
	ListMessages(ctx context.Context, conversationID string) []domain.Message
	AppendMessage(ctx context.Context, conversationID string, msg domain.NewMessage) (domain.Message, error)
}

// KVStore implementa Store releyendo y reescribiendo la coleccion completa en
// cada operacion, sin cache.
type KVStore struct {
	mu      sync.Mutex
	backend kv.Backend
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

func NewKVStore(backend kv.Backend, logger *zap.Logger, m *metrics.Metrics) *KVStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KVStore{
		backend: backend,
		logger:  logger,
		metrics: m,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func MessagesKey(conversationID string) string {
	return MessagesKeyPrefix + conversationID
}

func (s *KVStore) ListConversations(ctx context.Context) []domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadConversations(ctx)
}

func (s *KVStore) GetConversation(ctx context.Context, id string) (domain.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.loadConversations(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Conversation{}, false
}

func (s *KVStore) CreateConversation(ctx context.Context) (domain.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv := domain.Conversation{
		ID:          s.newID(),
		DoctorName:  domain.DefaultDoctorName,
		PatientName: domain.DefaultPatientName,
		CreatedAt:   s.now().UnixMilli(),
	}
	existing, err := s.readConversations(ctx)
	if err != nil {
		s.metrics.ObserveStore("create_conversation", err)
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	convs := append([]domain.Conversation{conv}, existing...)
	err = s.save(ctx, ConversationsKey, convs)
	s.metrics.ObserveStore("create_conversation", err)
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// UpdateConversationSummary sobrescribe el resumen; un id desconocido se ignora.
func (s *KVStore) UpdateConversationSummary(ctx context.Context, id, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	convs, err := s.readConversations(ctx)
	if err != nil {
		s.metrics.ObserveStore("update_summary", err)
		return fmt.Errorf("update summary %s: %w", id, err)
	}
	idx := indexOf(convs, id)
	if idx == -1 {
		return nil
	}
	convs[idx].Summary = summary
	err = s.save(ctx, ConversationsKey, convs)
	s.metrics.ObserveStore("update_summary", err)
	if err != nil {
		return fmt.Errorf("update summary %s: %w", id, err)
	}
	return nil
}

func (s *KVStore) ListMessages(ctx context.Context, conversationID string) []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMessages(ctx, conversationID)
}

// AppendMessage guarda primero la lista de mensajes y despues reordena la
// lista de consultas. Si la segunda escritura falla el mensaje ya es durable
// y solo lastMessage queda desactualizado.
func (s *KVStore) AppendMessage(ctx context.Context, conversationID string, in domain.NewMessage) (domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.Message{
		ID:             s.newID(),
		ConversationID: conversationID,
		Role:           in.Role,
		OriginalText:   in.OriginalText,
		TranslatedText: in.TranslatedText,
		OriginalLang:   in.OriginalLang,
		TargetLang:     in.TargetLang,
		AudioData:      in.AudioData,
		CreatedAt:      s.now().UnixMilli(),
	}

	existing, err := s.readMessages(ctx, conversationID)
	if err != nil {
		s.metrics.ObserveStore("append_message", err)
		return domain.Message{}, fmt.Errorf("append message: %w", err)
	}
	msgs := append(existing, msg)
	err = s.save(ctx, MessagesKey(conversationID), msgs)
	s.metrics.ObserveStore("append_message", err)
	if err != nil {
		return domain.Message{}, fmt.Errorf("append message: %w", err)
	}

	convs, err := s.readConversations(ctx)
	if err != nil {
		s.metrics.ObserveStore("touch_conversation", err)
		return msg, fmt.Errorf("touch conversation %s: %w", conversationID, err)
	}
	idx := indexOf(convs, conversationID)
	if idx == -1 {
		s.logger.Warn("message appended to unknown conversation", zap.String("conversation_id", conversationID))
		return msg, nil
	}
	touched := convs[idx]
	touched.LastMessage = msg.OriginalText
	reordered := make([]domain.Conversation, 0, len(convs))
	reordered = append(reordered, touched)
	reordered = append(reordered, convs[:idx]...)
	reordered = append(reordered, convs[idx+1:]...)

	err = s.save(ctx, ConversationsKey, reordered)
	s.metrics.ObserveStore("touch_conversation", err)
	if err != nil {
		return msg, fmt.Errorf("touch conversation %s: %w", conversationID, err)
	}
	return msg, nil
}

func (s *KVStore) loadConversations(ctx context.Context) []domain.Conversation {
	convs, err := s.readConversations(ctx)
	if err != nil {
		s.logger.Warn("store read failed", zap.String("key", ConversationsKey), zap.Error(err))
		return []domain.Conversation{}
	}
	return convs
}

func (s *KVStore) loadMessages(ctx context.Context, conversationID string) []domain.Message {
	msgs, err := s.readMessages(ctx, conversationID)
	if err != nil {
		s.logger.Warn("store read failed", zap.String("key", MessagesKey(conversationID)), zap.Error(err))
		return []domain.Message{}
	}
	return msgs
}

// readConversations devuelve el error del backend; lo usan las escrituras para
// no reemplazar el historial guardado por una lista vacia.
func (s *KVStore) readConversations(ctx context.Context) ([]domain.Conversation, error) {
	convs := []domain.Conversation{}
	if err := s.read(ctx, ConversationsKey, &convs); err != nil {
		return nil, err
	}
	if convs == nil {
		return []domain.Conversation{}, nil
	}
	return convs, nil
}

func (s *KVStore) readMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	msgs := []domain.Message{}
	if err := s.read(ctx, MessagesKey(conversationID), &msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		return []domain.Message{}, nil
	}
	return msgs, nil
}

// read solo falla si el backend falla. Una clave ausente o con JSON corrupto
// deja out vacio.
func (s *KVStore) read(ctx context.Context, key string, out any) error {
	raw, found, err := s.backend.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !found || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("store data corrupt, treating as empty", zap.String("key", key), zap.Error(err))
		// Unmarshal puede dejar datos parciales; se descartan.
		switch v := out.(type) {
		case *[]domain.Conversation:
			*v = []domain.Conversation{}
		case *[]domain.Message:
			*v = []domain.Message{}
		}
	}
	return nil
}

func (s *KVStore) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.backend.Set(ctx, key, raw)
}

func indexOf(convs []domain.Conversation, id string) int {
	for i, c := range convs {
		if c.ID == id {
			return i
		}
	}
	return -1
}
