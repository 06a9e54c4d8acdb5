package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"visit-translator/internal/domain"
	"visit-translator/internal/store"
)

// Notifier muestra avisos al usuario (p. ej. un resumen que fallo).
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapta una funcion a Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// Orchestrator mantiene el estado de la interfaz: la lista de consultas, la
// consulta activa, sus mensajes y su resumen. El store es la fuente de verdad;
// el estado en memoria se reconstruye desde el tras cada mutacion.
type Orchestrator struct {
	mu       sync.Mutex
	store    store.Store
	convs    *ConversationService
	notifier Notifier
	logger   *zap.Logger

	conversations []domain.Conversation
	active        *domain.Conversation
	messages      []domain.Message
	summary       string
	sending       bool
	summarizing   bool
}

func NewOrchestrator(st store.Store, translator Translator, summarizer Summarizer, notifier Notifier, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	return &Orchestrator{
		store:         st,
		convs:         NewConversationService(st, translator, summarizer, logger),
		notifier:      notifier,
		logger:        logger,
		conversations: []domain.Conversation{},
		messages:      []domain.Message{},
	}
}

// Load lee el historial y activa la consulta mas reciente, o crea una si no hay ninguna.
func (o *Orchestrator) Load(ctx context.Context) error {
	convs := o.store.ListConversations(ctx)
	o.mu.Lock()
	o.conversations = convs
	o.mu.Unlock()

	if len(convs) == 0 {
		_, err := o.NewConversation(ctx)
		return err
	}
	o.SelectConversation(ctx, convs[0])
	return nil
}

// SelectConversation activa conv y recarga sus mensajes y su resumen desde el store.
func (o *Orchestrator) SelectConversation(ctx context.Context, conv domain.Conversation) {
	msgs := o.store.ListMessages(ctx, conv.ID)
	summary := conv.Summary
	if stored, ok := o.store.GetConversation(ctx, conv.ID); ok {
		conv = stored
		summary = stored.Summary
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = &conv
	o.messages = msgs
	o.summary = summary
}

func (o *Orchestrator) NewConversation(ctx context.Context) (domain.Conversation, error) {
	conv, err := o.store.CreateConversation(ctx)
	if err != nil {
		return domain.Conversation{}, err
	}
	o.mu.Lock()
	o.conversations = append([]domain.Conversation{conv}, o.conversations...)
	o.mu.Unlock()

	o.SelectConversation(ctx, conv)
	return conv, nil
}

// SendMessage traduce y guarda un turno en la consulta activa. Sin consulta
// activa no hace nada. El mensaje se guarda aun si la traduccion fallo.
func (o *Orchestrator) SendMessage(ctx context.Context, text string, role domain.Role, audioData string) (domain.Message, error) {
	o.mu.Lock()
	if o.active == nil {
		o.mu.Unlock()
		return domain.Message{}, nil
	}
	convID := o.active.ID
	o.sending = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.sending = false
		o.mu.Unlock()
	}()

	msg, err := o.convs.Send(ctx, convID, role, text, audioData)
	if err != nil {
		o.logger.Warn("send message failed", zap.String("conversation_id", convID), zap.Error(err))
		return domain.Message{}, err
	}

	convs := o.store.ListConversations(ctx)
	o.mu.Lock()
	defer o.mu.Unlock()
	// La consulta activa pudo cambiar mientras se traducia.
	if o.active != nil && o.active.ID == convID {
		o.messages = append(o.messages, msg)
		o.active.LastMessage = msg.OriginalText
	}
	o.conversations = convs
	return msg, nil
}

// GenerateSummary resume la consulta activa a partir de los mensajes en memoria.
// Sin mensajes no llama al backend. Si falla, avisa y conserva el resumen previo.
func (o *Orchestrator) GenerateSummary(ctx context.Context) error {
	o.mu.Lock()
	if o.active == nil || len(o.messages) == 0 {
		o.mu.Unlock()
		return nil
	}
	convID := o.active.ID
	msgs := append([]domain.Message(nil), o.messages...)
	o.summarizing = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.summarizing = false
		o.mu.Unlock()
	}()

	summary, err := o.convs.Summarize(ctx, convID, msgs)
	if err != nil {
		o.logger.Warn("generate summary failed", zap.String("conversation_id", convID), zap.Error(err))
		o.notifier.Notify(FailedSummaryText)
		if errors.Is(err, ErrSummaryFailed) {
			return nil
		}
		return err
	}

	convs := o.store.ListConversations(ctx)
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil && o.active.ID == convID {
		o.summary = summary
		o.active.Summary = summary
	}
	o.conversations = convs
	return nil
}

// Search filtra la lista en memoria.
func (o *Orchestrator) Search(query string) []domain.Conversation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return FilterConversations(o.conversations, query)
}

func (o *Orchestrator) Conversations() []domain.Conversation {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.Conversation(nil), o.conversations...)
}

// Active devuelve la consulta activa, si existe.
func (o *Orchestrator) Active() (domain.Conversation, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return domain.Conversation{}, false
	}
	return *o.active, true
}

func (o *Orchestrator) Messages() []domain.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]domain.Message(nil), o.messages...)
}

func (o *Orchestrator) Summary() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.summary
}

func (o *Orchestrator) Sending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sending
}

func (o *Orchestrator) Summarizing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.summarizing
}
