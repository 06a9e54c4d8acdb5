package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"visit-translator/internal/audio"
	"visit-translator/internal/domain"
	"visit-translator/internal/service"
)

func createConversation(t *testing.T, env *testEnv) domain.Conversation {
	t.Helper()
	rec := performRequest(env.router, http.MethodPost, "/conversations", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	var body struct {
		Conversation domain.Conversation `json:"conversation"`
	}
	decodeBody(t, rec, &body)
	return body.Conversation
}

func TestConversations_CreateListGet(t *testing.T) {
	env := newTestEnv(t)
	conv := createConversation(t, env)
	if conv.DoctorName != domain.DefaultDoctorName || conv.PatientName != domain.DefaultPatientName {
		t.Fatalf("unexpected placeholder names %+v", conv)
	}

	rec := performRequest(env.router, http.MethodGet, "/conversations", nil)
	var list struct {
		Conversations []domain.Conversation `json:"conversations"`
	}
	decodeBody(t, rec, &list)
	if len(list.Conversations) != 1 || list.Conversations[0].ID != conv.ID {
		t.Fatalf("unexpected list %+v", list.Conversations)
	}

	rec = performRequest(env.router, http.MethodGet, "/conversations/"+conv.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodGet, "/conversations/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestPostMessage_TranslatesByRole(t *testing.T) {
	env := newTestEnv(t)
	conv := createConversation(t, env)
	env.llm.Response = `{"translatedText":"I feel dizzy","detectedLanguage":"es"}`

	rec := performRequest(env.router, http.MethodPost, "/conversations/"+conv.ID+"/messages", map[string]string{
		"text": "Me siento mareado",
		"role": "patient",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Message domain.Message `json:"message"`
	}
	decodeBody(t, rec, &body)
	msg := body.Message
	if msg.OriginalLang != domain.LangSpanish || msg.TargetLang != domain.LangEnglish || msg.TranslatedText != "I feel dizzy" {
		t.Fatalf("unexpected message %+v", msg)
	}
	if !strings.Contains(env.llm.LastRequest().System, "English") {
		t.Fatalf("expected English prompt for patient turn")
	}

	rec = performRequest(env.router, http.MethodGet, "/conversations?q=mareado", nil)
	var list struct {
		Conversations []domain.Conversation `json:"conversations"`
	}
	decodeBody(t, rec, &list)
	if len(list.Conversations) != 1 || list.Conversations[0].LastMessage != "Me siento mareado" {
		t.Fatalf("expected search hit on last message, got %+v", list.Conversations)
	}
}

func TestPostMessage_FailedTranslationIsStored(t *testing.T) {
	env := newTestEnv(t)
	conv := createConversation(t, env)
	env.llm.Err = errors.New("network down")

	rec := performRequest(env.router, http.MethodPost, "/conversations/"+conv.ID+"/messages", map[string]string{
		"text": "Any allergies?",
		"role": "doctor",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	msgs := env.store.ListMessages(context.Background(), conv.ID)
	if len(msgs) != 1 || !strings.HasPrefix(msgs[0].TranslatedText, "Error: ") {
		t.Fatalf("expected stored error literal, got %+v", msgs)
	}
}

func TestPostMessage_Validation(t *testing.T) {
	env := newTestEnv(t)
	conv := createConversation(t, env)
	path := "/conversations/" + conv.ID + "/messages"

	tests := []struct {
		name   string
		path   string
		body   map[string]string
		status int
	}{
		{name: "missing role", path: path, body: map[string]string{"text": "hi"}, status: http.StatusBadRequest},
		{name: "invalid role", path: path, body: map[string]string{"text": "hi", "role": "nurse"}, status: http.StatusBadRequest},
		{name: "empty text", path: path, body: map[string]string{"text": "  ", "role": "doctor"}, status: http.StatusBadRequest},
		{name: "invalid audio", path: path, body: map[string]string{"role": "doctor", "audioData": "not-a-data-url"}, status: http.StatusBadRequest},
		{name: "unknown conversation", path: "/conversations/missing/messages", body: map[string]string{"text": "hi", "role": "doctor"}, status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := performRequest(env.router, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
		})
	}
	if env.llm.Calls() != 0 {
		t.Fatalf("expected no llm calls, got %d", env.llm.Calls())
	}
}

func TestPostMessage_AudioOnlyUsesPlaceholder(t *testing.T) {
	env := newTestEnv(t)
	conv := createConversation(t, env)
	env.llm.Response = `{"translatedText":"[Mensaje de audio]","detectedLanguage":"en"}`
	dataURL := audio.EncodeDataURL("audio/webm", []byte{1, 2, 3})

	rec := performRequest(env.router, http.MethodPost, "/conversations/"+conv.ID+"/messages", map[string]string{
		"role":      "doctor",
		"audioData": dataURL,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	msgs := env.store.ListMessages(context.Background(), conv.ID)
	if len(msgs) != 1 || msgs[0].OriginalText != domain.AudioPlaceholder || msgs[0].AudioData != dataURL {
		t.Fatalf("unexpected stored message %+v", msgs)
	}
}

func TestGenerateSummary(t *testing.T) {
	env := newTestEnv(t)
	conv := createConversation(t, env)
	path := "/conversations/" + conv.ID + "/summary"

	rec := performRequest(env.router, http.MethodPost, path, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409 without messages, got %d", rec.Code)
	}
	if env.llm.Calls() != 0 {
		t.Fatalf("expected no llm call without messages")
	}

	env.llm.Response = `{"translatedText":"Hola","detectedLanguage":"en"}`
	performRequest(env.router, http.MethodPost, "/conversations/"+conv.ID+"/messages", map[string]string{
		"text": "Hello",
		"role": "doctor",
	})

	env.llm.Response = "**Plan:** rest"
	rec = performRequest(env.router, http.MethodPost, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if env.llm.LastRequest().User != "doctor: Hello" {
		t.Fatalf("unexpected transcript %q", env.llm.LastRequest().User)
	}

	env.llm.Err = errors.New("boom")
	rec = performRequest(env.router, http.MethodPost, path, nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
	stored, _ := env.store.GetConversation(context.Background(), conv.ID)
	if stored.Summary != "**Plan:** rest" {
		t.Fatalf("failed summary must not overwrite previous one, got %q", stored.Summary)
	}
	if stored.Summary == service.FailedSummaryText {
		t.Fatalf("failure literal persisted")
	}

	rec = performRequest(env.router, http.MethodPost, "/conversations/missing/summary", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
