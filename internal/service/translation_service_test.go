package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"visit-translator/internal/llm"
	"visit-translator/internal/metrics"
)

func TestTranslate_HappyPath(t *testing.T) {
	client := &llm.MockClient{Response: `{"translatedText": "¿Dónde le duele?", "detectedLanguage": "en"}`}
	svc := NewTranslationService(client, zap.NewNop(), nil)

	res := svc.Translate(context.Background(), "Where does it hurt?", "es")
	if res.TranslatedText != "¿Dónde le duele?" {
		t.Fatalf("unexpected translation %q", res.TranslatedText)
	}
	if strings.HasPrefix(res.TranslatedText, "Error:") {
		t.Fatalf("expected non-error translation")
	}
	if res.DetectedLang != "en" {
		t.Fatalf("expected detected en, got %q", res.DetectedLang)
	}

	req := client.LastRequest()
	if !req.JSON || req.Temperature != 0.3 {
		t.Fatalf("expected json mode and temperature 0.3, got %+v", req)
	}
	if req.User != "Where does it hurt?" {
		t.Fatalf("expected user text forwarded, got %q", req.User)
	}
	if !strings.Contains(req.System, "to Spanish") {
		t.Fatalf("expected Spanish instruction, got %q", req.System)
	}
}

func TestTranslate_TargetLanguageSelection(t *testing.T) {
	cases := []struct {
		target string
		want   string
	}{
		{target: "es", want: "to Spanish"},
		{target: "en", want: "to English"},
		{target: "fr", want: "to English"},
		{target: "", want: "to English"},
	}
	for _, c := range cases {
		client := &llm.MockClient{Response: `{"translatedText":"x","detectedLanguage":"es"}`}
		NewTranslationService(client, nil, nil).Translate(context.Background(), "hola", c.target)
		if !strings.Contains(client.LastRequest().System, c.want) {
			t.Fatalf("target %q: expected prompt containing %q", c.target, c.want)
		}
	}
}

func TestTranslate_FailsClosed(t *testing.T) {
	cases := []struct {
		name     string
		client   *llm.MockClient
		contains string
	}{
		{name: "missing credential", client: &llm.MockClient{Err: llm.ErrMissingAPIKey}, contains: "LLM_API_KEY is not set"},
		{name: "transport", client: &llm.MockClient{Err: errors.New("dial tcp: connection refused")}, contains: "connection refused"},
		{name: "status", client: &llm.MockClient{Err: errors.New("llm http error: status=500")}, contains: "status=500"},
		{name: "malformed", client: &llm.MockClient{Response: `{"translatedText": "ho`}, contains: "no json object"},
		{name: "not json", client: &llm.MockClient{Response: `Sure, here it is: hola`}, contains: "no json object"},
		{name: "empty translation", client: &llm.MockClient{Response: `{"translatedText": "  ", "detectedLanguage": "en"}`}, contains: "empty translation"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			svc := NewTranslationService(c.client, zap.NewNop(), nil)
			res := svc.Translate(context.Background(), "hello", "es")
			if !strings.HasPrefix(res.TranslatedText, "Error: ") {
				t.Fatalf("expected error literal, got %q", res.TranslatedText)
			}
			if !strings.Contains(res.TranslatedText, c.contains) {
				t.Fatalf("expected %q in %q", c.contains, res.TranslatedText)
			}
			if res.DetectedLang != UnknownLanguage {
				t.Fatalf("expected unknown detected lang, got %q", res.DetectedLang)
			}
		})
	}
}

func TestTranslate_MissingCredentialWithRealClient(t *testing.T) {
	svc := NewTranslationService(llm.NewOpenAIClient("", "", "m", zap.NewNop()), zap.NewNop(), nil)
	for _, target := range []string{"es", "en"} {
		res := svc.Translate(context.Background(), "anything", target)
		if !strings.HasPrefix(res.TranslatedText, "Error:") || res.DetectedLang != "unknown" {
			t.Fatalf("expected fail-closed result, got %+v", res)
		}
	}
}

func TestTranslate_FencedResponseAndMissingDetectedLang(t *testing.T) {
	client := &llm.MockClient{Response: "```json\n{\"translatedText\": \"I have a fever\"}\n```"}
	res := NewTranslationService(client, zap.NewNop(), nil).Translate(context.Background(), "Tengo fiebre", "en")
	if res.TranslatedText != "I have a fever" {
		t.Fatalf("unexpected translation %q", res.TranslatedText)
	}
	if res.DetectedLang != UnknownLanguage {
		t.Fatalf("expected unknown when model omits language, got %q", res.DetectedLang)
	}
}

func TestTryTranslate_RecordsMetrics(t *testing.T) {
	m := metrics.NewMetrics()
	svc := NewTranslationService(&llm.MockClient{Err: errors.New("boom")}, zap.NewNop(), m)
	if _, err := svc.TryTranslate(context.Background(), "x", "es"); err == nil {
		t.Fatalf("expected typed error")
	}
	if got := testutil.ToFloat64(m.GatewayCallsTotal.WithLabelValues("translate", metrics.OutcomeError)); got != 1 {
		t.Fatalf("expected 1 failed translate call, got %v", got)
	}
}

func TestFailedTranslation_EmptyCause(t *testing.T) {
	if got := FailedTranslation("").TranslatedText; got != "Error: Unknown Error" {
		t.Fatalf("unexpected literal %q", got)
	}
}
