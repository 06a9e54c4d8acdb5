package service

import (
	"errors"
	"testing"
)

func TestExtractFirstJSONObject(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "prose around", input: `Sure! {"a":{"b":2}} hope it helps`, want: `{"a":{"b":2}}`},
		{name: "braces in strings", input: `{"t":"use } and { freely"}`, want: `{"t":"use } and { freely"}`},
		{name: "escaped quote", input: `{"t":"say \"hi\" }"}`, want: `{"t":"say \"hi\" }"}`},
		{name: "unterminated", input: `{"a":1`, want: ""},
		{name: "none", input: `no json here`, want: ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := extractFirstJSONObject(c.input); got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestCleanLLMJSONResponse(t *testing.T) {
	raw := "\uFEFF```json\n{\"translatedText\":\"hola\"}\n```"
	if got := cleanLLMJSONResponse(raw); got != `{"translatedText":"hola"}` {
		t.Fatalf("unexpected cleaned output %q", got)
	}
	if got := cleanLLMJSONResponse("   "); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := decodeLLMJSON("```\n{\"translatedText\":\"hola\"}\n```", &out); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if out.TranslatedText != "hola" {
		t.Fatalf("unexpected value %q", out.TranslatedText)
	}

	if err := decodeLLMJSON("hola", &out); !errors.Is(err, errNoJSONObject) {
		t.Fatalf("expected errNoJSONObject, got %v", err)
	}
	if err := decodeLLMJSON(`{"translatedText": 5}`, &out); err == nil {
		t.Fatalf("expected type error")
	}
}
