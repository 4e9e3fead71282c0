package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) != 2 || body.Messages[0]["role"] != "system" {
			t.Errorf("expected system+user messages, got %v", body.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"content": "Three sentences."},
		})
	}))
	defer srv.Close()

	p := NewOllamaProvider("test-model", srv.URL)
	text, err := p.Generate(context.Background(), "Be concise.", "Write a tactic.", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Three sentences." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestOllamaGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewOllamaProvider("test-model", srv.URL)
	_, err := p.Generate(context.Background(), "", "prompt", 100)
	if err == nil {
		t.Error("expected error from 500 response")
	}
}

func TestOpenAIGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing auth header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "A tactic."}},
			},
		})
	}))
	defer srv.Close()

	p := &OpenAIProvider{Model: "gpt-4o-mini", APIKey: "test-key", BaseURL: srv.URL, client: srv.Client()}
	text, err := p.Generate(context.Background(), "system", "user", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "A tactic." {
		t.Errorf("unexpected text %q", text)
	}
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	p := &OpenAIProvider{Model: "gpt-4o-mini", APIKey: "test-key", BaseURL: srv.URL, client: srv.Client()}
	if _, err := p.Generate(context.Background(), "", "user", 100); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestOpenAIGenerateNoKey(t *testing.T) {
	p := &OpenAIProvider{Model: "gpt-4o-mini", client: &http.Client{Timeout: time.Second}}
	if p.IsConfigured() {
		t.Error("expected unconfigured provider without key")
	}
	if _, err := p.Generate(context.Background(), "", "user", 100); err == nil {
		t.Error("expected error without API key")
	}
}
