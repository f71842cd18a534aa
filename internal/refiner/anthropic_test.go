package refiner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRefineSendsQuestionAndRawTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("unexpected api key header: %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("unexpected version header: %q", r.Header.Get("anthropic-version"))
		}

		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.System != systemPrompt {
			t.Error("system prompt was not sent")
		}
		if len(req.Messages) != 1 {
			t.Fatalf("expected one message, got %d", len(req.Messages))
		}
		content := req.Messages[0].Content
		if !strings.Contains(content, "Question: Где вы родились?") {
			t.Errorf("question missing from message: %q", content)
		}
		if !strings.Contains(content, "Raw Transcription: эээ в москве") {
			t.Errorf("raw transcript missing from message: %q", content)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[{"type":"text","text":"В Москве."}]}`))
	}))
	defer srv.Close()

	c := NewClientWithURL("test-key", "test-model", 4000, srv.URL, 5*time.Second)
	got, err := c.Refine(context.Background(), "Где вы родились?", "эээ в москве")
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if got != "В Москве." {
		t.Fatalf("unexpected refined text: %q", got)
	}
}

func TestRefineNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClientWithURL("test-key", "test-model", 4000, srv.URL, 5*time.Second)
	if _, err := c.Refine(context.Background(), "q", "raw"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestRefineEmptyContentIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithURL("test-key", "test-model", 4000, srv.URL, 5*time.Second)
	if _, err := c.Refine(context.Background(), "q", "raw"); err == nil {
		t.Fatal("expected error for empty content")
	}
}
