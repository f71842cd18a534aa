package transcriber

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTranscribeSendsMultipartAndParsesText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected authorization header: %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parsing multipart: %v", err)
		}
		if got := r.FormValue("model"); got != "test-model" {
			t.Errorf("unexpected model field: %q", got)
		}
		if got := r.FormValue("response_format"); got != "verbose_json" {
			t.Errorf("unexpected response_format field: %q", got)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file field: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "привет мир"}`))
	}))
	defer srv.Close()

	c := NewClientWithURL("test-key", "test-model", srv.URL, 5*time.Second)
	text, err := c.Transcribe(context.Background(), []byte("audio"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "привет мир" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestTranscribeNon200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClientWithURL("test-key", "test-model", srv.URL, 5*time.Second)
	_, err := c.Transcribe(context.Background(), []byte("audio"))
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestTranscribeEmptyTextIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": ""}`))
	}))
	defer srv.Close()

	c := NewClientWithURL("test-key", "test-model", srv.URL, 5*time.Second)
	if _, err := c.Transcribe(context.Background(), []byte("audio")); err == nil {
		t.Fatal("expected error for empty transcription text")
	}
}
