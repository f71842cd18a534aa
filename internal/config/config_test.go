package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Fatalf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "." {
		t.Fatalf("expected default data dir, got %q", cfg.Storage.DataDir)
	}
	if cfg.Groq.Model != "distil-whisper-large-v3-en" {
		t.Fatalf("expected default transcription model, got %q", cfg.Groq.Model)
	}
	if cfg.Anthropic.Model != "claude-3-5-sonnet-20240620" {
		t.Fatalf("expected default refiner model, got %q", cfg.Anthropic.Model)
	}
	if cfg.Anthropic.MaxTokens != 4000 {
		t.Fatalf("expected default max tokens 4000, got %d", cfg.Anthropic.MaxTokens)
	}
	if cfg.Pipeline.MaxConcurrentCalls != 4 {
		t.Fatalf("expected default concurrency 4, got %d", cfg.Pipeline.MaxConcurrentCalls)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "no-such.yaml")); err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DATA_DIR", "/var/data")
	t.Setenv("FFMPEG_PATH", "/opt/bin/ffmpeg")
	t.Setenv("GROQ_API_KEY", "gk-test")
	t.Setenv("GROQ_MODEL", "whisper-large-v3")
	t.Setenv("GROQ_TIMEOUT", "45s")
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")
	t.Setenv("ANTHROPIC_MAX_TOKENS", "2000")
	t.Setenv("MAX_CONCURRENT_CALLS", "8")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected port override, got %d", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "/var/data" {
		t.Fatalf("expected data dir override, got %q", cfg.Storage.DataDir)
	}
	if cfg.Audio.FFmpegPath != "/opt/bin/ffmpeg" {
		t.Fatalf("expected ffmpeg path override, got %q", cfg.Audio.FFmpegPath)
	}
	if cfg.Groq.APIKey != "gk-test" || cfg.Groq.Model != "whisper-large-v3" {
		t.Fatalf("expected groq overrides, got %+v", cfg.Groq)
	}
	if cfg.Groq.Timeout != 45*time.Second {
		t.Fatalf("expected timeout override, got %v", cfg.Groq.Timeout)
	}
	if cfg.Anthropic.APIKey != "ak-test" || cfg.Anthropic.MaxTokens != 2000 {
		t.Fatalf("expected anthropic overrides, got %+v", cfg.Anthropic)
	}
	if cfg.Pipeline.MaxConcurrentCalls != 8 {
		t.Fatalf("expected concurrency override, got %d", cfg.Pipeline.MaxConcurrentCalls)
	}
}

func TestFileValuesAndEnvPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `
server:
  port: 4000
  read_timeout: 10s
storage:
  data_dir: /srv/recordings
pipeline:
  max_concurrent_calls: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Fatalf("expected port from file, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Fatalf("expected read timeout from file, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Storage.DataDir != "/srv/recordings" {
		t.Fatalf("expected data dir from file, got %q", cfg.Storage.DataDir)
	}
	if cfg.Pipeline.MaxConcurrentCalls != 2 {
		t.Fatalf("expected concurrency from file, got %d", cfg.Pipeline.MaxConcurrentCalls)
	}

	// Переменная окружения побеждает значение из файла
	t.Setenv("PORT", "5000")
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Fatalf("expected env to win over file, got %d", cfg.Server.Port)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("PORT", "-1")
	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for negative port")
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("server: [не мапа"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error for broken YAML")
	}
}
