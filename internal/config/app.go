package config

import (
	"os"
	"strconv"
	"time"
)

type AppConfig struct {
	Server    ServerConfig
	Storage   StorageConfig
	Audio     AudioConfig
	Groq      GroqConfig
	Anthropic AnthropicConfig
	Pipeline  PipelineConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type StorageConfig struct {
	DataDir string
}

type AudioConfig struct {
	FFmpegPath string
}

type GroqConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type PipelineConfig struct {
	MaxConcurrentCalls int
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
