package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load собирает конфигурацию в три слоя: значения по умолчанию, затем
// необязательный YAML файл, затем переменные окружения. Отсутствие файла —
// не ошибка, ошибка парсинга — ошибка.
func Load(filename string) (*AppConfig, error) {
	var file FileConfig
	if filename != "" {
		data, err := os.ReadFile(filename)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &file); err != nil {
				return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
			}
		}
	}

	config := &AppConfig{
		Server: ServerConfig{
			Port:            getEnvAsInt("PORT", orInt(file.Server.Port, 3000)),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", orDuration(file.Server.ReadTimeout, 30*time.Second)),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", orDuration(file.Server.WriteTimeout, 5*time.Minute)),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", orDuration(file.Server.ShutdownTimeout, 30*time.Second)),
		},
		Storage: StorageConfig{
			DataDir: getEnv("DATA_DIR", orString(file.Storage.DataDir, ".")),
		},
		Audio: AudioConfig{
			FFmpegPath: getEnv("FFMPEG_PATH", orString(file.Audio.FFmpegPath, "ffmpeg")),
		},
		Groq: GroqConfig{
			APIKey:  os.Getenv("GROQ_API_KEY"),
			Model:   getEnv("GROQ_MODEL", orString(file.Groq.Model, "distil-whisper-large-v3-en")),
			Timeout: getEnvAsDuration("GROQ_TIMEOUT", orDuration(file.Groq.Timeout, 2*time.Minute)),
		},
		Anthropic: AnthropicConfig{
			APIKey:    os.Getenv("ANTHROPIC_API_KEY"),
			Model:     getEnv("ANTHROPIC_MODEL", orString(file.Anthropic.Model, "claude-3-5-sonnet-20240620")),
			MaxTokens: getEnvAsInt("ANTHROPIC_MAX_TOKENS", orInt(file.Anthropic.MaxTokens, 4000)),
			Timeout:   getEnvAsDuration("ANTHROPIC_TIMEOUT", orDuration(file.Anthropic.Timeout, 2*time.Minute)),
		},
		Pipeline: PipelineConfig{
			MaxConcurrentCalls: getEnvAsInt("MAX_CONCURRENT_CALLS", orInt(file.Pipeline.MaxConcurrentCalls, 4)),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *AppConfig) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("port должен быть в диапазоне 1-65535, получен %d", config.Server.Port)
	}

	if config.Storage.DataDir == "" {
		return fmt.Errorf("data_dir не может быть пустым")
	}

	if config.Anthropic.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens должно быть больше 0")
	}

	if config.Pipeline.MaxConcurrentCalls <= 0 {
		return fmt.Errorf("max_concurrent_calls должно быть больше 0")
	}

	return nil
}

// orInt, orString и orDuration подставляют значение из YAML файла,
// если оно задано, иначе значение по умолчанию
func orInt(fileValue, defaultValue int) int {
	if fileValue != 0 {
		return fileValue
	}
	return defaultValue
}

func orString(fileValue, defaultValue string) string {
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

func orDuration(fileValue string, defaultValue time.Duration) time.Duration {
	if fileValue != "" {
		if duration, err := time.ParseDuration(fileValue); err == nil {
			return duration
		}
	}
	return defaultValue
}
