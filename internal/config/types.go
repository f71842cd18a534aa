package config

// FileConfig представляет необязательный YAML файл настроек сервера.
// Переменные окружения имеют приоритет над значениями из файла.
type FileConfig struct {
	Server    ServerSection    `yaml:"server"`
	Storage   StorageSection   `yaml:"storage"`
	Audio     AudioSection     `yaml:"audio"`
	Groq      GroqSection      `yaml:"groq"`
	Anthropic AnthropicSection `yaml:"anthropic"`
	Pipeline  PipelineSection  `yaml:"pipeline"`
}

type ServerSection struct {
	Port            int    `yaml:"port"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

type StorageSection struct {
	DataDir string `yaml:"data_dir"`
}

type AudioSection struct {
	FFmpegPath string `yaml:"ffmpeg_path"`
}

type GroqSection struct {
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

type AnthropicSection struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	Timeout   string `yaml:"timeout"`
}

type PipelineSection struct {
	MaxConcurrentCalls int `yaml:"max_concurrent_calls"`
}
