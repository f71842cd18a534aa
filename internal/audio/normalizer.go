package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyInput возвращается для пустой загрузки до запуска конвертации
	ErrEmptyInput = errors.New("audio payload is empty")

	// ErrConversionFailed возвращается при любом сбое внешнего транскодера
	ErrConversionFailed = errors.New("audio conversion failed")
)

// Normalizer приводит загруженную запись к каноничному формату:
// один канал, 16 кГц, контейнер M4A
type Normalizer struct {
	ffmpegPath string
}

// NewNormalizer создает нормализатор с указанным путем к ffmpeg
func NewNormalizer(ffmpegPath string) *Normalizer {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Normalizer{ffmpegPath: ffmpegPath}
}

// Normalize конвертирует произвольный аудиоконтейнер в каноничный формат.
// Пустой ввод отклоняется сразу, без запуска транскодера. Вся работа идет
// во временном каталоге: наполовину записанный результат никогда не виден
// снаружи, файл публикует только хранилище после успешного прогона.
func (n *Normalizer) Normalize(ctx context.Context, raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	dir, err := os.MkdirTemp("", "normalize-*")
	if err != nil {
		return nil, fmt.Errorf("ошибка создания временного каталога: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input.wav")
	out := filepath.Join(dir, "output.m4a")
	if err := os.WriteFile(in, raw, 0644); err != nil {
		return nil, fmt.Errorf("ошибка записи временного файла: %w", err)
	}

	// ffmpeg -y -i input -ar 16000 -ac 1 -map 0:a: output
	cmd := exec.CommandContext(ctx, n.ffmpegPath,
		"-y", "-i", in,
		"-ar", "16000", "-ac", "1",
		"-map", "0:a:",
		out,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v: %s", ErrConversionFailed, err, lastLine(stderr.String()))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("%w: результат конвертации не прочитан: %v", ErrConversionFailed, err)
	}
	return data, nil
}

// lastLine возвращает последнюю непустую строку вывода ffmpeg —
// именно в ней обычно находится диагностика сбоя
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
