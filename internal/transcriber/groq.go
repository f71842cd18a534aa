package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultGroqURL = "https://api.groq.com/openai/v1/audio/transcriptions"

// Client распознает речь через Groq Whisper API
type Client struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

type transcriptionResponse struct {
	Text  string    `json:"text"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient создает клиент распознавания речи
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGroqURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithURL создает клиент с нестандартным адресом API
func NewClientWithURL(apiKey, model, baseURL string, timeout time.Duration) *Client {
	c := NewClient(apiKey, model, timeout)
	c.baseURL = baseURL
	return c
}

// Transcribe отправляет каноничное аудио на распознавание и возвращает
// сырой текст. Пустой текст в успешном ответе считается ошибкой.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	// Собираем multipart запрос
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("model", c.model); err != nil {
		return "", fmt.Errorf("ошибка формирования запроса: %w", err)
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return "", fmt.Errorf("ошибка формирования запроса: %w", err)
	}
	fw, err := mw.CreateFormFile("file", "audio.m4a")
	if err != nil {
		return "", fmt.Errorf("ошибка формирования запроса: %w", err)
	}
	if _, err := fw.Write(audio); err != nil {
		return "", fmt.Errorf("ошибка формирования запроса: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("ошибка формирования запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &body)
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Groq API вернул статус %d: %s", resp.StatusCode, string(respBody))
	}

	var result transcriptionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("ошибка парсинга ответа: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("Groq API ошибка: %s", result.Error.Message)
	}
	if result.Text == "" {
		return "", fmt.Errorf("распознавание не вернуло текст")
	}

	return result.Text, nil
}
