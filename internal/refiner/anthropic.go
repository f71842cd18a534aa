package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultAnthropicURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion    = "2023-06-01"
)

// systemPrompt задает редактору правила чистки: убрать слова-паразиты и
// запинки, сохранив смысл, тон и формулировки говорящего
const systemPrompt = `You are an expert transcription editor. Your task is to clean up the given transcription while preserving its nuance, message, and the exact way it was said, providing a clearer answer to the question being asked. Remove filler words, stutters, and irrelevant noises, but maintain the speaker's tone and intent, espcially if they go off topic add more value. Only make changes if they significantly improve clarity without altering the meaning, or if the question is expecting a single basic answer, in which case you can clean it up. Respond only with the cleaned up version of the transcript, and nothing else.`

// Client чистит транскрипты через Anthropic Messages API
type Client struct {
	apiKey    string
	model     string
	maxTokens int
	baseURL   string
	client    *http.Client
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
	Error   *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient создает клиент чистки транскриптов
func NewClient(apiKey, model string, maxTokens int, timeout time.Duration) *Client {
	return &Client{
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   defaultAnthropicURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithURL создает клиент с нестандартным адресом API
func NewClientWithURL(apiKey, model string, maxTokens int, baseURL string, timeout time.Duration) *Client {
	c := NewClient(apiKey, model, maxTokens, timeout)
	c.baseURL = baseURL
	return c
}

// Refine возвращает вычищенную версию сырого транскрипта
func (c *Client) Refine(ctx context.Context, questionText, rawTranscript string) (string, error) {
	request := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages: []message{
			{
				Role: "user",
				Content: fmt.Sprintf(
					"Question: %s\n\nRaw Transcription: %s\n\nPlease provide only cleaned-up version of this transcription.",
					questionText, rawTranscript),
			},
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

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
		return "", fmt.Errorf("Anthropic API вернул статус %d: %s", resp.StatusCode, string(respBody))
	}

	var result messagesResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("ошибка парсинга ответа: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("Anthropic API ошибка: %s", result.Error.Message)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("пустой ответ от Anthropic")
	}

	return result.Content[0].Text, nil
}
