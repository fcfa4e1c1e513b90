// Package groq адаптер OpenAI-совместимого API Groq для генерации идей.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/services/generation"
)

const (
	// DefaultBaseURL адрес OpenAI-совместимого API Groq.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel модель по умолчанию.
	DefaultModel = "llama-3.3-70b-versatile"

	systemPrompt = "You are a side hustle advisor. You always answer with valid JSON only."
	temperature  = 0.8
	maxTokens    = 2048
)

// Provider клиент Groq.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

var _ generation.Provider = (*Provider)(nil)

// Option настраивает Provider.
type Option func(*Provider)

// WithHTTPClient задаёт HTTP-клиент.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithBaseURL задаёт адрес API.
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		if u != "" {
			p.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel задаёт модель.
func WithModel(m string) Option {
	return func(p *Provider) {
		if m != "" {
			p.model = m
		}
	}
}

// New создаёт провайдера. Пустой ключ делает провайдера ненастроенным.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name имя провайдера.
func (p *Provider) Name() string { return "groq" }

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type apiRequest struct {
	Model          string          `json:"model"`
	Messages       []apiMessage    `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type apiResponse struct {
	Choices []struct {
		Message      apiMessage `json:"message"`
		FinishReason string     `json:"finish_reason"`
	} `json:"choices"`
}

// Generate запрашивает идеи и разбирает текстовый ответ модели.
func (p *Provider) Generate(ctx context.Context, prompt string) ([]models.Idea, error) {
	const op = "groq.Generate"

	if p.apiKey == "" {
		return nil, fmt.Errorf("%s: %w", op, generation.ErrNotConfigured)
	}

	body, err := json.Marshal(apiRequest{
		Model: p.model,
		Messages: []apiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, generation.ErrUnavailable, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if err = mapHTTPError(resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var apiResp apiResponse
	if err = json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%s: %w: decode response: %v", op, generation.ErrFormat, err)
	}
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("%s: %w: empty choices", op, generation.ErrFormat)
	}

	ideas, err := generation.ParseIdeas(apiResp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ideas, nil
}

func mapHTTPError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return generation.ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return generation.ErrAuthFailed
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", generation.ErrInvalidRequest, string(body))
	default:
		return fmt.Errorf("%w: status %d", generation.ErrUnavailable, resp.StatusCode)
	}
}
