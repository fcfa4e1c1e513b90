// Package vertex адаптер Gemini в Vertex AI. Структура ответа задаётся схемой
// на стороне сервера, поэтому модель возвращает массив идей без обёрток.
package vertex

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/magabrotheeeer/hustlefinder/internal/models"
	"github.com/magabrotheeeer/hustlefinder/internal/services/generation"
)

const ideaCount = 3

// DefaultModel модель по умолчанию.
const DefaultModel = "gemini-2.0-flash-001"

// Config параметры подключения.
type Config struct {
	Project         string
	Location        string
	Model           string
	CredentialsFile string
}

// Provider клиент Vertex AI.
type Provider struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ generation.Provider = (*Provider)(nil)

// New подключается к Vertex AI. Без проекта возвращает generation.ErrNotConfigured.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	const op = "vertex.New"

	if cfg.Project == "" || cfg.Location == "" {
		return nil, fmt.Errorf("%s: %w", op, generation.ErrNotConfigured)
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := genai.NewClient(ctx, cfg.Project, cfg.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	name := cfg.Model
	if name == "" {
		name = DefaultModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(0.8)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = IdeasSchema()
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text("You are a side hustle advisor. Recommend realistic, specific side hustles.")},
	}

	return &Provider{client: client, model: model}, nil
}

// Name имя провайдера.
func (p *Provider) Name() string { return "vertex" }

// Generate запрашивает идеи у модели.
func (p *Provider) Generate(ctx context.Context, prompt string) ([]models.Idea, error) {
	const op = "vertex.Generate"

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	text := responseText(resp)
	if text == "" {
		return nil, fmt.Errorf("%s: %w: empty response", op, generation.ErrFormat)
	}
	ideas, err := generation.ParseIdeas(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ideas, nil
}

// Close закрывает клиент.
func (p *Provider) Close() error {
	return p.client.Close()
}

// IdeasSchema схема ответа: ровно три объекта со всеми полями идеи.
func IdeasSchema() *genai.Schema {
	str := func(desc string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: desc}
	}
	return &genai.Schema{
		Type:     genai.TypeArray,
		MinItems: ideaCount,
		MaxItems: ideaCount,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"name":            str("Short name of the side hustle"),
				"description":     str("Two or three sentence description"),
				"estimatedProfit": str("Monthly profit range in USD"),
				"startupCost":     str("Upfront cost range in USD"),
				"timeCommitment":  str("Hours per week"),
				"requiredSkills": {
					Type:  genai.TypeArray,
					Items: &genai.Schema{Type: genai.TypeString},
				},
				"potentialChallenges": str("Main risks and difficulties"),
				"learnMoreLink":       str("https URL of a reputable guide"),
			},
			Required: []string{
				"name", "description", "estimatedProfit", "startupCost",
				"timeCommitment", "requiredSkills", "potentialChallenges", "learnMoreLink",
			},
		},
	}
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String()
}

func mapError(err error) error {
	switch status.Code(err) {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %v", generation.ErrAuthFailed, err)
	case codes.ResourceExhausted:
		return fmt.Errorf("%w: %v", generation.ErrRateLimited, err)
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %v", generation.ErrInvalidRequest, err)
	default:
		return fmt.Errorf("%w: %v", generation.ErrUnavailable, err)
	}
}
