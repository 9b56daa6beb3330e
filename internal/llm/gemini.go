// Package llm адаптирует генеративную модель Gemini к нуждам сервиса:
// построение наставления в духе Бхагавад-гиты по описанию жизненной проблемы.
package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GuidanceClient abstracts the generative model behind the guidance flow.
type GuidanceClient interface {
	GenerateGuidance(ctx context.Context, problem, language string) (string, error)
}

// GeminiClient реализует GuidanceClient поверх Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient создает клиента Gemini с указанной моделью.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	const op = "llm.NewGeminiClient"

	if apiKey == "" {
		return nil, fmt.Errorf("%s: api key is required", op)
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// GenerateGuidance строит промпт с персоной Бхагавад-гиты и возвращает
// текст наставления на целевом языке.
func (c *GeminiClient) GenerateGuidance(ctx context.Context, problem, language string) (string, error) {
	const op = "llm.GenerateGuidance"

	if language == "" {
		language = "en"
	}
	prompt := fmt.Sprintf(
		"You are a wise counselor speaking through the teachings of the Bhagavad Gita. "+
			"A person shares this life problem: %q. "+
			"Offer compassionate, practical guidance rooted in the Gita's wisdom, "+
			"citing relevant verses where natural. Respond in the language %q.",
		problem, language)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%s: empty response from model", op)
	}
	return text, nil
}
