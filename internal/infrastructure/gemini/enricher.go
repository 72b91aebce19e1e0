// Package gemini provides optional headline/summary enrichment via the
// Gemini API. Failures degrade to the article's own text upstream.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/ports"
)

// Enricher implements ports.Enricher backed by the official genai SDK.
type Enricher struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

var _ ports.Enricher = (*Enricher)(nil)

// New creates an Enricher. The API key is passed explicitly rather than read
// from the environment so config stays the single source of truth.
func New(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Enricher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Enricher{client: client, model: model, logger: logger}, nil
}

// Headline generates a punchy headline no longer than maxLen characters.
func (e *Enricher) Headline(ctx context.Context, article domain.Article, maxLen int) (string, error) {
	prompt := fmt.Sprintf(
		"Write a single punchy news headline of at most %d characters for this bitcoin-mining story. "+
			"Return only the headline, no quotes.\n\nTitle: %s\n\nBody: %s",
		maxLen, article.Title, clip(article.Body, 2000))

	text, err := e.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate headline: %w", err)
	}
	return clip(cleanLine(text), maxLen), nil
}

// Summary generates a one-sentence summary that complements the headline.
func (e *Enricher) Summary(ctx context.Context, article domain.Article, headline string, maxLen int) (string, error) {
	prompt := fmt.Sprintf(
		"Write one plain sentence of at most %d characters summarizing this bitcoin-mining story. "+
			"Do not repeat the headline %q. Return only the sentence.\n\nTitle: %s\n\nBody: %s",
		maxLen, headline, article.Title, clip(article.Body, 2000))

	text, err := e.generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return clip(cleanLine(text), maxLen), nil
}

func (e *Enricher) generate(ctx context.Context, prompt string) (string, error) {
	result, err := e.client.Models.GenerateContent(ctx, e.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	text, err := result.Text()
	if err != nil {
		return "", fmt.Errorf("read model response: %w", err)
	}
	return text, nil
}

func cleanLine(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	return strings.Trim(text, `"' `)
}

func clip(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
