// Package newsapi implements the JSON news API source strategy.
package newsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/scanner"
)

// Client fetches articles from an Event Registry style JSON API.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *slog.Logger
}

var _ scanner.Source = (*Client)(nil)

// NewClient creates a reusable HTTP client for the news API.
func NewClient(endpoint, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 15 * time.Second},
		logger:   logger,
	}
}

// Name implements scanner.Source.
func (c *Client) Name() string { return "newsapi" }

type apiSource struct {
	Title string `json:"title"`
}

type apiArticle struct {
	URI         string    `json:"uri"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Body        string    `json:"body"`
	Source      apiSource `json:"source"`
	DateTimePub string    `json:"dateTimePub"`
	DateTime    string    `json:"dateTime"`
	Timestamp   int64     `json:"timestamp"`
}

type apiResponse struct {
	Articles struct {
		Results []apiArticle `json:"results"`
	} `json:"articles"`
}

// Collect queries the API and normalizes results into domain articles.
// Malformed entries are dropped with a log line, not an error.
func (c *Client) Collect(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	payload := map[string]any{
		"action":       "getArticles",
		"keyword":      req.Keywords,
		"keywordOper":  "or",
		"articlesCount": req.MaxResults,
		"resultType":   "articles",
		"apiKey":       c.apiKey,
	}
	if !req.Since.IsZero() {
		payload["dateStart"] = req.Since.UTC().Format("2006-01-02")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("query news api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("news api returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	articles := make([]domain.Article, 0, len(decoded.Articles.Results))
	for _, raw := range decoded.Articles.Results {
		article, err := toArticle(raw)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				c.logger.Warn("dropping malformed article", "uri", raw.URI, "error", err)
				continue
			}
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, nil
}

// toArticle is the single place resolving the dateTimePub/dateTime/timestamp
// fallback chain the provider is known for.
func toArticle(raw apiArticle) (domain.Article, error) {
	var publishedAt time.Time
	for _, candidate := range []string{raw.DateTimePub, raw.DateTime} {
		if candidate == "" {
			continue
		}
		if parsed, err := time.Parse(time.RFC3339, candidate); err == nil {
			publishedAt = parsed
			break
		}
	}
	if publishedAt.IsZero() && raw.Timestamp > 0 {
		publishedAt = time.Unix(raw.Timestamp, 0).UTC()
	}

	id := raw.URI
	if id == "" {
		id = raw.URL
	}

	return domain.NewArticle(id, raw.Title, raw.URL, raw.Source.Title, raw.Body, publishedAt)
}
