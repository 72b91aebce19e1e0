// Package rss implements an RSS/Atom source strategy on top of gofeed.
package rss

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/scanner"
)

// Collector pulls configured feeds and filters items by keyword locally,
// since feeds are not queryable like a search API.
type Collector struct {
	feeds  []string
	client *http.Client
	logger *slog.Logger
}

var _ scanner.Source = (*Collector)(nil)

// NewCollector builds a Collector over the given feed URLs.
func NewCollector(feeds []string, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		feeds:  feeds,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Name implements scanner.Source.
func (c *Collector) Name() string { return "rss" }

// Collect pulls every configured feed. A failing feed is logged and skipped;
// the remaining feeds still contribute articles.
func (c *Collector) Collect(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	keywords := lowerAll(req.Keywords)
	parser := gofeed.NewParser()

	var articles []domain.Article
	for _, feedURL := range c.feeds {
		if req.MaxResults > 0 && len(articles) >= req.MaxResults {
			break
		}

		feed, err := c.fetchFeed(ctx, parser, feedURL)
		if err != nil {
			c.logger.Warn("skipping feed", "feed", feedURL, "error", err)
			continue
		}

		for _, item := range feed.Items {
			if req.MaxResults > 0 && len(articles) >= req.MaxResults {
				break
			}
			if len(keywords) > 0 && !matchesAny(item.Title+" "+item.Description, keywords) {
				continue
			}

			publishedAt := itemTime(item)
			if !req.Since.IsZero() && !publishedAt.IsZero() && publishedAt.Before(req.Since) {
				continue
			}

			id := item.GUID
			if id == "" {
				id = item.Link
			}

			article, err := domain.NewArticle(id, item.Title, item.Link, feed.Title, itemBody(item), publishedAt)
			if err != nil {
				c.logger.Warn("dropping malformed feed item", "feed", feedURL, "error", err)
				continue
			}
			articles = append(articles, article)
		}
	}

	return articles, nil
}

func (c *Collector) fetchFeed(ctx context.Context, parser *gofeed.Parser, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return parser.Parse(resp.Body)
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func itemBody(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

func matchesAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
