// Package sources aggregates registered source strategies behind the
// ArticleSource port.
package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/ports"
	"MiningNewsBot/internal/scanner"
)

// Aggregate implements ports.ArticleSource by fanning a fetch request out to
// every enabled source strategy in order.
type Aggregate struct {
	registry *scanner.Registry
	enabled  []string
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*Aggregate)(nil)

// NewAggregate wires the registry with the ordered list of enabled sources.
func NewAggregate(registry *scanner.Registry, enabled []string, logger *slog.Logger) *Aggregate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregate{registry: registry, enabled: enabled, logger: logger}
}

// Fetch collects from every enabled source. A failing source is logged and
// contributes nothing; results keep source order, deduplicated by id.
func (a *Aggregate) Fetch(ctx context.Context, keywords []string, maxResults int, since time.Time) ([]domain.Article, error) {
	if a.registry == nil {
		return nil, fmt.Errorf("source registry is not configured")
	}

	req := scanner.Request{Keywords: keywords, MaxResults: maxResults, Since: since}

	seen := make(map[string]struct{})
	var aggregated []domain.Article
	for _, name := range a.enabled {
		source, err := a.registry.Resolve(name)
		if err != nil {
			return nil, err
		}

		results, err := source.Collect(ctx, req)
		if err != nil {
			a.logger.Warn("source failed", "source", name, "error", err)
			continue
		}

		for _, article := range results {
			if _, ok := seen[article.ID]; ok {
				continue
			}
			seen[article.ID] = struct{}{}
			aggregated = append(aggregated, article)
		}
		a.logger.Debug("source produced articles", "source", name, "count", len(results))
	}

	if maxResults > 0 && len(aggregated) > maxResults {
		aggregated = aggregated[:maxResults]
	}
	return aggregated, nil
}
