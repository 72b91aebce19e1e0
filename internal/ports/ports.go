package ports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MiningNewsBot/internal/domain"
)

// ArticleSource pulls candidate articles from upstream news providers.
type ArticleSource interface {
	Fetch(ctx context.Context, keywords []string, maxResults int, since time.Time) ([]domain.Article, error)
}

// Enricher generates an optional headline and summary for an article.
// Failures degrade to the article's own title/body and never block posting.
type Enricher interface {
	Headline(ctx context.Context, article domain.Article, maxLen int) (string, error)
	Summary(ctx context.Context, article domain.Article, headline string, maxLen int) (string, error)
}

// Publisher posts a tweet thread and returns the created post ids.
type Publisher interface {
	Post(ctx context.Context, thread []string) ([]string, error)
}

// StateStore loads and saves the persisted bot state.
type StateStore interface {
	Load(ctx context.Context) (domain.BotState, error)
	Save(ctx context.Context, state domain.BotState) error
}

// Archive records posted articles in long-term storage for audit.
type Archive interface {
	RecordPosted(ctx context.Context, article domain.Article, postIDs []string) error
}

// Trigger controls when pipeline runs execute.
type Trigger interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// RateLimitError marks a Publisher failure caused by platform throttling. The
// scheduler translates it into a progressive cooldown instead of a retry.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("publisher rate limited, retry after %s", e.RetryAfter)
	}
	return "publisher rate limited"
}

// IsRateLimit reports whether err carries a RateLimitError anywhere in its
// chain.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}
