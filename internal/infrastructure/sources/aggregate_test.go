package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/scanner"
)

type stubSource struct {
	name     string
	articles []domain.Article
	err      error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Collect(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	return s.articles, s.err
}

func article(id string) domain.Article {
	return domain.Article{ID: id, Title: "t", URL: "https://example.com/" + id, Source: "s"}
}

func TestFetchMergesAndDeduplicates(t *testing.T) {
	t.Parallel()

	registry := scanner.NewRegistry()
	registry.Register(&stubSource{name: "one", articles: []domain.Article{article("a"), article("b")}})
	registry.Register(&stubSource{name: "two", articles: []domain.Article{article("b"), article("c")}})

	agg := NewAggregate(registry, []string{"one", "two"}, nil)
	got, err := agg.Fetch(context.Background(), nil, 0, time.Time{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 unique articles, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Fatalf("source order must be preserved, got %v", got)
	}
}

func TestFetchToleratesFailingSource(t *testing.T) {
	t.Parallel()

	registry := scanner.NewRegistry()
	registry.Register(&stubSource{name: "broken", err: errors.New("offline")})
	registry.Register(&stubSource{name: "good", articles: []domain.Article{article("a")}})

	agg := NewAggregate(registry, []string{"broken", "good"}, nil)
	got, err := agg.Fetch(context.Background(), nil, 0, time.Time{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("good source must still contribute, got %d", len(got))
	}
}

func TestFetchCapsResults(t *testing.T) {
	t.Parallel()

	registry := scanner.NewRegistry()
	registry.Register(&stubSource{name: "one", articles: []domain.Article{article("a"), article("b"), article("c")}})

	agg := NewAggregate(registry, []string{"one"}, nil)
	got, err := agg.Fetch(context.Background(), nil, 2, time.Time{})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(got))
	}
}

func TestFetchUnknownSourceIsError(t *testing.T) {
	t.Parallel()

	agg := NewAggregate(scanner.NewRegistry(), []string{"ghost"}, nil)
	if _, err := agg.Fetch(context.Background(), nil, 0, time.Time{}); err == nil {
		t.Fatal("unregistered source must be an error")
	}
}
