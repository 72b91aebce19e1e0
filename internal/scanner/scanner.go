package scanner

import (
	"context"
	"fmt"
	"time"

	"MiningNewsBot/internal/domain"
)

// Request carries fetch parameters shared by all source strategies.
type Request struct {
	Keywords   []string
	MaxResults int
	Since      time.Time
}

// Source captures a single collection strategy (JSON API, RSS, HTML scrape).
type Source interface {
	Name() string
	Collect(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(source Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[source.Name()] = source
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Source, error) {
	if source, ok := r.sources[name]; ok {
		return source, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}
