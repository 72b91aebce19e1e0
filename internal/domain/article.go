package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Article is the core entity describing a single news story. It is built once
// at the source boundary via NewArticle and never mutated afterwards.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Body        string    `json:"body,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// HasPublishedAt reports whether the source supplied a publication timestamp.
// Articles without one are treated as always inside any time window.
func (a Article) HasPublishedAt() bool {
	return !a.PublishedAt.IsZero()
}

// ValidationError reports a malformed candidate article. Callers drop the
// offending article and continue with the remainder of the batch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid article: %s %s", e.Field, e.Reason)
}

// NewArticle validates raw provider fields and normalizes them into an
// Article. Source falls back to "Unknown" when the provider omits it.
func NewArticle(id, title, rawURL, source, body string, publishedAt time.Time) (Article, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	rawURL = strings.TrimSpace(rawURL)

	if id == "" {
		return Article{}, &ValidationError{Field: "id", Reason: "is empty"}
	}
	if title == "" {
		return Article{}, &ValidationError{Field: "title", Reason: "is empty"}
	}
	if rawURL == "" {
		return Article{}, &ValidationError{Field: "url", Reason: "is empty"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return Article{}, &ValidationError{Field: "url", Reason: fmt.Sprintf("%q is not an absolute http(s) URL", rawURL)}
	}

	source = strings.TrimSpace(source)
	if source == "" {
		source = "Unknown"
	}

	return Article{
		ID:          id,
		Title:       title,
		URL:         rawURL,
		Source:      source,
		Body:        body,
		PublishedAt: publishedAt,
	}, nil
}
