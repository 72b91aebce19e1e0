package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MiningNewsBot/internal/scanner"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Mining Wire</title>
    <link>https://example.com</link>
    <item>
      <guid>g1</guid>
      <title>Hashrate climbs to new highs</title>
      <link>https://example.com/1</link>
      <description>Network hashrate details.</description>
      <pubDate>Sun, 01 Jun 2025 10:00:00 GMT</pubDate>
    </item>
    <item>
      <guid>g2</guid>
      <title>Unrelated gardening tips</title>
      <link>https://example.com/2</link>
      <description>Nothing about the topic.</description>
      <pubDate>Sun, 01 Jun 2025 09:00:00 GMT</pubDate>
    </item>
    <item>
      <guid>g3</guid>
      <title>Old hashrate story</title>
      <link>https://example.com/3</link>
      <description>From last month.</description>
      <pubDate>Thu, 01 May 2025 09:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestCollectFiltersAndNormalizes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	defer server.Close()

	c := NewCollector([]string{server.URL}, nil)
	articles, err := c.Collect(context.Background(), scanner.Request{
		Keywords: []string{"hashrate"},
		Since:    time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if len(articles) != 1 {
		t.Fatalf("expected 1 article after keyword and recency filtering, got %d", len(articles))
	}
	if articles[0].ID != "g1" {
		t.Fatalf("unexpected article %q", articles[0].ID)
	}
	if articles[0].Source != "Mining Wire" {
		t.Fatalf("feed title must become the source, got %q", articles[0].Source)
	}
	if !articles[0].HasPublishedAt() {
		t.Fatal("pubDate must be parsed")
	}
}

func TestCollectSkipsBrokenFeed(t *testing.T) {
	t.Parallel()

	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not xml at all")
	}))
	defer broken.Close()

	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feedXML)
	}))
	defer good.Close()

	c := NewCollector([]string{broken.URL, good.URL}, nil)
	articles, err := c.Collect(context.Background(), scanner.Request{Keywords: []string{"hashrate"}})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(articles) == 0 {
		t.Fatal("good feed must still contribute articles")
	}
}
