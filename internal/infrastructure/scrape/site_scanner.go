// Package scrape implements an HTML scraping source strategy for mining-news
// sites that expose neither a feed nor an API.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"MiningNewsBot/internal/config"
	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/scanner"
)

// SiteScanner collects articles from configured HTML sites via CSS selectors.
type SiteScanner struct {
	sites  []config.ScrapedSite
	client *http.Client
	logger *slog.Logger
}

var _ scanner.Source = (*SiteScanner)(nil)

// NewSiteScanner builds a SiteScanner. A nil http client gets a default with
// a sane timeout.
func NewSiteScanner(sites []config.ScrapedSite, client *http.Client, logger *slog.Logger) *SiteScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteScanner{sites: sites, client: client, logger: logger}
}

// Name implements scanner.Source.
func (s *SiteScanner) Name() string { return "scrape" }

// Collect scans every configured site. A failing site is logged and skipped.
func (s *SiteScanner) Collect(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	var articles []domain.Article
	for _, site := range s.sites {
		if req.MaxResults > 0 && len(articles) >= req.MaxResults {
			break
		}

		collected, err := s.scanSite(ctx, site, req)
		if err != nil {
			s.logger.Warn("skipping site", "site", site.Name, "error", err)
			continue
		}
		articles = append(articles, collected...)
	}

	if req.MaxResults > 0 && len(articles) > req.MaxResults {
		articles = articles[:req.MaxResults]
	}
	return articles, nil
}

func (s *SiteScanner) scanSite(ctx context.Context, site config.ScrapedSite, req scanner.Request) ([]domain.Article, error) {
	doc, err := s.fetchDocument(ctx, site.URL)
	if err != nil {
		return nil, err
	}
	return extractArticles(doc, site, req.Since, s.logger), nil
}

func (s *SiteScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "MiningNewsBot/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("site returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func extractArticles(doc *goquery.Document, site config.ScrapedSite, since time.Time, logger *slog.Logger) []domain.Article {
	if logger == nil {
		logger = slog.Default()
	}

	var collected []domain.Article

	doc.Find(site.ItemSelector).Each(func(i int, item *goquery.Selection) {
		article, err := parseItem(item, site)
		if err != nil {
			logger.Debug("dropping scraped item", "site", site.Name, "error", err)
			return
		}
		if !since.IsZero() && article.HasPublishedAt() && article.PublishedAt.Before(since) {
			return
		}
		collected = append(collected, article)
	})

	return collected
}

func parseItem(item *goquery.Selection, site config.ScrapedSite) (domain.Article, error) {
	title := strings.TrimSpace(item.Find(site.TitleSelector).First().Text())

	link := item.Find(site.LinkSelector).First()
	href, _ := link.Attr("href")
	href = resolveLink(site.URL, href)

	summary := strings.TrimSpace(item.Find(site.SummarySelector).First().Text())

	var publishedAt time.Time
	if site.DateSelector != "" && site.DateFormat != "" {
		dateText := strings.TrimSpace(item.Find(site.DateSelector).First().Text())
		if parsed, err := time.Parse(site.DateFormat, dateText); err == nil {
			publishedAt = parsed
		}
	}

	return domain.NewArticle(href, title, href, site.Name, summary, publishedAt)
}

func resolveLink(base, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}
