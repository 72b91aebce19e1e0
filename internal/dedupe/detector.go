// Package dedupe prevents the same story, even reposted under a different
// URL or id, from being processed twice within a rolling time window.
package dedupe

import (
	"log/slog"
	"time"

	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/textsim"
)

// Config tunes the similarity thresholds and the rolling window.
type Config struct {
	TitleThreshold   float64
	ContentThreshold float64
	Window           time.Duration
}

// DefaultConfig returns the stock thresholds.
func DefaultConfig() Config {
	return Config{
		TitleThreshold:   0.8,
		ContentThreshold: 0.7,
		Window:           48 * time.Hour,
	}
}

type entry struct {
	article     domain.Article
	signature   textsim.TitleSignature
	fingerprint textsim.Fingerprint
}

// Detector holds a rolling window of previously seen articles and decides
// whether a new article duplicates one of them. Not safe for concurrent use.
type Detector struct {
	cfg     Config
	history []entry
	logger  *slog.Logger
	now     func() time.Time
}

// New builds a Detector with an empty history.
func New(cfg Config, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{cfg: cfg, logger: logger, now: time.Now}
}

// Add appends the articles to the history and evicts entries whose
// publication time has fallen out of the window. Entries without a
// publication time are never evicted.
func (d *Detector) Add(articles []domain.Article) {
	for _, a := range articles {
		d.history = append(d.history, entry{
			article:     a,
			signature:   textsim.FromTitle(a.Title),
			fingerprint: textsim.FromText(a.Body),
		})
	}
	d.evict(d.now())
}

// Reset discards the history. The pipeline rehydrates the detector from
// persisted state at the start of every run, so a long-lived process must
// not carry seeds over from the previous run.
func (d *Detector) Reset() {
	d.history = d.history[:0]
}

// Len returns the number of retained history entries.
func (d *Detector) Len() int {
	return len(d.history)
}

// IsDuplicate reports whether the article is a near-duplicate of a retained
// history entry. Pairs whose publication times are both known and further
// apart than the window are never compared. The first matching entry
// short-circuits the scan.
func (d *Detector) IsDuplicate(article domain.Article) bool {
	d.evict(d.now())
	if len(d.history) == 0 {
		return false
	}

	sig := textsim.FromTitle(article.Title)
	fp := textsim.FromText(article.Body)

	for _, e := range d.history {
		if article.HasPublishedAt() && e.article.HasPublishedAt() {
			delta := article.PublishedAt.Sub(e.article.PublishedAt)
			if delta < 0 {
				delta = -delta
			}
			if delta > d.cfg.Window {
				continue
			}
		}

		if score := sig.Similarity(e.signature); score >= d.cfg.TitleThreshold {
			d.logger.Debug("duplicate by title", "article", article.ID, "match", e.article.ID, "score", score)
			return true
		}
		if score := fp.Similarity(e.fingerprint); score >= d.cfg.ContentThreshold {
			d.logger.Debug("duplicate by content", "article", article.ID, "match", e.article.ID, "score", score)
			return true
		}
	}

	return false
}

func (d *Detector) evict(now time.Time) {
	cutoff := now.Add(-d.cfg.Window)
	kept := d.history[:0]
	for _, e := range d.history {
		if e.article.HasPublishedAt() && e.article.PublishedAt.Before(cutoff) {
			continue
		}
		kept = append(kept, e)
	}
	d.history = kept
}
