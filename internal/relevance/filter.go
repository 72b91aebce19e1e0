// Package relevance decides whether a candidate article is on-topic for the
// bitcoin-mining beat.
package relevance

import (
	"log/slog"
	"strings"

	"MiningNewsBot/internal/domain"
)

// Config tunes the admission rules. Term matching is case-insensitive
// substring matching over title+body.
type Config struct {
	// RequireAnchorEntities admits only articles naming a known anchor
	// entity when set.
	RequireAnchorEntities bool
	// MinTopicScore is the weighted term score required for admission when
	// no anchor entity is present.
	MinTopicScore float64
	// CheckExclusions rejects articles containing any exclusion term.
	CheckExclusions bool

	AnchorEntities []string
	CoreTerms      []string
	RelatedTerms   []string
	Exclusions     []string
}

// DefaultConfig returns the stock bitcoin-mining term lists and thresholds.
func DefaultConfig() Config {
	return Config{
		RequireAnchorEntities: false,
		MinTopicScore:         1,
		CheckExclusions:       true,
		AnchorEntities: []string{
			"marathon digital", "mara holdings", "riot platforms", "cleanspark",
			"core scientific", "hut 8", "bitfarms", "cipher mining", "terawulf",
			"hive digital", "iris energy", "iren limited", "bitdeer", "galaxy digital",
			"foundry", "antpool", "bitmain", "microbt",
		},
		CoreTerms: []string{
			"bitcoin mining", "bitcoin miner", "btc mining", "hashrate", "hash rate",
			"mining rig", "asic", "mining pool", "proof of work", "proof-of-work",
			"difficulty adjustment", "mining difficulty", "block reward", "halving",
			"mining farm", "hashprice",
		},
		RelatedTerms: []string{
			"bitcoin", "btc", "blockchain", "energy", "electricity", "data center",
			"datacenter", "immersion cooling", "stranded gas", "grid", "megawatt",
			"exahash", "terahash",
		},
		Exclusions: []string{
			"scam", "ponzi", "giveaway", "casino", "gambling", "cloud mining contract",
			"price prediction", "sponsored content", "press release:",
		},
	}
}

// Filter applies Config to candidate articles.
type Filter struct {
	cfg    Config
	logger *slog.Logger
}

// New builds a Filter. Term lists are lowercased once here so the per-article
// check is a plain substring scan.
func New(cfg Config, logger *slog.Logger) *Filter {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.AnchorEntities = lowerAll(cfg.AnchorEntities)
	cfg.CoreTerms = lowerAll(cfg.CoreTerms)
	cfg.RelatedTerms = lowerAll(cfg.RelatedTerms)
	cfg.Exclusions = lowerAll(cfg.Exclusions)
	return &Filter{cfg: cfg, logger: logger}
}

// IsRelevant reports whether the article should enter the pipeline.
// Exclusions are checked first, then anchor entities (which bypass the term
// score), then the weighted topic-term gate.
func (f *Filter) IsRelevant(article domain.Article) bool {
	text := strings.ToLower(article.Title + " " + article.Body)

	if f.cfg.CheckExclusions {
		for _, term := range f.cfg.Exclusions {
			if strings.Contains(text, term) {
				f.trace(article, false, "exclusion term", term)
				return false
			}
		}
	}

	for _, entity := range f.cfg.AnchorEntities {
		if strings.Contains(text, entity) {
			f.trace(article, true, "anchor entity", entity)
			return true
		}
	}

	if f.cfg.RequireAnchorEntities {
		f.trace(article, false, "no anchor entity", "")
		return false
	}

	score := 0.0
	for _, term := range f.cfg.CoreTerms {
		if strings.Contains(text, term) {
			score++
		}
	}
	for _, term := range f.cfg.RelatedTerms {
		if strings.Contains(text, term) {
			score += 0.5
		}
	}

	accepted := score >= f.cfg.MinTopicScore
	f.trace(article, accepted, "topic score", "")
	return accepted
}

func (f *Filter) trace(article domain.Article, accepted bool, reason, term string) {
	f.logger.Debug("relevance decision",
		"article", article.ID,
		"accepted", accepted,
		"reason", reason,
		"term", term)
}

func lowerAll(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
