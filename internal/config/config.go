package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "MINING_NEWS_BOT_CONFIG"
	newsAPIKeyEnv   = "NEWS_API_KEY"
	twitterTokenEnv = "TWITTER_BEARER_TOKEN"
	geminiAPIKeyEnv = "GEMINI_API_KEY"
	databaseDSNEnv  = "DATABASE_DSN"
	statePathEnv    = "BOT_STATE_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Storage   StorageConfig   `yaml:"storage"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Sources   SourcesConfig   `yaml:"sources"`
	Relevance RelevanceConfig `yaml:"relevance"`
	Dedupe    DedupeConfig    `yaml:"dedupe"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Twitter   TwitterConfig   `yaml:"twitter"`
}

// LoggingConfig selects log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig describes where persisted state lives. PostgresDSN is
// optional; when empty the posted-article archive is disabled.
type StorageConfig struct {
	StatePath   string `yaml:"statePath"`
	PostgresDSN string `yaml:"postgresDsn"`
}

// SchedulerConfig defines the run gates and the daemon tick.
type SchedulerConfig struct {
	MinimumIntervalMinutes int  `yaml:"minimumIntervalMinutes"`
	QueueMaxAgeHours       int  `yaml:"queueMaxAgeHours"`
	CooldownResetHours     int  `yaml:"cooldownResetHours"`
	TickMinutes            int  `yaml:"tickMinutes"`
	RunOnce                bool `yaml:"runOnce"`
}

// MinimumInterval returns the minimum-interval gate as a duration.
func (s SchedulerConfig) MinimumInterval() time.Duration {
	return time.Duration(s.MinimumIntervalMinutes) * time.Minute
}

// QueueMaxAge returns the queue staleness threshold as a duration.
func (s SchedulerConfig) QueueMaxAge() time.Duration {
	return time.Duration(s.QueueMaxAgeHours) * time.Hour
}

// CooldownReset returns the progressive-counter reset gap as a duration.
func (s SchedulerConfig) CooldownReset() time.Duration {
	return time.Duration(s.CooldownResetHours) * time.Hour
}

// Tick returns the daemon trigger interval as a duration.
func (s SchedulerConfig) Tick() time.Duration {
	return time.Duration(s.TickMinutes) * time.Minute
}

// SourcesConfig groups settings for the article source strategies.
type SourcesConfig struct {
	Keywords   []string      `yaml:"keywords"`
	MaxResults int           `yaml:"maxResults"`
	NewsAPI    NewsAPIConfig `yaml:"newsApi"`
	RSSFeeds   []string      `yaml:"rssFeeds"`
	Sites      []ScrapedSite `yaml:"sites"`
}

// NewsAPIConfig wires the JSON news API client.
type NewsAPIConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// ScrapedSite describes one HTML news site with its CSS selectors.
type ScrapedSite struct {
	Name            string `yaml:"name"`
	URL             string `yaml:"url"`
	ItemSelector    string `yaml:"itemSelector"`
	TitleSelector   string `yaml:"titleSelector"`
	LinkSelector    string `yaml:"linkSelector"`
	SummarySelector string `yaml:"summarySelector"`
	DateSelector    string `yaml:"dateSelector"`
	DateFormat      string `yaml:"dateFormat"`
}

// RelevanceConfig overrides the default term lists and thresholds. Empty
// lists fall back to the built-in bitcoin-mining defaults.
type RelevanceConfig struct {
	RequireAnchorEntities bool     `yaml:"requireAnchorEntities"`
	MinTopicScore         float64  `yaml:"minTopicScore"`
	CheckExclusions       *bool    `yaml:"checkExclusions"`
	AnchorEntities        []string `yaml:"anchorEntities"`
	CoreTerms             []string `yaml:"coreTerms"`
	RelatedTerms          []string `yaml:"relatedTerms"`
	Exclusions            []string `yaml:"exclusions"`
}

// DedupeConfig overrides the duplicate-detector thresholds.
type DedupeConfig struct {
	TitleThreshold   float64 `yaml:"titleThreshold"`
	ContentThreshold float64 `yaml:"contentThreshold"`
	WindowHours      int     `yaml:"windowHours"`
}

// GeminiConfig defines the optional enrichment model.
type GeminiConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"apiKey"`
}

// TwitterConfig wires the publisher.
type TwitterConfig struct {
	Endpoint    string `yaml:"endpoint"`
	BearerToken string `yaml:"bearerToken"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(newsAPIKeyEnv); v != "" {
		c.Sources.NewsAPI.APIKey = v
	}
	if v := os.Getenv(twitterTokenEnv); v != "" {
		c.Twitter.BearerToken = v
	}
	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv(statePathEnv); v != "" {
		c.Storage.StatePath = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Storage.StatePath != "" {
		base.Storage.StatePath = override.Storage.StatePath
	}
	if override.Storage.PostgresDSN != "" {
		base.Storage.PostgresDSN = override.Storage.PostgresDSN
	}

	if override.Scheduler.MinimumIntervalMinutes > 0 {
		base.Scheduler.MinimumIntervalMinutes = override.Scheduler.MinimumIntervalMinutes
	}
	if override.Scheduler.QueueMaxAgeHours > 0 {
		base.Scheduler.QueueMaxAgeHours = override.Scheduler.QueueMaxAgeHours
	}
	if override.Scheduler.CooldownResetHours > 0 {
		base.Scheduler.CooldownResetHours = override.Scheduler.CooldownResetHours
	}
	if override.Scheduler.TickMinutes > 0 {
		base.Scheduler.TickMinutes = override.Scheduler.TickMinutes
	}
	if override.Scheduler.RunOnce {
		base.Scheduler.RunOnce = true
	}

	if len(override.Sources.Keywords) > 0 {
		base.Sources.Keywords = override.Sources.Keywords
	}
	if override.Sources.MaxResults > 0 {
		base.Sources.MaxResults = override.Sources.MaxResults
	}
	if override.Sources.NewsAPI.Endpoint != "" {
		base.Sources.NewsAPI.Endpoint = override.Sources.NewsAPI.Endpoint
	}
	if override.Sources.NewsAPI.APIKey != "" {
		base.Sources.NewsAPI.APIKey = override.Sources.NewsAPI.APIKey
	}
	if len(override.Sources.RSSFeeds) > 0 {
		base.Sources.RSSFeeds = override.Sources.RSSFeeds
	}
	if len(override.Sources.Sites) > 0 {
		base.Sources.Sites = override.Sources.Sites
	}

	base.Relevance = mergeRelevance(base.Relevance, override.Relevance)

	if override.Dedupe.TitleThreshold > 0 {
		base.Dedupe.TitleThreshold = override.Dedupe.TitleThreshold
	}
	if override.Dedupe.ContentThreshold > 0 {
		base.Dedupe.ContentThreshold = override.Dedupe.ContentThreshold
	}
	if override.Dedupe.WindowHours > 0 {
		base.Dedupe.WindowHours = override.Dedupe.WindowHours
	}

	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}

	if override.Twitter.Endpoint != "" {
		base.Twitter.Endpoint = override.Twitter.Endpoint
	}
	if override.Twitter.BearerToken != "" {
		base.Twitter.BearerToken = override.Twitter.BearerToken
	}

	return base
}

func mergeRelevance(base, override RelevanceConfig) RelevanceConfig {
	if override.RequireAnchorEntities {
		base.RequireAnchorEntities = true
	}
	if override.MinTopicScore > 0 {
		base.MinTopicScore = override.MinTopicScore
	}
	if override.CheckExclusions != nil {
		base.CheckExclusions = override.CheckExclusions
	}
	if len(override.AnchorEntities) > 0 {
		base.AnchorEntities = override.AnchorEntities
	}
	if len(override.CoreTerms) > 0 {
		base.CoreTerms = override.CoreTerms
	}
	if len(override.RelatedTerms) > 0 {
		base.RelatedTerms = override.RelatedTerms
	}
	if len(override.Exclusions) > 0 {
		base.Exclusions = override.Exclusions
	}
	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Storage: StorageConfig{StatePath: "data/bot_state.json"},
		Scheduler: SchedulerConfig{
			MinimumIntervalMinutes: 90,
			QueueMaxAgeHours:       48,
			CooldownResetHours:     24,
			TickMinutes:            90,
		},
		Sources: SourcesConfig{
			Keywords:   []string{"bitcoin mining", "bitcoin miner", "hashrate"},
			MaxResults: 25,
			NewsAPI: NewsAPIConfig{
				Endpoint: "https://newsapi.example.org/api/v1/article/getArticles",
			},
		},
		Relevance: RelevanceConfig{MinTopicScore: 1},
		Dedupe: DedupeConfig{
			TitleThreshold:   0.8,
			ContentThreshold: 0.7,
			WindowHours:      48,
		},
		Gemini: GeminiConfig{Model: "gemini-2.5-flash"},
		Twitter: TwitterConfig{
			Endpoint: "https://api.twitter.com/2/tweets",
		},
	}
}
