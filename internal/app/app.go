package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"MiningNewsBot/internal/config"
	"MiningNewsBot/internal/dedupe"
	"MiningNewsBot/internal/infrastructure/gemini"
	"MiningNewsBot/internal/infrastructure/newsapi"
	"MiningNewsBot/internal/infrastructure/rss"
	"MiningNewsBot/internal/infrastructure/scrape"
	"MiningNewsBot/internal/infrastructure/sources"
	"MiningNewsBot/internal/infrastructure/storage"
	"MiningNewsBot/internal/infrastructure/trigger"
	"MiningNewsBot/internal/infrastructure/twitter"
	"MiningNewsBot/internal/logging"
	"MiningNewsBot/internal/ports"
	"MiningNewsBot/internal/relevance"
	"MiningNewsBot/internal/scanner"
	"MiningNewsBot/internal/schedule"
	"MiningNewsBot/internal/usecase"
)

// Application wires configuration to the pipeline and its lifecycle.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	logger   *slog.Logger
	db       *sql.DB
}

// New builds a runnable application instance.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry()
	enabled := []string{}

	if cfg.Sources.NewsAPI.APIKey != "" {
		registry.Register(newsapi.NewClient(
			cfg.Sources.NewsAPI.Endpoint,
			cfg.Sources.NewsAPI.APIKey,
			baseLogger.With("component", "source.newsapi")))
		enabled = append(enabled, "newsapi")
	}
	if len(cfg.Sources.RSSFeeds) > 0 {
		registry.Register(rss.NewCollector(
			cfg.Sources.RSSFeeds,
			baseLogger.With("component", "source.rss")))
		enabled = append(enabled, "rss")
	}
	if len(cfg.Sources.Sites) > 0 {
		registry.Register(scrape.NewSiteScanner(
			cfg.Sources.Sites, nil,
			baseLogger.With("component", "source.scrape")))
		enabled = append(enabled, "scrape")
	}
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no article sources configured")
	}

	source := sources.NewAggregate(registry, enabled, baseLogger.With("component", "source"))

	var enricher ports.Enricher
	if cfg.Gemini.APIKey != "" {
		built, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, baseLogger.With("component", "gemini"))
		if err != nil {
			baseLogger.Warn("gemini disabled", "error", err)
		} else {
			enricher = built
		}
	}

	publisher := twitter.NewPublisher(
		cfg.Twitter.Endpoint,
		cfg.Twitter.BearerToken,
		nil,
		baseLogger.With("component", "twitter"))

	var db *sql.DB
	var archive ports.Archive
	if cfg.Storage.PostgresDSN != "" {
		opened, err := sql.Open("postgres", cfg.Storage.PostgresDSN)
		if err != nil {
			baseLogger.Warn("archive disabled", "error", err)
		} else {
			db = opened
			archive = storage.NewPostgresArchive(db)
		}
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Filter:     relevance.New(relevanceConfig(cfg.Relevance), baseLogger.With("component", "relevance")),
		Detector:   dedupe.New(dedupeConfig(cfg.Dedupe), baseLogger.With("component", "dedupe")),
		Scheduler:  schedule.New(scheduleConfig(cfg.Scheduler), baseLogger.With("component", "schedule")),
		Enricher:   enricher,
		Publisher:  publisher,
		Store:      storage.NewFileStore(cfg.Storage.StatePath),
		Archive:    archive,
		Logger:     baseLogger.With("component", "pipeline"),
		Keywords:   cfg.Sources.Keywords,
		MaxResults: cfg.Sources.MaxResults,
	})

	return &Application{cfg: cfg, pipeline: pipeline, logger: baseLogger, db: db}, nil
}

// Run executes a single pipeline invocation or starts the interval trigger,
// depending on configuration.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	if a.cfg.Scheduler.RunOnce {
		return a.pipeline.Run(ctx)
	}

	driver := trigger.NewIntervalTrigger(a.cfg.Scheduler.Tick())
	job := func(now time.Time) {
		if err := a.pipeline.Run(ctx); err != nil {
			a.logger.Error("run failed", "error", err)
		}
	}
	if err := driver.Start(ctx, job); err != nil {
		return err
	}

	<-ctx.Done()
	return driver.Stop(context.Background())
}

func (a *Application) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func relevanceConfig(cfg config.RelevanceConfig) relevance.Config {
	out := relevance.DefaultConfig()
	out.RequireAnchorEntities = cfg.RequireAnchorEntities
	if cfg.MinTopicScore > 0 {
		out.MinTopicScore = cfg.MinTopicScore
	}
	if cfg.CheckExclusions != nil {
		out.CheckExclusions = *cfg.CheckExclusions
	}
	if len(cfg.AnchorEntities) > 0 {
		out.AnchorEntities = cfg.AnchorEntities
	}
	if len(cfg.CoreTerms) > 0 {
		out.CoreTerms = cfg.CoreTerms
	}
	if len(cfg.RelatedTerms) > 0 {
		out.RelatedTerms = cfg.RelatedTerms
	}
	if len(cfg.Exclusions) > 0 {
		out.Exclusions = cfg.Exclusions
	}
	return out
}

func dedupeConfig(cfg config.DedupeConfig) dedupe.Config {
	out := dedupe.DefaultConfig()
	if cfg.TitleThreshold > 0 {
		out.TitleThreshold = cfg.TitleThreshold
	}
	if cfg.ContentThreshold > 0 {
		out.ContentThreshold = cfg.ContentThreshold
	}
	if cfg.WindowHours > 0 {
		out.Window = time.Duration(cfg.WindowHours) * time.Hour
	}
	return out
}

func scheduleConfig(cfg config.SchedulerConfig) schedule.Config {
	out := schedule.DefaultConfig()
	if cfg.MinimumIntervalMinutes > 0 {
		out.MinimumInterval = cfg.MinimumInterval()
	}
	if cfg.QueueMaxAgeHours > 0 {
		out.QueueMaxAge = cfg.QueueMaxAge()
	}
	if cfg.CooldownResetHours > 0 {
		out.CooldownReset = cfg.CooldownReset()
	}
	return out
}
