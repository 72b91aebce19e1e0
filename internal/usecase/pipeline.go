package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"MiningNewsBot/internal/compose"
	"MiningNewsBot/internal/dedupe"
	"MiningNewsBot/internal/domain"
	"MiningNewsBot/internal/ports"
	"MiningNewsBot/internal/relevance"
	"MiningNewsBot/internal/schedule"
)

const (
	headlineMaxLen = 100
	summaryMaxLen  = 150
)

// PipelineDeps wires all collaborators into the run pipeline.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Filter     *relevance.Filter
	Detector   *dedupe.Detector
	Scheduler  *schedule.Scheduler
	Enricher   ports.Enricher
	Publisher  ports.Publisher
	Store      ports.StateStore
	Archive    ports.Archive
	Logger     *slog.Logger
	Keywords   []string
	MaxResults int
	Now        func() time.Time
}

// Pipeline implements one run-to-completion invocation: load state, evaluate
// gates, fetch, filter, dedupe, select work, post, persist.
type Pipeline struct {
	source     ports.ArticleSource
	filter     *relevance.Filter
	detector   *dedupe.Detector
	scheduler  *schedule.Scheduler
	enricher   ports.Enricher
	publisher  ports.Publisher
	store      ports.StateStore
	archive    ports.Archive
	logger     *slog.Logger
	keywords   []string
	maxResults int
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:     deps.Source,
		filter:     deps.Filter,
		detector:   deps.Detector,
		scheduler:  deps.Scheduler,
		enricher:   deps.Enricher,
		publisher:  deps.Publisher,
		store:      deps.Store,
		archive:    deps.Archive,
		logger:     logger,
		keywords:   deps.Keywords,
		maxResults: deps.MaxResults,
		now:        now,
	}
}

// Run executes a single invocation. Storage errors abort the run; provider
// and enrichment failures are recovered locally.
func (p *Pipeline) Run(ctx context.Context) error {
	now := p.now()

	state, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	state, ok, reason := p.scheduler.CanRun(state, now)
	if !ok {
		p.logger.Info("run skipped", "reason", reason)
		return nil
	}

	accepted := p.selectCandidates(ctx, state)

	plan := p.scheduler.Plan(state, accepted, now)
	switch plan.Action {
	case schedule.ActionNone:
		p.logger.Info("nothing to post")
		return nil

	case schedule.ActionPurgeStale:
		p.logger.Info("purging stale queue entries", "purged", plan.Purged, "kept", len(plan.Queue))
		state.Queue = plan.Queue
		if err := p.store.Save(ctx, state); err != nil {
			return fmt.Errorf("save state after purge: %w", err)
		}
		return nil

	default:
		return p.post(ctx, state, plan, now)
	}
}

// selectCandidates fetches, validates against posted/queued ids, and applies
// the relevance and duplicate filters. A provider failure is logged and
// treated as zero new articles. Articles within the incoming batch are not
// compared against each other, only against history.
func (p *Pipeline) selectCandidates(ctx context.Context, state domain.BotState) []domain.Article {
	fetched, err := p.source.Fetch(ctx, p.keywords, p.maxResults, state.LastRun)
	if err != nil {
		p.logger.Warn("fetch failed, continuing with empty batch", "error", err)
		fetched = nil
	}
	p.logger.Info("fetched candidates", "count", len(fetched))

	p.detector.Reset()
	p.detector.Add(state.RecentPosts)
	p.detector.Add(state.Queue)

	var accepted []domain.Article
	for _, article := range fetched {
		if state.WasPosted(article.ID) || state.IsQueued(article.ID) {
			continue
		}
		if !p.filter.IsRelevant(article) {
			continue
		}
		if p.detector.IsDuplicate(article) {
			p.logger.Debug("skipping near-duplicate", "article", article.ID)
			continue
		}
		accepted = append(accepted, article)
	}

	p.logger.Info("accepted candidates", "count", len(accepted))
	return accepted
}

// post publishes the planned article and persists the resulting state. A
// rate-limit signal is translated into a progressive cooldown; the planned
// queue change is discarded so the unposted article is not lost.
func (p *Pipeline) post(ctx context.Context, state domain.BotState, plan schedule.Plan, now time.Time) error {
	article := plan.Post
	thread := p.composeThread(ctx, article)

	ids, err := p.publisher.Post(ctx, thread)
	if err != nil {
		if ports.IsRateLimit(err) {
			state = p.scheduler.RecordRateLimit(state, now)
			if saveErr := p.store.Save(ctx, state); saveErr != nil {
				return fmt.Errorf("save state after rate limit: %w", saveErr)
			}
			return nil
		}
		p.logger.Error("post failed", "article", article.ID, "error", err)
		return nil
	}

	state.Queue = plan.Queue
	state = p.scheduler.RecordPost(state, now)
	state = state.MarkPosted(article)

	p.logger.Info("posted article",
		"article", article.ID,
		"title", article.Title,
		"posts", len(ids),
		"enqueued", len(plan.Enqueue))

	if p.archive != nil {
		if err := p.archive.RecordPosted(ctx, article, ids); err != nil {
			p.logger.Warn("archive write failed", "article", article.ID, "error", err)
		}
	}

	if err := p.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save state after post: %w", err)
	}
	return nil
}

// composeThread builds the tweet text, degrading to the article's own
// title/body when enrichment is absent or fails.
func (p *Pipeline) composeThread(ctx context.Context, article domain.Article) []string {
	headline := ""
	summary := ""

	if p.enricher != nil {
		h, err := p.enricher.Headline(ctx, article, headlineMaxLen)
		if err != nil {
			p.logger.Warn("headline enrichment failed", "article", article.ID, "error", err)
		} else {
			headline = h
		}

		s, err := p.enricher.Summary(ctx, article, headline, summaryMaxLen)
		if err != nil {
			p.logger.Warn("summary enrichment failed", "article", article.ID, "error", err)
		} else {
			summary = s
		}
	}

	return []string{compose.Tweet(article.Title, summary, article.URL, article.Source, headline)}
}
