// Package schedule gates whether an end-to-end run proceeds and what it acts
// on: posting a fresh article, draining the queue, or purging stale entries.
// All decisions are pure functions over BotState so they can be tested
// without collaborators.
package schedule

import (
	"log/slog"
	"time"

	"MiningNewsBot/internal/domain"
)

// Config tunes the run gates.
type Config struct {
	// MinimumInterval is the least time between successful runs.
	MinimumInterval time.Duration
	// QueueMaxAge is the age beyond which a queued article counts as stale.
	QueueMaxAge time.Duration
	// CooldownReset is the quiet period after a cooldown expires that resets
	// the progressive counter back to the first tier.
	CooldownReset time.Duration
}

// DefaultConfig returns the stock gate settings.
func DefaultConfig() Config {
	return Config{
		MinimumInterval: 90 * time.Minute,
		QueueMaxAge:     48 * time.Hour,
		CooldownReset:   24 * time.Hour,
	}
}

// Action is the work selected for this run.
type Action int

const (
	// ActionNone means nothing to do: no new articles and an empty queue.
	ActionNone Action = iota
	// ActionPostNew posts the most recent accepted new article.
	ActionPostNew
	// ActionPostQueued posts the oldest queued article.
	ActionPostQueued
	// ActionPurgeStale removes stale queue entries instead of posting.
	ActionPurgeStale
)

// Plan describes the selected work and the resulting queue. The queue in the
// plan already excludes a posted entry and includes newly enqueued articles;
// callers apply it to state only after the post succeeds.
type Plan struct {
	Action  Action
	Post    domain.Article
	Enqueue []domain.Article
	Queue   []domain.Article
	Purged  int
}

// Scheduler evaluates gates and selects work.
type Scheduler struct {
	cfg    Config
	logger *slog.Logger
}

// New builds a Scheduler.
func New(cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{cfg: cfg, logger: logger}
}

// CanRun evaluates the cooldown and minimum-interval gates in that order.
// An expired cooldown is cleared from the returned state. The reason string
// is for logging only.
func (s *Scheduler) CanRun(state domain.BotState, now time.Time) (domain.BotState, bool, string) {
	if state.Cooldown != nil {
		if now.Before(state.Cooldown.Until) {
			return state, false, "cooldown active"
		}
		state.Cooldown = nil
	}

	if !state.LastRun.IsZero() && now.Sub(state.LastRun) < s.cfg.MinimumInterval {
		return state, false, "minimum interval not reached"
	}

	return state, true, ""
}

// Plan selects the work for this run given the accepted new articles (already
// filtered and deduplicated). At most one article is ever posted per run.
func (s *Scheduler) Plan(state domain.BotState, accepted []domain.Article, now time.Time) Plan {
	if len(accepted) > 0 {
		post := mostRecent(accepted)

		queue := state.Queue
		var enqueued []domain.Article
		for _, a := range accepted {
			if a.ID == post.ID {
				continue
			}
			if containsID(queue, a.ID) {
				continue
			}
			queue = append(queue, a)
			enqueued = append(enqueued, a)
		}

		return Plan{Action: ActionPostNew, Post: post, Enqueue: enqueued, Queue: queue}
	}

	if len(state.Queue) == 0 {
		return Plan{Action: ActionNone}
	}

	if stale, fresh := splitStale(state.Queue, now, s.cfg.QueueMaxAge); 2*len(stale) > len(state.Queue) {
		s.logger.Info("queue is stale", "stale", len(stale), "kept", len(fresh))
		return Plan{Action: ActionPurgeStale, Queue: fresh, Purged: len(stale)}
	}

	return Plan{Action: ActionPostQueued, Post: state.Queue[0], Queue: state.Queue[1:]}
}

// RecordPost marks a successful post at now: the minimum-interval clock
// restarts and the rate-limit streak resets.
func (s *Scheduler) RecordPost(state domain.BotState, now time.Time) domain.BotState {
	state.LastRun = now
	state.RateLimitStreak = 0
	return state
}

// RecordRateLimit writes a progressive cooldown into the state: 2h, 4h, 8h,
// then 24h capped. The streak restarts at the first tier when the previous
// cooldown expired more than CooldownReset ago.
func (s *Scheduler) RecordRateLimit(state domain.BotState, now time.Time) domain.BotState {
	streak := state.RateLimitStreak
	if streak > 0 && !state.LastCooldownEnd.IsZero() && now.After(state.LastCooldownEnd.Add(s.cfg.CooldownReset)) {
		streak = 0
	}
	streak++

	hours := cooldownHours(streak)
	until := now.Add(time.Duration(hours * float64(time.Hour)))

	state.RateLimitStreak = streak
	state.LastCooldownEnd = until
	state.Cooldown = &domain.Cooldown{
		Until:            until,
		DurationHours:    hours,
		ProgressiveCount: streak,
	}

	s.logger.Warn("rate limited, entering cooldown", "hours", hours, "streak", streak)
	return state
}

func cooldownHours(streak int) float64 {
	switch streak {
	case 1:
		return 2
	case 2:
		return 4
	case 3:
		return 8
	default:
		return 24
	}
}

// mostRecent picks the article with the latest publication time; ties and
// missing timestamps resolve to the earliest fetch position.
func mostRecent(articles []domain.Article) domain.Article {
	best := articles[0]
	for _, a := range articles[1:] {
		if a.PublishedAt.After(best.PublishedAt) {
			best = a
		}
	}
	return best
}

// splitStale partitions the queue into stale and fresh entries. Entries
// without a publication time never count as stale.
func splitStale(queue []domain.Article, now time.Time, maxAge time.Duration) (stale, fresh []domain.Article) {
	cutoff := now.Add(-maxAge)
	for _, a := range queue {
		if a.HasPublishedAt() && a.PublishedAt.Before(cutoff) {
			stale = append(stale, a)
			continue
		}
		fresh = append(fresh, a)
	}
	return stale, fresh
}

func containsID(articles []domain.Article, id string) bool {
	for _, a := range articles {
		if a.ID == id {
			return true
		}
	}
	return false
}
