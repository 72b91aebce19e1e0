package domain

import "time"

// maxRecentPosts bounds the lightweight history kept for duplicate seeding.
const maxRecentPosts = 50

// Cooldown is a window during which no posting is attempted, written after
// the publisher signals rate limiting.
type Cooldown struct {
	Until            time.Time `json:"until"`
	DurationHours    float64   `json:"duration_hours"`
	ProgressiveCount int       `json:"progressive_count"`
}

// BotState is the persisted state of the bot, loaded once at run start and
// written back at checkpoints (after a post, after a cooldown trigger, after
// a queue purge).
type BotState struct {
	PostedIDs []string `json:"posted_ids"`

	// RecentPosts keeps the last few posted articles with their text so the
	// duplicate detector can be reseeded across process restarts.
	RecentPosts []Article `json:"recent_posts,omitempty"`

	// Queue holds accepted articles waiting for a later run, oldest first.
	Queue []Article `json:"queue,omitempty"`

	LastRun  time.Time `json:"last_run,omitempty"`
	Cooldown *Cooldown `json:"cooldown,omitempty"`

	// RateLimitStreak counts consecutive rate-limit triggers; it resets on a
	// successful post or after a long gap since the last cooldown expired.
	RateLimitStreak int       `json:"rate_limit_streak,omitempty"`
	LastCooldownEnd time.Time `json:"last_cooldown_end,omitempty"`
}

// WasPosted reports whether the given article id is in the posted set.
func (s BotState) WasPosted(id string) bool {
	for _, posted := range s.PostedIDs {
		if posted == id {
			return true
		}
	}
	return false
}

// IsQueued reports whether an article with the given id is already queued.
func (s BotState) IsQueued(id string) bool {
	for _, queued := range s.Queue {
		if queued.ID == id {
			return true
		}
	}
	return false
}

// MarkPosted records a successful post: the id joins the posted set and the
// article joins the bounded recent-post history.
func (s BotState) MarkPosted(article Article) BotState {
	s.PostedIDs = append(s.PostedIDs, article.ID)
	s.RecentPosts = append(s.RecentPosts, article)
	if len(s.RecentPosts) > maxRecentPosts {
		s.RecentPosts = s.RecentPosts[len(s.RecentPosts)-maxRecentPosts:]
	}
	return s
}
