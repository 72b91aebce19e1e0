// Package compose turns an article plus optional enrichment into tweet text.
package compose

import "strings"

const (
	maxTweetLen = 280
	// twitterURLLen is the fixed length Twitter assigns any URL via t.co.
	twitterURLLen = 23
	ellipsis      = "…"
)

var emojiByKeyword = []struct {
	keyword string
	emoji   string
}{
	{"hashrate", "⚡"},
	{"hash rate", "⚡"},
	{"acquisition", "🤝"},
	{"merger", "🤝"},
	{"halving", "⏳"},
	{"energy", "🔋"},
	{"record", "📈"},
}

const defaultEmoji = "⛏️"

// Tweet builds a single tweet from the article and optional enrichment.
// Empty headline falls back to the article title; empty summary is omitted.
// The text is truncated on a word boundary to fit the 280-character budget
// with the URL counted at its t.co length.
func Tweet(title, summary, articleURL, source string, headline string) string {
	head := strings.TrimSpace(headline)
	if head == "" {
		head = strings.TrimSpace(title)
	}

	var b strings.Builder
	b.WriteString(pickEmoji(head + " " + summary))
	b.WriteString(" ")
	b.WriteString(head)

	if s := strings.TrimSpace(summary); s != "" {
		b.WriteString("\n\n")
		b.WriteString(s)
	}

	text := b.String()

	tail := "\n\n"
	if src := strings.TrimSpace(source); src != "" && src != "Unknown" {
		tail += "via " + src + " "
	}
	budget := maxTweetLen - twitterURLLen - len([]rune(tail))

	if len([]rune(text)) > budget {
		text = truncateWords(text, budget-len([]rune(ellipsis))) + ellipsis
	}

	return text + tail + articleURL
}

// truncateWords cuts text to at most limit runes, preferring the last word
// boundary before the limit.
func truncateWords(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := string(runes[:limit])
	if idx := strings.LastIndexAny(cut, " \n"); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \n")
}

func pickEmoji(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range emojiByKeyword {
		if strings.Contains(lower, rule.keyword) {
			return rule.emoji
		}
	}
	return defaultEmoji
}
