// Package twitter posts tweet threads through the v2 API.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"MiningNewsBot/internal/ports"
)

// Publisher implements ports.Publisher against the tweet-creation endpoint.
type Publisher struct {
	endpoint string
	bearer   string
	client   *http.Client
	logger   *slog.Logger
}

var _ ports.Publisher = (*Publisher)(nil)

// NewPublisher wires the endpoint and bearer token. A nil http client gets a
// default with a timeout.
func NewPublisher(endpoint, bearer string, client *http.Client, logger *slog.Logger) *Publisher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{endpoint: endpoint, bearer: bearer, client: client, logger: logger}
}

// Post creates one tweet per thread entry, chaining replies. A 429 response
// is surfaced as ports.RateLimitError so the scheduler can apply a cooldown;
// ids created before the failure are returned alongside the error.
func (p *Publisher) Post(ctx context.Context, thread []string) ([]string, error) {
	if p.bearer == "" || p.endpoint == "" {
		return nil, fmt.Errorf("twitter publisher misconfigured")
	}

	var ids []string
	replyTo := ""
	for _, text := range thread {
		id, err := p.postOne(ctx, text, replyTo)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
		replyTo = id
	}

	return ids, nil
}

func (p *Publisher) postOne(ctx context.Context, text, replyTo string) (string, error) {
	payload := map[string]any{"text": text}
	if replyTo != "" {
		payload["reply"] = map[string]string{"in_reply_to_tweet_id": replyTo}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &ports.RateLimitError{RetryAfter: retryAfter(resp)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("twitter error %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	var decoded struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Data.ID == "" {
		return "", fmt.Errorf("twitter response missing tweet id")
	}

	return decoded.Data.ID, nil
}

func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("x-rate-limit-reset"); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			if wait := time.Until(time.Unix(epoch, 0)); wait > 0 {
				return wait
			}
		}
	}
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return 0
}
