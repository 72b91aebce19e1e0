package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"MiningNewsBot/internal/ports"
)

func TestPostThread(t *testing.T) {
	t.Parallel()

	var requests []map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("unexpected auth header %q", got)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		requests = append(requests, payload)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"id": "id-" + payload["text"].(string)},
		})
	}))
	defer server.Close()

	p := NewPublisher(server.URL, "token", server.Client(), nil)
	ids, err := p.Post(context.Background(), []string{"one", "two"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}

	if len(ids) != 2 || ids[0] != "id-one" || ids[1] != "id-two" {
		t.Fatalf("unexpected ids %v", ids)
	}

	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}
	reply, ok := requests[1]["reply"].(map[string]any)
	if !ok || reply["in_reply_to_tweet_id"] != "id-one" {
		t.Fatalf("second tweet must reply to the first, got %v", requests[1])
	}
}

func TestPostRateLimited(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewPublisher(server.URL, "token", server.Client(), nil)
	_, err := p.Post(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !ports.IsRateLimit(err) {
		t.Fatalf("expected a rate-limit error, got %v", err)
	}
}

func TestPostGenericError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate content", http.StatusForbidden)
	}))
	defer server.Close()

	p := NewPublisher(server.URL, "token", server.Client(), nil)
	_, err := p.Post(context.Background(), []string{"text"})
	if err == nil {
		t.Fatal("expected an error")
	}
	if ports.IsRateLimit(err) {
		t.Fatal("a 403 must not be classified as rate limiting")
	}
}

func TestPostMisconfigured(t *testing.T) {
	t.Parallel()

	p := NewPublisher("", "", nil, nil)
	if _, err := p.Post(context.Background(), []string{"text"}); err == nil {
		t.Fatal("missing credentials must be an error")
	}
}
