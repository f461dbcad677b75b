package cache

import (
	"context"
	"time"
)

// Kind separates business insights from assistant answers.
type Kind string

const (
	KindInsights  Kind = "insights"
	KindAssistant Kind = "assistant"
)

const maxAssistantTTL = 24 * time.Hour

// TTL scales the configured base lifetime per kind. Insights keep the base;
// assistant answers live twelve times longer, capped at a day and never
// below base.
func (k Kind) TTL(base time.Duration) time.Duration {
	if k != KindAssistant {
		return base
	}
	return max(base, min(12*base, maxAssistantTTL))
}

// Key namespaces a prompt digest by kind.
func Key(kind Kind, digest string) string {
	return string(kind) + ":" + digest
}

// Entry is a cached advisory answer.
type Entry struct {
	Kind     Kind      `json:"kind"`
	Text     string    `json:"text"`
	CachedAt time.Time `json:"cachedAt"`
}

type AdvisoryCache interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, value *Entry, ttl time.Duration) error
}

type NoopAdvisoryCache struct{}

func (NoopAdvisoryCache) Get(_ context.Context, _ string) (*Entry, bool, error) {
	return nil, false, nil
}

func (NoopAdvisoryCache) Set(_ context.Context, _ string, _ *Entry, _ time.Duration) error {
	return nil
}
