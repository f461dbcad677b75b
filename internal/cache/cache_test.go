package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

var (
	_ AdvisoryCache = NoopAdvisoryCache{}
	_ AdvisoryCache = (*RedisAdvisoryCache)(nil)
)

func TestNoopCacheNeverHits(t *testing.T) {
	ctx := context.Background()
	c := NoopAdvisoryCache{}

	if err := c.Set(ctx, "k", &Entry{Text: "tip"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
}

func TestKindTTL(t *testing.T) {
	cases := []struct {
		kind Kind
		base time.Duration
		want time.Duration
	}{
		{KindInsights, 5 * time.Minute, 5 * time.Minute},
		{KindAssistant, 5 * time.Minute, time.Hour},
		{KindAssistant, 4 * time.Hour, 24 * time.Hour},
		{KindAssistant, 48 * time.Hour, 48 * time.Hour},
		{Kind("other"), time.Minute, time.Minute},
	}
	for _, tc := range cases {
		if got := tc.kind.TTL(tc.base); got != tc.want {
			t.Fatalf("%s TTL(%s): expected %s, got %s", tc.kind, tc.base, tc.want, got)
		}
	}
}

func TestKeyNamespacesByKind(t *testing.T) {
	if got := Key(KindInsights, "abc"); got != "insights:abc" {
		t.Fatalf("unexpected key %q", got)
	}
	if Key(KindInsights, "abc") == Key(KindAssistant, "abc") {
		t.Fatal("expected kinds to use separate keys")
	}
}

func TestRedisCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("PHARMAPULSE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set PHARMAPULSE_TEST_REDIS_ADDR to run redis integration test")
	}

	ctx := context.Background()
	c := NewRedisAdvisoryCache(addr, "", 0)
	t.Cleanup(func() { _ = c.Close() })
	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	key := Key(KindAssistant, "it-"+time.Now().Format("150405.000000000"))
	if _, ok, err := c.Get(ctx, key); ok || err != nil {
		t.Fatalf("expected miss before set, ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, key, &Entry{Kind: KindAssistant, Text: "Reorder antibiotics weekly."}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	entry, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("expected hit, ok=%v err=%v", ok, err)
	}
	if entry.Text != "Reorder antibiotics weekly." || entry.Kind != KindAssistant {
		t.Fatalf("unexpected cached entry %+v", entry)
	}
	ttl, err := c.TTL(ctx, key)
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= time.Minute || ttl > 12*time.Minute {
		t.Fatalf("expected assistant lifetime near 12m, got %s", ttl)
	}
}
