package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"pharmapulse/backend/internal/store"
)

func TestStoreRoundTripsDocuments(t *testing.T) {
	databaseURL := os.Getenv("PHARMAPULSE_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set PHARMAPULSE_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	keyA := fmt.Sprintf("it_doc_a_%d", stamp)
	keyB := fmt.Sprintf("it_doc_b_%d", stamp)
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM pharmacy_documents WHERE key IN ($1, $2)`, keyA, keyB)
	})

	if _, ok, err := s.Load(ctx, keyA); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	err = s.Store(ctx,
		store.Document{Key: keyA, Body: []byte(`[{"id":"m1"}]`)},
		store.Document{Key: keyB, Body: []byte(`{"currency":"USD"}`)},
	)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := s.Store(ctx, store.Document{Key: keyA, Body: []byte(`[]`)}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	body, ok, err := s.Load(ctx, keyA)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(body) != "[]" {
		t.Fatalf("expected overwritten body [], got %s", body)
	}
}

func TestQueryBuilderUsesDollarPlaceholders(t *testing.T) {
	query, args, err := newBuilder().Select("body").From(table).Where("key = ?", store.KeySales).ToSql()
	if err != nil {
		t.Fatalf("to sql: %v", err)
	}
	if query != "SELECT body FROM pharmacy_documents WHERE key = $1" {
		t.Fatalf("unexpected query %q", query)
	}
	if len(args) != 1 || args[0] != store.KeySales {
		t.Fatalf("unexpected args %v", args)
	}
}
