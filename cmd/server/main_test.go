package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pharmapulse/backend/internal/config"
	"pharmapulse/backend/internal/logger"
	"pharmapulse/backend/internal/store"
	"pharmapulse/backend/internal/store/memory"
)

func TestValidateSecurityConfigRejectsWeakValues(t *testing.T) {
	cases := []config.Config{
		{AuthSecret: "short", ShopPIN: "4821"},
		{AuthSecret: "0123456789abcdef0123456789abcdef", ShopPIN: "12"},
		{AuthSecret: "0123456789abcdef0123456789abcdef", ShopPIN: "1234"},
		{AuthSecret: "0123456789abcdef0123456789abcdef", ShopPIN: "9999"},
		{AuthSecret: "0123456789abcdef0123456789abcdef", ShopPIN: "2580"},
		{AuthSecret: "0123456789abcdef0123456789abcdef", ShopPIN: "48a1"},
	}
	for _, cfg := range cases {
		if err := validateSecurityConfig(cfg); err == nil {
			t.Fatalf("expected weak config %+v to be rejected", cfg)
		}
	}
}

func TestValidateSecurityConfigAcceptsStrongValues(t *testing.T) {
	err := validateSecurityConfig(config.Config{AuthSecret: "0123456789abcdef0123456789abcdef", ShopPIN: "739154"})
	if err != nil {
		t.Fatalf("expected strong config to pass, got %v", err)
	}
}

func TestOpenRepositoryMemory(t *testing.T) {
	repo, closeFn, err := openRepository(context.Background(), config.Config{StoreDriver: config.DriverMemory}, logger.Nop())
	if err != nil {
		t.Fatalf("open memory repository: %v", err)
	}
	if closeFn != nil {
		t.Fatalf("expected no closer for memory repository")
	}
	if _, ok := repo.(*memory.Store); !ok {
		t.Fatalf("expected memory store, got %T", repo)
	}
}

func TestOpenRepositorySQLiteSeeds(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "pharmacy.db")}

	repo, closeFn, err := openRepository(ctx, cfg, logger.Nop())
	if err != nil {
		t.Fatalf("open sqlite repository: %v", err)
	}
	defer func() { _ = closeFn() }()

	if _, ok := repo.(*store.DocumentRepository); !ok {
		t.Fatalf("expected document repository, got %T", repo)
	}
	medicines, err := repo.ListMedicines(ctx)
	if err != nil {
		t.Fatalf("list medicines: %v", err)
	}
	if len(medicines) != len(store.DefaultMedicines()) {
		t.Fatalf("expected seeded medicines, got %d", len(medicines))
	}
}

func TestLoadLocationFallsBackToUTC(t *testing.T) {
	if loc := loadLocation("Not/AZone", logger.Nop()); loc != time.UTC {
		t.Fatalf("expected UTC fallback, got %v", loc)
	}
	if loc := loadLocation("UTC", logger.Nop()); loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v", loc)
	}
}
