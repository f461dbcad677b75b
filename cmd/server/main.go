package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pharmapulse/backend/internal/advisor"
	"pharmapulse/backend/internal/cache"
	"pharmapulse/backend/internal/config"
	"pharmapulse/backend/internal/httpapi"
	"pharmapulse/backend/internal/logger"
	"pharmapulse/backend/internal/ordering"
	"pharmapulse/backend/internal/service"
	"pharmapulse/backend/internal/store"
	"pharmapulse/backend/internal/store/memory"
	pgstore "pharmapulse/backend/internal/store/postgres"
	sqlitestore "pharmapulse/backend/internal/store/sqlite"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.LogDevelopment})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalw("invalid security configuration", "error", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	closers := make([]func() error, 0, 3)

	repo, closeRepo, err := openRepository(ctx, cfg, log)
	if err != nil {
		log.Fatalw("repository unavailable; refusing to start", "driver", cfg.StoreDriver, "error", err)
	}
	if closeRepo != nil {
		closers = append(closers, closeRepo)
	}

	advisoryCache := cache.AdvisoryCache(cache.NoopAdvisoryCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisAdvisoryCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warnw("redis unavailable, using noop cache", "error", err)
		} else {
			advisoryCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Infow("cache: redis", "addr", cfg.RedisAddr)
		}
	} else {
		log.Info("cache: noop")
	}

	var dispatcher ordering.Dispatcher = ordering.LogDispatcher{}
	if cfg.AMQPURL != "" {
		amqpDispatcher, err := ordering.NewAMQPDispatcher(cfg.AMQPURL, cfg.OrderQueue)
		if err != nil {
			log.Warnw("amqp unavailable, orders are only logged", "error", err)
		} else {
			dispatcher = amqpDispatcher
			closers = append(closers, amqpDispatcher.Close)
			log.Infow("order dispatch: amqp", "queue", cfg.OrderQueue)
		}
	} else {
		log.Info("order dispatch: log")
	}

	var client advisor.Client
	if cfg.GeminiAPIKey != "" {
		gemini, err := advisor.NewGeminiClient(ctx, cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)
		if err != nil {
			log.Warnw("gemini client unavailable, advisor answers fall back", "error", err)
		} else {
			client = gemini
			log.Infow("advisor: gemini", "model", cfg.GeminiModel)
		}
	} else {
		log.Info("advisor: not configured")
	}

	adv := advisor.New(client, advisoryCache, time.Duration(cfg.AdvisorTTLSeconds)*time.Second)
	svc := service.New(repo, ordering.NewBoard(dispatcher), adv, service.Options{
		BusinessName:     cfg.BusinessName,
		Location:         loadLocation(cfg.Timezone, log),
		ExpiryWindowDays: cfg.ExpiryWindowDays,
	})
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, cfg.ShopPIN)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin, log)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infow("pharmacy backend listening", "addr", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server error", "error", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("shutdown error", "error", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Warnw("close error", "error", err)
		}
	}

	log.Info("server stopped")
}

// openRepository builds the configured backend. The SQL backends are
// seeded on first start and return a closer.
func openRepository(ctx context.Context, cfg config.Config, log *logger.Logger) (store.Repository, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		repo, err := store.NewDocumentRepository(ctx, pg)
		if err != nil {
			_ = pg.Close()
			return nil, nil, fmt.Errorf("postgres seed: %w", err)
		}
		log.Info("repository: postgres")
		return repo, pg.Close, nil
	case config.DriverSQLite:
		db, err := sqlitestore.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		repo, err := store.NewDocumentRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("sqlite seed: %w", err)
		}
		log.Infow("repository: sqlite", "path", cfg.SQLitePath)
		return repo, db.Close, nil
	default:
		log.Info("repository: in-memory")
		return memory.NewSeeded(), nil, nil
	}
}

func loadLocation(name string, log *logger.Logger) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warnw("unknown time zone, using UTC", "tz", name, "error", err)
		return time.UTC
	}
	return loc
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if len(cfg.ShopPIN) < 4 {
		return fmt.Errorf("SHOP_PIN must be set and at least 4 digits")
	}
	for _, r := range cfg.ShopPIN {
		if r < '0' || r > '9' {
			return fmt.Errorf("SHOP_PIN must contain digits only")
		}
	}
	if err := validatePINStrength(cfg.ShopPIN); err != nil {
		return fmt.Errorf("SHOP_PIN is too weak: %w", err)
	}
	return nil
}

// validatePINStrength rejects PINs that are all the same digit,
// sequential (ascending or descending), or from a known-weak list.
func validatePINStrength(pin string) error {
	known := map[string]bool{
		"1212": true, "6969": true, "2580": true, "1004": true,
		"121212": true, "112233": true, "123123": true, "1122": true,
	}
	if known[pin] {
		return fmt.Errorf("common PIN not allowed")
	}

	allSame := true
	for i := 1; i < len(pin); i++ {
		if pin[i] != pin[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return fmt.Errorf("all-same-digit PIN not allowed")
	}

	// 1234, 98765 and the like
	ascending, descending := true, true
	for i := 1; i < len(pin); i++ {
		diff := int(pin[i]) - int(pin[i-1])
		if diff != 1 {
			ascending = false
		}
		if diff != -1 {
			descending = false
		}
	}
	if ascending || descending {
		return fmt.Errorf("sequential PIN not allowed")
	}

	return nil
}
