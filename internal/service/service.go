// Package service holds the pharmacy use cases. Every read-validate-write
// sequence runs under one mutex so concurrent HTTP requests can never
// oversell stock or lose an edit.
package service

import (
	"context"
	"sync"
	"time"

	"pharmapulse/backend/internal/advisor"
	"pharmapulse/backend/internal/domain"
	"pharmapulse/backend/internal/locale"
	"pharmapulse/backend/internal/logger"
	"pharmapulse/backend/internal/metrics"
	"pharmapulse/backend/internal/ordering"
	"pharmapulse/backend/internal/recommendation"
	"pharmapulse/backend/internal/store"
	"pharmapulse/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Options struct {
	BusinessName     string
	Location         *time.Location
	ExpiryWindowDays int
	Now              func() time.Time
}

type Service struct {
	repo        store.Repository
	board       *ordering.Board
	advisor     *advisor.Advisor
	recommender *recommendation.Engine

	mu sync.Mutex

	now          func() time.Time
	location     *time.Location
	expiryWindow int
	businessName string
}

func New(repo store.Repository, board *ordering.Board, adv *advisor.Advisor, opts Options) *Service {
	if board == nil {
		board = ordering.NewBoard(nil)
	}
	if adv == nil {
		adv = advisor.New(nil, nil, 0)
	}
	if opts.BusinessName == "" {
		opts.BusinessName = "PharmaPulse"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.ExpiryWindowDays <= 0 {
		opts.ExpiryWindowDays = metrics.DefaultExpiryWindowDays
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Service{
		repo:         repo,
		board:        board,
		advisor:      adv,
		recommender:  recommendation.NewEngine(opts.ExpiryWindowDays),
		now:          opts.Now,
		location:     opts.Location,
		expiryWindow: opts.ExpiryWindowDays,
		businessName: opts.BusinessName,
	}
}

func (s *Service) BusinessName() string {
	return s.businessName
}

// formatter resolves the current regional settings. Broken settings fall
// back to en-US / USD rather than failing a read.
func (s *Service) formatter(ctx context.Context) (*locale.Formatter, domain.AppSettings, error) {
	settings, err := s.repo.GetSettings(ctx)
	if err != nil {
		return nil, domain.AppSettings{}, err
	}
	return locale.MustFormatter(settings, s.location), settings, nil
}

func (s *Service) logAudit(ctx context.Context, action string, details string, kind string) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Username == "" {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.AppendAuditLog(ctx, domain.AuditLog{
		ID:        xid.New("A"),
		Action:    action,
		Details:   details,
		Timestamp: s.now().UTC(),
		User:      actor.Username,
		Type:      kind,
	}); err != nil {
		logger.Warn(ctx, "failed to write audit log", "action", action, "error", err)
	}
}

// RecordLogin writes the audit entry for a successful sign-in.
func (s *Service) RecordLogin(ctx context.Context) {
	s.logAudit(ctx, "Login", "User accessed the system", domain.AuditInfo)
}

func defaultString(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
