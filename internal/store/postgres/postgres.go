package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"pharmapulse/backend/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS pharmacy_documents (
	key        TEXT PRIMARY KEY,
	body       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const table = "pharmacy_documents"

// Store keeps the pharmacy collections as JSONB documents.
type Store struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	return &Store{
		db: db,
		qb: newBuilder(),
	}, nil
}

func newBuilder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := s.qb.Select("body").From(table).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return nil, false, err
	}

	var body []byte
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return body, true, nil
}

func (s *Store) Store(ctx context.Context, docs ...store.Document) error {
	if len(docs) == 0 {
		return nil
	}

	insert := s.qb.Insert(table).Columns("key", "body", "updated_at")
	now := time.Now().UTC()
	for _, doc := range docs {
		insert = insert.Values(doc.Key, string(doc.Body), now)
	}
	query, args, err := insert.
		Suffix("ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	// one statement keeps multi-document writes atomic
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	return nil
}
