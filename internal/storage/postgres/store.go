package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hongminglow/myrent-be/internal/storage"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for every domain table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects, verifies the connection and runs migrations. Any failure here is
// meant to stop the process.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 8*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			role TEXT NOT NULL CHECK (role IN ('tenant', 'landlord', 'admin')),
			name TEXT NOT NULL,
			date_of_birth DATE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			phone TEXT NOT NULL,
			address TEXT,
			nin TEXT,
			passport_photo_url TEXT,
			marital_status TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS properties (
			id BIGSERIAL PRIMARY KEY,
			landlord_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			location TEXT NOT NULL,
			price NUMERIC(14,2) NOT NULL,
			lease_duration_months INTEGER NOT NULL,
			is_occupied BOOLEAN NOT NULL DEFAULT FALSE,
			verified BOOLEAN NOT NULL DEFAULT FALSE,
			ownership_certificate_token TEXT NOT NULL,
			rent_expiry_date DATE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS properties_landlord_idx ON properties (landlord_id);`,
		`CREATE INDEX IF NOT EXISTS properties_available_idx ON properties (verified, is_occupied);`,
		`CREATE TABLE IF NOT EXISTS property_images (
			id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			image_url TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS property_images_property_idx ON property_images (property_id);`,
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			recipient_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			message TEXT NOT NULL,
			sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS messages_conversation_idx ON messages (property_id, sent_at);`,
		`CREATE TABLE IF NOT EXISTS admin_verifications (
			id BIGSERIAL PRIMARY KEY,
			property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
			admin_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
			verified BOOLEAN NOT NULL,
			verified_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS admin_verifications_property_idx ON admin_verifications (property_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
