// Package db owns the Postgres connection pool and keeps the schema the
// handlers rely on in place at startup.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Connect opens the pool, pings it and ensures the schema exists.
func Connect(ctx context.Context, dsn string, log zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info().Msg("connected to postgres")

	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// ensureSchema creates the marketplace tables if missing. Uniqueness
// constraints back the store's conditional inserts and version columns
// back its compare-and-set updates.
func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			phone_number TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS job_postings (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			requirements TEXT NOT NULL DEFAULT '',
			salary_min BIGINT NOT NULL DEFAULT 0,
			salary_max BIGINT NOT NULL DEFAULT 0,
			employment_type TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			remote_work BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL,
			posted_by TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			deadline TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			version BIGINT NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS applications (
			id TEXT PRIMARY KEY,
			worker_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			job_id TEXT NOT NULL REFERENCES job_postings(id) ON DELETE CASCADE,
			cover_letter TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			version BIGINT NOT NULL DEFAULT 1,
			UNIQUE (worker_id, job_id)
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			reviewer_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reviewee_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			job_id TEXT NOT NULL REFERENCES job_postings(id) ON DELETE CASCADE,
			rating INT NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (reviewer_id, reviewee_id, job_id)
		)`,
		`CREATE TABLE IF NOT EXISTS payment_transactions (
			id TEXT PRIMARY KEY,
			reference_id TEXT NOT NULL UNIQUE,
			sender_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			receiver_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			job_id TEXT REFERENCES job_postings(id) ON DELETE SET NULL,
			amount BIGINT NOT NULL,
			currency TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			version BIGINT NOT NULL DEFAULT 1
		)`,
		`CREATE INDEX IF NOT EXISTS idx_job_postings_status ON job_postings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_applications_job ON applications(job_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_reviewee ON reviews(reviewee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_sender ON payment_transactions(sender_id)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_receiver ON payment_transactions(receiver_id)`,
	}
	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
