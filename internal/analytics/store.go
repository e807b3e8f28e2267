// Package analytics persists per-request usage records to sqlite and serves
// aggregate views over them. Writes flow through a single-writer queue
// (Recorder) so concurrent requests never contend on the store.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// RequestRecord is one persisted chat outcome.
type RequestRecord struct {
	ID             string    `json:"id"`
	Provider       string    `json:"provider"`
	Model          string    `json:"model"`
	Query          string    `json:"query"`
	ResponseTimeMs int64     `json:"responseTimeMs"`
	Tokens         int       `json:"tokens"`
	Success        bool      `json:"success"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ErrorRecord is one persisted failure.
type ErrorRecord struct {
	ID        string    `json:"id"`
	Provider  string    `json:"provider"`
	Context   string    `json:"context"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProviderUsage aggregates requests per provider.
type ProviderUsage struct {
	Provider          string  `json:"provider"`
	Requests          int     `json:"requests"`
	AvgResponseTimeMs float64 `json:"avgResponseTimeMs"`
	Tokens            int     `json:"tokens"`
}

// QueryCount is one entry of the top-queries view.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Summary is the aggregate view backing GET /analytics.
type Summary struct {
	TotalRequests      int             `json:"totalRequests"`
	SuccessfulRequests int             `json:"successfulRequests"`
	FailedRequests     int             `json:"failedRequests"`
	SuccessRate        float64         `json:"successRate"`
	AvgResponseTimeMs  float64         `json:"avgResponseTimeMs"`
	TotalTokens        int             `json:"totalTokens"`
	ProviderUsage      []ProviderUsage `json:"providerUsage"`
	TopQueries         []QueryCount    `json:"topQueries"`
	RecentErrors       []ErrorRecord   `json:"recentErrors"`
}

// Store is the sqlite-backed persistence layer.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the sqlite database at path.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS requests (
			id TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			query TEXT,
			response_time_ms INTEGER NOT NULL,
			tokens INTEGER NOT NULL DEFAULT 0,
			success INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS errors (
			id TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			context TEXT NOT NULL,
			message TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_provider ON requests(provider)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_created ON requests(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_errors_created ON errors(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

func (s *Store) InsertRequest(ctx context.Context, rec *RequestRecord) error {
	query := `INSERT INTO requests (id, provider, model, query, response_time_ms, tokens, success, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Provider, rec.Model, rec.Query,
		rec.ResponseTimeMs, rec.Tokens, rec.Success, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

func (s *Store) InsertError(ctx context.Context, rec *ErrorRecord) error {
	query := `INSERT INTO errors (id, provider, context, message, created_at)
	          VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Provider, rec.Context, rec.Message, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert error: %w", err)
	}
	return nil
}

// Summary computes the aggregate view. Top queries and recent errors are
// capped at ten entries each.
func (s *Store) Summary(ctx context.Context) (*Summary, error) {
	var sum Summary

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(success), 0),
		       COALESCE(AVG(response_time_ms), 0),
		       COALESCE(SUM(tokens), 0)
		FROM requests`).Scan(
		&sum.TotalRequests, &sum.SuccessfulRequests,
		&sum.AvgResponseTimeMs, &sum.TotalTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals: %w", err)
	}

	sum.FailedRequests = sum.TotalRequests - sum.SuccessfulRequests
	if sum.TotalRequests > 0 {
		sum.SuccessRate = float64(sum.SuccessfulRequests) / float64(sum.TotalRequests)
	}

	usage, err := s.providerUsage(ctx)
	if err != nil {
		return nil, err
	}
	sum.ProviderUsage = usage

	queries, err := s.topQueries(ctx, 10)
	if err != nil {
		return nil, err
	}
	sum.TopQueries = queries

	errs, err := s.recentErrors(ctx, 10)
	if err != nil {
		return nil, err
	}
	sum.RecentErrors = errs

	return &sum, nil
}

func (s *Store) providerUsage(ctx context.Context) ([]ProviderUsage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT provider, COUNT(*), COALESCE(AVG(response_time_ms), 0), COALESCE(SUM(tokens), 0)
		FROM requests
		GROUP BY provider
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query provider usage: %w", err)
	}
	defer rows.Close()

	var usage []ProviderUsage
	for rows.Next() {
		var u ProviderUsage
		if err := rows.Scan(&u.Provider, &u.Requests, &u.AvgResponseTimeMs, &u.Tokens); err != nil {
			return nil, fmt.Errorf("failed to scan provider usage: %w", err)
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

func (s *Store) topQueries(ctx context.Context, limit int) ([]QueryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT query, COUNT(*)
		FROM requests
		WHERE query != ''
		GROUP BY query
		ORDER BY COUNT(*) DESC, query ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top queries: %w", err)
	}
	defer rows.Close()

	var queries []QueryCount
	for rows.Next() {
		var q QueryCount
		if err := rows.Scan(&q.Query, &q.Count); err != nil {
			return nil, fmt.Errorf("failed to scan query count: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

func (s *Store) recentErrors(ctx context.Context, limit int) ([]ErrorRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, provider, context, message, created_at
		FROM errors
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query errors: %w", err)
	}
	defer rows.Close()

	var errs []ErrorRecord
	for rows.Next() {
		var e ErrorRecord
		if err := rows.Scan(&e.ID, &e.Provider, &e.Context, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan error record: %w", err)
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
