package dao

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
)

const schema = `
	CREATE TABLE IF NOT EXISTS seed_runs (
		id          UUID PRIMARY KEY,
		endpoint    TEXT NOT NULL,
		community   TEXT NOT NULL,
		requested   INTEGER NOT NULL,
		succeeded   INTEGER NOT NULL,
		failed      INTEGER NOT NULL,
		interrupted BOOLEAN NOT NULL DEFAULT FALSE,
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS seed_attempts (
		run_id      UUID NOT NULL REFERENCES seed_runs(id) ON DELETE CASCADE,
		idx         INTEGER NOT NULL,
		ok          BOOLEAN NOT NULL,
		status_code INTEGER,
		post_id     TEXT,
		reason      TEXT,
		latency_ms  BIGINT NOT NULL,
		PRIMARY KEY (run_id, idx)
	);
`

// RunPostgres implements RunRepository for PostgreSQL
type RunPostgres struct {
	pool *pgxpool.Pool
}

// NewRunPostgres creates a new PostgreSQL run repository
func NewRunPostgres(pool *pgxpool.Pool) *RunPostgres {
	return &RunPostgres{pool: pool}
}

// EnsureSchema creates the run tables if they do not exist
func (r *RunPostgres) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("creating seed schema: %w", err)
	}
	return nil
}

// Create inserts a run and all of its attempts in one transaction
func (r *RunPostgres) Create(ctx context.Context, run *entity.Run) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO seed_runs (id, endpoint, community, requested, succeeded, failed, interrupted, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.Exec(ctx, query,
		run.ID,
		run.Endpoint,
		run.Community,
		run.Requested,
		run.Tally.Success,
		run.Tally.Failed,
		run.Interrupted,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting seed run: %w", err)
	}

	if len(run.Outcomes) > 0 {
		batch := &pgx.Batch{}
		for _, o := range run.Outcomes {
			batch.Queue(`
				INSERT INTO seed_attempts (run_id, idx, ok, status_code, post_id, reason, latency_ms)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, run.ID, o.Index, o.OK, nullInt(o.StatusCode), nullString(o.PostID), nullString(o.Reason), o.Latency.Milliseconds())
		}

		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting seed attempts: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing seed run: %w", err)
	}

	return nil
}

// GetByID retrieves a run by ID
func (r *RunPostgres) GetByID(ctx context.Context, id string) (*entity.Run, error) {
	query := `
		SELECT id, endpoint, community, requested, succeeded, failed, interrupted, started_at, finished_at
		FROM seed_runs
		WHERE id = $1
	`

	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning seed run: %w", err)
	}

	return run, nil
}

// ListRecent returns the most recent runs
func (r *RunPostgres) ListRecent(ctx context.Context, limit int) ([]entity.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, endpoint, community, requested, succeeded, failed, interrupted, started_at, finished_at
		FROM seed_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying seed runs: %w", err)
	}
	defer rows.Close()

	var runs []entity.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning seed run: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetAttempts returns the attempts recorded for a run
func (r *RunPostgres) GetAttempts(ctx context.Context, runID string) ([]entity.Outcome, error) {
	query := `
		SELECT idx, ok, status_code, post_id, reason, latency_ms
		FROM seed_attempts
		WHERE run_id = $1
		ORDER BY idx
	`

	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying seed attempts: %w", err)
	}
	defer rows.Close()

	var outcomes []entity.Outcome
	for rows.Next() {
		var o entity.Outcome
		var statusCode *int
		var postID, reason *string
		var latencyMS int64

		if err := rows.Scan(&o.Index, &o.OK, &statusCode, &postID, &reason, &latencyMS); err != nil {
			return nil, fmt.Errorf("scanning seed attempt: %w", err)
		}

		if statusCode != nil {
			o.StatusCode = *statusCode
		}
		if postID != nil {
			o.PostID = *postID
		}
		if reason != nil {
			o.Reason = *reason
		}
		o.Latency = time.Duration(latencyMS) * time.Millisecond

		outcomes = append(outcomes, o)
	}

	return outcomes, rows.Err()
}

func scanRun(row pgx.Row) (*entity.Run, error) {
	var run entity.Run
	err := row.Scan(
		&run.ID,
		&run.Endpoint,
		&run.Community,
		&run.Requested,
		&run.Tally.Success,
		&run.Tally.Failed,
		&run.Interrupted,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func nullInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func nullString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
