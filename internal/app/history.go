package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/nested-seeder/internal/config"
	"github.com/vadim/nested-seeder/internal/database"
	"github.com/vadim/nested-seeder/internal/domain/seed/dao"
	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
)

// ErrRecorderDisabled is returned when run history is requested without DATABASE_URL
var ErrRecorderDisabled = errors.New("run history needs DATABASE_URL")

// History reads runs stored by the run recorder
type History struct {
	pool   *pgxpool.Pool
	runs   dao.RunRepository
	logger *slog.Logger
}

// NewHistory connects to the run recorder database
func NewHistory(ctx context.Context, cfg config.Database, logger *slog.Logger) (*History, error) {
	if !cfg.Enabled() {
		return nil, ErrRecorderDisabled
	}

	pool, err := database.NewPostgresPool(ctx, cfg.PostgresDSN, cfg.MaxConns, cfg.MinConns)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	runs := dao.NewRunPostgres(pool)
	if err := runs.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &History{pool: pool, runs: runs, logger: logger}, nil
}

// Recent returns the latest runs without their attempts
func (h *History) Recent(ctx context.Context, limit int) ([]entity.Run, error) {
	return h.runs.ListRecent(ctx, limit)
}

// Get returns a run together with its attempts
func (h *History) Get(ctx context.Context, id string) (*entity.Run, error) {
	run, err := h.runs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	run.Outcomes, err = h.runs.GetAttempts(ctx, id)
	if err != nil {
		return nil, err
	}

	h.logger.Debug("loaded run", "run_id", id, "attempts", len(run.Outcomes))
	return run, nil
}

// Close releases the database pool
func (h *History) Close() {
	h.pool.Close()
}
