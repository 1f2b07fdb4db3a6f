package dao

import (
	"context"

	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
)

// RunRepository defines the interface for seed run data access
type RunRepository interface {
	// Create stores a finished run together with its attempts
	Create(ctx context.Context, run *entity.Run) error

	// GetByID retrieves a run (without attempts) by its ID
	GetByID(ctx context.Context, id string) (*entity.Run, error)

	// ListRecent returns the latest runs, newest first
	ListRecent(ctx context.Context, limit int) ([]entity.Run, error)

	// GetAttempts returns the attempts of a run ordered by index
	GetAttempts(ctx context.Context, runID string) ([]entity.Outcome, error)
}
