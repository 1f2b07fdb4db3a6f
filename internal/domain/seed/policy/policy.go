package policy

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
	"github.com/vadim/nested-seeder/internal/domain/seed/service"
)

// Seeder runs a batch; implemented by service.Service
type Seeder interface {
	Run(ctx context.Context, in service.RunInput) (*service.RunOutput, error)
}

// RunRecorder persists finished runs.
// Defined here (consumer) rather than next to the Postgres DAO (provider).
type RunRecorder interface {
	Create(ctx context.Context, run *entity.Run) error
}

// ReportArchive stores a report of a finished run and returns its location
type ReportArchive interface {
	Archive(ctx context.Context, run *entity.Run) (string, error)
}

// Policy orchestrates seeding use-cases
type Policy struct {
	seeder   Seeder
	recorder RunRecorder
	archive  ReportArchive
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures the Policy
type Option func(*Policy)

// WithRecorder records every run
func WithRecorder(r RunRecorder) Option {
	return func(p *Policy) {
		p.recorder = r
	}
}

// WithArchive archives a report of every run
func WithArchive(a ReportArchive) Option {
	return func(p *Policy) {
		p.archive = a
	}
}

// New creates a new seed policy
func New(seeder Seeder, logger *slog.Logger, opts ...Option) *Policy {
	p := &Policy{
		seeder: seeder,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// SeedInput represents input for a seeding run
type SeedInput struct {
	Endpoint  string
	Community string
	Count     int
	Delay     time.Duration
}

// Seed runs one batch and hands the result to the configured sinks.
// Sink failures are logged and do not fail the run.
func (p *Policy) Seed(ctx context.Context, in SeedInput) (*entity.Run, error) {
	run := &entity.Run{
		ID:        uuid.New().String(),
		Endpoint:  in.Endpoint,
		Community: in.Community,
		Requested: in.Count,
		StartedAt: p.now(),
	}

	logger := p.logger.With("run_id", run.ID)
	logger.Info("seeding started",
		"endpoint", in.Endpoint,
		"community", in.Community,
		"count", in.Count,
		"delay", in.Delay,
	)

	out, err := p.seeder.Run(ctx, service.RunInput{
		Community: in.Community,
		Count:     in.Count,
		Delay:     in.Delay,
	})
	if err != nil {
		return nil, err
	}

	run.Tally = out.Tally
	run.Outcomes = out.Outcomes
	run.Interrupted = out.Interrupted
	run.FinishedAt = p.now()

	logger.Info("seeding finished",
		"success", run.Tally.Success,
		"failed", run.Tally.Failed,
		"interrupted", run.Interrupted,
		"duration", run.Duration(),
	)

	// sinks get their own context so an interrupted run is still recorded
	sinkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if p.recorder != nil {
		if err := p.recorder.Create(sinkCtx, run); err != nil {
			logger.Error("failed to record run", "error", err)
		} else {
			logger.Info("run recorded")
		}
	}

	if p.archive != nil {
		if location, err := p.archive.Archive(sinkCtx, run); err != nil {
			logger.Error("failed to archive run report", "error", err)
		} else {
			logger.Info("run report archived", "location", location)
		}
	}

	return run, nil
}
