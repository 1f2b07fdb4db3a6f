package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/nested-seeder/internal/config"
	"github.com/vadim/nested-seeder/internal/database"
	"github.com/vadim/nested-seeder/internal/domain/seed/dao"
	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
	"github.com/vadim/nested-seeder/internal/domain/seed/policy"
	"github.com/vadim/nested-seeder/internal/domain/seed/service"
	"github.com/vadim/nested-seeder/internal/httpx/upstream/nested"
	"github.com/vadim/nested-seeder/internal/storage"
)

// NewLogger builds the JSON logger used by every command
func NewLogger(cfg config.Log, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

// Seeder is the application container for a seeding run
type Seeder struct {
	cfg    config.Config
	logger *slog.Logger
	out    io.Writer

	pool   *pgxpool.Pool
	client *nested.Client

	seedPolicy *policy.Policy
}

// NewSeeder creates and initializes a seeder that prints its transcript to out
func NewSeeder(ctx context.Context, cfg config.Config, out io.Writer, logger *slog.Logger) (*Seeder, error) {
	if err := cfg.ValidateRun(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	s := &Seeder{
		cfg:    cfg,
		logger: logger,
		out:    out,
	}

	// Initialize infrastructure; the recorder is optional, so a failure only disables it
	if err := s.initInfrastructure(ctx); err != nil {
		s.Close()
		logger.Error("run recorder disabled", "error", err)
	}

	// Initialize domain layers
	s.initDomains()

	return s, nil
}

// initInfrastructure connects the optional run recorder database
func (s *Seeder) initInfrastructure(ctx context.Context) error {
	if !s.cfg.Database.Enabled() {
		return nil
	}

	pool, err := database.NewPostgresPool(ctx, s.cfg.Database.PostgresDSN, s.cfg.Database.MaxConns, s.cfg.Database.MinConns)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	s.pool = pool

	if err := dao.NewRunPostgres(pool).EnsureSchema(ctx); err != nil {
		return err
	}

	s.logger.Info("run recorder enabled")
	return nil
}

// initDomains initializes domain layers (client, service, policy)
func (s *Seeder) initDomains() {
	s.client = nested.New(
		nested.WithEndpoint(s.cfg.Target.URL),
		nested.WithToken(s.cfg.Target.Token),
		nested.WithTimeout(s.cfg.Target.Timeout),
	)

	seedService := service.New(&nestedPosterAdapter{client: s.client}, s.out, s.logger)

	var opts []policy.Option
	if s.pool != nil {
		opts = append(opts, policy.WithRecorder(dao.NewRunPostgres(s.pool)))
	}
	if s.cfg.S3.Enabled {
		archive := storage.NewReportArchive(storage.S3Config{
			Endpoint:        s.cfg.S3.Endpoint,
			AccessKeyID:     s.cfg.S3.AccessKeyID,
			SecretAccessKey: s.cfg.S3.SecretAccessKey,
			Bucket:          s.cfg.S3.Bucket,
			Region:          s.cfg.S3.Region,
			Prefix:          s.cfg.S3.Prefix,
		})
		opts = append(opts, policy.WithArchive(&reportArchiveAdapter{archive: archive}))
		s.logger.Info("report archive enabled", "bucket", s.cfg.S3.Bucket)
	}

	s.seedPolicy = policy.New(seedService, s.logger, opts...)
}

// Seed runs the configured batch
func (s *Seeder) Seed(ctx context.Context) (*entity.Run, error) {
	return s.seedPolicy.Seed(ctx, policy.SeedInput{
		Endpoint:  s.client.Endpoint(),
		Community: s.cfg.Target.Community,
		Count:     s.cfg.Batch.Count,
		Delay:     s.cfg.Batch.Delay,
	})
}

// Close releases infrastructure
func (s *Seeder) Close() {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
}

// nestedPosterAdapter adapts nested.Client to service.Poster
type nestedPosterAdapter struct {
	client *nested.Client
}

func (a *nestedPosterAdapter) CreatePost(ctx context.Context, p entity.Payload) (*service.PostResult, error) {
	out, err := a.client.CreatePost(ctx, nested.CreatePostInput{
		Title:    p.Title,
		Content:  p.Content,
		SubName:  p.Community,
		PostType: string(p.PostType),
		NSFW:     p.NSFW,
		Spoiler:  p.Spoiler,
	})
	if err != nil {
		return nil, err
	}

	res := &service.PostResult{StatusCode: out.StatusCode}
	if out.Post != nil {
		res.PostID = out.Post.ID
	}
	return res, nil
}

// reportArchiveAdapter adapts storage.ReportArchive to policy.ReportArchive
type reportArchiveAdapter struct {
	archive *storage.ReportArchive
}

func (a *reportArchiveAdapter) Archive(ctx context.Context, run *entity.Run) (string, error) {
	out, err := a.archive.Upload(ctx, run)
	if err != nil {
		return "", err
	}
	return out.Location, nil
}
