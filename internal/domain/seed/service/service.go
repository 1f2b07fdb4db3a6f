package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
)

// Poster sends a single payload to the posts API.
// A nil error means the server answered; any error is reported as a failure.
type Poster interface {
	CreatePost(ctx context.Context, p entity.Payload) (*PostResult, error)
}

// PostResult is what the API returned for an accepted post
type PostResult struct {
	StatusCode int
	PostID     string
}

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

var separator = strings.Repeat("-", 40)

// outcomes beyond this grow on demand instead of being preallocated
const maxPrealloc = 1024

// Service runs seeding batches
type Service struct {
	poster Poster
	out    io.Writer
	logger *slog.Logger
	sleep  SleepFunc
	now    func() time.Time
}

// Option configures the Service
type Option func(*Service)

// WithSleep replaces the inter-request sleep
func WithSleep(fn SleepFunc) Option {
	return func(s *Service) {
		s.sleep = fn
	}
}

// WithClock replaces the time source used for latencies
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a new seed service writing its transcript to out
func New(poster Poster, out io.Writer, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		poster: poster,
		out:    out,
		logger: logger,
		sleep:  Sleep,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// RunInput describes one batch
type RunInput struct {
	Community string
	Count     int
	Delay     time.Duration
}

// RunOutput is the result of a batch
type RunOutput struct {
	Tally       entity.Tally
	Outcomes    []entity.Outcome
	Interrupted bool
}

// Run posts Count payloads one after another, printing one line per attempt.
// Per-post failures are counted, never returned. The loop stops early only
// when ctx is cancelled; the summary is printed either way.
func (s *Service) Run(ctx context.Context, in RunInput) (*RunOutput, error) {
	if s.poster == nil {
		return nil, entity.ErrNoPoster
	}
	if in.Count < 0 {
		return nil, entity.ErrNegativeCount
	}

	out := &RunOutput{Outcomes: make([]entity.Outcome, 0, min(in.Count, maxPrealloc))}

	s.printf("Creating %d posts...\n", in.Count)
	s.printf("%s\n", separator)

	for i := 1; i <= in.Count; i++ {
		if ctx.Err() != nil {
			out.Interrupted = true
			break
		}

		outcome := s.attempt(ctx, i, in.Community)
		out.Outcomes = append(out.Outcomes, outcome)
		out.Tally.Add(outcome)
		s.printf("%s\n", outcome.Line(in.Count))

		if err := s.sleep(ctx, in.Delay); err != nil {
			out.Interrupted = i < in.Count
			break
		}
	}

	s.printf("%s\n", separator)
	s.printf("%s\n", out.Tally.Summary())

	if out.Interrupted {
		s.logger.Warn("seeding interrupted",
			"attempted", out.Tally.Attempts(),
			"requested", in.Count,
		)
	}

	return out, nil
}

// attempt sends the post for index i and classifies the result
func (s *Service) attempt(ctx context.Context, i int, community string) entity.Outcome {
	start := s.now()
	res, err := s.poster.CreatePost(ctx, entity.NewPayload(i, community))
	latency := s.now().Sub(start)

	var outcome entity.Outcome
	if err != nil {
		outcome = entity.Failure(i, err.Error())
		s.logger.Debug("post failed", "index", i, "error", err, "latency", latency)
	} else {
		outcome = entity.Success(i, res.StatusCode, res.PostID)
		s.logger.Debug("post created", "index", i, "status", res.StatusCode, "post_id", res.PostID, "latency", latency)
	}
	outcome.Latency = latency

	return outcome
}

func (s *Service) printf(format string, args ...any) {
	// a broken stdout must not stop the batch
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		s.logger.Error("writing transcript", "error", err)
	}
}

// Sleep waits for d, returning early with ctx's error if it is cancelled
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
