package policy

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
	"github.com/vadim/nested-seeder/internal/domain/seed/service"
)

type fakeSeeder struct {
	in  service.RunInput
	out *service.RunOutput
	err error
}

func (f *fakeSeeder) Run(ctx context.Context, in service.RunInput) (*service.RunOutput, error) {
	f.in = in
	return f.out, f.err
}

type fakeRecorder struct {
	runs   []*entity.Run
	err    error
	ctxErr error
}

func (f *fakeRecorder) Create(ctx context.Context, run *entity.Run) error {
	f.ctxErr = ctx.Err()
	f.runs = append(f.runs, run)
	return f.err
}

type fakeArchive struct {
	runs []*entity.Run
	err  error
}

func (f *fakeArchive) Archive(ctx context.Context, run *entity.Run) (string, error) {
	f.runs = append(f.runs, run)
	return "s3://bucket/" + run.ID, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleOutput() *service.RunOutput {
	return &service.RunOutput{
		Tally: entity.Tally{Success: 1, Failed: 1},
		Outcomes: []entity.Outcome{
			entity.Success(1, 201, "p1"),
			entity.Failure(2, "HTTP 500: Internal Server Error"),
		},
	}
}

func TestSeed_BuildsRun(t *testing.T) {
	seeder := &fakeSeeder{out: sampleOutput()}
	p := New(seeder, discardLogger())

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	run, err := p.Seed(context.Background(), SeedInput{
		Endpoint:  "http://localhost:8080/api/posts",
		Community: "news",
		Count:     2,
		Delay:     time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := uuid.Parse(run.ID); err != nil {
		t.Errorf("run ID is not a UUID: %q", run.ID)
	}
	if seeder.in.Community != "news" || seeder.in.Count != 2 || seeder.in.Delay != time.Millisecond {
		t.Errorf("unexpected seeder input %+v", seeder.in)
	}
	if run.Tally.Success != 1 || run.Tally.Failed != 1 || len(run.Outcomes) != 2 {
		t.Errorf("unexpected run %+v", run)
	}
	if run.Duration() != time.Second {
		t.Errorf("expected 1s duration, got %v", run.Duration())
	}
	if !run.Complete() {
		t.Error("expected run to be complete")
	}
}

func TestSeed_HandsRunToSinks(t *testing.T) {
	rec := &fakeRecorder{}
	arc := &fakeArchive{}
	p := New(&fakeSeeder{out: sampleOutput()}, discardLogger(), WithRecorder(rec), WithArchive(arc))

	run, err := p.Seed(context.Background(), SeedInput{Community: "news", Count: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.runs) != 1 || rec.runs[0] != run {
		t.Errorf("expected the run to be recorded once, got %d", len(rec.runs))
	}
	if len(arc.runs) != 1 || arc.runs[0] != run {
		t.Errorf("expected the run to be archived once, got %d", len(arc.runs))
	}
}

func TestSeed_SinkFailuresAreNotFatal(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("db down")}
	arc := &fakeArchive{err: errors.New("bucket missing")}
	p := New(&fakeSeeder{out: sampleOutput()}, discardLogger(), WithRecorder(rec), WithArchive(arc))

	run, err := p.Seed(context.Background(), SeedInput{Community: "news", Count: 2})
	if err != nil {
		t.Fatalf("sink errors should not fail the run: %v", err)
	}
	if run == nil || len(arc.runs) != 1 {
		t.Error("archive should still be attempted after a recorder failure")
	}
}

func TestSeed_InterruptedRunIsStillRecorded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := sampleOutput()
	out.Interrupted = true

	rec := &fakeRecorder{}
	p := New(&fakeSeeder{out: out}, discardLogger(), WithRecorder(rec))

	run, err := p.Seed(ctx, SeedInput{Community: "news", Count: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if run.Complete() {
		t.Error("interrupted run should not be complete")
	}
	if len(rec.runs) != 1 {
		t.Fatal("expected the run to be recorded")
	}
	if rec.ctxErr != nil {
		t.Errorf("recorder context should not inherit cancellation: %v", rec.ctxErr)
	}
}

func TestSeed_SeederError(t *testing.T) {
	rec := &fakeRecorder{}
	p := New(&fakeSeeder{err: entity.ErrNegativeCount}, discardLogger(), WithRecorder(rec))

	if _, err := p.Seed(context.Background(), SeedInput{Count: -1}); !errors.Is(err, entity.ErrNegativeCount) {
		t.Errorf("expected ErrNegativeCount, got %v", err)
	}
	if len(rec.runs) != 0 {
		t.Error("nothing should be recorded when the run did not start")
	}
}
