package main

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vadim/nested-seeder/internal/app"
	"github.com/vadim/nested-seeder/internal/config"
	"github.com/vadim/nested-seeder/internal/domain/seed/entity"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func stubURL(t *testing.T) string {
	t.Helper()

	stub, err := app.NewStub(config.Stub{}, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRunCmd_FlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_TOKEN", "token")
	t.Setenv("NUM_POSTS", "50")
	t.Setenv("POST_DELAY", "1h")

	base := stubURL(t)

	stdout, stderr, err := execute(t, "run",
		"--endpoint", base+"/api/posts",
		"-n", "2",
		"--delay", "0s",
		"--community", "golang",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}

	if !strings.HasPrefix(stdout, "Creating 2 posts...\n") {
		t.Errorf("unexpected transcript:\n%s", stdout)
	}
	if !strings.HasSuffix(stdout, "Done! Success: 2, Failed: 0\n") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}
	if !strings.Contains(stderr, `"community":"golang"`) {
		t.Errorf("expected structured log on stderr, got:\n%s", stderr)
	}
}

func TestRunCmd_MissingToken(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_TOKEN", "")

	_, _, err := execute(t, "run", "-n", "1")
	if err == nil || !strings.Contains(err.Error(), config.ErrMissingToken.Error()) {
		t.Errorf("expected missing token error, got %v", err)
	}
}

func TestRunCmd_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	base := stubURL(t)
	path := filepath.Join(dir, "seeder.yaml")
	data := "target:\n  url: " + base + "/api/posts\n  token: file-token\nbatch:\n  count: 1\n  delay: 1ms\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := execute(t, "--config", path, "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "[1/1] Created post #1 - OK") {
		t.Errorf("unexpected transcript:\n%s", stdout)
	}
}

func TestRunFlags_Apply(t *testing.T) {
	cmd := newRunCmd()
	if err := cmd.ParseFlags([]string{"--timeout", "3s", "--count", "0"}); err != nil {
		t.Fatal(err)
	}

	var f runFlags
	f.count, _ = cmd.Flags().GetInt("count")
	f.timeout, _ = cmd.Flags().GetDuration("timeout")

	cfg := config.Config{
		Target: config.Target{URL: "http://a/api/posts", Community: "news", Timeout: time.Second},
		Batch:  config.Batch{Count: 100, Delay: time.Second},
	}
	f.apply(cmd, &cfg)

	if cfg.Batch.Count != 0 || cfg.Target.Timeout != 3*time.Second {
		t.Errorf("flags not applied: %+v", cfg)
	}
	if cfg.Batch.Delay != time.Second || cfg.Target.URL != "http://a/api/posts" || cfg.Target.Community != "news" {
		t.Errorf("unset flags must not override: %+v", cfg)
	}
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(stdout, "seeder dev") {
		t.Errorf("unexpected version output %q", stdout)
	}
}

func TestRunsCmd_NeedsDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")

	_, _, err := execute(t, "runs")
	if !errors.Is(err, app.ErrRecorderDisabled) {
		t.Errorf("expected ErrRecorderDisabled, got %v", err)
	}
}

func TestPrintRun(t *testing.T) {
	started := time.Date(2026, 3, 9, 22, 15, 0, 0, time.UTC)
	run := &entity.Run{
		ID:        "run-1",
		Endpoint:  "http://localhost:8080/api/posts",
		Requested: 2,
		Tally:     entity.Tally{Success: 1, Failed: 1},
		Outcomes: []entity.Outcome{
			{Index: 1, OK: true, StatusCode: 200, Latency: 12 * time.Millisecond},
			{Index: 2, Reason: "HTTP 401: Unauthorized", Latency: 3 * time.Millisecond},
		},
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}

	var buf bytes.Buffer
	printRun(&buf, run)

	for _, want := range []string{
		"[1/2] Created post #1 - OK (12ms)",
		"[2/2] Failed post #2 - HTTP 401: Unauthorized (3ms)",
		"Done! Success: 1, Failed: 1",
	} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("missing %q in:\n%s", want, buf.String())
		}
	}

	buf.Reset()
	if err := printRuns(&buf, []entity.Run{*run}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "run-1") || !strings.Contains(buf.String(), "1s") {
		t.Errorf("unexpected listing:\n%s", buf.String())
	}
}

func TestRootCmd_ConfigFlagIsPerCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("API_TOKEN", "")
	os.Unsetenv("API_TOKEN")

	base := stubURL(t)
	path := filepath.Join(dir, "seeder.yaml")
	data := "target:\n  url: " + base + "/api/posts\n  token: file-token\nbatch:\n  count: 1\n  delay: 1ms\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "--config", path, "run"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a new root must not remember the previous --config
	_, _, err := execute(t, "run")
	if err == nil || !strings.Contains(err.Error(), config.ErrMissingToken.Error()) {
		t.Errorf("expected the environment to be used, got %v", err)
	}
}
