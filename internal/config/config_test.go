package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Target: Target{
			URL:       "http://localhost:8080/api/posts",
			Token:     "token",
			Community: "news",
			Timeout:   30 * time.Second,
		},
		Batch: Batch{Count: 100, Delay: 100 * time.Millisecond},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_TOKEN", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Target.URL != "http://localhost:8080/api/posts" {
		t.Errorf("unexpected URL %q", cfg.Target.URL)
	}
	if cfg.Target.Token != "secret" || cfg.Target.Community != "news" {
		t.Errorf("unexpected target %+v", cfg.Target)
	}
	if cfg.Batch.Count != 100 || cfg.Batch.Delay != 100*time.Millisecond {
		t.Errorf("unexpected batch %+v", cfg.Batch)
	}
	if cfg.Target.Timeout != 30*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Target.Timeout)
	}
	if cfg.Database.Enabled() || cfg.S3.Enabled {
		t.Error("sinks should be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_URL", "https://nested.example.com/api/posts")
	t.Setenv("API_TOKEN", "secret")
	t.Setenv("SUB_NAME", "golang")
	t.Setenv("NUM_POSTS", "5")
	t.Setenv("POST_DELAY", "1s")
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("DATABASE_URL", "postgres://localhost/seed")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Target.URL != "https://nested.example.com/api/posts" || cfg.Target.Community != "golang" {
		t.Errorf("unexpected target %+v", cfg.Target)
	}
	if cfg.Batch.Count != 5 || cfg.Batch.Delay != time.Second || cfg.Target.Timeout != 2*time.Second {
		t.Errorf("unexpected batch %+v / timeout %v", cfg.Batch, cfg.Target.Timeout)
	}
	if !cfg.Database.Enabled() {
		t.Error("expected database recorder to be enabled")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("NUM_POSTS=7\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NUM_POSTS", "")
	os.Unsetenv("NUM_POSTS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Batch.Count != 7 {
		t.Errorf("expected count from .env, got %d", cfg.Batch.Count)
	}
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NUM_POSTS", "many")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric NUM_POSTS")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeder.yaml")
	data := []byte(`target:
  url: http://127.0.0.1:9090/api/posts
  token: file-token
  community: rust
batch:
  count: 3
  delay: 250ms
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Target.Token != "file-token" || cfg.Target.Community != "rust" || cfg.Batch.Count != 3 {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Batch.Delay != 250*time.Millisecond {
		t.Errorf("unexpected delay %v", cfg.Batch.Delay)
	}
	if cfg.Target.Timeout != 30*time.Second {
		t.Errorf("expected default timeout, got %v", cfg.Target.Timeout)
	}
}

func TestValidateRun(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"zero posts", func(c *Config) { c.Batch.Count = 0 }, nil},
		{"zero delay", func(c *Config) { c.Batch.Delay = 0 }, nil},
		{"missing token", func(c *Config) { c.Target.Token = "" }, ErrMissingToken},
		{"missing community", func(c *Config) { c.Target.Community = "" }, ErrMissingCommunity},
		{"negative count", func(c *Config) { c.Batch.Count = -1 }, ErrNegativeCount},
		{"negative delay", func(c *Config) { c.Batch.Delay = -time.Second }, ErrNegativeDelay},
		{"zero timeout", func(c *Config) { c.Target.Timeout = 0 }, ErrNonPositiveLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.ValidateRun()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateRun_URL(t *testing.T) {
	for _, raw := range []string{"localhost:8080/api/posts", "ftp://host/api", "/api/posts", "http://"} {
		cfg := validConfig()
		cfg.Target.URL = raw
		if err := cfg.ValidateRun(); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestLog_SlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for name, want := range tests {
		if got := (Log{Level: name}).SlogLevel(); got != want {
			t.Errorf("level %q: got %v, want %v", name, got, want)
		}
	}
}

func TestStub_Address(t *testing.T) {
	s := Stub{Host: "127.0.0.1", Port: "9090"}
	if s.Address() != "127.0.0.1:9090" {
		t.Errorf("unexpected address %q", s.Address())
	}
}
