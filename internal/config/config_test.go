package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "DATABASE_URL", "SEED_DEFAULTS", "LOG_LEVEL", "LOG_FORMAT", "JWT_HS256_SECRET", "SHUTDOWN_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DatabaseURL != "" || !cfg.SeedDefaults {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.LogFormat != "json" || cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected logging/shutdown defaults: %+v", cfg)
	}
}

func TestLoadReadsDotEnvWithoutOverridingEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	body := "HTTP_ADDR=:9090\nLOG_LEVEL=debug\nSEED_DEFAULTS=no\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	// godotenv only fills variables that are unset.
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("SEED_DEFAULTS")
	t.Cleanup(func() { os.Unsetenv("LOG_LEVEL"); os.Unsetenv("SEED_DEFAULTS") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("environment should win over .env, got %s", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelDebug || cfg.SeedDefaults || cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	if _, err := Load(filepath.Join(t.TempDir(), "none.env")); err == nil {
		t.Fatalf("expected error for invalid SHUTDOWN_TIMEOUT")
	}
}
