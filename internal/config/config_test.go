package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr = %s", cfg.Addr)
	}
	if cfg.Solver.Strategy != "basic" {
		t.Fatalf("strategy = %s", cfg.Solver.Strategy)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte("addr: \":9090\"\nsolver:\n  strategy: dynamic\n  init: nearest\n  lambda: 1.5\nrateLimit:\n  rps: 5\n  burst: 9\n")
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("PORT", "7070")
	t.Setenv("RATE_RPS", "2.5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("env override lost: %s", cfg.Addr)
	}
	if cfg.Solver.Strategy != "dynamic" || cfg.Solver.Init != "nearest" || cfg.Solver.Lambda != 1.5 {
		t.Fatalf("solver config = %+v", cfg.Solver)
	}
	if cfg.RateLimit.RPS != 2.5 || cfg.RateLimit.Burst != 9 {
		t.Fatalf("rate limit = %+v", cfg.RateLimit)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
