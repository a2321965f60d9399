package app

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.DepthCount != 26 {
		t.Fatalf("expected default depth count 26, got %d", cfg.DepthCount)
	}
	if len(cfg.LogSinks) != 1 || cfg.LogSinks[0] != "console" {
		t.Fatalf("expected console sink default, got %v", cfg.LogSinks)
	}
}

func TestLoadConfigReadsEnvironment(t *testing.T) {
	t.Setenv("GLOAMDELVE_SEED", "test-seed")
	t.Setenv("GLOAMDELVE_DEPTHS", "5")
	t.Setenv("GLOAMDELVE_LOG_SINKS", "console,sqlite")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Seed != "test-seed" {
		t.Fatalf("expected seed from env, got %q", cfg.Seed)
	}
	if cfg.DepthCount != 5 {
		t.Fatalf("expected depth count 5, got %d", cfg.DepthCount)
	}
	if len(cfg.LogSinks) != 2 || cfg.LogSinks[1] != "sqlite" {
		t.Fatalf("expected two sinks, got %v", cfg.LogSinks)
	}
}
