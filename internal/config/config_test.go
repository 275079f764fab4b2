package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.IngestBatchSize != 1000 {
		t.Fatalf("unexpected IngestBatchSize: %d", cfg.IngestBatchSize)
	}
	if cfg.ESPNProbeDelay != 4*time.Second {
		t.Fatalf("unexpected ESPNProbeDelay: %s", cfg.ESPNProbeDelay)
	}
	if cfg.DBPath == "" {
		t.Fatalf("expected default DBPath")
	}
}

func TestLoad_OverridesAndValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("CRICKET_DB_PATH", "/var/lib/crickstack/cricket.db")
	t.Setenv("ESPN_PROBE_DELAY", "250ms")
	t.Setenv("CRICKET_INGEST_PARSE_WORKERS", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.DBPath != "/var/lib/crickstack/cricket.db" {
		t.Fatalf("unexpected DBPath: %q", cfg.DBPath)
	}
	if cfg.ESPNProbeDelay != 250*time.Millisecond {
		t.Fatalf("unexpected ESPNProbeDelay: %s", cfg.ESPNProbeDelay)
	}
	if cfg.IngestParseWorker != 8 {
		t.Fatalf("unexpected IngestParseWorker: %d", cfg.IngestParseWorker)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_RejectsBadDurations(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ESPN_PROBE_DELAY", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid ESPN_PROBE_DELAY")
	}
}

func TestLoad_RejectsNonPositiveBatchSize(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("CRICKET_INGEST_BATCH_SIZE", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for CRICKET_INGEST_BATCH_SIZE=0")
	}
}
