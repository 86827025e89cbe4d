package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		for _, k := range []string{"PORT", "POSTGRES_URL", "KAFKA_BROKERS", "SESSION_TTL", "POLL_INTERVAL", "SEED_CATALOG"} {
			t.Setenv(k, "")
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected 8080, got %s", cfg.Port)
		}
		if cfg.SessionTTL != 720*time.Hour {
			t.Errorf("expected 720h, got %s", cfg.SessionTTL)
		}
		if cfg.PollInterval != 5*time.Second {
			t.Errorf("expected 5s, got %s", cfg.PollInterval)
		}
		if !cfg.SeedCatalog {
			t.Error("expected catalog seeding on by default")
		}
		if len(cfg.KafkaBrokers) != 0 {
			t.Errorf("expected no brokers, got %v", cfg.KafkaBrokers)
		}
		if cfg.ChangesTopic != "sales.changes" {
			t.Errorf("expected sales.changes, got %s", cfg.ChangesTopic)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
		t.Setenv("POLL_INTERVAL", "3s")
		t.Setenv("SEED_CATALOG", "false")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
			t.Errorf("unexpected brokers %v", cfg.KafkaBrokers)
		}
		if cfg.PollInterval != 3*time.Second {
			t.Errorf("expected 3s, got %s", cfg.PollInterval)
		}
		if cfg.SeedCatalog {
			t.Error("expected seeding off")
		}
	})

	t.Run("requires a signing secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rejects a bad duration", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s")
		t.Setenv("SESSION_TTL", "forever")
		if _, err := Load(); err == nil {
			t.Fatal("expected error")
		}
	})
}
