package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                   string
	PostgresURL            string
	RedisAddr              string
	KafkaBrokers           []string
	ChangesTopic           string
	JWTSecret              string
	SessionTTL             time.Duration
	PollInterval           time.Duration
	BootstrapAdminPassword string
	SeedCatalog            bool
	OTLPEndpoint           string
	ServiceVersion         string
}

// Load reads the environment. Backends left unset fall back to in-process
// implementations; only JWT_SECRET is mandatory.
func Load() (Config, error) {
	cfg := Config{
		Port:                   getenv("PORT", "8080"),
		PostgresURL:            os.Getenv("POSTGRES_URL"),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		KafkaBrokers:           splitCSV(os.Getenv("KAFKA_BROKERS")),
		ChangesTopic:           getenv("CHANGES_TOPIC", "sales.changes"),
		JWTSecret:              os.Getenv("JWT_SECRET"),
		BootstrapAdminPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
		OTLPEndpoint:           os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceVersion:         getenv("SERVICE_VERSION", "0.1.0"),
	}

	var err error
	if cfg.SessionTTL, err = duration("SESSION_TTL", 720*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = duration("POLL_INTERVAL", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SeedCatalog, err = boolean("SEED_CATALOG", true); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET environment variable is required")
	}
	return cfg, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func duration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", k, v)
	}
	return d, nil
}

func boolean(k string, def bool) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid boolean %q", k, v)
	}
	return b, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
