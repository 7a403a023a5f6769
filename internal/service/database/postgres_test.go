package database

import (
	"strings"
	"testing"
	"time"
)

func TestConfigDefaults(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		Database: "community_pulse",
	}.withDefaults()

	if cfg.SSLMode != "disable" {
		t.Fatalf("expected default sslmode disable, got %q", cfg.SSLMode)
	}
	if cfg.MaxOpenConns != 20 || cfg.MaxIdleConns != 4 {
		t.Fatalf("unexpected default pool sizes: open=%d idle=%d", cfg.MaxOpenConns, cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife != 30*time.Minute {
		t.Fatalf("unexpected default conn lifetime: %v", cfg.ConnMaxLife)
	}
}

func TestConfigDefaultsKeepExplicitValues(t *testing.T) {
	cfg := PostgresConfig{
		Host:         "db.internal",
		SSLMode:      "require",
		MaxOpenConns: 50,
		MaxIdleConns: 10,
		ConnMaxLife:  time.Hour,
	}.withDefaults()

	if cfg.SSLMode != "require" || cfg.MaxOpenConns != 50 || cfg.MaxIdleConns != 10 || cfg.ConnMaxLife != time.Hour {
		t.Fatalf("explicit config values were overwritten: %+v", cfg)
	}
}

func TestDSNCarriesSSLMode(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "pulse",
		Password: "secret",
		Database: "community_pulse",
		SSLMode:  "verify-full",
	}

	dsn := cfg.dsn()
	for _, want := range []string{"host=db.internal", "port=5433", "dbname=community_pulse", "sslmode=verify-full"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn missing %q: %s", want, dsn)
		}
	}
}
