package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HTTPPort == "" {
		t.Error("default HTTP port missing")
	}
	if cfg.SnapshotInterval != 10*time.Second {
		t.Errorf("default snapshot interval = %v, want 10s", cfg.SnapshotInterval)
	}
	if cfg.DB.Database == "" || cfg.Redis.Addr == "" {
		t.Error("store defaults missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("SNAPSHOT_INTERVAL_SECONDS", "3")
	t.Setenv("DB_DATABASE", "portfolio_test")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HTTPPort != "9999" {
		t.Errorf("HTTPPort = %q", cfg.HTTPPort)
	}
	if cfg.SnapshotInterval != 3*time.Second {
		t.Errorf("SnapshotInterval = %v", cfg.SnapshotInterval)
	}
	if cfg.DB.Database != "portfolio_test" {
		t.Errorf("DB.Database = %q", cfg.DB.Database)
	}
}

func TestValidateDevelopmentFillsJWTSecret(t *testing.T) {
	cfg, _ := Load()
	cfg.AppEnv = "development"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.JWTSecret == "" {
		t.Error("development must get a fallback secret")
	}
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg, _ := Load()
	cfg.AppEnv = "production"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Error("production without JWT_SECRET must fail validation")
	}
}
