package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "r")

	cfg := LoadConfig()

	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseDriver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %s", cfg.DatabaseDriver)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Errorf("expected 15m access ttl, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 168*time.Hour {
		t.Errorf("expected 168h refresh ttl, got %v", cfg.RefreshTokenTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_TIMEOUT", "250ms")
	t.Setenv("ENABLE_CORS", "true")

	cfg := LoadConfig()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.StorageTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms storage timeout, got %v", cfg.StorageTimeout)
	}
	if !cfg.EnableCORS {
		t.Error("expected CORS enabled")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		DatabaseDriver:  "mongo",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
	}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET", "mongo"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}

	cfg = &Config{
		DatabaseDriver:     DriverPostgres,
		AccessTokenSecret:  "a",
		RefreshTokenSecret: "r",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
	}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestValidateDatabase(t *testing.T) {
	cfg := &Config{DatabaseDriver: DriverSQLite, DatabasePath: "events.db"}
	if err := cfg.ValidateDatabase(); err != nil {
		t.Errorf("expected database settings to be valid without secrets, got %v", err)
	}
	cfg.DatabasePath = ""
	if err := cfg.ValidateDatabase(); err == nil {
		t.Error("expected missing path to be rejected")
	}
}
