package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.TextGenTimeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %s", cfg.TextGenTimeout)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoadSplitsOrigins(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoadRequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, _, err := Load(); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestDatabaseConfig(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "rural")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db := cfg.Database()
	if db.Host != "db.internal" || db.DBName != "rural" || db.Port != "5432" {
		t.Errorf("unexpected db config %+v", db)
	}
}
