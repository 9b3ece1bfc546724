package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != "mongo" {
		t.Fatalf("database.driver: want=%q got=%q", "mongo", cfg.Database.Driver)
	}
	if cfg.Learning.MinSamples != 5 || cfg.Learning.WindowDays != 30 {
		t.Fatalf("learning: want=5/30 got=%d/%d", cfg.Learning.MinSamples, cfg.Learning.WindowDays)
	}
	if cfg.S3.PresignTTL != 15*time.Minute {
		t.Fatalf("s3.presign_ttl: want=15m got=%v", cfg.S3.PresignTTL)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := []byte(`
database:
  driver: sqlite
  sqlite_path: /tmp/engine.db
redis:
  enabled: true
  namespace: mm-test
cache:
  local_capacity: 42
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SERVER_ADDRESS", ":9999")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.SQLitePath != "/tmp/engine.db" {
		t.Fatalf("database: got=%+v", cfg.Database)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Namespace != "mm-test" {
		t.Fatalf("redis: got=%+v", cfg.Redis)
	}
	if cfg.Cache.LocalCapacity != 42 {
		t.Fatalf("cache.local_capacity: want=42 got=%d", cfg.Cache.LocalCapacity)
	}
	if cfg.Server.Address != ":9999" {
		t.Fatalf("server.address: want=%q got=%q", ":9999", cfg.Server.Address)
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Config{
		Database: DatabaseConfig{Driver: "postgres"},
		Cache:    CacheConfig{LocalCapacity: 1},
		Learning: LearningConfig{Workers: 1, QueueSize: 1},
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Validate: want ErrInvalidConfig got=%v", err)
	}
}
