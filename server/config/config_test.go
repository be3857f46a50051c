package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_ENV", "missing")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:8000" || cfg.HashCost != 12 || cfg.PingPeriod != 54*time.Second || cfg.IdleAfter != 2*time.Minute {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.PongWait() != 60*time.Second {
		t.Errorf("PongWait = %v", cfg.PongWait())
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatal(err)
	}
	yaml := "addr: :9000\nsweep_interval: 5s\nmode: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	chdir(t, dir)
	t.Setenv("CONFIG_ENV", "test")
	t.Setenv("ROOMCHAT_DB_PATH", "/tmp/other.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.SweepInterval != 5*time.Second || cfg.Mode != "debug" {
		t.Errorf("file values = %+v", cfg)
	}
	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q, want env override", cfg.DBPath)
	}
}
