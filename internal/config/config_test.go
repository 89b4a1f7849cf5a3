package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tavern-gambit", "config.toml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendFile || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}

	again, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Redis.Prefix != "tavern:" {
		t.Fatalf("written defaults not read back: %+v", again)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := "backend = \"redis\"\nsave_dir = \"/tmp/tavern\"\n[redis]\ndb = 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendRedis || cfg.Redis.DB != 3 || cfg.Redis.Addr != "127.0.0.1:6379" {
		t.Fatalf("partial file should keep unset defaults: %+v", cfg)
	}
	if cfg.GetSaveDir() != "/tmp/tavern" {
		t.Fatalf("save dir %q", cfg.GetSaveDir())
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("backend = \"floppy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("unknown backend must fail")
	}
}

func TestSaveDirFollowsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	if got := (Config{}).GetSaveDir(); got != filepath.Join("/xdg/data", "tavern-gambit") {
		t.Fatalf("got %q", got)
	}
}
