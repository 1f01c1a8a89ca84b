package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("empty path should yield defaults: %+v", cfg)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "transferd.sqlite3" || cfg.StrictHandover {
		t.Errorf("defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `addr: ":9090"
db: /var/lib/transferd/transferd.sqlite3
strict_handover: true
admin_user: hq-admin
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr %q", cfg.Addr)
	}
	if cfg.DBPath != "/var/lib/transferd/transferd.sqlite3" {
		t.Errorf("db %q", cfg.DBPath)
	}
	if !cfg.StrictHandover {
		t.Error("strict_handover not read")
	}
	if cfg.AdminUser != "hq-admin" {
		t.Errorf("admin_user %q", cfg.AdminUser)
	}
	// Unset keys keep their defaults.
	if cfg.LogPath != "" {
		t.Errorf("log %q", cfg.LogPath)
	}
}

func TestLoadUnknownKeyRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	os.WriteFile(path, []byte("no_such_key: 1\n"), 0644)

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
