package config_test

import (
	"path/filepath"
	"testing"

	"gopress/internal/config"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected file to be absent")
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.EngineVersion != config.Default().EngineVersion {
		t.Fatalf("unexpected engine version: %d", cfg.EngineVersion)
	}
	if cfg.LicenseKey != "" {
		t.Fatalf("expected empty license key, got %q", cfg.LicenseKey)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg := config.Default()
	if err := cfg.Set(config.KeyLicenseKey, "L900-demo"); err != nil {
		t.Fatalf("Set license: %v", err)
	}
	if err := cfg.Set(config.KeyEngineVersion, "10"); err != nil {
		t.Fatalf("Set version: %v", err)
	}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected file to exist")
	}
	if loaded.LicenseKey != "L900-demo" || loaded.EngineVersion != 10 {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestSetRejectsUnknownKey(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Set("pdflib_flavor", "x"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestSetRejectsBadVersion(t *testing.T) {
	cfg := config.Default()
	for _, value := range []string{"", "abc", "0", "-3"} {
		if err := cfg.Set(config.KeyEngineVersion, value); err == nil {
			t.Fatalf("expected error for version %q", value)
		}
	}
}

func TestGetCoversAllKeys(t *testing.T) {
	cfg := config.Default()
	for _, key := range config.Keys() {
		if _, err := cfg.Get(key); err != nil {
			t.Fatalf("Get(%q) returned error: %v", key, err)
		}
	}
	if _, err := cfg.Get("nope"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}
