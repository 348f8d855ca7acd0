package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadNewConfig(t *testing.T) {
	SetConfigDir(t.TempDir())
	defer SetConfigDir("")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Enabled {
		t.Error("new config should have Enabled = false")
	}
	if cfg.ConsentAsked {
		t.Error("new config should have ConsentAsked = false")
	}
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("AnonymousID should be a UUID, got length %d", len(cfg.AnonymousID))
	}
}

func TestSaveCreatesFileWithSecurePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDir(tmpDir)
	defer SetConfigDir("")

	cfg := &Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "test-uuid-1234",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("file permissions = %o, want 0600", info.Mode().Perm())
	}
}

func TestLoadExistingConfig(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDir(tmpDir)
	defer SetConfigDir("")

	existing := Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "existing-uuid-5678",
	}
	data, _ := json.Marshal(existing)
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), data, 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Enabled || !cfg.ConsentAsked {
		t.Errorf("expected existing state to load, got %+v", cfg)
	}
	if cfg.AnonymousID != "existing-uuid-5678" {
		t.Errorf("AnonymousID = %q, want existing value", cfg.AnonymousID)
	}
}

func TestLoadGeneratesUUIDWhenMissing(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDir(tmpDir)
	defer SetConfigDir("")

	data, _ := json.Marshal(Config{Enabled: true, ConsentAsked: true})
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), data, 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.AnonymousID) != 36 {
		t.Errorf("should have generated a UUID, got %q", cfg.AnonymousID)
	}
}

func TestEnableDisable(t *testing.T) {
	cfg := &Config{}

	cfg.Enable()
	if !cfg.Enabled || !cfg.ConsentAsked {
		t.Errorf("Enable() should set both flags, got %+v", cfg)
	}
	if cfg.NeedsConsent() {
		t.Error("NeedsConsent() should be false after Enable()")
	}

	cfg.Disable()
	if cfg.Enabled {
		t.Error("Disable() should clear Enabled")
	}
	if !cfg.ConsentAsked {
		t.Error("Disable() should keep ConsentAsked set")
	}
	if cfg.IsEnabled() {
		t.Error("IsEnabled() should be false after Disable()")
	}
}

func TestNeedsConsent(t *testing.T) {
	if !(&Config{}).NeedsConsent() {
		t.Error("fresh config should need consent")
	}
	if (&Config{ConsentAsked: true}).NeedsConsent() {
		t.Error("config with a recorded choice should not need consent")
	}
}

func TestRoundTrip(t *testing.T) {
	SetConfigDir(t.TempDir())
	defer SetConfigDir("")

	original := &Config{
		Enabled:      true,
		ConsentAsked: true,
		AnonymousID:  "roundtrip-uuid-9999",
	}
	if err := original.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Enabled != original.Enabled ||
		loaded.ConsentAsked != original.ConsentAsked ||
		loaded.AnonymousID != original.AnonymousID {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, original)
	}
}
