package types

import (
	"testing"
)

func TestAppConfig_Structure(t *testing.T) {
	config := AppConfig{
		Dataset: DatasetConfig{
			Path:          "data/garments_worker_productivity.csv",
			SampleRows:    50,
			FullDumpLimit: 500,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Archive: ArchiveConfig{
			Path: "/home/user/.researcher/archive.db",
		},
	}

	if config.Dataset.Path != "data/garments_worker_productivity.csv" {
		t.Errorf("Dataset.Path mismatch: got %q", config.Dataset.Path)
	}
	if config.Dataset.SampleRows != 50 {
		t.Errorf("Dataset.SampleRows mismatch: got %d, want 50", config.Dataset.SampleRows)
	}
	if config.Server.Port != 8080 {
		t.Errorf("Server.Port mismatch: got %d, want 8080", config.Server.Port)
	}
	if config.Archive.Path != "/home/user/.researcher/archive.db" {
		t.Errorf("Archive.Path mismatch: got %q", config.Archive.Path)
	}
}

func TestTelemetryConfig_Structure(t *testing.T) {
	config := TelemetryConfig{
		Enabled:  true,
		APIKey:   "phc_test",
		Endpoint: "https://eu.posthog.com",
	}

	if !config.Enabled {
		t.Error("Enabled mismatch: got false, want true")
	}
	if config.APIKey != "phc_test" {
		t.Errorf("APIKey mismatch: got %q, want %q", config.APIKey, "phc_test")
	}
	if config.Endpoint != "https://eu.posthog.com" {
		t.Errorf("Endpoint mismatch: got %q", config.Endpoint)
	}
}

func TestToolError_Error(t *testing.T) {
	err := NewToolError("DATASET_UNAVAILABLE", "could not load the productivity dataset", map[string]interface{}{
		"path": "data/missing.csv",
	})

	want := "DATASET_UNAVAILABLE: could not load the productivity dataset"
	if err.Error() != want {
		t.Errorf("Error() mismatch: got %q, want %q", err.Error(), want)
	}
	if err.Details["path"] != "data/missing.csv" {
		t.Errorf("Details mismatch: got %v", err.Details["path"])
	}
}
