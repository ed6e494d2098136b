package main

import (
	"incordes-client/internal/models"
	"os"
	"path/filepath"
	"testing"
)

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"INCORDES_PORT":                    "8080",
		"INCORDES_SESSION_BACKEND":         "redis",
		"INCORDES_PRINT_HTTP_REQUESTS":     "true",
		"INCORDES_REQUEST_TIMEOUT_SECONDS": "5",
	}
	lookup := func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}

	cfg := models.ConfigFile{Port: "3000", Address: "0.0.0.0"}
	if err := applyEnv(&cfg, lookup); err != nil {
		t.Fatalf("applyEnv failed unexpectedly: %v", err)
	}

	if cfg.Port != "8080" || cfg.SessionBackend != "redis" || !cfg.PrintHttpRequests || cfg.RequestTimeoutSeconds != 5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Address != "0.0.0.0" {
		t.Errorf("unset variable changed Address to %q", cfg.Address)
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "INCORDES_LOG_TO_FILE" {
			return "sometimes", true
		}
		return "", false
	}

	var cfg models.ConfigFile
	if err := applyEnv(&cfg, lookup); err == nil {
		t.Error("applyEnv passed unexpectedly")
	}
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{"Port":"4000","SessionBackend":"memory","LogLevel":"debug"}`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := readConfigFile(path)
	if err != nil {
		t.Fatalf("readConfigFile failed unexpectedly: %v", err)
	}

	if cfg.Port != "4000" || cfg.SessionBackend != "memory" || cfg.LogLevel != "debug" {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.Address != "localhost" || cfg.AuthApi != defaultAuthApi || cfg.RequestTimeoutSeconds != 30 {
		t.Errorf("defaults not filled: %+v", cfg)
	}
}

func TestReadConfigFileMissing(t *testing.T) {
	cfg, err := readConfigFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("readConfigFile failed unexpectedly: %v", err)
	}
	if cfg.Port != "3000" || cfg.SessionBackend != "sqlite" {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestReadConfigFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"Port":`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := readConfigFile(path); err == nil {
		t.Error("readConfigFile passed unexpectedly")
	}
}
