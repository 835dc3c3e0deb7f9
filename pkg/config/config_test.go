package config

import (
	"os"
	"testing"
)

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Port != "8080" {
		t.Fatalf("port = %q, want 8080 default", cfg.API.Port)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load("/nonexistent/path/app.yaml"); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	os.Setenv("PORT", "9999")
	os.Setenv("APP_ENV", "staging")
	defer os.Unsetenv("PORT")
	defer os.Unsetenv("APP_ENV")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.API.Port != "9999" {
		t.Fatalf("port = %q, want env override 9999", cfg.API.Port)
	}
	if cfg.App.Env != "staging" {
		t.Fatalf("env = %q, want staging", cfg.App.Env)
	}
}

func TestGetDefaultConfigPathUsesAppEnv(t *testing.T) {
	os.Setenv("APP_ENV", "prod")
	defer os.Unsetenv("APP_ENV")
	if got := GetDefaultConfigPath(); got != "configs/prod/app.yaml" {
		t.Fatalf("path = %q, want configs/prod/app.yaml", got)
	}
}

func TestGetDefaultConfigPathFallsBackToDev(t *testing.T) {
	os.Unsetenv("APP_ENV")
	if got := GetDefaultConfigPath(); got != "configs/dev/app.yaml" {
		t.Fatalf("path = %q, want configs/dev/app.yaml", got)
	}
}
