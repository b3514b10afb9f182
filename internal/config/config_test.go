package config

import (
	"errors"
	"testing"

	"costcalc/internal/apperrors"
)

func validConfig() *Config {
	return &Config{
		ChunkSize:            500,
		CandidateThreshold:   0.6,
		AcceptThreshold:      0.75,
		FuzzyCandidateCap:    2000,
		CounterpartyKeywords: []string{"ск тпх"},
		LogLevel:             "info",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{"Valid defaults", func(c *Config) {}, false},
		{"Zero chunk size", func(c *Config) { c.ChunkSize = 0 }, true},
		{"Negative candidate cap", func(c *Config) { c.FuzzyCandidateCap = -1 }, true},
		{"Threshold above one", func(c *Config) { c.AcceptThreshold = 1.5 }, true},
		{"Accept below candidate", func(c *Config) { c.AcceptThreshold = 0.5 }, true},
		{"No counterparty keywords", func(c *Config) { c.CounterpartyKeywords = nil }, true},
		{"Unknown log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"Uppercase log level", func(c *Config) { c.LogLevel = "DEBUG" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfigValidate_ExitCode(t *testing.T) {
	cfg := validConfig()
	cfg.ChunkSize = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.ExitCode() != apperrors.ExitConfigInvalid {
		t.Errorf("expected exit code %d, got %d", apperrors.ExitConfigInvalid, appErr.ExitCode())
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ChunkSize != 500 {
		t.Errorf("expected default chunk size 500, got %d", cfg.ChunkSize)
	}
	if cfg.AcceptThreshold != 0.75 {
		t.Errorf("expected default accept threshold 0.75, got %g", cfg.AcceptThreshold)
	}
	if len(cfg.CounterpartyKeywords) == 0 {
		t.Error("expected default counterparty keywords")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("COSTCALC_CHUNK_SIZE", "100")
	t.Setenv("COSTCALC_COUNTERPARTY_KEYWORDS", "ск тпх; завод нчтз")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.ChunkSize != 100 {
		t.Errorf("expected chunk size 100, got %d", cfg.ChunkSize)
	}
	if len(cfg.CounterpartyKeywords) != 2 || cfg.CounterpartyKeywords[1] != "завод нчтз" {
		t.Errorf("unexpected keywords: %v", cfg.CounterpartyKeywords)
	}
}
