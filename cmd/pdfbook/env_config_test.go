package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-pdfbook/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	vars := map[string]string{
		"PDFBOOK_CONFIG":              "ci",
		"PDFBOOK_WORKERS":             "3",
		"PDFBOOK_PRESS_READY":         "true",
		"PDFBOOK_PRESS_READY_COMMAND": "/opt/press-ready",
		"PDFBOOK_OUTPUT_DIR":          "dist",
		"PDFBOOK_METRICS_FILE":        "m.prom",
	}
	var warn bytes.Buffer
	cfg := loadEnvConfig(func(k string) string { return vars[k] }, &warn)

	if cfg.ConfigPath != "ci" || cfg.Workers != 3 || cfg.PressReadyCommand != "/opt/press-ready" ||
		cfg.OutputDir != "dist" || cfg.MetricsFile != "m.prom" {
		t.Errorf("loadEnvConfig() = %+v", cfg)
	}
	if cfg.PressReady == nil || !*cfg.PressReady {
		t.Errorf("PressReady = %v, want true", cfg.PressReady)
	}
	if warn.Len() != 0 {
		t.Errorf("unexpected warnings: %s", warn.String())
	}
}

func TestLoadEnvConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantWarn string
	}{
		{"workers not a number", map[string]string{"PDFBOOK_WORKERS": "many"}, "PDFBOOK_WORKERS"},
		{"workers zero", map[string]string{"PDFBOOK_WORKERS": "0"}, "PDFBOOK_WORKERS"},
		{"press-ready not a bool", map[string]string{"PDFBOOK_PRESS_READY": "sometimes"}, "PDFBOOK_PRESS_READY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var warn bytes.Buffer
			cfg := loadEnvConfig(func(k string) string { return tt.vars[k] }, &warn)
			if cfg.Workers != 0 || cfg.PressReady != nil {
				t.Errorf("invalid values should be ignored, got %+v", cfg)
			}
			if !strings.Contains(warn.String(), tt.wantWarn) {
				t.Errorf("warning %q should mention %s", warn.String(), tt.wantWarn)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars([]string{
		"PDFBOOK_WORKERS=2",
		"PDFBOOK_WORKER=2",
		"HOME=/root",
		"PDFBOOK_OUTPUTDIR=x=y",
	}, &buf)

	out := buf.String()
	if !strings.Contains(out, "PDFBOOK_WORKER ") {
		t.Errorf("missing warning for PDFBOOK_WORKER: %q", out)
	}
	if !strings.Contains(out, "PDFBOOK_OUTPUTDIR ") {
		t.Errorf("missing warning for PDFBOOK_OUTPUTDIR: %q", out)
	}
	if strings.Contains(out, "PDFBOOK_WORKERS") || strings.Contains(out, "HOME") {
		t.Errorf("known or foreign variables should not warn: %q", out)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	off := false
	cfg := config.DefaultConfig()
	cfg.PressReady.Enabled = true
	cfg.Workers = 8

	applyEnvConfig(&envConfig{
		Workers:           2,
		PressReady:        &off,
		PressReadyCommand: "pr",
		OutputDir:         "out",
		MetricsFile:       "m.prom",
	}, cfg)

	if cfg.Workers != 2 || cfg.PressReady.Enabled || cfg.PressReady.Command != "pr" ||
		cfg.Output.DefaultDir != "out" || cfg.Metrics.File != "m.prom" {
		t.Errorf("applyEnvConfig() = %+v", cfg)
	}

	// Empty env leaves config untouched.
	before := *cfg
	applyEnvConfig(&envConfig{}, cfg)
	if cfg.Workers != before.Workers || cfg.PressReady.Command != before.PressReady.Command {
		t.Errorf("empty envConfig changed config: %+v", cfg)
	}
}

// Not parallel: loadDotEnv mutates the process environment.
func TestLoadDotEnv(t *testing.T) {
	const key = "PDFBOOK_DOTENV_TEST_VALUE"
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv() unexpected error: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}

	// The real environment wins over the file.
	t.Setenv(key, "from-env")
	if err := loadDotEnv(path); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(key); got != "from-env" {
		t.Errorf("%s = %q, want from-env", key, got)
	}

	if err := loadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}
	if err := loadDotEnv(""); err != nil {
		t.Errorf("empty path should be ignored, got %v", err)
	}
}
