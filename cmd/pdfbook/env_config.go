package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/alnah/go-pdfbook/internal/config"
)

// envPrefix marks the variables read by the CLI.
const envPrefix = "PDFBOOK_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath        string // PDFBOOK_CONFIG: config file name or path
	Workers           int    // PDFBOOK_WORKERS: parallel workers
	PressReady        *bool  // PDFBOOK_PRESS_READY: enable print-ready export
	PressReadyCommand string // PDFBOOK_PRESS_READY_COMMAND: executable
	OutputDir         string // PDFBOOK_OUTPUT_DIR: default output directory
	MetricsFile       string // PDFBOOK_METRICS_FILE: Prometheus textfile
}

// knownEnvVars lists valid PDFBOOK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PDFBOOK_CONFIG":              true,
	"PDFBOOK_WORKERS":             true,
	"PDFBOOK_PRESS_READY":         true,
	"PDFBOOK_PRESS_READY_COMMAND": true,
	"PDFBOOK_OUTPUT_DIR":          true,
	"PDFBOOK_METRICS_FILE":        true,
	"PDFBOOK_CONTAINER":           true,
}

// loadDotEnv loads path into the process environment. Variables already set
// win over the file. A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: loading %s: %v", ErrUsage, path, err)
	}
	return nil
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and booleans are reported as warnings and ignored.
func loadEnvConfig(getenv func(string) string, warn io.Writer) *envConfig {
	cfg := &envConfig{
		ConfigPath:        getenv("PDFBOOK_CONFIG"),
		PressReadyCommand: getenv("PDFBOOK_PRESS_READY_COMMAND"),
		OutputDir:         getenv("PDFBOOK_OUTPUT_DIR"),
		MetricsFile:       getenv("PDFBOOK_METRICS_FILE"),
	}

	if workers := getenv("PDFBOOK_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		} else {
			fmt.Fprintf(warn, "warning: ignoring PDFBOOK_WORKERS=%q (want a positive integer)\n", workers)
		}
	}

	if pr := getenv("PDFBOOK_PRESS_READY"); pr != "" {
		if b, err := strconv.ParseBool(pr); err == nil {
			cfg.PressReady = &b
		} else {
			fmt.Fprintf(warn, "warning: ignoring PDFBOOK_PRESS_READY=%q (want true or false)\n", pr)
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PDFBOOK_* variables.
// Helps catch typos like PDFBOOK_WORKER instead of PDFBOOK_WORKERS.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Environment values override the config file; CLI flags are applied later
// via mergeFlags. Priority: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
	if env.PressReady != nil {
		cfg.PressReady.Enabled = *env.PressReady
	}
	if env.PressReadyCommand != "" {
		cfg.PressReady.Command = env.PressReadyCommand
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.MetricsFile != "" {
		cfg.Metrics.File = env.MetricsFile
	}
}
