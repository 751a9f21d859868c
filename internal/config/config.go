package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-pdfbook/internal/fileutil"
	"github.com/alnah/go-pdfbook/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Field length limits.
const (
	MaxPathLength     = 4096
	MaxProducerLength = 200
	MaxCommandLength  = 1024
	MaxArgLength      = 1024
	MaxArgs           = 64
)

// Worker bounds for the batch pool.
const (
	MaxWorkers = 64
)

// DefaultPressReadyCommand is the external tool invoked for print-ready export.
const DefaultPressReadyCommand = "press-ready"

// DefaultPressReadyArgs are the arguments passed to DefaultPressReadyCommand.
// {input} and {output} are replaced with the file paths.
var DefaultPressReadyArgs = []string{"build", "--input", "{input}", "--output", "{output}"}

// AppDir is the directory name under the user config directory.
const AppDir = "go-pdfbook"

// Config holds all configuration for document post-processing.
type Config struct {
	Input      InputConfig      `yaml:"input"`
	Output     OutputConfig     `yaml:"output"`
	Producer   string           `yaml:"producer"` // Overrides the Producer written to the Info dictionary
	Workers    int              `yaml:"workers"`  // 0 = GOMAXPROCS
	PressReady PressReadyConfig `yaml:"pressReady"`
	Strict     StrictConfig     `yaml:"strict"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Directory searched for manifests when none is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the input PDF
}

// PressReadyConfig defines the external print-ready transform.
type PressReadyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Command string   `yaml:"command"` // default: press-ready
	Args    []string `yaml:"args"`    // {input}, {output} placeholders
	Timeout string   `yaml:"timeout"` // Go duration, e.g. "2m"; empty = no timeout
}

// StrictConfig turns permissive skips into errors.
type StrictConfig struct {
	Cover bool `yaml:"cover"` // Unsupported cover media type fails
	Dates bool `yaml:"dates"` // Unparsable creation date fails
}

// MetricsConfig defines metrics export.
type MetricsConfig struct {
	File string `yaml:"file"` // Prometheus textfile path; empty = disabled
}

// TimeoutDuration parses Timeout. An empty value yields zero.
func (p PressReadyConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: pressReady.timeout: %v", ErrConfigInvalid, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: pressReady.timeout: must not be negative, got %s", ErrConfigInvalid, p.Timeout)
	}
	return d, nil
}

// CommandLine returns the configured command and arguments. Empty fields
// fall back to the defaults independently, so a relocated press-ready
// binary keeps the default argument template.
func (p PressReadyConfig) CommandLine() (string, []string) {
	cmd := p.Command
	if cmd == "" {
		cmd = DefaultPressReadyCommand
	}
	args := p.Args
	if len(args) == 0 {
		args = DefaultPressReadyArgs
	}
	return cmd, args
}

// Validate checks ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., API adapters, library users).
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("producer", c.Producer, MaxProducerLength); err != nil {
		return err
	}
	if err := validateFieldLength("metrics.file", c.Metrics.File, MaxPathLength); err != nil {
		return err
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrConfigInvalid, MaxWorkers, c.Workers)
	}

	// Validate press-ready fields
	if err := validateFieldLength("pressReady.command", c.PressReady.Command, MaxCommandLength); err != nil {
		return err
	}
	if len(c.PressReady.Args) > MaxArgs {
		return fmt.Errorf("%w: pressReady.args: at most %d arguments, got %d", ErrConfigInvalid, MaxArgs, len(c.PressReady.Args))
	}
	for i, arg := range c.PressReady.Args {
		if err := validateFieldLength(fmt.Sprintf("pressReady.args[%d]", i), arg, MaxArgLength); err != nil {
			return err
		}
	}
	if strings.TrimSpace(c.PressReady.Command) != c.PressReady.Command {
		return fmt.Errorf("%w: pressReady.command: surrounding whitespace in %q", ErrConfigInvalid, c.PressReady.Command)
	}
	if _, err := c.PressReady.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a neutral configuration: direct export, permissive
// cover and date handling, no metrics.
func DefaultConfig() *Config {
	return &Config{
		Input:      InputConfig{DefaultDir: ""},
		Output:     OutputConfig{DefaultDir: ""},
		PressReady: PressReadyConfig{Enabled: false},
		Strict:     StrictConfig{},
		Metrics:    MetricsConfig{},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := yamlutil.ReadFile(configPath, &cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		return nil, fmt.Errorf("%w: %s", ErrConfigParse, yamlutil.Describe(err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2) // 2 locations

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-pdfbook/
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
