package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	flag "github.com/spf13/pflag"

	pdfbook "github.com/alnah/go-pdfbook"
	"github.com/alnah/go-pdfbook/internal/config"
	"github.com/alnah/go-pdfbook/internal/hints"
	"github.com/alnah/go-pdfbook/internal/manifest"
	"github.com/alnah/go-pdfbook/internal/metrics"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// batchError reports failed documents; it unwraps to the first failure so
// the exit code reflects it.
type batchError struct {
	failed int
	first  error
}

func (e *batchError) Error() string { return fmt.Sprintf("%d document(s) failed", e.failed) }
func (e *batchError) Unwrap() error { return e.first }

// runProcess orchestrates the process command.
func runProcess(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseProcessFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if err := validateFlags(flags, positional); err != nil {
		return err
	}

	// Environment: .env first, then PDFBOOK_* variables
	if err := loadDotEnv(env.DotEnv); err != nil {
		return err
	}
	warnUnknownEnvVars(env.Environ(), env.Stderr)
	envCfg := loadEnvConfig(env.Getenv, env.Stderr)

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	manifests, err := discoverManifests(positional, cfg.Input.DefaultDir)
	if err != nil {
		return err
	}
	if len(manifests) > 1 && (flags.input != "" || flags.output != "") {
		return fmt.Errorf("%w: --input and --output need exactly one manifest, got %d", ErrUsage, len(manifests))
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	sink := newMetricsSink(cfg.Metrics.File)

	proc, err := buildProcessor(cfg, logger, sink.rec)
	if err != nil {
		return err
	}
	params := newJobParams(flags, cfg, env, sink.rec)

	if flags.watch {
		return runWatch(ctx, proc, manifests, cfg, params, flags, env, logger, sink)
	}

	results := runBatch(ctx, proc, manifests, cfg.Workers, params)
	failed := printResults(results, flags.common.quiet, flags.common.verbose, env, params.hint)
	if err := sink.flush(); err != nil {
		fmt.Fprintf(env.Stderr, "warning: writing metrics: %v\n", err)
	}
	if failed > 0 {
		return &batchError{failed: failed, first: firstError(results)}
	}
	return nil
}

// validateFlags rejects contradictory flag combinations.
func validateFlags(flags *processFlags, positional []string) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if flags.pressReady.enabled && flags.pressReady.disabled {
		return fmt.Errorf("%w: --press-ready and --no-press-ready are mutually exclusive", ErrUsage)
	}
	if flags.common.quiet && flags.common.verbose {
		return fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	if len(positional) > 1 && (flags.input != "" || flags.output != "") {
		return fmt.Errorf("%w: --input and --output need exactly one manifest", ErrUsage)
	}
	return nil
}

// loadConfig loads the config named by the flag, else by PDFBOOK_CONFIG,
// else returns the defaults.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *processFlags, cfg *config.Config) {
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if flags.pressReady.command != "" {
		cfg.PressReady.Command = flags.pressReady.command
	}
	if flags.strict {
		cfg.Strict.Cover = true
		cfg.Strict.Dates = true
	}
	if flags.metricsFile != "" {
		cfg.Metrics.File = flags.metricsFile
	}
}

// buildProcessor creates the shared Processor. The press-ready transform is
// always configured because manifests may enable it individually.
func buildProcessor(cfg *config.Config, logger *slog.Logger, rec metrics.Recorder) (*pdfbook.Processor, error) {
	timeout, err := cfg.PressReady.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	command, args := cfg.PressReady.CommandLine()
	transform := pdfbook.NewCommandTransform(command, args...)
	transform.Timeout = timeout
	transform.Logger = logger

	opts := []pdfbook.Option{
		pdfbook.WithLogger(logger),
		pdfbook.WithPressReady(transform),
		pdfbook.WithStageObserver(stageObserver(rec)),
	}
	if cfg.Producer != "" {
		opts = append(opts, pdfbook.WithProducer(cfg.Producer))
	}
	if cfg.Strict.Cover {
		opts = append(opts, pdfbook.WithStrictCover())
	}
	if cfg.Strict.Dates {
		opts = append(opts, pdfbook.WithStrictDates())
	}
	return pdfbook.NewProcessor(opts...), nil
}

func newJobParams(flags *processFlags, cfg *config.Config, env *Environment, rec metrics.Recorder) *jobParams {
	p := &jobParams{
		overrides: manifest.Options{
			Input:       flags.input,
			Output:      flags.output,
			ContentRoot: flags.contentRoot,
		},
		outputDir: cfg.Output.DefaultDir,
		cfgPress:  cfg.PressReady.Enabled,
		now:       env.Now,
		rec:       rec,
		pressCmd:  cfg.PressReady.Command,
	}
	switch {
	case flags.pressReady.enabled:
		v := true
		p.pressReady = &v
	case flags.pressReady.disabled:
		v := false
		p.pressReady = &v
	}
	return p
}

// hint returns advice for a failed document, empty when there is none.
func (p *jobParams) hint(err error) string {
	switch {
	case errors.Is(err, pdfbook.ErrPressReadyNotFound):
		command, _ := config.PressReadyConfig{Command: p.pressCmd}.CommandLine()
		return hints.ForPressReadyNotFound(command)
	case errors.Is(err, pdfbook.ErrPressReadyFailed):
		return hints.ForPressReadyFailed()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, pdfbook.ErrMalformedDocument):
		return hints.ForMalformedPDF()
	case errors.Is(err, pdfbook.ErrAssetRead),
		errors.Is(err, pdfbook.ErrUnsupportedMediaType),
		errors.Is(err, pdfbook.ErrCoverDecode):
		return hints.ForCoverAsset()
	case errors.Is(err, ErrCreateOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}
