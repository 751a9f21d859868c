package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pressReadyFlags holds print-ready export flags.
type pressReadyFlags struct {
	enabled  bool
	disabled bool
	command  string
}

// processFlags holds all flags for the process command.
type processFlags struct {
	common      commonFlags
	input       string
	output      string
	contentRoot string
	workers     int
	strict      bool
	metricsFile string
	watch       bool
	pressReady  pressReadyFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
}

// addPressReadyFlags adds print-ready flags to a FlagSet.
func addPressReadyFlags(fs *flag.FlagSet, f *pressReadyFlags) {
	fs.BoolVar(&f.enabled, "press-ready", false, "route output through the press-ready command")
	fs.BoolVar(&f.disabled, "no-press-ready", false, "write output directly, ignoring config and manifests")
	fs.StringVar(&f.command, "press-ready-command", "", "press-ready executable (default: press-ready)")
}

// newProcessFlagSet registers every process flag on a fresh FlagSet.
func newProcessFlagSet(f *processFlags, usage io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	fs.SetOutput(usage)

	// I/O flags
	fs.StringVarP(&f.input, "input", "i", "", "rendered PDF (single manifest only)")
	fs.StringVarP(&f.output, "output", "o", "", "output PDF (single manifest only)")
	fs.StringVar(&f.contentRoot, "content-root", "", "directory cover paths are relative to")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	// Behavior flags
	fs.BoolVar(&f.strict, "strict", false, "fail on unsupported cover types and bad dates")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	fs.BoolVar(&f.watch, "watch", false, "reprocess when manifests or their inputs change")

	addCommonFlags(fs, &f.common)
	addPressReadyFlags(fs, &f.pressReady)

	fs.Usage = func() { printProcessUsage(usage) }
	return fs
}

// parseProcessFlags parses process command flags and returns positional args.
func parseProcessFlags(args []string, usage io.Writer) (*processFlags, []string, error) {
	f := &processFlags{}
	fs := newProcessFlagSet(f, usage)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
