package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfbook <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  process    Apply metadata, bookmarks and cover to rendered PDFs")
	fmt.Fprintln(w, "  doctor     Check the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfbook help <command>' for details on a specific command.")
}

// printProcessUsage prints usage for the process command.
func printProcessUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfbook process [flags] <manifest>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Post-process the rendered PDF named by each manifest.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  manifest  Manifest file, or directory searched for pdfbook.yaml,")
	fmt.Fprintln(w, "            pdfbook.yml, pdfbook.json and *.pdfbook.* files")
	fmt.Fprintln(w, "            (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -i, --input <path>            Rendered PDF (single manifest only)")
	fmt.Fprintln(w, "  -o, --output <path>           Output PDF (single manifest only)")
	fmt.Fprintln(w, "      --content-root <dir>      Directory cover paths are relative to")
	fmt.Fprintln(w, "  -c, --config <name>           Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>             Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Press-ready:")
	fmt.Fprintln(w, "      --press-ready             Route output through the press-ready command")
	fmt.Fprintln(w, "      --no-press-ready          Write output directly")
	fmt.Fprintln(w, "      --press-ready-command <s> Executable (default: press-ready)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Behavior:")
	fmt.Fprintln(w, "      --strict                  Fail on unsupported cover types and bad dates")
	fmt.Fprintln(w, "      --metrics-file <path>     Write Prometheus metrics to a textfile")
	fmt.Fprintln(w, "      --watch                   Reprocess when inputs change (Ctrl-C to stop)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                   Only show errors")
	fmt.Fprintln(w, "  -v, --verbose                 Show debug logs and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  PDFBOOK_CONFIG, PDFBOOK_WORKERS, PDFBOOK_PRESS_READY,")
	fmt.Fprintln(w, "  PDFBOOK_PRESS_READY_COMMAND, PDFBOOK_OUTPUT_DIR, PDFBOOK_METRICS_FILE")
	fmt.Fprintln(w, "  A .env file in the working directory is read first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general, 2 usage/config/manifest, 3 I/O,")
	fmt.Fprintln(w, "  4 unusable PDF, 5 press-ready failure")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "process":
		printProcessUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: pdfbook doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check for the press-ready command, a writable temp directory,")
		fmt.Fprintln(env.Stdout, "and container or CI environments.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdfbook version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdfbook help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
