// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-pdfbook/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a common CI environment variable is set.
func InCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForPressReadyNotFound returns hints when the print-ready command is missing.
func ForPressReadyNotFound(command string) string {
	var hints []string

	if command == "press-ready" {
		hints = append(hints, "install it with: npm install -g press-ready")
	}
	if InCI() || IsInContainer() {
		hints = append(hints, "make sure the image ships the tool on PATH")
	}
	if os.Getenv("PDFBOOK_PRESS_READY_COMMAND") == "" {
		hints = append(hints, "set PDFBOOK_PRESS_READY_COMMAND or --press-ready-command to use another tool")
	}

	return formatHints(hints)
}

// ForPressReadyFailed returns a hint for a print-ready command that ran and failed.
func ForPressReadyFailed() string {
	return format("rerun without --press-ready to check the document itself, or use -v for details")
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, raise pressReady.timeout in the config file")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-pdfbook/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-pdfbook) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-pdfbook") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMalformedPDF returns a hint for input that does not parse as a PDF.
func ForMalformedPDF() string {
	return format("check the renderer finished writing the file; encrypted PDFs are not supported")
}

// ForCoverAsset returns hints for cover images that cannot be used.
func ForCoverAsset() string {
	return format("cover.src is resolved against contentRoot; supported formats: PNG, JPEG")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
