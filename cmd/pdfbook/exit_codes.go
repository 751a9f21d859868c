package main

import (
	"errors"
	"os"

	pdfbook "github.com/alnah/go-pdfbook"
	"github.com/alnah/go-pdfbook/internal/config"
	"github.com/alnah/go-pdfbook/internal/manifest"
)

// Exit codes for the pdfbook CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // All documents processed
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or manifest
	ExitIO         = 3 // Input, asset or output file errors
	ExitDocument   = 4 // Input is not a usable PDF
	ExitPressReady = 5 // Press-ready command missing or failed
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Press-ready errors (exit 5)
	if errors.Is(err, pdfbook.ErrPressReadyNotFound) ||
		errors.Is(err, pdfbook.ErrPressReadyFailed) ||
		errors.Is(err, pdfbook.ErrNoPressReadyTransform) {
		return ExitPressReady
	}

	// Document errors (exit 4)
	if errors.Is(err, pdfbook.ErrMalformedDocument) ||
		errors.Is(err, pdfbook.ErrEncryptedDocument) ||
		errors.Is(err, pdfbook.ErrNoPages) ||
		errors.Is(err, pdfbook.ErrEmptyPDF) ||
		errors.Is(err, pdfbook.ErrCoverDecode) {
		return ExitDocument
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, pdfbook.ErrAssetRead) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrCreateOutputDir) ||
		errors.Is(err, ErrNoManifest) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, manifest.ErrManifestNotFound) ||
		errors.Is(err, manifest.ErrManifestParse) ||
		errors.Is(err, manifest.ErrNoInput) ||
		errors.Is(err, manifest.ErrInvalidTOC) ||
		errors.Is(err, pdfbook.ErrInvalidTOCNode) ||
		errors.Is(err, pdfbook.ErrUnsupportedMediaType) ||
		errors.Is(err, pdfbook.ErrInvalidCreationDate) ||
		errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
