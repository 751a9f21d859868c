package pdfbook

import (
	"errors"

	"github.com/alnah/go-pdfbook/internal/pdf"
	"github.com/alnah/go-pdfbook/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrEmptyPDF        = errors.New("PDF content cannot be empty")
	ErrEmptyOutputPath = errors.New("output path cannot be empty")

	// Document errors.
	ErrMalformedDocument = pdf.ErrMalformed
	ErrEncryptedDocument = pdf.ErrEncrypted
	ErrInvalidReference  = pdf.ErrInvalidReference
	ErrNoPages           = pdf.ErrNoPages

	// Metadata errors.
	ErrInvalidCreationDate = pipeline.ErrInvalidCreationDate

	// Cover errors.
	ErrAssetRead            = pipeline.ErrAssetRead
	ErrUnsupportedMediaType = pipeline.ErrUnsupportedMediaType
	ErrCoverDecode          = pipeline.ErrCoverDecode

	// TOC validation errors.
	ErrInvalidTOCNode = errors.New("invalid TOC node")

	// Print-ready export errors.
	ErrNoPressReadyTransform = pipeline.ErrNoTransformer
	ErrPressReadyNotFound    = errors.New("press-ready command not found")
	ErrPressReadyFailed      = errors.New("press-ready transform failed")
)
