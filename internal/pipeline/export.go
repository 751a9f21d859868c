package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/alnah/go-pdfbook/internal/fileutil"
	"github.com/alnah/go-pdfbook/internal/pdf"
)

// ErrNoTransformer indicates a print-ready export without a transform.
var ErrNoTransformer = errors.New("print-ready export requested but no transform configured")

// Transformer converts the PDF at inputPath into a print-ready PDF at
// outputPath.
type Transformer interface {
	Transform(ctx context.Context, inputPath, outputPath string) error
}

// Exporter defines the contract for writing the final document.
type Exporter interface {
	Export(ctx context.Context, g *pdf.Graph, outputPath string, pressReady bool) (int, error)
}

// Export serializes a graph and writes it, directly or through a
// Transformer.
type Export struct {
	Transform Transformer
}

// Export returns the size of the serialized document. With pressReady the
// bytes go to a private temporary file handed to the transform, which
// writes outputPath; the temporary file is removed whatever the outcome,
// and transform errors are returned unchanged.
func (e *Export) Export(ctx context.Context, g *pdf.Graph, outputPath string, pressReady bool) (int, error) {
	data, err := g.Serialize()
	if err != nil {
		return 0, err
	}

	if !pressReady {
		if err := os.WriteFile(outputPath, data, 0o644); err != nil { // #nosec G306 -- output PDFs are meant to be shared
			return 0, fmt.Errorf("writing output: %w", err)
		}
		return len(data), nil
	}

	if e.Transform == nil {
		return 0, ErrNoTransformer
	}
	if ctx.Err() != nil {
		return 0, ctx.Err()
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(data, "pdf")
	if err != nil {
		return 0, err
	}
	defer cleanup()

	if err := e.Transform.Transform(ctx, tmpPath, outputPath); err != nil {
		return 0, err
	}
	return len(data), nil
}
