package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-pdfbook/internal/fileutil"
	"github.com/alnah/go-pdfbook/internal/pdf"
)

// Sentinel errors for cover insertion.
var (
	ErrAssetRead            = errors.New("cover asset could not be read")
	ErrUnsupportedMediaType = errors.New("unsupported cover media type")
	ErrCoverDecode          = errors.New("cover image could not be decoded")
)

// coverResource is the XObject name the cover page draws.
const coverResource = "Cover"

// CoverInjector defines the contract for inserting a cover page.
type CoverInjector interface {
	InjectCover(ctx context.Context, g *pdf.Graph, cover *CoverData, contentRoot string) (bool, error)
}

// CoverInjection inserts the cover image as a new first page, scaled to
// the width of the current first page.
type CoverInjection struct {
	// Strict turns unsupported media types into ErrUnsupportedMediaType
	// instead of a logged skip.
	Strict bool
	Logger *slog.Logger
}

// InjectCover reports whether a page was inserted. A nil cover or an empty
// source path is a silent no-op.
func (c *CoverInjection) InjectCover(ctx context.Context, g *pdf.Graph, cover *CoverData, contentRoot string) (bool, error) {
	if cover == nil {
		return false, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	path, ok, err := fileutil.AssetPath(cover.Src, contentRoot)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	if !ok {
		c.logger().Debug("cover has no path, skipping", "src", cover.Src)
		return false, nil
	}

	mediaType, ok := supportedMediaType(cover.MediaType)
	if !ok {
		if c.Strict {
			return false, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, cover.MediaType)
		}
		c.logger().Info("unsupported cover media type, skipping", "mediaType", cover.MediaType)
		return false, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- cover path comes from the publication manifest
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrAssetRead, err)
	}

	targetWidth, _, err := g.PageSize(0)
	if err != nil {
		return false, err
	}

	img, err := embedImage(g, mediaType, data)
	if err != nil {
		return false, err
	}

	scale := targetWidth / float64(img.width)
	height := float64(img.height) * scale

	contents := g.Allocate()
	ops := fmt.Sprintf("q %s 0 0 %s 0 0 cm /%s Do Q", formatNumber(targetWidth), formatNumber(height), coverResource)
	if err := g.Assign(contents, &pdf.Stream{Dict: pdf.Dict{}, Data: []byte(ops)}); err != nil {
		return false, err
	}

	page := pdf.Dict{
		"MediaBox": pdf.Rect(0, 0, targetWidth, height),
		"Resources": pdf.Dict{
			"XObject": pdf.Dict{coverResource: img.ref},
		},
		"Contents": contents,
	}
	if _, err := g.InsertPage(0, page); err != nil {
		return false, err
	}
	return true, nil
}

func (c *CoverInjection) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// supportedMediaType normalizes mediaType, ignoring parameters and case,
// and reports whether a decoder exists for it.
func supportedMediaType(mediaType string) (string, bool) {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", false
	}
	switch mt {
	case MediaTypePNG, MediaTypeJPEG:
		return mt, true
	}
	return "", false
}

// formatNumber prints v for a content stream: no exponent, at most four
// decimals.
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', 4, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
