package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/alnah/go-pdfbook/internal/pdf"
)

// Supported cover media types.
const (
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// maxCoverPixels bounds the decoded size of a cover image.
const maxCoverPixels = 64 << 20

// embeddedImage is an image XObject added to a graph.
type embeddedImage struct {
	ref           pdf.Ref
	width, height int
}

// embedImage decodes data as mediaType and stores it as an image XObject.
// JPEG bytes are embedded as-is; PNG pixels are re-encoded with Flate and
// a soft mask when the image has transparency.
func embedImage(g *pdf.Graph, mediaType string, data []byte) (embeddedImage, error) {
	var xobj *pdf.Stream
	var w, h int
	var err error

	switch mediaType {
	case MediaTypeJPEG:
		xobj, w, h, err = jpegXObject(data)
	case MediaTypePNG:
		xobj, w, h, err = pngXObject(g, data)
	default:
		err = fmt.Errorf("no decoder for %s", mediaType)
	}
	if err != nil {
		return embeddedImage{}, fmt.Errorf("%w: %v", ErrCoverDecode, err)
	}
	if w <= 0 || h <= 0 {
		return embeddedImage{}, fmt.Errorf("%w: empty image", ErrCoverDecode)
	}

	ref := g.Allocate()
	if err := g.Assign(ref, xobj); err != nil {
		return embeddedImage{}, err
	}
	return embeddedImage{ref: ref, width: w, height: h}, nil
}

func imageDict(w, h int, colorSpace pdf.Name, filter pdf.Name) pdf.Dict {
	return pdf.Dict{
		"Type":             pdf.Name("XObject"),
		"Subtype":          pdf.Name("Image"),
		"Width":            pdf.Int(w),
		"Height":           pdf.Int(h),
		"ColorSpace":       colorSpace,
		"BitsPerComponent": pdf.Int(8),
		"Filter":           filter,
	}
}

func checkBounds(cfg image.Config) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return errors.New("empty image")
	}
	if cfg.Width*cfg.Height > maxCoverPixels {
		return fmt.Errorf("image of %dx%d pixels is too large", cfg.Width, cfg.Height)
	}
	return nil
}

func jpegXObject(data []byte) (*pdf.Stream, int, int, error) {
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}
	if err := checkBounds(cfg); err != nil {
		return nil, 0, 0, err
	}
	// A full decode catches truncated scans that the header alone hides.
	if _, err := jpeg.Decode(bytes.NewReader(data)); err != nil {
		return nil, 0, 0, err
	}

	var d pdf.Dict
	switch cfg.ColorModel {
	case color.GrayModel:
		d = imageDict(cfg.Width, cfg.Height, "DeviceGray", "DCTDecode")
	case color.CMYKModel:
		d = imageDict(cfg.Width, cfg.Height, "DeviceCMYK", "DCTDecode")
		// Adobe writes CMYK JPEGs inverted.
		d["Decode"] = pdf.Array{pdf.Int(1), pdf.Int(0), pdf.Int(1), pdf.Int(0), pdf.Int(1), pdf.Int(0), pdf.Int(1), pdf.Int(0)}
	default:
		d = imageDict(cfg.Width, cfg.Height, "DeviceRGB", "DCTDecode")
	}
	return &pdf.Stream{Dict: d, Data: bytes.Clone(data)}, cfg.Width, cfg.Height, nil
}

func pngXObject(g *pdf.Graph, data []byte) (*pdf.Stream, int, int, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}
	if err := checkBounds(cfg); err != nil {
		return nil, 0, 0, err
	}
	src, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Copy(nrgba, image.Point{}, src, b, draw.Src, nil)

	gray := src.ColorModel() == color.GrayModel || src.ColorModel() == color.Gray16Model
	channels := 3
	colorSpace := pdf.Name("DeviceRGB")
	if gray {
		channels = 1
		colorSpace = "DeviceGray"
	}

	pixels := make([]byte, 0, w*h*channels)
	alpha := make([]byte, 0, w*h)
	opaque := true
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4]
			if gray {
				pixels = append(pixels, p[0])
			} else {
				pixels = append(pixels, p[0], p[1], p[2])
			}
			alpha = append(alpha, p[3])
			if p[3] != 0xFF {
				opaque = false
			}
		}
	}

	encoded, err := pdf.FlateEncode(pixels)
	if err != nil {
		return nil, 0, 0, err
	}
	d := imageDict(w, h, colorSpace, "FlateDecode")

	if !opaque {
		mask, err := pdf.FlateEncode(alpha)
		if err != nil {
			return nil, 0, 0, err
		}
		smask := g.Allocate()
		if err := g.Assign(smask, &pdf.Stream{Dict: imageDict(w, h, "DeviceGray", "FlateDecode"), Data: mask}); err != nil {
			return nil, 0, 0, err
		}
		d["SMask"] = smask
	}
	return &pdf.Stream{Dict: d, Data: encoded}, w, h, nil
}
