package render

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/fractile/fractile/pkg/errors"
	"github.com/fractile/fractile/pkg/fractal"
)

// Output format identifiers accepted by [Encode].
const (
	FormatPNG  = "png"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatBMP:  true,
	FormatTIFF: true,
}

// Image converts a grid to an NRGBA image. NRGBA keeps alpha straight, so
// quantized channel bytes land in the file untouched; the premultiplied RGBA
// type would rescale color channels and break byte-exact reproducibility.
func Image(g fractal.Grid) *image.NRGBA {
	side := g.Side()
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i, c := range g.Colors() {
		q := c.NRGBA()
		o := i * 4
		img.Pix[o+0] = q.R
		img.Pix[o+1] = q.G
		img.Pix[o+2] = q.B
		img.Pix[o+3] = q.A
	}
	return img
}

// Encode renders the grid in the named format and returns the file bytes.
// Unknown formats are rejected with errors.ErrCodeInvalidFormat.
func Encode(g fractal.Grid, format string) ([]byte, error) {
	img := Image(g)

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, nil)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (must be png, bmp, or tiff)", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}
