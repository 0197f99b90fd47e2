package media

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/disintegration/imaging"

	apperr "github.com/matzehuels/cardforge/pkg/errors"
	"github.com/matzehuels/cardforge/pkg/placement"
)

// minLogoSide is the smallest logo edge drawn, in pixels.
const minLogoSide = 5

var previewFill = color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}

// Decode decodes a raster image.
func (im *Image) Decode() (image.Image, error) {
	if !im.IsRaster() {
		return nil, apperr.New(apperr.ErrCodeUnsupportedType, "%s cannot be rendered locally (SVG)", im.Name)
	}
	img, err := imaging.Decode(bytes.NewReader(im.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeUnsupportedType, err, "cannot decode %s", im.Name)
	}
	return img, nil
}

// ComposePreview draws logo onto bg at p on a width×height card. The
// background is stretched to the card; a nil bg gives a plain canvas. The
// logo's base width is a quarter of the card width and its top-left corner
// is kept on the card.
func ComposePreview(bg, logo image.Image, p placement.Placement, width, height int) *image.NRGBA {
	var canvas *image.NRGBA
	if bg != nil {
		canvas = imaging.Resize(bg, width, height, imaging.Lanczos)
	} else {
		canvas = imaging.New(width, height, previewFill)
	}
	if logo == nil {
		return canvas
	}

	lb := logo.Bounds()
	if lb.Dx() == 0 || lb.Dy() == 0 {
		return canvas
	}
	aspect := float64(lb.Dy()) / float64(lb.Dx())
	lw := int(float64(width) * placement.BaseWidthFraction * p.Scale)
	lh := int(float64(lw) * aspect)
	lw, lh = max(lw, minLogoSide), max(lh, minLogoSide)
	scaled := imaging.Resize(logo, lw, lh, imaging.Lanczos)

	x := int(p.CenterX*float64(width) - float64(lw)/2)
	y := int(p.CenterY*float64(height) - float64(lh)/2)
	x = max(0, min(x, width-lw))
	y = max(0, min(y, height-lh))

	return imaging.Overlay(canvas, scaled, image.Pt(x, y), 1.0)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}
