package media

import (
	"bytes"
	"encoding/xml"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/cardforge/pkg/errors"
)

// Probe returns the natural width and height of an image of the given
// content type without decoding its pixels.
func Probe(data []byte, contentType string) (int, int, error) {
	if contentType == TypeSVG {
		return probeSVG(data)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.ErrCodeUnsupportedType, err, "cannot read image dimensions")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, 0, apperr.New(apperr.ErrCodeUnsupportedType, "image has no area (%dx%d)", cfg.Width, cfg.Height)
	}
	return cfg.Width, cfg.Height, nil
}

// probeSVG reads the size from the root element. Absolute width and height
// attributes win; otherwise the viewBox is used.
func probeSVG(data []byte) (int, int, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, 0, apperr.Wrap(apperr.ErrCodeUnsupportedType, err, "malformed SVG")
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if el.Name.Local != "svg" {
			break
		}
		return svgSize(el.Attr)
	}
	return 0, 0, apperr.New(apperr.ErrCodeUnsupportedType, "SVG has no <svg> root element")
}

func svgSize(attrs []xml.Attr) (int, int, error) {
	var w, h float64
	var viewBox string
	for _, a := range attrs {
		switch a.Name.Local {
		case "width":
			w = svgLength(a.Value)
		case "height":
			h = svgLength(a.Value)
		case "viewBox":
			viewBox = a.Value
		}
	}

	if (w <= 0 || h <= 0) && viewBox != "" {
		f := strings.FieldsFunc(viewBox, func(r rune) bool { return r == ' ' || r == ',' })
		if len(f) == 4 {
			vw, errW := strconv.ParseFloat(f[2], 64)
			vh, errH := strconv.ParseFloat(f[3], 64)
			if errW == nil && errH == nil && vw > 0 && vh > 0 {
				switch {
				case w > 0:
					h = w * vh / vw
				case h > 0:
					w = h * vw / vh
				default:
					w, h = vw, vh
				}
			}
		}
	}
	if w <= 0 || h <= 0 {
		return 0, 0, apperr.New(apperr.ErrCodeUnsupportedType, "SVG declares neither a size nor a viewBox")
	}
	return max(1, int(math.Round(w))), max(1, int(math.Round(h))), nil
}

// svgLength parses an absolute length such as "120", "120px" or "1.5e2".
// Relative units return 0.
func svgLength(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
