package placement

import (
	"math"
	"strconv"
)

const (
	// DefaultCenter is the center fraction used before a logo is placed.
	DefaultCenter = 0.5

	// DefaultScale is the scale applied when a logo is loaded.
	DefaultScale = 0.5

	// BaseWidthFraction is the share of the container width used as the
	// logo's unscaled width.
	BaseWidthFraction = 0.25

	// MinPercent and MaxPercent bound the scale control.
	MinPercent = 1
	MaxPercent = 100

	// Precision is the number of decimals used when placement values are
	// formatted for transport.
	Precision = 4
)

// State is the normalized placement of a logo.
type State struct {
	CenterX    float64 // Center as a fraction of container width
	CenterY    float64 // Center as a fraction of container height
	Scale      float64 // Multiplier applied to the base size
	BaseWidth  float64 // Unscaled width in pixels, fixed per logo
	BaseHeight float64 // Unscaled height in pixels, fixed per logo
}

// DefaultState returns a centered state at the default scale with no base size.
func DefaultState() State {
	return State{CenterX: DefaultCenter, CenterY: DefaultCenter, Scale: DefaultScale}
}

// Size returns the scaled box size in pixels.
func (s State) Size() (w, h float64) {
	return s.BaseWidth * s.Scale, s.BaseHeight * s.Scale
}

// Placement returns the normalized values of s.
func (s State) Placement() Placement {
	return Placement{CenterX: s.CenterX, CenterY: s.CenterY, Scale: s.Scale}
}

// Frame is the pixel-space box of a logo inside its container.
type Frame struct {
	Left, Top       float64
	Width, Height   float64
	ContainerWidth  float64
	ContainerHeight float64
	Visible         bool // False until a logo is loaded
}

// Right returns the x coordinate of the box's right edge.
func (f Frame) Right() float64 { return f.Left + f.Width }

// Bottom returns the y coordinate of the box's bottom edge.
func (f Frame) Bottom() float64 { return f.Top + f.Height }

// Contains reports whether the box lies inside the container. On an axis
// where the box is larger than the container it must be pinned to 0, or as
// close to 0 as a center fraction of 1 allows.
func (f Frame) Contains() bool {
	return axisContained(f.Left, f.Width, f.ContainerWidth) &&
		axisContained(f.Top, f.Height, f.ContainerHeight)
}

func axisContained(start, size, limit float64) bool {
	const eps = 1e-9 // fraction round trip error
	if size > limit {
		return math.Abs(start-math.Min(0, limit-size/2)) <= eps
	}
	return start >= -eps && start+size <= limit+eps
}

// Layout computes the box for s in a container of width w and height h.
func Layout(s State, w, h float64) Frame {
	bw, bh := s.Size()
	return Frame{
		Left:            s.CenterX*w - bw/2,
		Top:             s.CenterY*h - bh/2,
		Width:           bw,
		Height:          bh,
		ContainerWidth:  w,
		ContainerHeight: h,
	}
}

// Clamp moves the center of s so its box lies inside a w×h container.
// Scale and base size are left unchanged.
func Clamp(s State, w, h float64) State {
	f := Layout(s, w, h)
	left, top := clampOrigin(f.Left, f.Top, f.Width, f.Height, w, h)
	s.CenterX, s.CenterY = centerFromOrigin(left, top, f.Width, f.Height, w, h)
	return s
}

// BaseSize returns the unscaled logo size for a container of the given width
// and a logo with the given natural dimensions.
func BaseSize(containerWidth, naturalWidth, naturalHeight float64) (w, h float64) {
	w = containerWidth * BaseWidthFraction
	if naturalWidth <= 0 || naturalHeight <= 0 {
		return w, w
	}
	return w, w * (naturalHeight / naturalWidth)
}

// clampOrigin limits a top-left corner to [0, W-bw]×[0, H-bh].
// When the box exceeds the container on an axis it is pinned to 0.
func clampOrigin(left, top, bw, bh, w, h float64) (float64, float64) {
	return math.Max(0, math.Min(left, w-bw)), math.Max(0, math.Min(top, h-bh))
}

// centerFromOrigin converts a top-left corner back to center fractions in
// [0, 1]. An axis of zero length yields the default center.
func centerFromOrigin(left, top, bw, bh, w, h float64) (cx, cy float64) {
	cx, cy = DefaultCenter, DefaultCenter
	if w > 0 {
		cx = unit((left + bw/2) / w)
	}
	if h > 0 {
		cy = unit((top + bh/2) / h)
	}
	return cx, cy
}

// unit limits a fraction to [0, 1]. A pinned box more than twice the
// container size would otherwise report a center beyond the far edge.
func unit(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

// Placement is the normalized triple sent to the compositing service.
type Placement struct {
	CenterX float64
	CenterY float64
	Scale   float64
}

// Default returns the placement of an untouched widget.
func Default() Placement {
	return DefaultState().Placement()
}

// FormatValue formats v with the transport precision.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', Precision, 64)
}

// Fields returns the placement as transport form fields.
func (p Placement) Fields() map[string]string {
	return map[string]string{
		"logoX":     FormatValue(p.CenterX),
		"logoY":     FormatValue(p.CenterY),
		"logoScale": FormatValue(p.Scale),
	}
}

// Percent returns the scale as a slider value in [MinPercent, MaxPercent].
func (p Placement) Percent() int {
	return clampPercent(int(math.Round(p.Scale * 100)))
}

func clampPercent(p int) int {
	return min(max(p, MinPercent), MaxPercent)
}
