package placement

import (
	"math"
	"strings"

	apperr "github.com/matzehuels/cardforge/pkg/errors"
)

// Container reports the live size of the area a logo is placed in.
type Container interface {
	Size() (width, height float64)
}

// ContainerFunc adapts a function to the [Container] interface.
type ContainerFunc func() (width, height float64)

// Size calls f.
func (f ContainerFunc) Size() (float64, float64) { return f() }

// FixedContainer is a [Container] with constant dimensions.
type FixedContainer struct {
	Width, Height float64
}

// Size returns the fixed dimensions.
func (c FixedContainer) Size() (float64, float64) { return c.Width, c.Height }

// Renderer receives the box to draw after every state change.
type Renderer interface {
	Render(Frame)
}

// RendererFunc adapts a function to the [Renderer] interface.
type RendererFunc func(Frame)

// Render calls f.
func (f RendererFunc) Render(fr Frame) { f(fr) }

// Widget holds the placement of a single logo and applies user input to it.
//
// All methods are expected to run on one goroutine (an event loop); Widget
// does no locking of its own.
type Widget struct {
	container Container
	renderer  Renderer

	state    State
	loaded   bool
	dragging bool

	// pointer offset from the box's top-left, recorded by BeginDrag
	offsetX, offsetY float64
}

// New creates a widget in the default state. A nil renderer discards frames.
func New(c Container, r Renderer) *Widget {
	if r == nil {
		r = RendererFunc(func(Frame) {})
	}
	return &Widget{container: c, renderer: r, state: DefaultState()}
}

// State returns a copy of the current state.
func (w *Widget) State() State { return w.state }

// Loaded reports whether a logo has been loaded.
func (w *Widget) Loaded() bool { return w.loaded }

// Dragging reports whether a drag is in progress.
func (w *Widget) Dragging() bool { return w.dragging }

// Placement returns the normalized placement unmodified.
func (w *Widget) Placement() Placement { return w.state.Placement() }

// Frame returns the current box for the live container size.
func (w *Widget) Frame() Frame {
	cw, ch := w.size()
	f := Layout(w.state, cw, ch)
	f.Visible = w.loaded
	return f
}

// LoadLogo fixes the base size from the logo's natural dimensions and the
// current container width, then resets position and scale to defaults. The
// first drag or scale change clamps a logo too large for the container.
func (w *Widget) LoadLogo(naturalWidth, naturalHeight float64) {
	cw, _ := w.size()
	bw, bh := BaseSize(cw, naturalWidth, naturalHeight)
	w.state = DefaultState()
	w.state.BaseWidth, w.state.BaseHeight = bw, bh
	w.loaded = true
	w.dragging = false
	w.render()
}

// Unload forgets the logo and returns to the default state.
func (w *Widget) Unload() {
	w.state = DefaultState()
	w.loaded = false
	w.dragging = false
	w.offsetX, w.offsetY = 0, 0
	w.render()
}

// Reset is called when the surrounding flow restarts.
func (w *Widget) Reset() { w.Unload() }

// BeginDrag starts a drag at the given pointer position. It returns false,
// leaving the state untouched, if no logo is loaded or a drag is already in
// progress.
func (w *Widget) BeginDrag(px, py float64) bool {
	if !w.loaded || w.dragging {
		return false
	}
	f := w.Frame()
	w.offsetX, w.offsetY = px-f.Left, py-f.Top
	w.dragging = true
	return true
}

// ContinueDrag moves the box so the pointer keeps its recorded offset,
// clamped to the container. It returns false when no drag is in progress.
func (w *Widget) ContinueDrag(px, py float64) bool {
	if !w.dragging {
		return false
	}
	cw, ch := w.size()
	bw, bh := w.state.Size()
	left, top := clampOrigin(px-w.offsetX, py-w.offsetY, bw, bh, cw, ch)
	w.state.CenterX, w.state.CenterY = centerFromOrigin(left, top, bw, bh, cw, ch)
	w.render()
	return true
}

// EndDrag finishes a drag. Calling it when not dragging has no effect.
func (w *Widget) EndDrag() {
	w.dragging = false
}

// SetScale sets the scale from a slider value in [MinPercent, MaxPercent].
// Out-of-range values are clamped. If the grown box leaves the container the
// center is moved back inside.
func (w *Widget) SetScale(percent int) {
	w.state.Scale = float64(clampPercent(percent)) / 100
	w.render()

	cw, ch := w.size()
	clamped := Clamp(w.state, cw, ch)
	if clamped != w.state {
		w.state = clamped
		w.render()
	}
}

// MoveTo places the center at the given fractions, clamped so the box stays
// inside the container. It is a no-op until a logo is loaded.
func (w *Widget) MoveTo(cx, cy float64) {
	if !w.loaded {
		return
	}
	cw, ch := w.size()
	w.state.CenterX, w.state.CenterY = cx, cy
	w.state = Clamp(w.state, cw, ch)
	w.render()
}

// Nudge moves the box by (dx, dy) pixels as if it were dragged.
func (w *Widget) Nudge(dx, dy float64) {
	if !w.loaded || w.dragging {
		return
	}
	f := w.Frame()
	px, py := f.Left+f.Width/2, f.Top+f.Height/2
	w.BeginDrag(px, py)
	w.ContinueDrag(px+dx, py+dy)
	w.EndDrag()
}

// SnapTo moves the box to a preset anchor, keeping a margin of
// SnapMargin times the shorter container side from the nearest edges.
func (w *Widget) SnapTo(a Anchor) {
	if !w.loaded {
		return
	}
	cw, ch := w.size()
	bw, bh := w.state.Size()
	m := SnapMargin * math.Min(cw, ch)

	left, top := (cw-bw)/2, (ch-bh)/2
	switch a {
	case AnchorTopLeft:
		left, top = m, m
	case AnchorTopRight:
		left, top = cw-bw-m, m
	case AnchorBottomLeft:
		left, top = m, ch-bh-m
	case AnchorBottomRight:
		left, top = cw-bw-m, ch-bh-m
	}
	left, top = clampOrigin(left, top, bw, bh, cw, ch)
	w.state.CenterX, w.state.CenterY = centerFromOrigin(left, top, bw, bh, cw, ch)
	w.render()
}

func (w *Widget) size() (float64, float64) {
	if w.container == nil {
		return 0, 0
	}
	cw, ch := w.container.Size()
	return math.Max(cw, 0), math.Max(ch, 0)
}

func (w *Widget) render() {
	w.renderer.Render(w.Frame())
}

// SnapMargin is the anchor margin as a fraction of the shorter container side.
const SnapMargin = 0.04

// Anchor is a preset logo position.
type Anchor string

// Preset anchors.
const (
	AnchorCenter      Anchor = "center"
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
)

// Anchors lists the preset anchors in display order.
var Anchors = []Anchor{AnchorTopLeft, AnchorTopRight, AnchorCenter, AnchorBottomLeft, AnchorBottomRight}

// ParseAnchor parses an anchor name such as "top-left".
func ParseAnchor(s string) (Anchor, error) {
	a := Anchor(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Anchors {
		if a == known {
			return a, nil
		}
	}
	return "", apperr.New(apperr.ErrCodeInvalidPosition, "unknown position %q (want center, top-left, top-right, bottom-left or bottom-right)", s)
}
