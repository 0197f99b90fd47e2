// Package placement positions and scales a logo inside a rectangular container.
//
// The package is split into a pure geometry layer and a stateful [Widget]:
//
//   - [State], [Frame]: the normalized placement and its pixel-space box
//   - [Layout], [Clamp]: pure functions from state and container size
//   - [Widget]: pointer-drag and scale handling on top of the pure layer
//
// # Coordinates
//
// A placement is stored as fractions of the container: the logo's center
// ([State.CenterX], [State.CenterY]) and a scale in (0, 1] applied to a base
// size fixed when the logo is loaded. The base width is 25% of the container
// width and the base height follows the logo's aspect ratio.
//
// Loading a logo always resets the center to 0.5, 0.5. After every drag or
// scale change the box is clamped so it lies inside the container. A box
// larger than the container is pinned to the top-left edge, with the center
// fraction capped at 1.
//
// # Rendering
//
// A [Widget] never touches a display directly. It reads the live container
// size from an injected [Container] and pushes a [Frame] to an injected
// [Renderer] after each state change:
//
//	w := placement.New(container, placement.RendererFunc(func(f placement.Frame) {
//	    draw(f.Left, f.Top, f.Width, f.Height)
//	}))
//	w.LoadLogo(800, 400)
//	w.SetScale(100)
//	p := w.Placement() // transmitted as logoX, logoY, logoScale
package placement
