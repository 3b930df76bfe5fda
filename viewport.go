package tocca

// Viewport is the computed placement of a fixed-aspect canvas inside an
// available screen area: a uniform scale plus a centering offset. It is
// derived, ephemeral state — recomputed whenever the available area or the
// layout changes, never persisted.
//
// ScaleX and ScaleY are always equal (aspect is preserved, never stretched);
// both are kept so mapped rectangles read naturally at the call sites.
type Viewport struct {
	OriginX float64
	OriginY float64
	ScaleX  float64
	ScaleY  float64
}

// FitViewport computes the letterboxed placement of a canvasW×canvasH canvas
// inside an availW×availH area. If the available area is relatively wider
// than the canvas, height is the binding constraint; otherwise width is. The
// mapped canvas rectangle is centered, fully contained in the available area,
// and exactly fills it in at least one dimension.
//
// Degenerate input (any dimension <= 0) yields the zero Viewport, which
// renderers must treat as "nothing visible this frame".
func FitViewport(availW, availH, canvasW, canvasH float64) Viewport {
	if availW <= 0 || availH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return Viewport{}
	}

	// Cross-multiplied aspect comparison avoids the division.
	var scale float64
	if availW*canvasH > canvasW*availH {
		scale = availH / canvasH
	} else {
		scale = availW / canvasW
	}

	return Viewport{
		OriginX: (availW - canvasW*scale) / 2,
		OriginY: (availH - canvasH*scale) / 2,
		ScaleX:  scale,
		ScaleY:  scale,
	}
}

// IsEmpty reports whether the viewport maps to a zero-size area.
func (v Viewport) IsEmpty() bool {
	return v.ScaleX <= 0 || v.ScaleY <= 0
}

// MapPoint converts a canvas-space point to screen space.
func (v Viewport) MapPoint(x, y float64) (sx, sy float64) {
	return v.OriginX + x*v.ScaleX, v.OriginY + y*v.ScaleY
}

// MapRect converts a canvas-space rectangle to screen space.
func (v Viewport) MapRect(r Rect) Rect {
	return Rect{
		X:      v.OriginX + r.X*v.ScaleX,
		Y:      v.OriginY + r.Y*v.ScaleY,
		Width:  r.Width * v.ScaleX,
		Height: r.Height * v.ScaleY,
	}
}

// Unmap converts a screen-space point back to canvas space.
// Returns (0, 0) for an empty viewport.
func (v Viewport) Unmap(sx, sy float64) (x, y float64) {
	if v.IsEmpty() {
		return 0, 0
	}
	return (sx - v.OriginX) / v.ScaleX, (sy - v.OriginY) / v.ScaleY
}
