package tocca

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// ImageSource looks artwork up by region name. A nil result means the asset
// is absent; the composer silently skips the region so a layout may reference
// regions that have no artwork yet.
type ImageSource interface {
	LookupImage(name string) *ebiten.Image
}

// Placement is one positioned visual element of a composed frame.
type Placement struct {
	Name string
	// Rect is the region's mapped screen-space rectangle before any highlight
	// scaling. Identical to the rectangle the dispatcher hit-tests against, so
	// visuals and hit areas can never drift apart.
	Rect Rect
	// Scale is the current highlight scale factor (1 when inactive).
	Scale float64
	// Active reports membership in the active set.
	Active bool
}

// ComposePlacements maps a layout through a viewport into an ordered sequence
// of positioned elements. Regions keep their layout order — that order is the
// paint order, with no z-index override. Pure: no drawing, no state.
//
// Returns nil for a nil layout or an empty viewport (nothing visible this
// frame).
func ComposePlacements(layout *Layout, vp Viewport, active *ActiveSet) []Placement {
	if layout == nil || vp.IsEmpty() || len(layout.Regions) == 0 {
		return nil
	}

	placements := make([]Placement, 0, len(layout.Regions))
	for _, r := range layout.Regions {
		p := Placement{
			Name:  r.Name,
			Rect:  vp.MapRect(r.Bounds()),
			Scale: 1,
		}
		if active != nil && active.Contains(r.Name) {
			p.Scale = active.ScaleFor(r.Name)
			p.Active = true
		}
		placements = append(placements, p)
	}
	return placements
}

// Composer renders composed placements to an ebiten image using an injected
// image source.
type Composer struct {
	images ImageSource
}

// NewComposer creates a composer that resolves artwork through images.
// A nil source renders nothing, which is a valid degraded state.
func NewComposer(images ImageSource) *Composer {
	return &Composer{images: images}
}

// Draw renders the layout's regions in paint order at their mapped screen
// rectangles. Active regions scale up around their center by the highlight
// factor. Regions without artwork are skipped without error.
func (c *Composer) Draw(screen *ebiten.Image, layout *Layout, vp Viewport, active *ActiveSet) {
	if c.images == nil {
		return
	}

	for _, p := range ComposePlacements(layout, vp, active) {
		img := c.images.LookupImage(p.Name)
		if img == nil {
			continue
		}

		bounds := img.Bounds()
		iw := float64(bounds.Dx())
		ih := float64(bounds.Dy())
		if iw == 0 || ih == 0 {
			continue
		}

		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		op.GeoM.Scale(p.Rect.Width/iw*p.Scale, p.Rect.Height/ih*p.Scale)
		// Keep the scale-up centered on the region.
		op.GeoM.Translate(
			p.Rect.X+p.Rect.Width*(1-p.Scale)/2,
			p.Rect.Y+p.Rect.Height*(1-p.Scale)/2,
		)
		screen.DrawImage(img, op)
	}
}
