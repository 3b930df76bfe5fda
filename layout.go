package tocca

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default authoring canvas size. Portrait layouts in the shipped books are
// authored in a 1024×1366 coordinate space.
const (
	DefaultCanvasWidth  = 1024
	DefaultCanvasHeight = 1366
)

// Region is one named rectangle of a portrait layout, in canvas units.
// Region order within a Layout is the paint order: later regions draw on top.
type Region struct {
	Name   string
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Bounds returns the region's rectangle in canvas units.
func (r Region) Bounds() Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Layout is the typed representation of a named-region portrait layout.
// Immutable once loaded; the canvas dimensions define the authoring
// coordinate space that the viewport mapper fits to the screen.
type Layout struct {
	CanvasWidth  float64
	CanvasHeight float64
	Regions      []Region
}

// Region returns the named region and whether it exists.
func (l *Layout) Region(name string) (Region, bool) {
	for _, r := range l.Regions {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

// LoadErrorKind classifies layout loading failures.
type LoadErrorKind uint8

const (
	// LoadNotFound means the layout source does not exist.
	LoadNotFound LoadErrorKind = iota
	// LoadMalformed means the source exists but fails the schema: wrong field
	// types, missing required fields, negative dimensions, duplicate region
	// names, or regions outside the canvas.
	LoadMalformed
)

func (k LoadErrorKind) String() string {
	switch k {
	case LoadNotFound:
		return "not found"
	case LoadMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// LoadError is returned by the layout loader and the manifest loader.
// Callers are expected to treat it as a recoverable condition and fall back
// (see FallbackLayout), never as fatal.
type LoadError struct {
	Kind   LoadErrorKind
	Source string // file path or logical source name, may be empty
	Reason string
	Err    error // underlying error, may be nil
}

func (e *LoadError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("tocca: layout %q %s: %s", e.Source, e.Kind, e.Reason)
	}
	return fmt.Sprintf("tocca: layout %s: %s", e.Kind, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// --- JSON wire format ---
//
// The layout document format is a compatibility contract:
//
//	{ "canvasWidth": n, "canvasHeight": n,
//	  "layers": [ { "name": s, "x": n, "y": n, "width": n, "height": n } ] }
//
// Unknown extra fields are ignored; missing required fields make the whole
// document malformed. Pointer fields distinguish "absent" from a zero value.

type jsonLayer struct {
	Name   *string  `json:"name"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

type jsonLayout struct {
	CanvasWidth  *float64    `json:"canvasWidth"`
	CanvasHeight *float64    `json:"canvasHeight"`
	Layers       []jsonLayer `json:"layers"`
}

// ParseLayout parses a layout JSON document. The loader performs no coordinate
// transformation; regions stay in raw canvas space. All schema violations are
// reported as a *LoadError with Kind LoadMalformed.
func ParseLayout(data []byte) (*Layout, error) {
	var doc jsonLayout
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{Kind: LoadMalformed, Reason: "invalid JSON", Err: err}
	}

	if doc.CanvasWidth == nil || doc.CanvasHeight == nil {
		return nil, &LoadError{Kind: LoadMalformed, Reason: "missing canvasWidth or canvasHeight"}
	}
	if doc.Layers == nil {
		return nil, &LoadError{Kind: LoadMalformed, Reason: "missing layers"}
	}

	cw := *doc.CanvasWidth
	ch := *doc.CanvasHeight
	if cw <= 0 || ch <= 0 {
		return nil, &LoadError{Kind: LoadMalformed, Reason: fmt.Sprintf("non-positive canvas size %gx%g", cw, ch)}
	}

	layout := &Layout{
		CanvasWidth:  cw,
		CanvasHeight: ch,
		Regions:      make([]Region, 0, len(doc.Layers)),
	}

	seen := make(map[string]bool, len(doc.Layers))
	for i, l := range doc.Layers {
		if l.Name == nil || *l.Name == "" {
			return nil, &LoadError{Kind: LoadMalformed, Reason: fmt.Sprintf("layer %d has no name", i)}
		}
		name := *l.Name
		if l.X == nil || l.Y == nil || l.Width == nil || l.Height == nil {
			return nil, &LoadError{Kind: LoadMalformed, Reason: fmt.Sprintf("layer %q is missing a coordinate field", name)}
		}
		if seen[name] {
			return nil, &LoadError{Kind: LoadMalformed, Reason: fmt.Sprintf("duplicate layer name %q", name)}
		}
		seen[name] = true

		r := Region{Name: name, X: *l.X, Y: *l.Y, Width: *l.Width, Height: *l.Height}
		if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 {
			return nil, &LoadError{Kind: LoadMalformed, Reason: fmt.Sprintf("layer %q has negative geometry", name)}
		}
		if r.X+r.Width > cw || r.Y+r.Height > ch {
			return nil, &LoadError{Kind: LoadMalformed, Reason: fmt.Sprintf("layer %q exceeds the canvas", name)}
		}
		layout.Regions = append(layout.Regions, r)
	}

	return layout, nil
}

// LoadLayoutFile reads and parses a layout JSON file. A missing file is
// reported as Kind LoadNotFound; everything else follows ParseLayout.
func LoadLayoutFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Kind: LoadNotFound, Source: path, Reason: "no such file", Err: err}
		}
		return nil, &LoadError{Kind: LoadNotFound, Source: path, Reason: "unreadable", Err: err}
	}
	layout, err := ParseLayout(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Source = path
		}
		return nil, err
	}
	return layout, nil
}

// fallbackFactors describes the hard-coded minimal layout as fractions of the
// canvas size: a head, a mouth, a belly, hands, and feet. Used when no layout
// document is available for a character so the screen stays usable.
//
// The regions are pairwise disjoint. Every fallback region is sound-mapped by
// FallbackConfig, and dispatch routes a tap to the first containing region in
// this order, so any overlap would shadow the later region.
var fallbackFactors = []struct {
	name       string
	x, y, w, h float64
}{
	{"card_1_testa", 0.25, 0.05, 0.50, 0.17},
	{"card_1_bocca", 0.37, 0.23, 0.26, 0.08},
	{"card_1_pancia", 0.30, 0.38, 0.40, 0.25},
	{"card_1_mani", 0.10, 0.64, 0.80, 0.12},
	{"card_1_piedi", 0.28, 0.78, 0.44, 0.14},
}

// FallbackLayout builds the factor-based minimal layout on the default canvas.
// Callers substitute it when a character's layout source is missing or
// malformed rather than failing outright.
func FallbackLayout() *Layout {
	layout := &Layout{
		CanvasWidth:  DefaultCanvasWidth,
		CanvasHeight: DefaultCanvasHeight,
		Regions:      make([]Region, 0, len(fallbackFactors)),
	}
	for _, f := range fallbackFactors {
		layout.Regions = append(layout.Regions, Region{
			Name:   f.name,
			X:      f.x * DefaultCanvasWidth,
			Y:      f.y * DefaultCanvasHeight,
			Width:  f.w * DefaultCanvasWidth,
			Height: f.h * DefaultCanvasHeight,
		})
	}
	return layout
}
