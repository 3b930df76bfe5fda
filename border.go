package tocca

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// BorderSpec fully determines a generated hand-drawn outline path. The same
// spec always yields the same path — there is no external randomness source —
// so paths may be cached and an unchanged shape never jitters between renders.
type BorderSpec struct {
	Width        float64
	Height       float64
	CornerRadius float64
	Perturbation float64
}

const (
	// Target subdivision length for straight edges, in path units.
	borderEdgeStep = 8.0
	// Target subdivision length for corner arcs, in path units.
	borderArcStep = 6.0
	// Corner points jitter less than edge points.
	borderCornerJitter = 0.6
)

// xorshift64 is the deterministic pseudo-random generator driving the border
// jitter. No entropy source: the state is derived purely from the spec.
type xorshift64 struct {
	state uint64
}

func (x *xorshift64) next() uint64 {
	s := x.state
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	x.state = s
	return s
}

// span returns a uniform value in [-max, max).
func (x *xorshift64) span(max float64) float64 {
	unit := float64(x.next()>>11) / float64(1<<53) // [0, 1)
	return (unit*2 - 1) * max
}

// borderSeed hashes the spec's shape fields with fixed weights. Perturbation
// amplitude intentionally does not feed the seed: the jitter pattern for a
// given shape is stable while its strength is dialed.
func borderSeed(spec BorderSpec) uint64 {
	w := uint64(int64(spec.Width * 8))
	h := uint64(int64(spec.Height * 8))
	r := uint64(int64(spec.CornerRadius * 8))
	seed := w*73856093 ^ h*19349663 ^ r*83492791
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return seed
}

// GenerateBorderPath produces the jittered rounded-rectangle outline for the
// given spec as a closed polyline in local space, with (0, 0) at the
// rectangle's top-left corner. The final point connects back to the first;
// the first point is not repeated.
//
// The walk order is fixed: top edge, top-right corner, right edge,
// bottom-right corner, bottom edge, bottom-left corner, left edge, top-left
// corner. Straight edges are subdivided at borderEdgeStep and every interior
// point is displaced perpendicular to the edge by a uniform offset in
// [-Perturbation, Perturbation); corner arcs are subdivided at borderArcStep
// and interior points are displaced radially by 0.6× that amount. The corner
// radius is clamped to half the smaller dimension. Extremely small rectangles
// still produce a valid closed path; overlap at extreme perturbation is
// accepted visual noise.
//
// Returns nil when the rectangle has no area.
func GenerateBorderPath(spec BorderSpec) []Vec2 {
	w := spec.Width
	h := spec.Height
	if w <= 0 || h <= 0 {
		return nil
	}

	r := spec.CornerRadius
	if r < 0 {
		r = 0
	}
	if max := math.Min(w, h) / 2; r > max {
		r = max
	}
	p := spec.Perturbation

	rng := &xorshift64{state: borderSeed(spec)}
	pts := make([]Vec2, 0, 64)

	// Each edge appends its start point and interior points; its end point is
	// the start of the following piece. Corners are quarter arcs; with a zero
	// radius they degenerate to the shared corner point and contribute only
	// the arc start.
	pts = appendBorderEdge(pts, rng, Vec2{X: r, Y: 0}, Vec2{X: w - r, Y: 0}, p)
	pts = appendBorderArc(pts, rng, Vec2{X: w - r, Y: r}, r, -math.Pi/2, 0, p*borderCornerJitter)
	pts = appendBorderEdge(pts, rng, Vec2{X: w, Y: r}, Vec2{X: w, Y: h - r}, p)
	pts = appendBorderArc(pts, rng, Vec2{X: w - r, Y: h - r}, r, 0, math.Pi/2, p*borderCornerJitter)
	pts = appendBorderEdge(pts, rng, Vec2{X: w - r, Y: h}, Vec2{X: r, Y: h}, p)
	pts = appendBorderArc(pts, rng, Vec2{X: r, Y: h - r}, r, math.Pi/2, math.Pi, p*borderCornerJitter)
	pts = appendBorderEdge(pts, rng, Vec2{X: 0, Y: h - r}, Vec2{X: 0, Y: r}, p)
	pts = appendBorderArc(pts, rng, Vec2{X: r, Y: r}, r, math.Pi, math.Pi*3/2, p*borderCornerJitter)

	return pts
}

// appendBorderEdge subdivides the segment from a to b at borderEdgeStep and
// appends the start point plus jittered interior points. The end point b is
// not appended.
func appendBorderEdge(pts []Vec2, rng *xorshift64, a, b Vec2, perturbation float64) []Vec2 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Sqrt(dx*dx + dy*dy)

	n := int(math.Ceil(length / borderEdgeStep))
	if n < 1 {
		n = 1
	}

	// Unit perpendicular for the displacement direction.
	var px, py float64
	if length > 1e-10 {
		px = -dy / length
		py = dx / length
	}

	pts = append(pts, a)
	for i := 1; i < n; i++ {
		t := float64(i) / float64(n)
		off := rng.span(perturbation)
		pts = append(pts, Vec2{
			X: a.X + dx*t + px*off,
			Y: a.Y + dy*t + py*off,
		})
	}
	return pts
}

// appendBorderArc subdivides the arc around center with the given radius from
// angle a0 to a1, appending the arc start plus radially jittered interior
// points. The arc end point is not appended. A zero radius contributes just
// the corner point.
func appendBorderArc(pts []Vec2, rng *xorshift64, center Vec2, radius, a0, a1, perturbation float64) []Vec2 {
	if radius <= 0 {
		return append(pts, center)
	}

	arcLen := radius * math.Abs(a1-a0)
	steps := int(math.Ceil(arcLen / borderArcStep))
	if steps < 1 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		angle := a0 + (a1-a0)*float64(i)/float64(steps)
		sin, cos := math.Sincos(angle)
		r := radius
		if i > 0 {
			r += rng.span(perturbation)
		}
		pts = append(pts, Vec2{
			X: center.X + cos*r,
			Y: center.Y + sin*r,
		})
	}
	return pts
}

// BorderCache memoizes generated paths by spec. Generation is pure, so a hit
// returns the previously built path; callers must not mutate the shared slice.
type BorderCache struct {
	paths map[BorderSpec][]Vec2
}

// NewBorderCache creates an empty border path cache.
func NewBorderCache() *BorderCache {
	return &BorderCache{paths: make(map[BorderSpec][]Vec2)}
}

// Path returns the outline for spec, generating and caching it on first use.
func (c *BorderCache) Path(spec BorderSpec) []Vec2 {
	if path, ok := c.paths[spec]; ok {
		return path
	}
	path := GenerateBorderPath(spec)
	c.paths[spec] = path
	return path
}

// Len returns the number of cached paths.
func (c *BorderCache) Len() int {
	return len(c.paths)
}

// StrokeBorder builds a closed ribbon mesh along the path: two vertices per
// point offset along the averaged point normal, two triangles per segment
// including the closing segment back to the start. The vertices carry the
// given color and sample the shared white pixel, ready for DrawTriangles.
// The optional offset shifts the whole stroke into screen space.
//
// Returns nils for paths with fewer than three points.
func StrokeBorder(path []Vec2, width float64, ink Color, offset Vec2) ([]ebiten.Vertex, []uint16) {
	n := len(path)
	if n < 3 {
		return nil, nil
	}

	verts := make([]ebiten.Vertex, n*2)
	inds := make([]uint16, n*6)
	halfW := width / 2

	cr := float32(ink.R)
	cg := float32(ink.G)
	cb := float32(ink.B)
	ca := float32(ink.A)

	for i := 0; i < n; i++ {
		prev := path[(i+n-1)%n]
		cur := path[i]
		next := path[(i+1)%n]

		// Average the two adjacent segment normals (miter join).
		nx0, ny0 := strokePerp(prev, cur)
		nx1, ny1 := strokePerp(cur, next)
		nx := nx0 + nx1
		ny := ny0 + ny1
		ln := math.Sqrt(nx*nx + ny*ny)
		if ln > 1e-10 {
			nx /= ln
			ny /= ln
		} else {
			nx, ny = nx1, ny1
		}

		vi := i * 2
		verts[vi] = ebiten.Vertex{
			DstX:   float32(cur.X + nx*halfW + offset.X),
			DstY:   float32(cur.Y + ny*halfW + offset.Y),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
		verts[vi+1] = ebiten.Vertex{
			DstX:   float32(cur.X - nx*halfW + offset.X),
			DstY:   float32(cur.Y - ny*halfW + offset.Y),
			SrcX:   0.5,
			SrcY:   0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
	}

	for i := 0; i < n; i++ {
		ii := i * 6
		v0 := uint16(i * 2)
		v1 := v0 + 1
		v2 := uint16(((i + 1) % n) * 2)
		v3 := v2 + 1
		inds[ii+0] = v0
		inds[ii+1] = v1
		inds[ii+2] = v2
		inds[ii+3] = v1
		inds[ii+4] = v3
		inds[ii+5] = v2
	}

	return verts, inds
}

// strokePerp returns the unit left-perpendicular of the segment from a to b.
func strokePerp(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}
