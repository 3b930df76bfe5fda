package tocca

import (
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Highlight timing. A tapped region eases up to HighlightScale over
// highlightEaseDur, holds for highlightHold from the (latest) tap, then eases
// back down over highlightEaseDur and leaves the set — net visible pulse
// ≈350ms. Re-tapping an active region re-arms the hold instead of stacking a
// second removal, so a stale expiry can never cut a fresh tap short.
const (
	// HighlightScale is the uniform scale-up applied to an active region.
	HighlightScale = 1.05

	highlightEaseDur = 0.15 // seconds per pulse edge
	highlightHold    = 0.20 // seconds from the latest tap to release
)

type highlightPhase uint8

const (
	highlightIn  highlightPhase = iota // easing up / holding
	highlightOut                       // easing back down, then removed
)

type highlightEntry struct {
	tween     *gween.Tween
	scale     float64
	remaining float64
	phase     highlightPhase
}

// ActiveSet tracks the regions currently in the highlighted visual state.
// It is owned exclusively by the screen's interaction loop: entries are
// created by Activate on tap and self-expire during Update. Expiry is a
// frame-clocked countdown, not a goroutine timer — all mutation stays on the
// game loop.
type ActiveSet struct {
	entries map[string]*highlightEntry
}

// NewActiveSet creates an empty active set.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{entries: make(map[string]*highlightEntry)}
}

// Activate puts the named region into the highlighted state, or re-arms its
// expiry if it is already highlighted. A region caught mid-release eases back
// up from its current scale.
func (a *ActiveSet) Activate(name string) {
	if e, ok := a.entries[name]; ok {
		e.remaining = highlightHold
		if e.phase == highlightOut {
			e.phase = highlightIn
			e.tween = gween.New(float32(e.scale), HighlightScale, highlightEaseDur, ease.OutQuad)
		}
		return
	}
	a.entries[name] = &highlightEntry{
		tween:     gween.New(1, HighlightScale, highlightEaseDur, ease.OutQuad),
		scale:     1,
		remaining: highlightHold,
		phase:     highlightIn,
	}
}

// Update advances all highlight pulses by dt seconds, releasing entries whose
// hold has elapsed and removing them once the release ease completes.
func (a *ActiveSet) Update(dt float64) {
	for name, e := range a.entries {
		if e.tween != nil {
			val, done := e.tween.Update(float32(dt))
			e.scale = float64(val)
			if done {
				e.tween = nil
			}
		}

		switch e.phase {
		case highlightIn:
			e.remaining -= dt
			if e.remaining <= 0 {
				e.phase = highlightOut
				e.tween = gween.New(float32(e.scale), 1, highlightEaseDur, ease.InQuad)
			}
		case highlightOut:
			if e.tween == nil {
				delete(a.entries, name)
			}
		}
	}
}

// Contains reports whether the named region is currently highlighted
// (including the release ease).
func (a *ActiveSet) Contains(name string) bool {
	_, ok := a.entries[name]
	return ok
}

// ScaleFor returns the current highlight scale for the named region,
// or 1 if it is not active.
func (a *ActiveSet) ScaleFor(name string) float64 {
	if e, ok := a.entries[name]; ok {
		return e.scale
	}
	return 1
}

// Len returns the number of highlighted regions.
func (a *ActiveSet) Len() int {
	return len(a.entries)
}

// Names returns the highlighted region names, sorted for determinism.
func (a *ActiveSet) Names() []string {
	names := make([]string, 0, len(a.entries))
	for name := range a.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
