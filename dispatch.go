package tocca

// EffectPlayer is the audio collaborator the dispatcher triggers on a hit.
// The call is fire-and-forget: the core never waits on or observes playback,
// and a failure there is invisible here.
type EffectPlayer interface {
	PlayEffect(SoundRef)
}

// DispatchResult reports the outcome of one pointer-down dispatch.
// The zero value means the point landed outside every sound-mapped region,
// which is a no-op, not an error.
type DispatchResult struct {
	Hit    bool
	Region string
	Sound  SoundRef
}

// Dispatcher derives tappable screen-space rectangles from a mapped layout
// and routes activations: highlight into the active set, sound to the
// effect player.
type Dispatcher struct {
	active *ActiveSet
	player EffectPlayer
}

// NewDispatcher creates a dispatcher feeding the given active set and effect
// player. A nil player skips the audio trigger but still highlights.
func NewDispatcher(active *ActiveSet, player EffectPlayer) *Dispatcher {
	return &Dispatcher{active: active, player: player}
}

// PointerDown hit-tests the screen-space point against every region whose
// name is a key of soundMap, in layout order — the first containing match
// wins, with no overlap resolution beyond that order. On a hit the region
// enters the active set (re-arming if already active) and the effect player
// fires once with the region's sound.
func (d *Dispatcher) PointerDown(x, y float64, layout *Layout, vp Viewport, soundMap map[string]SoundRef) DispatchResult {
	if layout == nil || vp.IsEmpty() || len(soundMap) == 0 {
		return DispatchResult{}
	}

	for _, r := range layout.Regions {
		sound, ok := soundMap[r.Name]
		if !ok {
			continue // decorative-only
		}
		if !vp.MapRect(r.Bounds()).Contains(x, y) {
			continue
		}

		d.active.Activate(r.Name)
		if d.player != nil {
			d.player.PlayEffect(sound)
		}
		return DispatchResult{Hit: true, Region: r.Name, Sound: sound}
	}
	return DispatchResult{}
}
