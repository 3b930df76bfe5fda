package tocca

import "testing"

// effectRecorder captures PlayEffect calls for assertions.
type effectRecorder struct {
	calls []SoundRef
}

func (r *effectRecorder) PlayEffect(ref SoundRef) {
	r.calls = append(r.calls, ref)
}

func elfSoundMap() map[string]SoundRef {
	return map[string]SoundRef{
		"card_1_testa": {File: "suono-elfo-testa.wav", Format: "wav"},
		"card_1_bocca": {File: "suono-elfo-bocca.wav", Format: "wav"},
	}
}

func TestDispatchElfPortraitTap(t *testing.T) {
	layout := testLayout()
	vp := FitViewport(512, 683, layout.CanvasWidth, layout.CanvasHeight)

	active := NewActiveSet()
	rec := &effectRecorder{}
	d := NewDispatcher(active, rec)

	// Center of card_1_bocca (380,820 260x140) mapped at scale 0.5.
	res := d.PointerDown(255, 445, layout, vp, elfSoundMap())
	if !res.Hit {
		t.Fatal("tap inside the mouth missed")
	}
	if res.Region != "card_1_bocca" {
		t.Errorf("Region = %q, want card_1_bocca", res.Region)
	}
	if res.Sound.File != "suono-elfo-bocca.wav" {
		t.Errorf("Sound = %+v, want suono-elfo-bocca.wav", res.Sound)
	}

	if len(rec.calls) != 1 {
		t.Fatalf("PlayEffect called %d times, want 1", len(rec.calls))
	}
	if rec.calls[0].File != "suono-elfo-bocca.wav" {
		t.Errorf("played %+v", rec.calls[0])
	}

	if !active.Contains("card_1_bocca") {
		t.Error("tapped region not highlighted")
	}
	step(active, 0.6)
	if active.Len() != 0 {
		t.Errorf("active set not empty after the pulse, Len = %d", active.Len())
	}
}

func TestDispatchMiss(t *testing.T) {
	layout := testLayout()
	vp := FitViewport(512, 683, layout.CanvasWidth, layout.CanvasHeight)

	active := NewActiveSet()
	rec := &effectRecorder{}
	d := NewDispatcher(active, rec)

	// Inside the canvas, between the head and the mouth.
	res := d.PointerDown(255, 300, layout, vp, elfSoundMap())
	if res.Hit || res != (DispatchResult{}) {
		t.Errorf("miss returned %+v, want zero result", res)
	}
	if len(rec.calls) != 0 {
		t.Errorf("PlayEffect called %d times on a miss", len(rec.calls))
	}
	if active.Len() != 0 {
		t.Error("miss highlighted something")
	}

	// In the letterbox band, outside the mapped canvas entirely.
	wideVP := FitViewport(2000, 683, layout.CanvasWidth, layout.CanvasHeight)
	if res := d.PointerDown(5, 300, layout, wideVP, elfSoundMap()); res.Hit {
		t.Errorf("letterbox tap hit %q", res.Region)
	}
}

func TestDispatchDecorativeRegion(t *testing.T) {
	layout := testLayout()
	vp := FitViewport(512, 683, layout.CanvasWidth, layout.CanvasHeight)

	rec := &effectRecorder{}
	d := NewDispatcher(NewActiveSet(), rec)

	// card_1_sfondo covers the whole canvas but is absent from the sound map,
	// so only the mapped regions under the point can hit. A point covered by
	// the background alone is a miss.
	res := d.PointerDown(10, 10, layout, vp, elfSoundMap())
	if res.Hit {
		t.Errorf("decorative-only point hit %q", res.Region)
	}
	if len(rec.calls) != 0 {
		t.Error("decorative region triggered audio")
	}
}

func TestDispatchFirstHitWins(t *testing.T) {
	layout := &Layout{
		CanvasWidth:  100,
		CanvasHeight: 100,
		Regions: []Region{
			{Name: "under", X: 10, Y: 10, Width: 50, Height: 50},
			{Name: "over", X: 30, Y: 30, Width: 50, Height: 50},
		},
	}
	vp := Viewport{ScaleX: 1, ScaleY: 1}
	sounds := map[string]SoundRef{
		"under": {File: "under.wav"},
		"over":  {File: "over.wav"},
	}

	rec := &effectRecorder{}
	d := NewDispatcher(NewActiveSet(), rec)

	// (40, 40) lies inside both; the earlier region in layout order wins.
	res := d.PointerDown(40, 40, layout, vp, sounds)
	if !res.Hit || res.Region != "under" {
		t.Errorf("overlap resolved to %q, want under", res.Region)
	}
	if len(rec.calls) != 1 {
		t.Errorf("PlayEffect called %d times, want exactly 1", len(rec.calls))
	}
}

func TestDispatchNilPlayerStillHighlights(t *testing.T) {
	layout := testLayout()
	vp := FitViewport(512, 683, layout.CanvasWidth, layout.CanvasHeight)

	active := NewActiveSet()
	d := NewDispatcher(active, nil)

	res := d.PointerDown(255, 445, layout, vp, elfSoundMap())
	if !res.Hit {
		t.Fatal("tap missed with a nil player")
	}
	if !active.Contains("card_1_bocca") {
		t.Error("nil player suppressed the highlight")
	}
}

func TestDispatchGuards(t *testing.T) {
	d := NewDispatcher(NewActiveSet(), &effectRecorder{})
	layout := testLayout()
	vp := FitViewport(512, 683, layout.CanvasWidth, layout.CanvasHeight)

	if res := d.PointerDown(255, 445, nil, vp, elfSoundMap()); res.Hit {
		t.Error("nil layout hit")
	}
	if res := d.PointerDown(255, 445, layout, Viewport{}, elfSoundMap()); res.Hit {
		t.Error("empty viewport hit")
	}
	if res := d.PointerDown(255, 445, layout, vp, nil); res.Hit {
		t.Error("empty sound map hit")
	}
}

// In the fallback skin every region is tappable: a tap at any region's center
// must route to that region, never to an earlier one in layout order.
func TestDispatchFallbackSkinEveryRegionTappable(t *testing.T) {
	layout := FallbackLayout()
	cfg := FallbackConfig("drago")
	vp := FitViewport(512, 683, layout.CanvasWidth, layout.CanvasHeight)

	for _, r := range layout.Regions {
		rec := &effectRecorder{}
		d := NewDispatcher(NewActiveSet(), rec)

		cx, cy := vp.MapPoint(r.X+r.Width/2, r.Y+r.Height/2)
		res := d.PointerDown(cx, cy, layout, vp, cfg.SoundMap)
		if !res.Hit || res.Region != r.Name {
			t.Errorf("center tap on %q dispatched to %+v", r.Name, res)
		}
		if len(rec.calls) != 1 || rec.calls[0] != cfg.SoundMap[r.Name] {
			t.Errorf("center tap on %q played %v, want %+v once", r.Name, rec.calls, cfg.SoundMap[r.Name])
		}
	}
}

// Swapping in a different character's data retargets dispatch without any code
// change: behavior differs only through layout and sound map.
func TestDispatchIsDataDriven(t *testing.T) {
	stregaLayout := &Layout{
		CanvasWidth:  1024,
		CanvasHeight: 1366,
		Regions: []Region{
			{Name: "card_1_naso", X: 450, Y: 400, Width: 120, Height: 120},
		},
	}
	stregaSounds := map[string]SoundRef{
		"card_1_naso": {File: "suono-strega-naso.wav", Format: "wav"},
	}
	vp := FitViewport(512, 683, 1024, 1366)

	rec := &effectRecorder{}
	d := NewDispatcher(NewActiveSet(), rec)

	res := d.PointerDown(255, 230, stregaLayout, vp, stregaSounds)
	if !res.Hit || res.Region != "card_1_naso" {
		t.Fatalf("result = %+v, want card_1_naso hit", res)
	}
	if len(rec.calls) != 1 || rec.calls[0].File != "suono-strega-naso.wav" {
		t.Errorf("played %v, want suono-strega-naso.wav once", rec.calls)
	}
}
