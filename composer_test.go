package tocca

import "testing"

func testLayout() *Layout {
	layout, err := ParseLayout([]byte(elfLayoutJSON))
	if err != nil {
		panic(err)
	}
	return layout
}

func TestComposePlacementsMapsThroughViewport(t *testing.T) {
	layout := testLayout()
	vp := Viewport{OriginX: 10, OriginY: 20, ScaleX: 0.5, ScaleY: 0.5}

	placements := ComposePlacements(layout, vp, nil)
	if len(placements) != len(layout.Regions) {
		t.Fatalf("len = %d, want %d", len(placements), len(layout.Regions))
	}

	for i, p := range placements {
		r := layout.Regions[i]
		if p.Name != r.Name {
			t.Errorf("placement %d name = %q, want %q (layout order is paint order)", i, p.Name, r.Name)
		}
		if want := vp.MapRect(r.Bounds()); p.Rect != want {
			t.Errorf("placement %q rect = %+v, want %+v", p.Name, p.Rect, want)
		}
		if p.Scale != 1 || p.Active {
			t.Errorf("placement %q scale=%f active=%v, want inactive", p.Name, p.Scale, p.Active)
		}
	}

	bocca := placements[2]
	want := Rect{X: 10 + 380*0.5, Y: 20 + 820*0.5, Width: 130, Height: 70}
	if bocca.Rect != want {
		t.Errorf("bocca rect = %+v, want %+v", bocca.Rect, want)
	}
}

func TestComposePlacementsActiveScale(t *testing.T) {
	layout := testLayout()
	vp := FitViewport(512, 683, layout.CanvasWidth, layout.CanvasHeight)

	active := NewActiveSet()
	active.Activate("card_1_bocca")
	step(active, 0.17) // through the ease, into the hold

	placements := ComposePlacements(layout, vp, active)
	for _, p := range placements {
		if p.Name == "card_1_bocca" {
			if !p.Active {
				t.Error("bocca not marked active")
			}
			if !approxEqual(p.Scale, HighlightScale, 1e-3) {
				t.Errorf("bocca scale = %f, want %f", p.Scale, HighlightScale)
			}
			// The rect stays the unscaled hit rect; scaling is a draw concern.
			if want := vp.MapRect(Rect{X: 380, Y: 820, Width: 260, Height: 140}); p.Rect != want {
				t.Errorf("active rect = %+v, want unscaled %+v", p.Rect, want)
			}
		} else if p.Active || p.Scale != 1 {
			t.Errorf("%q active=%v scale=%f, want inactive", p.Name, p.Active, p.Scale)
		}
	}
}

func TestComposePlacementsNothingVisible(t *testing.T) {
	layout := testLayout()
	if got := ComposePlacements(nil, Viewport{ScaleX: 1, ScaleY: 1}, nil); got != nil {
		t.Errorf("nil layout: got %d placements", len(got))
	}
	if got := ComposePlacements(layout, Viewport{}, nil); got != nil {
		t.Errorf("empty viewport: got %d placements", len(got))
	}
	if got := ComposePlacements(&Layout{CanvasWidth: 10, CanvasHeight: 10}, Viewport{ScaleX: 1, ScaleY: 1}, nil); got != nil {
		t.Errorf("no regions: got %d placements", len(got))
	}
}
