package tocca

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// BaseController is the audio collaborator owning the looping base track.
// All calls are fire-and-forget relays; IsPlaying is sourced from the
// collaborator, the core only reads it back.
type BaseController interface {
	ToggleBase()
	SelectTrack(TrackRef)
	StartBaseIfNeeded()
	IsPlaying() bool
}

// Border appearance in canvas units; both scale with the viewport so the
// border keeps its weight at every window size.
const (
	borderCornerRadius = 28.0
	borderPerturbation = 2.5
	borderStrokeWidth  = 5.0
)

// DefaultBorderInk is the border stroke color used when PortraitConfig
// leaves BorderInk zero — a warm crayon brown.
var DefaultBorderInk = Color{R: 0.42, G: 0.26, B: 0.15, A: 1}

// PortraitConfig wires a portrait screen together. All collaborators are
// explicitly constructed and passed in; there is no process-wide audio or
// asset state.
type PortraitConfig struct {
	Registry    *Registry
	CharacterID string
	Images      ImageSource
	Effects     EffectPlayer
	Base        BaseController
	Logger      *log.Logger // nil disables logging
	BorderInk   Color       // zero value selects DefaultBorderInk
}

// Portrait is the interactive picture-book screen: one character portrait,
// its mapped layout, the tap dispatcher, and the highlight clock. It
// implements ebiten.Game and is built once per character selection.
//
// Construction never fails: an unresolved character or a broken layout
// degrades to the factor-based fallback so the screen stays usable.
type Portrait struct {
	layout *Layout
	config CharacterConfig

	availW, availH float64
	viewport       Viewport

	active     *ActiveSet
	composer   *Composer
	dispatcher *Dispatcher
	base       BaseController
	logger     *log.Logger

	borders       *BorderCache
	borderInk     Color
	borderSpec    BorderSpec
	borderOrigin  Vec2
	borderVerts   []ebiten.Vertex
	borderInds    []uint16
	baseRequested bool

	touchIDs []ebiten.TouchID
}

// NewPortrait builds the screen for the configured character. A registry
// miss or layout load failure is logged and absorbed: the portrait falls
// back to FallbackLayout (and, for an unknown character, FallbackConfig)
// rather than failing.
func NewPortrait(cfg PortraitConfig) *Portrait {
	p := &Portrait{
		active:    NewActiveSet(),
		composer:  NewComposer(cfg.Images),
		base:      cfg.Base,
		logger:    cfg.Logger,
		borders:   NewBorderCache(),
		borderInk: cfg.BorderInk,
	}
	if p.borderInk == (Color{}) {
		p.borderInk = DefaultBorderInk
	}
	p.dispatcher = NewDispatcher(p.active, cfg.Effects)

	p.config = FallbackConfig(cfg.CharacterID)
	if cfg.Registry != nil {
		resolved, err := cfg.Registry.Resolve(cfg.CharacterID)
		if err != nil {
			p.warnf("character not registered, using fallback", "id", cfg.CharacterID)
		} else {
			p.config = resolved
		}
	}

	p.layout = p.loadLayout()
	return p
}

// loadLayout loads the character's layout source, falling back to the
// hard-coded minimal layout on any load error.
func (p *Portrait) loadLayout() *Layout {
	if p.config.LayoutSource == "" {
		return FallbackLayout()
	}
	layout, err := LoadLayoutFile(p.config.LayoutSource)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			p.warnf("layout unavailable, using fallback", "source", le.Source, "kind", le.Kind.String())
		} else {
			p.warnf("layout unavailable, using fallback", "source", p.config.LayoutSource)
		}
		return FallbackLayout()
	}
	return layout
}

// CharacterID returns the id the portrait was built for.
func (p *Portrait) CharacterID() string {
	return p.config.ID
}

// CurrentLayout returns the active layout (possibly the fallback).
func (p *Portrait) CurrentLayout() *Layout {
	return p.layout
}

// Viewport returns the most recently computed viewport.
func (p *Portrait) Viewport() Viewport {
	return p.viewport
}

// Active returns the highlight set. Owned by the portrait's interaction
// loop; read-only for callers.
func (p *Portrait) Active() *ActiveSet {
	return p.active
}

// ToggleBase relays a base-track toggle to the audio collaborator.
func (p *Portrait) ToggleBase() {
	if p.base != nil {
		p.base.ToggleBase()
	}
}

// SelectTrack relays a base-track swap to the audio collaborator.
func (p *Portrait) SelectTrack(ref TrackRef) {
	if p.base != nil {
		p.base.SelectTrack(ref)
	}
}

// IsBasePlaying reads the base-track state back from the collaborator.
func (p *Portrait) IsBasePlaying() bool {
	return p.base != nil && p.base.IsPlaying()
}

// PointerDown dispatches a tap at the given screen-space point. Exposed for
// callers that drive input themselves; Update feeds it from ebiten.
func (p *Portrait) PointerDown(x, y float64) DispatchResult {
	res := p.dispatcher.PointerDown(x, y, p.layout, p.viewport, p.config.SoundMap)
	if res.Hit {
		p.debugf("tap", "region", res.Region, "sound", res.Sound.File)
	}
	return res
}

// Update polls just-pressed pointer input, dispatches taps, and advances the
// highlight clock. Part of the ebiten.Game interface.
func (p *Portrait) Update() error {
	if p.base != nil && !p.baseRequested {
		p.base.StartBaseIfNeeded()
		p.baseRequested = true
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		p.PointerDown(float64(x), float64(y))
	}
	p.touchIDs = inpututil.AppendJustPressedTouchIDs(p.touchIDs[:0])
	for _, id := range p.touchIDs {
		x, y := ebiten.TouchPosition(id)
		p.PointerDown(float64(x), float64(y))
	}

	p.active.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw renders the portrait layers and the hand-drawn border. Part of the
// ebiten.Game interface. An empty viewport draws nothing.
func (p *Portrait) Draw(screen *ebiten.Image) {
	if p.viewport.IsEmpty() {
		return
	}
	p.composer.Draw(screen, p.layout, p.viewport, p.active)
	p.drawBorder(screen)
}

// Layout recomputes the viewport for the available window size. Part of the
// ebiten.Game interface; idempotent and safe on every frame-size change.
func (p *Portrait) Layout(outsideWidth, outsideHeight int) (int, int) {
	p.SetAvailable(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// SetAvailable recomputes the viewport for a new available area.
func (p *Portrait) SetAvailable(w, h float64) {
	if w == p.availW && h == p.availH {
		return
	}
	p.availW = w
	p.availH = h
	p.viewport = FitViewport(w, h, p.layout.CanvasWidth, p.layout.CanvasHeight)
}

// drawBorder strokes the jittered outline around the mapped canvas. The
// path is cached by spec and the stroke mesh is rebuilt only when the spec
// or the viewport origin changes.
func (p *Portrait) drawBorder(screen *ebiten.Image) {
	scale := p.viewport.ScaleX
	spec := BorderSpec{
		Width:        p.layout.CanvasWidth * scale,
		Height:       p.layout.CanvasHeight * scale,
		CornerRadius: borderCornerRadius * scale,
		Perturbation: borderPerturbation * scale,
	}
	origin := Vec2{X: p.viewport.OriginX, Y: p.viewport.OriginY}

	if spec != p.borderSpec || origin != p.borderOrigin || p.borderVerts == nil {
		path := p.borders.Path(spec)
		p.borderVerts, p.borderInds = StrokeBorder(path, borderStrokeWidth*scale, p.borderInk, origin)
		p.borderSpec = spec
		p.borderOrigin = origin
	}
	if len(p.borderVerts) == 0 {
		return
	}

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	screen.DrawTriangles(p.borderVerts, p.borderInds, ensureWhitePixel(), op)
}

func (p *Portrait) warnf(msg string, kv ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, kv...)
	}
}

func (p *Portrait) debugf(msg string, kv ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, kv...)
	}
}
