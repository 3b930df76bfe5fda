// Package tocca is the core of an interactive picture-book toy for
// [Ebitengine]: a character portrait divided into named rectangular regions,
// where tapping a region plays its sound and pulses it briefly while a
// looping base track hums underneath.
//
// Everything is configuration-driven. A character "skin" is pure data — a
// JSON layout document plus a region-name → sound table — so adding a
// character never touches rendering or hit-testing code.
//
// # Quick start
//
// Resolve a character from a [Registry], wire the collaborators, and hand
// the [Portrait] to ebiten:
//
//	reg, _ := tocca.LoadManifestFile("book.toml")
//	portrait := tocca.NewPortrait(tocca.PortraitConfig{
//		Registry:    reg,
//		CharacterID: "elfo",
//		Images:      images,  // tocca.ImageSource
//		Effects:     engine,  // tocca.EffectPlayer
//		Base:        engine,  // tocca.BaseController
//	})
//	ebiten.RunGame(portrait)
//
// The audio collaborator in the audio subpackage implements both
// [EffectPlayer] and [BaseController] on gopxl/beep.
//
// # Coordinate spaces
//
// Layouts are authored in a fixed canvas space (default 1024×1366).
// [FitViewport] computes the letterboxed uniform-scale placement of that
// canvas inside the window, and both the [Composer] and the [Dispatcher]
// map regions through the same [Viewport], so visuals and hit areas can
// never drift apart.
//
// # Hand-drawn border
//
// [GenerateBorderPath] produces the jittered rounded-rectangle outline
// framing the portrait. It is a pure function of its [BorderSpec] — the
// jitter comes from a seeded xorshift generator, so the same shape renders
// the same path every frame.
//
// [Ebitengine]: https://ebitengine.org
package tocca
