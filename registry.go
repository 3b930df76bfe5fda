package tocca

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// SoundRef is an opaque handle to a tap-effect sound, resolved by the audio
// collaborator. The core never inspects it beyond passing it along.
type SoundRef struct {
	File   string
	Format string // "wav", "vorbis", or "mp3"
}

// TrackRef is an opaque handle to a looping base track.
type TrackRef struct {
	File   string
	Format string
}

// CharacterConfig bundles everything that makes one character skin: the
// layout source and the region-name → sound table. Behavior differs between
// characters only through this data — rendering and hit-testing never branch
// on character identity, so adding a skin is purely a registry addition.
//
// SoundMap keys must be a subset of the layout's region names; a region
// absent from SoundMap is decorative-only (rendered, not tappable).
type CharacterConfig struct {
	ID           string
	LayoutSource string
	BaseTrack    TrackRef
	SoundMap     map[string]SoundRef
}

// NotFoundError is returned by Registry.Resolve for an unknown character id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("tocca: character %q not registered", e.ID)
}

// Registry maps character ids to their configurations.
type Registry struct {
	characters map[string]CharacterConfig
	order      []string
}

// NewRegistry creates an empty character registry.
func NewRegistry() *Registry {
	return &Registry{characters: make(map[string]CharacterConfig)}
}

// Register adds or replaces a character configuration.
func (r *Registry) Register(cfg CharacterConfig) {
	if _, exists := r.characters[cfg.ID]; !exists {
		r.order = append(r.order, cfg.ID)
	}
	r.characters[cfg.ID] = cfg
}

// Resolve returns the configuration for the given character id, or a
// *NotFoundError. Callers handle the miss by substituting the fallback
// layout — a missing character is a degraded state, not a fatal one.
func (r *Registry) Resolve(id string) (CharacterConfig, error) {
	cfg, ok := r.characters[id]
	if !ok {
		return CharacterConfig{}, &NotFoundError{ID: id}
	}
	return cfg, nil
}

// IDs returns the registered character ids in registration order.
// The returned slice MUST NOT be mutated.
func (r *Registry) IDs() []string {
	return r.order
}

// Len returns the number of registered characters.
func (r *Registry) Len() int {
	return len(r.characters)
}

// --- TOML manifest ---
//
// A book of characters ships as a data manifest:
//
//	[[character]]
//	id = "elfo"
//	layout = "layouts/elfo.json"
//	base = { file = "tracks/base-elfo.ogg", format = "vorbis" }
//
//	[character.sounds]
//	card_1_bocca = { file = "sounds/suono-elfo-bocca.wav", format = "wav" }

type manifestSound struct {
	File   string `toml:"file"`
	Format string `toml:"format"`
}

type manifestCharacter struct {
	ID     string                   `toml:"id"`
	Layout string                   `toml:"layout"`
	Base   manifestSound            `toml:"base"`
	Sounds map[string]manifestSound `toml:"sounds"`
}

type manifestFile struct {
	Characters []manifestCharacter `toml:"character"`
}

// LoadManifest parses a TOML character manifest into a fresh registry.
// Schema violations are reported as a *LoadError with Kind LoadMalformed.
func LoadManifest(data []byte) (*Registry, error) {
	var m manifestFile
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, &LoadError{Kind: LoadMalformed, Source: "manifest", Reason: "invalid TOML", Err: err}
	}

	reg := NewRegistry()
	for i, c := range m.Characters {
		if c.ID == "" {
			return nil, &LoadError{Kind: LoadMalformed, Source: "manifest", Reason: fmt.Sprintf("character %d has no id", i)}
		}
		cfg := CharacterConfig{
			ID:           c.ID,
			LayoutSource: c.Layout,
			BaseTrack:    TrackRef{File: c.Base.File, Format: c.Base.Format},
		}
		if len(c.Sounds) > 0 {
			cfg.SoundMap = make(map[string]SoundRef, len(c.Sounds))
			for region, s := range c.Sounds {
				if s.File == "" {
					return nil, &LoadError{Kind: LoadMalformed, Source: "manifest",
						Reason: fmt.Sprintf("character %q: sound for region %q has no file", c.ID, region)}
				}
				cfg.SoundMap[region] = SoundRef{File: s.File, Format: s.Format}
			}
		}
		reg.Register(cfg)
	}
	return reg, nil
}

// LoadManifestFile reads and parses a TOML manifest file. A missing file is
// reported as Kind LoadNotFound.
func LoadManifestFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Kind: LoadNotFound, Source: path, Reason: "no such file", Err: err}
		}
		return nil, &LoadError{Kind: LoadNotFound, Source: path, Reason: "unreadable", Err: err}
	}
	reg, err := LoadManifest(data)
	if err != nil {
		if le, ok := err.(*LoadError); ok {
			le.Source = path
		}
		return nil, err
	}
	return reg, nil
}

// FallbackConfig derives a minimal character configuration for an unresolved
// id: the factor-based fallback regions mapped to conventionally named sound
// files ("suono-<id>-<part>.wav"). Together with FallbackLayout this keeps
// the screen tappable when a character is missing from the registry.
func FallbackConfig(id string) CharacterConfig {
	sounds := make(map[string]SoundRef, len(fallbackFactors))
	for _, f := range fallbackFactors {
		part := f.name
		if len(part) > len("card_1_") {
			part = part[len("card_1_"):]
		}
		sounds[f.name] = SoundRef{
			File:   fmt.Sprintf("suono-%s-%s.wav", id, part),
			Format: "wav",
		}
	}
	return CharacterConfig{ID: id, SoundMap: sounds}
}
