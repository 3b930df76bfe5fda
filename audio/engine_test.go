package audio

import (
	"testing"

	"github.com/favolegames/tocca"
)

// Tests exercise the engine without opening the speaker: the uninitialized
// path is exactly the disabled-backend degraded mode the core relies on.

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine("sounds", nil)
	if e.IsDisabled() {
		t.Error("fresh engine reports disabled")
	}
	if e.IsPlaying() {
		t.Error("fresh engine reports a playing base track")
	}
	if e.BaseTrack() != (tocca.TrackRef{}) {
		t.Errorf("BaseTrack = %+v, want zero", e.BaseTrack())
	}
}

func TestUninitializedEngineIsInert(t *testing.T) {
	e := NewEngine("", nil)

	e.PlayEffect(tocca.SoundRef{File: "suono-elfo-bocca.wav", Format: "wav"})
	e.SelectTrack(tocca.TrackRef{File: "base-elfo.ogg", Format: "vorbis"})
	e.ToggleBase()
	e.StartBaseIfNeeded()
	e.SetBaseVolume(-1)
	e.Close()

	if e.IsPlaying() {
		t.Error("inert engine reports playing")
	}
	if e.BaseTrack() != (tocca.TrackRef{}) {
		t.Error("inert engine recorded a track selection")
	}
}

func TestDecoderFor(t *testing.T) {
	for _, format := range []string{"wav", "", "vorbis", "ogg", "mp3"} {
		if decoderFor(format) == nil {
			t.Errorf("decoderFor(%q) = nil, want a decoder", format)
		}
	}
	for _, format := range []string{"flac", "aiff", "WAV"} {
		if decoderFor(format) != nil {
			t.Errorf("decoderFor(%q) returned a decoder for an unsupported format", format)
		}
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	e := NewEngine("", nil)
	if _, _, err := e.open("x.flac", "flac"); err == nil {
		t.Error("open accepted an unsupported format")
	}
}

func TestOpenMissingFile(t *testing.T) {
	e := NewEngine(t.TempDir(), nil)
	if _, _, err := e.open("missing.wav", "wav"); err == nil {
		t.Error("open succeeded on a missing file")
	}
}
