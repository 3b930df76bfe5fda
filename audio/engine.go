// Package audio implements the playback collaborator for tocca screens on
// top of gopxl/beep: a decoded-effect cache for fire-and-forget tap sounds
// and a looping base track that can be toggled or swapped.
//
// The engine degrades gracefully: if no audio backend is available every
// call becomes a no-op, which matches the core's contract that playback
// failure is invisible.
package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/vorbis"
	"github.com/gopxl/beep/wav"

	"github.com/favolegames/tocca"
)

// Engine output sample rate. Decoded sources are resampled to it.
const sampleRate = beep.SampleRate(44100)

const speakerBufferLen = time.Millisecond * 100

// Engine is the audio playback collaborator. One engine owns the physical
// player for a screen's lifetime; it is explicitly constructed and passed
// in, never a package-level singleton.
//
// Engine implements tocca.EffectPlayer and tocca.BaseController.
type Engine struct {
	mu     sync.Mutex
	root   string
	logger *log.Logger

	mixer       *beep.Mixer
	initialized bool
	disabled    bool

	effectBufs map[string]*beep.Buffer

	base        *beep.Ctrl
	baseVolume  *effects.Volume
	baseTrack   tocca.TrackRef
	baseClose   io.Closer
	basePlaying bool
}

var (
	_ tocca.EffectPlayer   = (*Engine)(nil)
	_ tocca.BaseController = (*Engine)(nil)
)

// NewEngine creates an engine resolving sound files relative to root.
// A nil logger disables logging. Call Init before use.
func NewEngine(root string, logger *log.Logger) *Engine {
	return &Engine{
		root:       root,
		logger:     logger,
		mixer:      &beep.Mixer{},
		effectBufs: make(map[string]*beep.Buffer),
	}
}

// Init opens the speaker and starts the mixer. On failure the engine
// disables itself — subsequent calls are no-ops — and the error is returned
// for the caller to log; the screen keeps working without sound.
func (e *Engine) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized || e.disabled {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(speakerBufferLen)); err != nil {
		e.disabled = true
		e.warnf("audio backend unavailable, playback disabled", "err", err)
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	speaker.Play(e.mixer)
	e.initialized = true
	return nil
}

// Close stops playback and releases the base track source. The speaker
// itself has no close; clearing the mixer silences everything.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return
	}
	speaker.Lock()
	e.mixer.Clear()
	if e.base != nil {
		e.base.Paused = true
	}
	speaker.Unlock()
	if e.baseClose != nil {
		e.baseClose.Close()
		e.baseClose = nil
	}
	e.base = nil
	e.baseVolume = nil
	e.basePlaying = false
	e.initialized = false
}

// IsDisabled reports whether the engine gave up on the audio backend.
func (e *Engine) IsDisabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

// PlayEffect plays a tap effect once, fire-and-forget. The file is decoded
// into a buffer on first use and replayed from memory afterwards. Decode or
// lookup failures are logged and absorbed.
func (e *Engine) PlayEffect(ref tocca.SoundRef) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.disabled {
		return
	}

	buf, ok := e.effectBufs[ref.File]
	if !ok {
		var err error
		buf, err = e.bufferEffect(ref)
		if err != nil {
			e.warnf("effect unavailable", "file", ref.File, "err", err)
			return
		}
		e.effectBufs[ref.File] = buf
	}
	if buf == nil {
		return // previous decode failure, already logged
	}

	speaker.Lock()
	e.mixer.Add(buf.Streamer(0, buf.Len()))
	speaker.Unlock()
}

// bufferEffect decodes an effect file fully into memory at the engine rate.
func (e *Engine) bufferEffect(ref tocca.SoundRef) (*beep.Buffer, error) {
	stream, format, err := e.open(ref.File, ref.Format)
	if err != nil {
		// Cache the miss so a missing file is reported once, not per tap.
		e.effectBufs[ref.File] = nil
		return nil, err
	}
	defer stream.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate == sampleRate {
		buf.Append(stream)
	} else {
		buf.Append(beep.Resample(4, format.SampleRate, sampleRate, stream))
	}
	return buf, nil
}

// SelectTrack swaps the looping base track and starts it. The previous
// track, if any, is stopped and its file released.
func (e *Engine) SelectTrack(ref tocca.TrackRef) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized || e.disabled {
		return
	}

	stream, format, err := e.open(ref.File, ref.Format)
	if err != nil {
		e.warnf("base track unavailable", "file", ref.File, "err", err)
		return
	}

	var streamer beep.Streamer = beep.Loop(-1, stream)
	if format.SampleRate != sampleRate {
		streamer = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	vol := &effects.Volume{Streamer: streamer, Base: 2, Volume: 0}
	ctrl := &beep.Ctrl{Streamer: vol}

	speaker.Lock()
	if e.base != nil {
		e.base.Paused = true
		e.base.Streamer = nil
	}
	e.mixer.Add(ctrl)
	speaker.Unlock()

	if e.baseClose != nil {
		e.baseClose.Close()
	}
	e.base = ctrl
	e.baseVolume = vol
	e.baseClose = stream
	e.baseTrack = ref
	e.basePlaying = true
}

// ToggleBase pauses or resumes the selected base track. No-op when no track
// has been selected.
func (e *Engine) ToggleBase() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.base == nil {
		return
	}
	speaker.Lock()
	e.base.Paused = !e.base.Paused
	speaker.Unlock()
	e.basePlaying = !e.base.Paused
}

// StartBaseIfNeeded resumes the selected base track if it is not already
// playing. No-op when no track has been selected.
func (e *Engine) StartBaseIfNeeded() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.base == nil || e.basePlaying {
		return
	}
	speaker.Lock()
	e.base.Paused = false
	speaker.Unlock()
	e.basePlaying = true
}

// IsPlaying reports whether the base track is currently playing.
func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.basePlaying
}

// BaseTrack returns the currently selected base track (zero if none).
func (e *Engine) BaseTrack() tocca.TrackRef {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.baseTrack
}

// SetBaseVolume adjusts the base track volume in beep's exponential scale
// (0 = unchanged, negative = quieter).
func (e *Engine) SetBaseVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.baseVolume == nil {
		return
	}
	speaker.Lock()
	e.baseVolume.Volume = v
	speaker.Unlock()
}

// open resolves a file against the engine root and decodes it with the
// decoder selected by format.
func (e *Engine) open(file, format string) (beep.StreamSeekCloser, beep.Format, error) {
	decode := decoderFor(format)
	if decode == nil {
		return nil, beep.Format{}, fmt.Errorf("audio: unsupported format %q", format)
	}

	path := file
	if e.root != "" && !filepath.IsAbs(file) {
		path = filepath.Join(e.root, file)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	stream, fmt_, err := decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, err
	}
	return stream, fmt_, nil
}

// decoderFor maps a SoundRef format to its beep decoder. Unknown formats
// return nil; "" defaults to wav, the common case for tap effects.
func decoderFor(format string) func(io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch format {
	case "wav", "":
		return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return wav.Decode(rc)
		}
	case "vorbis", "ogg":
		return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return vorbis.Decode(rc)
		}
	case "mp3":
		return func(rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
			return mp3.Decode(rc)
		}
	default:
		return nil
	}
}

func (e *Engine) warnf(msg string, kv ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, kv...)
	}
}
