// Package fm8synth wires the 8-operator FM synthesis core to realtime
// audio output and exposes a small control-surface API for driving it
// from a note source (a MIDI input, a sequencer, or a test harness).
package fm8synth

import (
	"errors"
	"sync"

	intaudio "github.com/vossard/fm8synth-go/internal/audio"
	"github.com/vossard/fm8synth-go/internal/fm"
)

// PlayerOption configures a Player at construction time.
type PlayerOption func(*playerConfig)

type playerConfig struct {
	maxVoices int
	sampleTap func([]float32)
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{maxVoices: 16}
}

// WithMaxVoices sets the number of simultaneous voice slots. Default 16.
func WithMaxVoices(n int) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.maxVoices = n
	}
}

// WithSampleTap installs a callback invoked with each generated
// interleaved stereo buffer. The callback runs on the audio thread; keep
// work brief and non-blocking.
func WithSampleTap(tap func([]float32)) PlayerOption {
	return func(cfg *playerConfig) {
		cfg.sampleTap = tap
	}
}

// Player drives an fm.Engine and streams its output through the
// platform audio backend.
type Player struct {
	mu         sync.Mutex
	engine     *fm.Engine
	audio      *intaudio.Player
	sampleRate int
}

// engineSource adapts fm.Engine.Render (separate left/right slices)
// to the audio package's interleaved SampleSource.Process contract.
type engineSource struct {
	engine    *fm.Engine
	sampleTap func([]float32)
	left      []float32
	right     []float32
}

func (s *engineSource) Process(dst []float32) {
	frames := len(dst) / 2
	if cap(s.left) < frames {
		s.left = make([]float32, frames)
		s.right = make([]float32, frames)
	}
	left := s.left[:frames]
	right := s.right[:frames]
	s.engine.Render(left, right)
	for i := 0; i < frames; i++ {
		dst[i*2] = left[i]
		dst[i*2+1] = right[i]
	}
	if s.sampleTap != nil {
		s.sampleTap(dst)
	}
}

// NewPlayer constructs a Player at the given sample rate, ready to
// receive control-surface calls before Play starts streaming them.
func NewPlayer(sampleRate int, opts ...PlayerOption) (*Player, error) {
	if sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxVoices <= 0 {
		return nil, errors.New("maxVoices must be positive")
	}

	e := fm.New(sampleRate, cfg.maxVoices)
	source := &engineSource{engine: e, sampleTap: cfg.sampleTap}

	backend, err := intaudio.NewPlayer(sampleRate, source)
	if err != nil {
		return nil, err
	}

	return &Player{
		engine:     e,
		audio:      backend,
		sampleRate: sampleRate,
	}, nil
}

// Engine exposes the underlying synthesis engine for parameter access,
// preset save/load, and direct offline rendering.
func (p *Player) Engine() *fm.Engine { return p.engine }

// Play starts streaming the engine's output to the audio device.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.audio.Play()
}

// Pause suspends audio output without resetting voice state.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.audio.Pause()
}

// Stop halts audio output and releases the playback device.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.audio.Stop()
}

// NoteOn forwards to the engine's control surface; see fm.Engine.NoteOn.
func (p *Player) NoteOn(note, velocity uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.NoteOn(note, velocity)
}

// NoteOff forwards to the engine's control surface; see fm.Engine.NoteOff.
func (p *Player) NoteOff(note uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.NoteOff(note)
}

// SetSustain forwards to the engine's control surface.
func (p *Player) SetSustain(enable bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.SetSustain(enable)
}

// SetModWheel forwards to the engine's control surface.
func (p *Player) SetModWheel(wheel uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.SetModWheel(wheel)
}

// SetPitchBend forwards to the engine's control surface.
func (p *Player) SetPitchBend(value uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.SetPitchBend(value)
}

// ReleaseAll forwards to the engine's control surface.
func (p *Player) ReleaseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engine.ReleaseAll()
}

// DecodeMIDI applies a single MIDI message to the engine's control
// surface; see fm.Engine.DecodeMIDI.
func (p *Player) DecodeMIDI(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.DecodeMIDI(data)
}
