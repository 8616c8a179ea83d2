// Package fm implements the single-threaded, allocation-free 8-operator
// FM synthesis core: parameter storage, voice lifecycle, the per-sample
// cross-modulation matrix, the MIDI decoder, and the preset codec.
package fm

import (
	"os"

	"github.com/charmbracelet/log"
)

// Engine owns every voice slot and the shared parameter store. It is not
// safe for concurrent use: every exported method runs on the caller's
// single control/render thread, matching the reference's single-threaded,
// non-reentrant contract.
type Engine struct {
	params        *ParamStore
	sampleRate    int
	invSampleRate float32

	voices []voice

	bend      float32
	wheel     float32
	sustained bool

	log *log.Logger
}

// New allocates an Engine with maxVoices voice slots at the given sample
// rate, installing default parameters, matching fmsynth_new followed by
// fmsynth_set_default_parameters/fmsynth_set_default_global_parameters.
func New(sampleRate, maxVoices int) *Engine {
	e := &Engine{
		params:        NewParamStore(),
		sampleRate:    sampleRate,
		invSampleRate: 1.0 / float32(sampleRate),
		voices:        make([]voice, maxVoices),
		bend:          1.0,
		log:           log.New(os.Stderr),
	}
	e.log.SetLevel(log.WarnLevel)
	return e
}

// SetLogger replaces the engine's diagnostic logger, e.g. to route control
// surface events through an application-wide logger instance.
func (e *Engine) SetLogger(l *log.Logger) {
	e.log = l
}

// Params exposes the underlying parameter store for direct Get/Set access.
func (e *Engine) Params() *ParamStore { return e.params }

// Reset returns every voice to VoiceInactive and restores default
// parameters, matching fmsynth_reset.
func (e *Engine) Reset() {
	e.params.SetDefaults()
	for i := range e.voices {
		e.voices[i] = voice{}
	}
	e.bend = 1.0
	e.wheel = 0
	e.sustained = false
}

// NoteOn allocates the first inactive voice slot for note at the given
// velocity (0-127), matching fmsynth_note_on. Returns ErrBusy if every
// voice slot is occupied; the engine never steals a running voice.
func (e *Engine) NoteOn(note, velocity uint8) error {
	for i := range e.voices {
		if e.voices[i].state == VoiceInactive {
			e.triggerVoice(&e.voices[i], note, velocity)
			e.log.Debug("note on", "note", note, "velocity", velocity, "voice", i)
			return nil
		}
	}
	e.log.Warn("note on rejected: no free voice", "note", note, "velocity", velocity)
	return statusErr(StatusBusy)
}

// NoteOff releases every RUNNING voice currently playing note, or moves
// them to VoiceSustained if the sustain pedal is held, matching
// fmsynth_note_off.
func (e *Engine) NoteOff(note uint8) {
	for i := range e.voices {
		v := &e.voices[i]
		if v.note == note && v.state == VoiceRunning {
			if e.sustained {
				v.state = VoiceSustained
			} else {
				e.releaseVoice(v)
			}
		}
	}
	e.log.Debug("note off", "note", note)
}

// SetSustain engages or releases the sustain pedal, matching
// fmsynth_set_sustain: disengaging releases every VoiceSustained voice.
func (e *Engine) SetSustain(enable bool) {
	releasing := e.sustained && !enable
	e.sustained = enable
	if releasing {
		for i := range e.voices {
			v := &e.voices[i]
			if v.state == VoiceSustained {
				e.releaseVoice(v)
			}
		}
	}
	e.log.Debug("sustain", "enable", enable)
}

// SetModWheel updates the mod wheel position (0-127) and recomputes the
// wheel-amplitude multiplier for every active voice, matching
// fmsynth_set_mod_wheel.
func (e *Engine) SetModWheel(wheel uint8) {
	value := float32(wheel) * (1.0 / 127.0)
	e.wheel = value
	for i := range e.voices {
		v := &e.voices[i]
		if v.state == VoiceInactive {
			continue
		}
		for op := 0; op < Operators; op++ {
			modSens := e.params.Get(ParamModSensitivity, op)
			v.wheelAmp[op] = 1 - modSens + modSens*value
		}
		v.updateReadMod()
	}
	e.log.Debug("mod wheel", "wheel", wheel)
}

// SetPitchBend updates the 14-bit pitch bend value (0-16383, center 8192)
// and recomputes every active voice's per-operator step rate, matching
// fmsynth_set_pitch_bend.
func (e *Engine) SetPitchBend(value uint16) {
	bend := pitchBendToRatio(float32(value))
	e.bend = bend
	for i := range e.voices {
		v := &e.voices[i]
		if v.state == VoiceInactive {
			continue
		}
		freq := bend * v.baseFreq
		for op := 0; op < Operators; op++ {
			freqMod := e.params.Get(ParamFreqMod, op)
			freqOffset := e.params.Get(ParamFreqOffset, op)
			v.stepRate[op] = (freq*freqMod + freqOffset) * e.invSampleRate
		}
	}
	e.log.Debug("pitch bend", "value", value)
}

// ReleaseAll immediately releases every non-inactive voice regardless of
// state and clears sustain, matching fmsynth_release_all.
func (e *Engine) ReleaseAll() {
	for i := range e.voices {
		v := &e.voices[i]
		if v.state != VoiceInactive {
			e.releaseVoice(v)
		}
	}
	e.sustained = false
	e.log.Debug("release all")
}

// ActiveVoices reports how many voice slots are not VoiceInactive.
func (e *Engine) ActiveVoices() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].state != VoiceInactive {
			n++
		}
	}
	return n
}

// Render fills left and right (equal length, one sample per frame) and
// returns the number of voices still active after rendering, matching
// fmsynth_render. Allocation-free: callers own both destination slices.
// Render overwrites rather than accumulates: both slices are zeroed before
// the voices are mixed in, so earlier contents of left and right are lost.
func (e *Engine) Render(left, right []float32) int {
	frames := len(left)
	for i := range left {
		left[i] = 0
	}
	for i := range right {
		right[i] = 0
	}

	active := 0
	for i := range e.voices {
		v := &e.voices[i]
		if v.state == VoiceInactive {
			continue
		}
		e.renderVoice(v, left[:frames], right[:frames])
		if v.active() {
			active++
		} else {
			v.state = VoiceInactive
		}
	}
	return active
}

// renderVoice renders frames of audio for a single voice, ticking the
// LFO/envelope clock every FramesPerLFO samples, matching
// fmsynth_render_voice.
func (e *Engine) renderVoice(v *voice, left, right []float32) {
	frames := len(left)
	off := 0
	for frames > 0 {
		toRender := FramesPerLFO - v.count
		if toRender > frames {
			toRender = frames
		}
		e.processFrames(v, left[off:off+toRender], right[off:off+toRender])
		off += toRender
		frames -= toRender
		v.count += toRender

		if v.count == FramesPerLFO {
			lfoValue := sinApprox(v.lfoPhase)
			v.lfoPhase += v.lfoStep
			v.lfoPhase = fracWrap(v.lfoPhase)
			v.count = 0
			e.setLFOValue(v, lfoValue)
			e.updateTargetEnvelope(v)
		}
	}
}

// processFrames runs the per-sample cross-modulation matrix for up to
// FramesPerLFO frames at fixed control-rate parameters, matching
// fmsynth_process_frames. This is the hot path: no allocation, no locking.
func (e *Engine) processFrames(v *voice, left, right []float32) {
	var steps, cached, cachedMod [Operators]float32
	var modMatrix [Operators][Operators]float32
	for o := 0; o < Operators; o++ {
		for j := 0; j < Operators; j++ {
			modMatrix[o][j] = e.params.Get(modParamForSource(o), j)
		}
	}

	for f := range left {
		for op := 0; op < Operators; op++ {
			steps[op] = v.lfoFreqMod[op] * v.stepRate[op]
		}

		for op := 0; op < Operators; op++ {
			value := v.env[op] * v.readMod[op] * sinApprox(v.phases[op])
			cached[op] = value
			cachedMod[op] = value * v.stepRate[op]
			v.env[op] += v.targetStep[op]
		}

		for o := 0; o < Operators; o++ {
			scalar := cachedMod[o]
			for j := 0; j < Operators; j++ {
				steps[j] += scalar * modMatrix[o][j]
			}
		}

		for op := 0; op < Operators; op++ {
			v.phases[op] += steps[op]
			v.phases[op] = fracWrap(v.phases[op])
		}

		for op := 0; op < Operators; op++ {
			left[f] += cached[op] * v.panAmp[0][op]
			right[f] += cached[op] * v.panAmp[1][op]
		}
	}
}

// modParamForSource maps a source operator index to the ParamID whose
// per-destination-operator values hold that source's modulation
// contribution into each other operator, matching the reference's
// mod_to_carriers[source][dest] layout.
func modParamForSource(source int) ParamID {
	return ParamMod0ToCarrier + ParamID(source)
}
