package fm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestProperty_NoteOnNeverExceedsVoiceCount checks that the
// engine never reports more active voices than it was constructed with,
// no matter how many note-on/note-off/control events arrive.
func TestProperty_NoteOnNeverExceedsVoiceCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		maxVoices := rapid.IntRange(1, 16).Draw(t, "maxVoices")
		e := New(48000, maxVoices)

		events := rapid.SliceOfN(rapid.IntRange(0, 5), 0, 64).Draw(t, "events")
		note := rapid.Uint8Range(21, 108).Draw(t, "note")

		for _, ev := range events {
			switch ev {
			case 0:
				_ = e.NoteOn(note, 100)
			case 1:
				e.NoteOff(note)
			case 2:
				e.SetSustain(true)
			case 3:
				e.SetSustain(false)
			case 4:
				e.ReleaseAll()
			case 5:
				left := make([]float32, FramesPerLFO)
				right := make([]float32, FramesPerLFO)
				e.Render(left, right)
			}
			assert.LessOrEqual(t, e.ActiveVoices(), maxVoices)
		}
	})
}

// TestProperty_InactiveVoiceProducesNoSignal checks that a voice in
// VoiceInactive never contributes to the rendered signal: an engine whose
// only voice was never triggered renders silence for any frame count and
// reports no active voices.
func TestProperty_InactiveVoiceProducesNoSignal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(48000, 1)
		frames := rapid.IntRange(1, 4096).Draw(t, "frames")

		left := make([]float32, frames)
		right := make([]float32, frames)
		active := e.Render(left, right)

		assert.Zero(t, active)
		for _, s := range left {
			assert.Zero(t, s)
		}
		for _, s := range right {
			assert.Zero(t, s)
		}
	})
}

// TestProperty_NormalizationRoundTrips checks that ToNormalized/
// FromNormalized recover the original value within floating-point
// tolerance for any value drawn from within a parameter's declared range.
func TestProperty_NormalizationRoundTrips(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := ParamID(rapid.IntRange(0, int(paramEnd)-1).Draw(t, "paramID"))
		d := paramTable[id]

		value := float32(rapid.Float64Range(float64(d.min), float64(d.max)).Draw(t, "value"))

		normalized := ToNormalized(id, value)
		assert.GreaterOrEqual(t, normalized, float32(-1e-4))
		assert.LessOrEqual(t, normalized, float32(1+1e-4))

		recovered := FromNormalized(id, normalized)
		tolerance := float64(d.max-d.min) * 1e-3
		if tolerance < 1e-4 {
			tolerance = 1e-4
		}
		assert.InDelta(t, float64(value), float64(recovered), tolerance)
	})
}

// TestProperty_OutOfRangeParamAccessIsSilentNoOp checks that an
// out-of-range ParamID or operator index never panics: Get/Set and the
// normalization helpers degrade to a silent no-op/zero return, matching
// the reference's bounds-checked accessors.
func TestProperty_OutOfRangeParamAccessIsSilentNoOp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := NewParamStore()
		id := ParamID(rapid.IntRange(-1000, 1000).Draw(t, "paramID"))
		operator := rapid.IntRange(-1000, 1000).Draw(t, "operator")
		value := float32(rapid.Float64Range(-10, 10).Draw(t, "value"))

		inRange := id >= 0 && id < paramEnd && operator >= 0 && operator < Operators
		if inRange {
			return
		}

		assert.Zero(t, s.Get(id, operator))
		assert.NotPanics(t, func() { s.Set(id, operator, value) })
		assert.NotPanics(t, func() { ToNormalized(id, value) })
		assert.NotPanics(t, func() { FromNormalized(id, value) })
	})
}

// TestProperty_PresetRoundTripPreservesParameters checks that every
// parameter survives a save/load cycle within the precision the 16-bit
// mantissa packing can represent.
func TestProperty_PresetRoundTripPreservesParameters(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(48000, 1)

		id := ParamID(rapid.IntRange(0, int(paramEnd)-1).Draw(t, "paramID"))
		op := rapid.IntRange(0, Operators-1).Draw(t, "operator")
		d := paramTable[id]
		value := float32(rapid.Float64Range(float64(d.min), float64(d.max)).Draw(t, "value"))
		e.Params().Set(id, op, value)

		data := make([]byte, PresetSize())
		assert.NoError(t, e.SavePreset(data, nil))

		loaded := New(48000, 1)
		assert.NoError(t, loaded.LoadPreset(data, nil))

		got := loaded.Params().Get(id, op)
		tolerance := float64(d.max-d.min) * 2e-3
		if tolerance < 1e-3 {
			tolerance = 1e-3
		}
		assert.InDelta(t, float64(value), float64(got), tolerance)
	})
}

// TestProperty_SustainedVoiceNeverReleasesUntilPedalUp checks that a
// voice held by the sustain pedal stays in VoiceSustained across any
// number of render calls while the pedal remains down.
func TestProperty_SustainedVoiceNeverReleasesUntilPedalUp(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := New(48000, 1)
		e.SetSustain(true)
		assert.NoError(t, e.NoteOn(60, 100))
		e.NoteOff(60)

		ticks := rapid.IntRange(0, 20).Draw(t, "ticks")
		for i := 0; i < ticks; i++ {
			left := make([]float32, FramesPerLFO)
			right := make([]float32, FramesPerLFO)
			e.Render(left, right)
			assert.Equal(t, VoiceSustained, e.voices[0].state)
		}
	})
}
