package fm

// VoiceState is the lifecycle state of a single voice slot.
type VoiceState int

const (
	VoiceInactive VoiceState = iota
	VoiceRunning
	VoiceSustained
	VoiceReleased
)

// voice holds every per-voice, per-operator control-rate value. Laid out
// as struct-of-arrays the way the reference's struct-of-arrays layout
// does, so the inner sample loop walks flat float32 slices.
type voice struct {
	state VoiceState
	note  uint8

	enable uint8 // bitmask: which operators are enabled for this voice
	dead   uint8 // bitmask: which operators have finished their release

	baseFreq float32
	pos      float32 // envelope-clock position, in seconds
	speed    float32 // 1 / sampleRate, advanced by FramesPerLFO per tick

	lfoStep  float32
	lfoPhase float32
	count    int // samples accumulated since the last LFO/envelope tick

	phases      [Operators]float32
	env         [Operators]float32
	readMod     [Operators]float32
	targetStep  [Operators]float32
	stepRate    [Operators]float32
	lfoFreqMod  [Operators]float32
	lfoAmp      [Operators]float32
	wheelAmp    [Operators]float32
	amp         [Operators]float32
	panAmp      [2][Operators]float32
	falloff     [Operators]float32
	endTime     [Operators]float32
	targetEnv   [Operators]float32
	releaseTime [Operators]float32
	target      [4][Operators]float32
	segTime     [4][Operators]float32
	lerp        [3][Operators]float32
}

// reset zeroes control-rate state and installs the unity defaults the
// reference's fmsynth_init_voices assigns to every fresh voice slot.
func (v *voice) reset() {
	*v = voice{}
	for op := 0; op < Operators; op++ {
		v.amp[op] = 1
		v.panAmp[0][op] = 1
		v.panAmp[1][op] = 1
		v.wheelAmp[op] = 1
		v.lfoAmp[op] = 1
		v.lfoFreqMod[op] = 1
	}
}

// active reports whether any enabled operator has not yet finished its
// release tail, matching fmsynth_voice_update_active's read side. Callers
// that observe false must also transition state to VoiceInactive, which
// active itself does not do (it has no side effects).
func (v *voice) active() bool {
	return v.enable&^v.dead != 0
}
