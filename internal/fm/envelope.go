package fm

import "math"

func noteToFrequency(note uint8) float32 {
	return 440.0 * float32(math.Pow(2.0, (float64(note)-69.0)/12.0))
}

func pitchBendToRatio(bend float32) float32 {
	return float32(math.Pow(2.0, (float64(bend)-8192.0)/(8192.0*6.0)))
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

// triggerVoice assigns per-operator step rates from (note, bend) and hands
// off to resetVoice/updateReadMod, matching fmsynth_trigger_voice.
func (e *Engine) triggerVoice(v *voice, note, velocity uint8) {
	v.note = note
	v.baseFreq = noteToFrequency(note)
	freq := e.bend * v.baseFreq
	modVel := float32(velocity) * (1.0 / 127.0)

	for op := 0; op < Operators; op++ {
		freqMod := e.params.Get(ParamFreqMod, op)
		freqOffset := e.params.Get(ParamFreqOffset, op)
		v.stepRate[op] = (freq*freqMod + freqOffset) * e.invSampleRate
	}

	e.resetVoice(v, e.params.GetGlobal(GlobalVolume), modVel, v.baseFreq)
	v.updateReadMod()

	v.lfoPhase = 0.25
	v.lfoStep = FramesPerLFO * e.params.GetGlobal(GlobalLFOFreq) * e.invSampleRate
	v.count = 0
}

// resetVoice installs per-operator amplitude/pan/keyboard-scaling state for
// a freshly triggered note, matching fmsynth_reset_voice.
func (e *Engine) resetVoice(v *voice, volume, velocity, freq float32) {
	v.enable = 0
	for op := 0; op < Operators; op++ {
		v.phases[op] = 0.25

		velSens := e.params.Get(ParamVelocitySensitivity, op)
		modAmp := 1 - velSens + velSens*velocity

		midPoint := e.params.Get(ParamKeyboardScalingMidPoint, op)
		ratio := freq / midPoint
		var factor float32
		if ratio > 1 {
			factor = e.params.Get(ParamKeyboardScalingHighFactor, op)
		} else {
			factor = e.params.Get(ParamKeyboardScalingLowFactor, op)
		}
		modAmp *= float32(math.Pow(float64(ratio), float64(factor)))

		enabled := e.params.Get(ParamEnable, op) > 0.5
		if enabled {
			v.enable |= 1 << uint(op)
			v.amp[op] = modAmp * e.params.Get(ParamAmp, op)
		} else {
			v.amp[op] = 0
		}

		modSens := e.params.Get(ParamModSensitivity, op)
		v.wheelAmp[op] = 1 - modSens + modSens*e.wheel

		pan := e.params.Get(ParamPan, op)
		carrier := e.params.Get(ParamCarrier, op)
		v.panAmp[0][op] = volume * minF(1-pan, 1) * carrier
		v.panAmp[1][op] = volume * minF(1+pan, 1) * carrier

		v.lfoAmp[op] = 1.0
		v.lfoFreqMod[op] = 1.0
	}
	v.state = VoiceRunning
	e.resetEnvelope(v)
}

// resetEnvelope rebuilds the three-segment attack/decay target/time tables
// and the exponential release falloff for every operator, matching
// fmsynth_reset_envelope.
func (e *Engine) resetEnvelope(v *voice) {
	v.pos = 0
	v.count = 0
	v.speed = e.invSampleRate
	v.dead = 0

	for op := 0; op < Operators; op++ {
		v.env[op] = 0
		v.target[0][op] = 0
		v.segTime[0][op] = 0

		targets := [3]ParamID{ParamEnvelopeTarget0, ParamEnvelopeTarget1, ParamEnvelopeTarget2}
		delays := [3]ParamID{ParamEnvelopeDelay0, ParamEnvelopeDelay1, ParamEnvelopeDelay2}
		for j := 1; j <= 3; j++ {
			v.target[j][op] = e.params.Get(targets[j-1], op)
			v.segTime[j][op] = e.params.Get(delays[j-1], op) + v.segTime[j-1][op]
		}
		for j := 0; j <= 2; j++ {
			v.lerp[j][op] = (v.target[j+1][op] - v.target[j][op]) / (v.segTime[j+1][op] - v.segTime[j][op])
		}

		v.releaseTime[op] = e.params.Get(ParamEnvelopeReleaseTime, op)
		v.falloff[op] = float32(math.Exp(math.Log(0.001) * FramesPerLFO * float64(e.invSampleRate) / float64(v.releaseTime[op])))
	}
	e.updateTargetEnvelope(v)
}

// denormalFloor clamps vanishingly small envelope targets to exact zero,
// so the release tail's exponential falloff cannot stall on a denormal.
const denormalFloor = 1e-20

// updateTargetEnvelope advances the envelope clock by one FramesPerLFO
// tick and recomputes each operator's target value and linear step,
// matching fmsynth_update_target_envelope. The descending segTime[3..1]
// comparison order is load-bearing: a zero-length later segment must win
// over an earlier one at the same position.
func (e *Engine) updateTargetEnvelope(v *voice) {
	v.pos += v.speed * FramesPerLFO

	if v.state == VoiceReleased {
		for op := 0; op < Operators; op++ {
			v.targetEnv[op] *= v.falloff[op]
			if v.targetEnv[op] < denormalFloor {
				v.targetEnv[op] = 0
			}
			if v.pos >= v.endTime[op] {
				v.dead |= 1 << uint(op)
			}
		}
	} else {
		for op := 0; op < Operators; op++ {
			switch {
			case v.pos >= v.segTime[3][op]:
				v.targetEnv[op] = v.target[3][op]
			case v.pos >= v.segTime[2][op]:
				v.targetEnv[op] = v.target[2][op] + (v.pos-v.segTime[2][op])*v.lerp[2][op]
			case v.pos >= v.segTime[1][op]:
				v.targetEnv[op] = v.target[1][op] + (v.pos-v.segTime[1][op])*v.lerp[1][op]
			default:
				v.targetEnv[op] = v.target[0][op] + (v.pos-v.segTime[0][op])*v.lerp[0][op]
			}
		}
	}

	for op := 0; op < Operators; op++ {
		v.targetStep[op] = (v.targetEnv[op] - v.env[op]) * (1.0 / FramesPerLFO)
	}
}

// releaseVoice moves a voice into its release tail, matching
// fmsynth_release_voice.
func (e *Engine) releaseVoice(v *voice) {
	v.state = VoiceReleased
	for op := 0; op < Operators; op++ {
		v.endTime[op] = v.pos + v.releaseTime[op]
	}
}

// updateReadMod recomputes the per-operator multiplier the inner loop
// reads every sample, matching fmsynth_voice_update_read_mod.
func (v *voice) updateReadMod() {
	for op := 0; op < Operators; op++ {
		v.readMod[op] = v.wheelAmp[op] * v.lfoAmp[op] * v.amp[op]
	}
}

// setLFOValue applies one LFO sample to the amplitude and frequency
// modulation depths of every operator, matching
// fmsynth_voice_set_lfo_value.
func (e *Engine) setLFOValue(v *voice, value float32) {
	for op := 0; op < Operators; op++ {
		ampDepth := e.params.Get(ParamLFOAmpDepth, op)
		freqDepth := e.params.Get(ParamLFOFreqModDepth, op)
		v.lfoAmp[op] = 1 + ampDepth*value
		v.lfoFreqMod[op] = 1 + freqDepth*value
	}
	v.updateReadMod()
}
