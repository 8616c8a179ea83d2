package fm

import "math"

// Operators is the fixed operator count (FMSYNTH_OPERATORS in the reference).
const Operators = 8

// FramesPerLFO is the decimation period, in samples, of the envelope and
// LFO control-rate update (FMSYNTH_FRAMES_PER_LFO in the reference).
const FramesPerLFO = 32

// ParamID enumerates the per-operator parameters, in the exact order the
// reference declares fmsynth_parameter (and thus the order fields appear
// in fmsynth_voice_parameters, which the flat preset matrix walks).
type ParamID int

const (
	ParamAmp ParamID = iota
	ParamPan
	ParamFreqMod
	ParamFreqOffset
	ParamEnvelopeTarget0
	ParamEnvelopeTarget1
	ParamEnvelopeTarget2
	ParamEnvelopeDelay0
	ParamEnvelopeDelay1
	ParamEnvelopeDelay2
	ParamEnvelopeReleaseTime
	ParamKeyboardScalingMidPoint
	ParamKeyboardScalingLowFactor
	ParamKeyboardScalingHighFactor
	ParamVelocitySensitivity
	ParamModSensitivity
	ParamLFOAmpDepth
	ParamLFOFreqModDepth
	ParamEnable
	ParamCarrier
	ParamMod0ToCarrier
	ParamMod1ToCarrier
	ParamMod2ToCarrier
	ParamMod3ToCarrier
	ParamMod4ToCarrier
	ParamMod5ToCarrier
	ParamMod6ToCarrier
	ParamMod7ToCarrier
	paramEnd
)

// GlobalID enumerates the engine-wide parameters.
type GlobalID int

const (
	GlobalVolume GlobalID = iota
	GlobalLFOFreq
	globalEnd
)

type paramDescriptor struct {
	name          string
	min, max, def float32
	logarithmic   bool
}

// paramTable mirrors the reference's parameter_data[], index-for-index.
var paramTable = [paramEnd]paramDescriptor{
	ParamAmp:                       {"Amp", 0.005, 16, 1.0, true},
	ParamPan:                       {"Pan", -1, 1, 0, false},
	ParamFreqMod:                   {"FreqMod", 0, 16, 1.0, false},
	ParamFreqOffset:                {"FreqOffset", -128, 128, 0, false},
	ParamEnvelopeTarget0:           {"EnvelopeTarget0", 0, 1, 1.0, false},
	ParamEnvelopeTarget1:           {"EnvelopeTarget1", 0, 1, 0.5, false},
	ParamEnvelopeTarget2:           {"EnvelopeTarget2", 0, 1, 0.25, false},
	ParamEnvelopeDelay0:            {"EnvelopeDelay0", 0.005, 8, 0.05, true},
	ParamEnvelopeDelay1:            {"EnvelopeDelay1", 0.005, 8, 0.05, true},
	ParamEnvelopeDelay2:            {"EnvelopeDelay2", 0.005, 8, 0.25, true},
	ParamEnvelopeReleaseTime:       {"EnvelopeReleaseTime", 0.005, 8, 0.50, true},
	ParamKeyboardScalingMidPoint:   {"KeyboardScalingMidPoint", 50, 5000, 440, true},
	ParamKeyboardScalingLowFactor:  {"KeyboardScalingLowFactor", -2, 2, 0, false},
	ParamKeyboardScalingHighFactor: {"KeyboardScalingHighFactor", -2, 2, 0, false},
	ParamVelocitySensitivity:       {"VelocitySensitivity", 0, 1, 1.0, false},
	ParamModSensitivity:            {"ModSensitivity", 0, 1, 0, false},
	ParamLFOAmpDepth:               {"LFOAmpDepth", 0, 1, 0, false},
	ParamLFOFreqModDepth:           {"LFOFreqModDepth", 0, 0.025, 0, false},
	ParamEnable:                    {"Enable", 0, 1, 1.0, false},
	ParamCarrier:                   {"Carrier", 0, 1, 1.0, false},
	ParamMod0ToCarrier:             {"Mod0ToCarrier", 0, 1, 0, false},
	ParamMod1ToCarrier:             {"Mod1ToCarrier", 0, 1, 0, false},
	ParamMod2ToCarrier:             {"Mod2ToCarrier", 0, 1, 0, false},
	ParamMod3ToCarrier:             {"Mod3ToCarrier", 0, 1, 0, false},
	ParamMod4ToCarrier:             {"Mod4ToCarrier", 0, 1, 0, false},
	ParamMod5ToCarrier:             {"Mod5ToCarrier", 0, 1, 0, false},
	ParamMod6ToCarrier:             {"Mod6ToCarrier", 0, 1, 0, false},
	ParamMod7ToCarrier:             {"Mod7ToCarrier", 0, 1, 0, false},
}

var globalTable = [globalEnd]paramDescriptor{
	GlobalVolume:  {"Volume", 0, 1, 0.2, false},
	GlobalLFOFreq: {"LFOFreq", 0.1, 64, 0.1, true},
}

// ToNormalized maps a stored parameter value to [0, 1] using the
// descriptor's bounds, independent of the value currently stored. An
// out-of-range id is a silent no-op that returns 0, matching the
// reference's bounds-checked parameter accessors.
func ToNormalized(id ParamID, value float32) float32 {
	if id < 0 || id >= paramEnd {
		return 0
	}
	return toNormalized(paramTable[id], value)
}

// FromNormalized is the inverse of ToNormalized. An out-of-range id is a
// silent no-op that returns 0.
func FromNormalized(id ParamID, normalized float32) float32 {
	if id < 0 || id >= paramEnd {
		return 0
	}
	return fromNormalized(paramTable[id], normalized)
}

// GlobalToNormalized is ToNormalized for engine-wide parameters.
func GlobalToNormalized(id GlobalID, value float32) float32 {
	if id < 0 || id >= globalEnd {
		return 0
	}
	return toNormalized(globalTable[id], value)
}

// GlobalFromNormalized is FromNormalized for engine-wide parameters.
func GlobalFromNormalized(id GlobalID, normalized float32) float32 {
	if id < 0 || id >= globalEnd {
		return 0
	}
	return fromNormalized(globalTable[id], normalized)
}

func toNormalized(d paramDescriptor, value float32) float32 {
	if d.logarithmic {
		lo := log2(d.min)
		hi := log2(d.max)
		return (log2(value) - lo) / (hi - lo)
	}
	return (value - d.min) / (d.max - d.min)
}

func fromNormalized(d paramDescriptor, normalized float32) float32 {
	if d.logarithmic {
		lo := log2(d.min)
		hi := log2(d.max)
		return exp2(lo + normalized*(hi-lo))
	}
	return d.min + normalized*(d.max-d.min)
}

func log2(x float32) float32 { return float32(math.Log2(float64(x))) }
func exp2(x float32) float32 { return float32(math.Exp2(float64(x))) }

// ParamStore holds every per-operator parameter as a flat [param][operator]
// matrix, matching the reference's fmsynth_voice_parameters layout so the
// preset codec can walk it with the same param*Operators+op indexing the C
// reference uses. Never clamps on Set; Get/Set do not interpret the logical
// meaning of the stored value, only normalization does.
type ParamStore struct {
	values [paramEnd][Operators]float32
	global [globalEnd]float32
}

// NewParamStore returns a store populated with the reference defaults.
func NewParamStore() *ParamStore {
	s := &ParamStore{}
	s.SetDefaults()
	return s
}

// SetDefaults resets every parameter to fmsynth_set_default_parameters /
// fmsynth_set_default_global_parameters, including the carrier/enable
// special cases (operator 0 is the sole default carrier).
func (s *ParamStore) SetDefaults() {
	for p := ParamID(0); p < paramEnd; p++ {
		d := paramTable[p]
		for op := 0; op < Operators; op++ {
			s.values[p][op] = d.def
		}
	}
	for op := 0; op < Operators; op++ {
		s.values[ParamCarrier][op] = 0
	}
	s.values[ParamCarrier][0] = 1.0

	for g := GlobalID(0); g < globalEnd; g++ {
		s.global[g] = globalTable[g].def
	}
}

// Get returns the raw stored value for (param, operator). An out-of-range
// id or operator is a silent no-op that returns 0, matching the
// reference's fmsynth_get_parameter bounds check.
func (s *ParamStore) Get(id ParamID, operator int) float32 {
	if id < 0 || id >= paramEnd || operator < 0 || operator >= Operators {
		return 0
	}
	return s.values[id][operator]
}

// Set stores value verbatim; out-of-range values are never clamped here,
// matching the reference's fmsynth_set_parameter. An out-of-range id or
// operator is a silent no-op.
func (s *ParamStore) Set(id ParamID, operator int, value float32) {
	if id < 0 || id >= paramEnd || operator < 0 || operator >= Operators {
		return
	}
	s.values[id][operator] = value
}

// GetGlobal returns the raw stored value of a global parameter. An
// out-of-range id is a silent no-op that returns 0.
func (s *ParamStore) GetGlobal(id GlobalID) float32 {
	if id < 0 || id >= globalEnd {
		return 0
	}
	return s.global[id]
}

// SetGlobal stores a global parameter value verbatim. An out-of-range id
// is a silent no-op.
func (s *ParamStore) SetGlobal(id GlobalID, value float32) {
	if id < 0 || id >= globalEnd {
		return
	}
	s.global[id] = value
}
