package fm8synth

import (
	"encoding/binary"
	"math"

	"github.com/vossard/fm8synth-go/internal/fm"
)

// RenderSeconds renders seconds worth of audio from e's current state into
// an interleaved stereo float32 buffer, without touching any audio device.
// Callers drive note-on/off and other control-surface calls on e before
// calling this to render offline, e.g. for golden-file tests or bounce-to-
// disk tooling.
func RenderSeconds(e *fm.Engine, sampleRate int, seconds float64) []float32 {
	frames := int(float64(sampleRate) * seconds)
	left := make([]float32, frames)
	right := make([]float32, frames)
	e.Render(left, right)

	out := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		out[i*2] = left[i]
		out[i*2+1] = right[i]
	}
	return out
}

// EncodeWAVFloat32LE packs interleaved float32 samples into a minimal
// IEEE-float WAV container.
func EncodeWAVFloat32LE(samples []float32, sampleRate int, channels int) []byte {
	dataSize := len(samples) * 4
	byteRate := sampleRate * channels * 4
	blockAlign := channels * 4
	chunkSize := 36 + dataSize
	out := make([]byte, 44+dataSize)
	copy(out[0:], []byte("RIFF"))
	binary.LittleEndian.PutUint32(out[4:], uint32(chunkSize))
	copy(out[8:], []byte("WAVE"))
	copy(out[12:], []byte("fmt "))
	binary.LittleEndian.PutUint32(out[16:], 16)
	binary.LittleEndian.PutUint16(out[20:], 3)
	binary.LittleEndian.PutUint16(out[22:], uint16(channels))
	binary.LittleEndian.PutUint32(out[24:], uint32(sampleRate))
	binary.LittleEndian.PutUint32(out[28:], uint32(byteRate))
	binary.LittleEndian.PutUint16(out[32:], uint16(blockAlign))
	binary.LittleEndian.PutUint16(out[34:], 32)
	copy(out[36:], []byte("data"))
	binary.LittleEndian.PutUint32(out[40:], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(out[44+i*4:], math.Float32bits(s))
	}
	return out
}
