package fm8synth

import (
	"encoding/binary"
	"testing"

	"github.com/vossard/fm8synth-go/internal/fm"
)

func TestRenderSecondsProducesRequestedFrameCount(t *testing.T) {
	e := fm.New(48000, 4)
	if err := e.NoteOn(60, 100); err != nil {
		t.Fatalf("note on: %v", err)
	}
	samples := RenderSeconds(e, 48000, 0.5)
	want := int(48000*0.5) * 2
	if len(samples) != want {
		t.Fatalf("len(samples) = %d, want %d", len(samples), want)
	}
}

func TestEncodeWAVFloat32LEHeader(t *testing.T) {
	samples := []float32{0.1, -0.1, 0.2, -0.2}
	wav := EncodeWAVFloat32LE(samples, 48000, 2)

	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("missing RIFF/WAVE markers")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Fatalf("missing fmt/data chunk markers")
	}
	if format := binary.LittleEndian.Uint16(wav[20:22]); format != 3 {
		t.Fatalf("format tag = %d, want 3 (IEEE float)", format)
	}
	if channels := binary.LittleEndian.Uint16(wav[22:24]); channels != 2 {
		t.Fatalf("channel count = %d, want 2", channels)
	}
	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 48000 {
		t.Fatalf("sample rate = %d, want 48000", rate)
	}
	dataSize := binary.LittleEndian.Uint32(wav[40:44])
	if int(dataSize) != len(samples)*4 {
		t.Fatalf("data chunk size = %d, want %d", dataSize, len(samples)*4)
	}
}
