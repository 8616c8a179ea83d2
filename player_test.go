package fm8synth

import "testing"

func TestNewPlayerRejectsBadConfig(t *testing.T) {
	if _, err := NewPlayer(0); err == nil {
		t.Fatalf("expected error for non-positive sample rate")
	}
	if _, err := NewPlayer(48000, WithMaxVoices(0)); err == nil {
		t.Fatalf("expected error for non-positive maxVoices")
	}
}

func TestPlayerControlSurfacePassthrough(t *testing.T) {
	pl, err := NewPlayer(48000, WithMaxVoices(4))
	if err != nil {
		t.Fatalf("new player: %v", err)
	}
	if err := pl.NoteOn(60, 100); err != nil {
		t.Fatalf("note on: %v", err)
	}
	if got := pl.Engine().ActiveVoices(); got != 1 {
		t.Fatalf("active voices = %d, want 1", got)
	}
	pl.NoteOff(60)
	pl.ReleaseAll()
}
