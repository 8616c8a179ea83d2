package bank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/vossard/fm8synth-go/internal/fm"
)

func writePreset(t *testing.T, dir, name string, freqMod float32) string {
	t.Helper()
	e := fm.New(48000, 1)
	e.Params().Set(fm.ParamFreqMod, 0, freqMod)
	data := make([]byte, fm.PresetSize())
	require.NoError(t, e.SavePreset(data, nil))

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadReadsEveryPresetConcurrently(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "lead.fmp", 2.0)
	writePreset(t, dir, "bass.fmp", 0.5)

	manifestYAML := "presets:\n" +
		"  - name: lead\n" +
		"    path: lead.fmp\n" +
		"  - name: bass\n" +
		"    path: bass.fmp\n"
	manifestPath := filepath.Join(dir, "bank.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestYAML), 0o644))

	b, err := Load(manifestPath)
	require.NoError(t, err)
	require.Len(t, b.Presets, 2)

	seen := map[string]bool{}
	for _, p := range b.Presets {
		require.NotEqual(t, uuid.Nil, p.ID)
		seen[p.Name] = true
	}
	require.True(t, seen["lead"])
	require.True(t, seen["bass"])
}

func TestLoadFailsAtomicallyOnBadPreset(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "good.fmp", 1.0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.fmp"), []byte("not a preset"), 0o644))

	manifestYAML := "presets:\n" +
		"  - name: good\n" +
		"    path: good.fmp\n" +
		"  - name: bad\n" +
		"    path: bad.fmp\n"
	manifestPath := filepath.Join(dir, "bank.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestYAML), 0o644))

	_, err := Load(manifestPath)
	require.Error(t, err)
}

func TestFindByID(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "lead.fmp", 2.0)

	manifestYAML := "presets:\n  - name: lead\n    path: lead.fmp\n"
	manifestPath := filepath.Join(dir, "bank.yaml")
	require.NoError(t, os.WriteFile(manifestPath, []byte(manifestYAML), 0o644))

	b, err := Load(manifestPath)
	require.NoError(t, err)

	found, ok := b.Find(b.Presets[0].ID)
	require.True(t, ok)
	require.Equal(t, "lead", found.Name)
}
