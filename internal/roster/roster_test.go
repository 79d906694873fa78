package roster

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warstage/samurai-practice/internal/geo"
)

func TestDefault_Valid(t *testing.T) {
	r := Default()
	require.NoError(t, r.Validate())

	assert.Len(t, r.Player, 11)
	assert.Len(t, r.Waves, WaveCount)

	sizes := []int{4, 2, 3, 2, 4, 3}
	for i, n := range sizes {
		assert.Len(t, r.Wave(i), n, "wave %d", i)
	}
}

func TestDefault_ReturnsCopy(t *testing.T) {
	a := Default()
	a.Archetypes["sam_bow"] = Archetype{UnitType: "changed"}

	b := Default()
	assert.Equal(t, "sam-bow", b.Archetypes["sam_bow"].UnitType)
}

func TestWave_Wraps(t *testing.T) {
	r := Default()
	assert.Equal(t, r.Wave(0), r.Wave(6))
	assert.Equal(t, r.Wave(5), r.Wave(-1))
}

func TestArchetype(t *testing.T) {
	r := Default()

	bow, err := r.Archetype("ash_bow")
	require.NoError(t, err)
	assert.Greater(t, bow.MaximumRange, 0.0)

	yari, err := r.Archetype("ash_yari")
	require.NoError(t, err)
	assert.Zero(t, yari.MaximumRange)

	_, err = r.Archetype("ninja")
	assert.ErrorIs(t, err, ErrUnknownArchetype)
}

func TestParse_OverridesArchetypeAndKeepsWaves(t *testing.T) {
	r, err := Parse([]byte(`
archetypes:
  ash_bow:
    unitType: ash-bow-veteran
    marker: ash-bow
    maximumRange: 200
`))
	require.NoError(t, err)

	bow, _ := r.Archetype("ash_bow")
	assert.Equal(t, "ash-bow-veteran", bow.UnitType)
	assert.Equal(t, 200.0, bow.MaximumRange)
	assert.Equal(t, Default().Waves, r.Waves)
}

func TestParse_ReplacesPlayerLayout(t *testing.T) {
	r, err := Parse([]byte(`
player:
  - archetype: gen_kata
    offset: {x: 0, y: -10}
`))
	require.NoError(t, err)
	require.Len(t, r.Player, 1)
	assert.Equal(t, geo.V(0, -10), r.Player[0].Offset)
}

func TestParse_RejectsWrongWaveCount(t *testing.T) {
	_, err := Parse([]byte(`
waves:
  - [{archetype: ash_yari, offset: {x: 0, y: 0}}]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must define 6 waves")
}

func TestParse_RejectsUnknownArchetype(t *testing.T) {
	_, err := Parse([]byte(`
player:
  - archetype: ninja
`))
	assert.ErrorIs(t, err, ErrUnknownArchetype)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("archetypes: [unclosed"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte("archetypes: {}\n"), 0644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, r.Archetypes, len(Default().Archetypes))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
