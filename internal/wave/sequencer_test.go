package wave

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warstage/samurai-practice/internal/geo"
	"github.com/warstage/samurai-practice/internal/roster"
)

func TestShouldTrigger(t *testing.T) {
	cases := []struct {
		allies, enemies int
		want            bool
	}{
		{0, 0, false},
		{0, 3, false},
		{5, 3, false},
		{5, 0, true},
		{1, 0, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ShouldTrigger(tc.allies, tc.enemies), "allies=%d enemies=%d", tc.allies, tc.enemies)
	}
}

func TestSequencer_Cycles(t *testing.T) {
	s := NewSequencer(roster.Default())

	var got []int
	for i := 0; i < 7; i++ {
		got = append(got, s.Trigger(geo.V(512, 700)).Wave)
		assert.GreaterOrEqual(t, s.Wave(), 0)
		assert.Less(t, s.Wave(), roster.WaveCount)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 0}, got)
	assert.Equal(t, 1, s.Wave())
}

func TestSequencer_StagesBetweenPlayersAndCenter(t *testing.T) {
	s := NewSequencer(roster.Default())

	// players south of center: the wave is staged 200 north of them
	d := s.Trigger(geo.V(512, 800))

	assert.InDelta(t, 512, d.Center.X, 1e-9)
	assert.InDelta(t, 600, d.Center.Y, 1e-9)

	// direction (0,-1): angle = -π/2 + π/2 = 0, bearing = π/2
	assert.InDelta(t, 0, d.Angle, 1e-9)
	require.Len(t, d.Units, 4)
	for _, u := range d.Units {
		assert.Equal(t, "ash_yari", u.Archetype)
		assert.InDelta(t, math.Pi/2, u.Bearing, 1e-9)
	}
	assert.InDelta(t, 512-90, d.Units[0].Position.X, 1e-9)
	assert.InDelta(t, 600, d.Units[0].Position.Y, 1e-9)
	assert.InDelta(t, 512+90, d.Units[3].Position.X, 1e-9)
}

func TestSequencer_OffsetsRotateWithDirection(t *testing.T) {
	s := NewSequencer(roster.Default())

	// players west of center: direction (1,0), angle π/2
	d := s.Trigger(geo.V(100, 512))

	assert.InDelta(t, 300, d.Center.X, 1e-9)
	assert.InDelta(t, 512, d.Center.Y, 1e-9)
	assert.InDelta(t, math.Pi/2, d.Angle, 1e-9)
	assert.InDelta(t, 0, d.Units[0].Bearing, 1e-9)

	// lateral offset (-90,0) rotated by π/2 becomes (0,-90)
	assert.InDelta(t, 300, d.Units[0].Position.X, 1e-9)
	assert.InDelta(t, 422, d.Units[0].Position.Y, 1e-9)
}

func TestSequencer_DegenerateCenterFallsBackSouth(t *testing.T) {
	s := NewSequencer(roster.Default())

	d := s.Trigger(geo.V(512, 512))

	assert.False(t, math.IsNaN(d.Center.X) || math.IsNaN(d.Center.Y))
	assert.InDelta(t, 512, d.Center.X, 1e-9)
	assert.InDelta(t, 712, d.Center.Y, 1e-9)
	assert.InDelta(t, math.Pi, d.Angle, 1e-9)
}

func TestSequencer_RosterSizes(t *testing.T) {
	s := NewSequencer(roster.Default())
	sizes := []int{4, 2, 3, 2, 4, 3}
	for _, n := range sizes {
		assert.Len(t, s.Trigger(geo.V(0, 0)).Units, n)
	}
}
