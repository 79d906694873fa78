// Package wave sequences the enemy spawn waves.
package wave

import (
	"math"

	"github.com/warstage/samurai-practice/internal/geo"
	"github.com/warstage/samurai-practice/internal/roster"
	"github.com/warstage/samurai-practice/internal/tactics"
)

// StagingDistance is how far from the player cluster a wave is staged.
const StagingDistance = 200.0

// Spawn is one unit of a deployment, in battlefield coordinates.
type Spawn struct {
	Archetype string
	Position  geo.Vec
	Bearing   float64
}

// Deployment is the result of a trigger: where and what to spawn.
type Deployment struct {
	Wave   int
	Center geo.Vec
	Angle  float64
	Units  []Spawn
}

// ShouldTrigger reports whether a wave is due: the scripted side is wiped
// out while the player side still has live units.
func ShouldTrigger(allies, enemies int) bool {
	return enemies == 0 && allies > 0
}

// Sequencer cycles through the roster's waves. It is not safe for
// concurrent use; the tick loop is its only caller.
type Sequencer struct {
	roster *roster.Roster
	wave   int
}

// NewSequencer starts at wave 0.
func NewSequencer(r *roster.Roster) *Sequencer {
	return &Sequencer{roster: r}
}

// Wave is the number of the next wave to be spawned, in [0, WaveCount).
func (s *Sequencer) Wave() int {
	return s.wave
}

// Trigger computes the deployment of the current wave against the player
// formation centered at allyCenter, then advances the wave number.
func (s *Sequencer) Trigger(allyCenter geo.Vec) Deployment {
	direction := tactics.BattlefieldCenter.Sub(allyCenter).Normalize()
	center := allyCenter.Add(direction.Scale(StagingDistance))
	angle := direction.Angle() + 0.5*math.Pi
	bearing := 0.5*math.Pi - angle

	placements := s.roster.Wave(s.wave)
	d := Deployment{
		Wave:   s.wave,
		Center: center,
		Angle:  angle,
		Units:  make([]Spawn, 0, len(placements)),
	}
	for _, p := range placements {
		d.Units = append(d.Units, Spawn{
			Archetype: p.Archetype,
			Position:  center.Add(p.Offset.Rotate(angle)),
			Bearing:   bearing,
		})
	}

	s.wave = (s.wave + 1) % roster.WaveCount
	return d
}
