package tactics

import (
	"github.com/warstage/samurai-practice/internal/geo"
	"github.com/warstage/samurai-practice/internal/world"
)

// Policy thresholds. Ranged fractions are of the unit's maximum range.
const (
	AdvanceFraction    = 0.9
	RetreatThreshold   = 0.5
	RetreatFraction    = 0.7
	ChargeDistance     = 80.0
	RegroupOffsetLimit = 100.0
)

// Maneuver names the branch of the policy that produced a command.
type Maneuver int

const (
	Advance Maneuver = iota
	Retreat
	Hold
	Charge
	Regroup
)

func (m Maneuver) String() string {
	switch m {
	case Advance:
		return "advance"
	case Retreat:
		return "retreat"
	case Hold:
		return "hold"
	case Charge:
		return "charge"
	case Regroup:
		return "regroup"
	default:
		return "unknown"
	}
}

// Command is a movement directive for one unit.
type Command struct {
	Maneuver Maneuver
	Path     geo.Path
	Facing   float64
	Running  bool
}

// Mutation addresses the command to a unit.
func (c Command) Mutation(unit world.ID) world.UpdateCommand {
	return world.UpdateCommand{
		Unit:    unit,
		Path:    c.Path,
		Facing:  c.Facing,
		Running: c.Running,
	}
}

// Decide picks the maneuver for unit against target. It is a pure function
// of the current positions; nothing carries over between ticks.
// allyCluster is the center of the formation being attacked, enemyCluster
// the center of the unit's own formation.
func Decide(unit, target world.Unit, allyCluster, enemyCluster geo.Vec) Command {
	pos, _ := unit.Position()
	tgt, _ := target.Position()

	if unit.IsRanged() {
		return decideRanged(pos, tgt, unit.MaximumRange)
	}
	return decideMelee(pos, tgt, allyCluster, enemyCluster)
}

func decideRanged(pos, tgt geo.Vec, rng float64) Command {
	diff := tgt.Sub(pos)
	dist := diff.Length()

	switch {
	case dist > AdvanceFraction*rng:
		return moveTo(Advance, pos, standOff(tgt, diff, AdvanceFraction*rng), false)
	case dist < RetreatThreshold*rng:
		return moveTo(Retreat, pos, standOff(tgt, diff, RetreatFraction*rng), true)
	default:
		return Command{
			Maneuver: Hold,
			Path:     geo.Path{},
			Facing:   diff.Angle(),
		}
	}
}

func decideMelee(pos, tgt, allyCluster, enemyCluster geo.Vec) Command {
	if tgt.Distance(pos) < ChargeDistance {
		return Command{
			Maneuver: Charge,
			Path:     geo.Path{pos, tgt},
			Facing:   tgt.Sub(pos).Angle(),
		}
	}

	offset := pos.Sub(enemyCluster)
	if d := offset.Length(); d > RegroupOffsetLimit {
		offset = offset.Scale(RegroupOffsetLimit / d)
	}
	return moveTo(Regroup, pos, allyCluster.Add(offset), false)
}

// standOff is the point at distance d from tgt on the line back toward the
// unit. Coincident positions fall back to the normalize default direction.
func standOff(tgt, diff geo.Vec, d float64) geo.Vec {
	return tgt.Sub(diff.Normalize().Scale(d))
}

func moveTo(m Maneuver, pos, dest geo.Vec, running bool) Command {
	return Command{
		Maneuver: m,
		Path:     geo.Path{pos, dest},
		Facing:   dest.Sub(pos).Angle(),
		Running:  running,
	}
}
