package scenario

import (
	"context"
	"time"

	"github.com/warstage/samurai-practice/internal/model/core"
	"github.com/warstage/samurai-practice/internal/tactics"
	"github.com/warstage/samurai-practice/internal/wave"
	"github.com/warstage/samurai-practice/internal/world"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// partition splits live units into the player side and everyone else.
// Routed units and units without a position take no part in the tick.
func (s *Scenario) partition(units []world.Unit) (allies, enemies []world.Unit) {
	for _, u := range units {
		if u.Routed {
			continue
		}
		if _, ok := u.Position(); !ok {
			continue
		}
		if u.Alliance == s.playerAlliance.ID {
			allies = append(allies, u)
		} else {
			enemies = append(enemies, u)
		}
	}
	return allies, enemies
}

// IssueCommands runs one command tick against a fresh snapshot: with no
// scripted units left a wave is spawned, otherwise every scripted unit gets
// a maneuver against its nearest player unit.
func (s *Scenario) IssueCommands(ctx context.Context) core.TickStats {
	if !s.started.Load() {
		return core.TickStats{Phase: core.PhaseIdle}
	}

	tick := uint(s.tick.Add(1))
	allies, enemies := s.partition(s.deps.World.Units())
	stats := core.TickStats{
		Time:    time.Now(),
		Phase:   core.PhaseIdle,
		Allies:  len(allies),
		Enemies: len(enemies),
		Wave:    s.Wave(),
	}

	switch {
	case len(allies) == 0:
		s.deps.Logger.Debug("no player units, nothing to react to", "tick", tick)

	case wave.ShouldTrigger(len(allies), len(enemies)):
		stats.Phase = core.PhaseWave
		s.spawnWave(ctx, tick, allies)

	default:
		stats.Phase = core.PhaseManeuver
		allyCenter := tactics.ClusterCenter(tactics.Positions(allies))
		enemyCenter := tactics.ClusterCenter(tactics.Positions(enemies))

		for _, unit := range enemies {
			pos, _ := unit.Position()
			target, ok := tactics.Nearest(allies, pos)
			if !ok {
				stats.Skipped++
				s.deps.Logger.Debug("no target", "unit", unit.ID, "tick", tick)
				continue
			}
			cmd := tactics.Decide(unit, target, allyCenter, enemyCenter)
			s.issue(ctx, tick, unit, target, cmd)
			stats.Commands++
		}
	}

	s.deps.Metrics.ObserveTick(ctx, stats)
	return stats
}

func (s *Scenario) issue(ctx context.Context, tick uint, unit, target world.Unit, cmd tactics.Command) {
	outcome := s.deps.World.RequestMutation(ctx, cmd.Mutation(unit.ID))
	s.await(ctx, world.ServiceUpdateCommand, unit.ID, outcome)

	s.issued.Add(ctx, 1, metric.WithAttributes(attribute.String("maneuver", cmd.Maneuver.String())))
	s.deps.Recorder.RecordCommand(core.CommandRecord{
		Time:     time.Now(),
		Tick:     tick,
		UnitID:   unit.ID.String(),
		UnitType: unit.UnitType,
		TargetID: target.ID.String(),
		Maneuver: cmd.Maneuver.String(),
		Path:     cmd.Path,
		Facing:   cmd.Facing,
		Running:  cmd.Running,
	})
}

// spawnWave stages the next wave facing the player formation. Enemy units
// never rally once routed.
func (s *Scenario) spawnWave(ctx context.Context, tick uint, allies []world.Unit) {
	d := s.seq.Trigger(tactics.ClusterCenter(tactics.Positions(allies)))
	s.waveNum.Store(int64(s.seq.Wave()))

	rec := core.DeploymentRecord{
		Time:       time.Now(),
		Tick:       tick,
		Wave:       d.Wave,
		Center:     d.Center,
		Angle:      d.Angle,
		Placements: make([]core.Placement, 0, len(d.Units)),
	}

	for _, sp := range d.Units {
		arch, err := s.deps.Roster.Archetype(sp.Archetype)
		if err != nil {
			s.deps.Logger.Error("skipping wave unit", "wave", d.Wave, "archetype", sp.Archetype, "error", err)
			continue
		}
		_, err = s.deps.World.CreateUnit(world.UnitSpec{
			Alliance:     s.enemyAlliance.ID,
			Commander:    s.enemyCommander.ID,
			UnitType:     arch.UnitType,
			Marker:       arch.Marker,
			Placement:    world.Placement{X: sp.Position.X, Y: sp.Position.Y, Bearing: sp.Bearing},
			MaximumRange: arch.MaximumRange,
			CanNotRally:  true,
		})
		if err != nil {
			s.deps.Logger.Error("failed to create wave unit", "wave", d.Wave, "archetype", sp.Archetype, "error", err)
			continue
		}
		rec.Placements = append(rec.Placements, core.Placement{
			Archetype: sp.Archetype,
			X:         sp.Position.X,
			Y:         sp.Position.Y,
			Bearing:   sp.Bearing,
		})
	}

	s.spawned.Add(ctx, 1, metric.WithAttributes(attribute.Int("wave", d.Wave)))
	s.deps.Recorder.RecordDeployment(rec)
	s.deps.Logger.Info("wave spawned",
		"wave", d.Wave,
		"units", len(rec.Placements),
		"x", d.Center.X,
		"y", d.Center.Y)
}
