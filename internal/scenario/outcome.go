package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/warstage/samurai-practice/internal/model/core"
	"github.com/warstage/samurai-practice/internal/world"
)

// UpdateOutcome pushes the kill count of the scripted side to every team
// whose score differs from it.
func (s *Scenario) UpdateOutcome(ctx context.Context) {
	if !s.started.Load() {
		return
	}

	kills := 0
	for _, tk := range s.deps.World.TeamKills() {
		if tk.Alliance == s.enemyAlliance.ID {
			kills = tk.Kills
		}
	}

	m, err := s.deps.World.Match(s.matchID)
	if err != nil {
		s.deps.Logger.Error("failed to read match", "match", s.matchID, "error", err)
		return
	}

	for _, team := range m.Teams {
		if team.Score == kills {
			continue
		}
		upd := world.UpdateTeam{
			Match:   m.ID,
			Team:    team.ID,
			Outcome: fmt.Sprintf("Kills: %d", kills),
			Score:   kills,
		}
		s.await(ctx, world.ServiceUpdateTeam, team.ID, s.deps.World.RequestMutation(ctx, upd))

		// the request repeats every tick until applied; record it once
		if last, ok := s.reported[team.ID]; ok && last == kills {
			continue
		}
		s.reported[team.ID] = kills
		s.deps.Recorder.RecordOutcome(core.OutcomeRecord{
			Time:    time.Now(),
			TeamID:  team.ID.String(),
			Outcome: upd.Outcome,
			Score:   kills,
		})
	}
}

// PruneUnits deletes units that have lost every fighter or were removed
// by a player gesture.
func (s *Scenario) PruneUnits() {
	for _, u := range s.deps.World.Units() {
		_, placed := u.Position()
		if !u.DeletedByGesture && (!placed || u.Fighters > 0) {
			continue
		}
		if err := s.deps.World.DeleteUnit(u.ID); err != nil {
			s.deps.Logger.Error("failed to delete unit", "unit", u.ID, "error", err)
			continue
		}
		s.pruned.Add(context.Background(), 1)
		s.deps.Logger.Debug("unit removed", "unit", u.ID, "fighters", u.Fighters, "gesture", u.DeletedByGesture)
	}
}
