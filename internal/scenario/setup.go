package scenario

import (
	"fmt"
	"math"

	"github.com/warstage/samurai-practice/internal/tactics"
	"github.com/warstage/samurai-practice/internal/world"
)

// PlayerBearing is the facing of the player formation at spawn.
const PlayerBearing = 0.5 * math.Pi

// StagingParameters returns the lobby configuration this scenario wants:
// a single team with one slot for the local player.
func (s *Scenario) StagingParameters() world.MatchParams {
	return world.MatchParams{
		TeamsMin: 1,
		TeamsMax: 1,
		Teams: []world.TeamParams{
			{Slots: []world.Slot{{PlayerID: s.deps.Config.PlayerID}}},
		},
		Title: s.deps.Config.Title,
		Map:   s.deps.Config.Map,
		Options: map[string]any{
			"map":   true,
			"teams": true,
		},
		Started: false,
	}
}

func (s *Scenario) setupAlliancesAndCommanders(m world.Match) error {
	var err error
	w := s.deps.World

	if s.enemyAlliance, err = w.CreateAlliance(EnemyPosition); err != nil {
		return fmt.Errorf("creating enemy alliance: %w", err)
	}
	if s.enemyCommander, err = w.CreateCommander(s.enemyAlliance.ID, EnemyPlayerID); err != nil {
		return fmt.Errorf("creating enemy commander: %w", err)
	}
	if s.playerAlliance, err = w.CreateAlliance(PlayerPosition); err != nil {
		return fmt.Errorf("creating player alliance: %w", err)
	}

	s.playerCommanders = nil
	for _, team := range m.Teams {
		for _, slot := range team.Slots {
			c, err := w.CreateCommander(s.playerAlliance.ID, slot.PlayerID)
			if err != nil {
				return fmt.Errorf("creating commander for %q: %w", slot.PlayerID, err)
			}
			s.playerCommanders = append(s.playerCommanders, c)
		}
	}

	// a match without slots still needs someone to own the formation
	if len(s.playerCommanders) == 0 {
		c, err := w.CreateCommander(s.playerAlliance.ID, s.deps.Config.PlayerID)
		if err != nil {
			return fmt.Errorf("creating fallback commander: %w", err)
		}
		s.playerCommanders = append(s.playerCommanders, c)
	}
	return nil
}

// spawnPlayerUnits places the player formation around the battlefield
// center, handing units to commanders round-robin.
func (s *Scenario) spawnPlayerUnits() {
	count := len(s.playerCommanders)
	for i, p := range s.deps.Roster.Player {
		arch, err := s.deps.Roster.Archetype(p.Archetype)
		if err != nil {
			s.deps.Logger.Error("skipping player unit", "archetype", p.Archetype, "error", err)
			continue
		}
		pos := tactics.BattlefieldCenter.Add(p.Offset)
		_, err = s.deps.World.CreateUnit(world.UnitSpec{
			Alliance:     s.playerAlliance.ID,
			Commander:    s.playerCommanders[i%count].ID,
			UnitType:     arch.UnitType,
			Marker:       arch.Marker,
			Placement:    world.Placement{X: pos.X, Y: pos.Y, Bearing: PlayerBearing},
			MaximumRange: arch.MaximumRange,
		})
		if err != nil {
			s.deps.Logger.Error("failed to create player unit", "archetype", p.Archetype, "error", err)
		}
	}
}
