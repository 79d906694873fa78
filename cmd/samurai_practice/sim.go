package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/warstage/samurai-practice/internal/scenario"
	"github.com/warstage/samurai-practice/internal/world"
	"github.com/warstage/samurai-practice/internal/world/memory"
)

const (
	simStep    = 100 * time.Millisecond
	lobbyDelay = time.Second
)

// createLobby registers a match shaped by the scenario's staging parameters.
func createLobby(w *memory.World, params world.MatchParams) world.Match {
	teams := make([][]world.Slot, 0, len(params.Teams))
	for _, t := range params.Teams {
		teams = append(teams, t.Slots)
	}
	return w.CreateMatch(teams...)
}

// simulate stands in for the battle host: it starts the match after a short
// lobby, then materializes new units and moves commanded ones every step.
// Combat is not modeled.
func simulate(ctx context.Context, w *memory.World, s *scenario.Scenario, matchID world.ID, logger *slog.Logger) {
	lobby := time.NewTimer(lobbyDelay)
	defer lobby.Stop()
	step := time.NewTicker(simStep)
	defer step.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-lobby.C:
			if err := w.StartMatch(matchID); err != nil {
				logger.Error("Failed to start match", "match", matchID, "error", err)
				return
			}
		case <-step.C:
			w.Materialize()
			w.Step(simStep)
			if err := s.TryStartMatch(); err != nil {
				logger.Error("Failed to start match", "match", matchID, "error", err)
			}
		}
	}
}
