// Package core holds the after-action records produced by the scenario,
// independent of any storage schema.
package core

import (
	"time"

	"github.com/warstage/samurai-practice/internal/geo"
)

// Session is one practice match from start to shutdown.
type Session struct {
	ID        uint      `json:"id"`
	MatchID   string    `json:"matchId"`
	Title     string    `json:"title"`
	Map       string    `json:"map"`
	StartTime time.Time `json:"startTime"`
}

// CommandRecord is one maneuver order issued to a scripted unit.
type CommandRecord struct {
	Time     time.Time `json:"time"`
	Tick     uint      `json:"tick"`
	UnitID   string    `json:"unitId"`
	UnitType string    `json:"unitType"`
	TargetID string    `json:"targetId"`
	Maneuver string    `json:"maneuver"`
	Path     geo.Path  `json:"path"`
	Facing   float64   `json:"facing"`
	Running  bool      `json:"running"`
}

// Placement is one spawned unit of a deployment.
type Placement struct {
	Archetype string  `json:"archetype"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Bearing   float64 `json:"bearing"`
}

// DeploymentRecord is one wave spawn.
type DeploymentRecord struct {
	Time       time.Time   `json:"time"`
	Tick       uint        `json:"tick"`
	Wave       int         `json:"wave"`
	Center     geo.Vec     `json:"center"`
	Angle      float64     `json:"angle"`
	Placements []Placement `json:"placements"`
}

// OutcomeRecord is one score change pushed to a team.
type OutcomeRecord struct {
	Time    time.Time `json:"time"`
	TeamID  string    `json:"teamId"`
	Outcome string    `json:"outcome"`
	Score   int       `json:"score"`
}

// Tick phases.
const (
	PhaseManeuver = "maneuver"
	PhaseWave     = "wave"
	PhaseIdle     = "idle"
)

// TickStats summarizes one command tick for metrics.
type TickStats struct {
	Time     time.Time
	Phase    string
	Allies   int
	Enemies  int
	Commands int
	Skipped  int
	Wave     int
}
