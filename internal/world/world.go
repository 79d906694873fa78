// Package world defines the live battle store the scenario reads from and
// mutates. Implementations own all entity state; the scenario only holds
// handles.
package world

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/warstage/samurai-practice/internal/geo"
)

var (
	// ErrUnknownEntity is returned when a handle does not resolve to a live entity.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrRejected wraps any refusal of a mutation request.
	ErrRejected = errors.New("mutation rejected")
)

// ID is an entity handle.
type ID = uuid.UUID

// Alliance groups units into one side of the battle. Position 1 is the
// player side, position 2 the scripted side.
type Alliance struct {
	ID       ID
	Position int
}

// Commander is the controller of a set of units.
type Commander struct {
	ID       ID
	Alliance ID
	PlayerID string
}

// Unit is a snapshot of a battle unit.
type Unit struct {
	ID        ID
	Alliance  ID
	Commander ID
	UnitType  string
	Marker    string

	// Center is nil until the unit has materialized on the field.
	Center *geo.Vec

	Routed bool

	// MaximumRange is the effective engagement range. Zero means melee.
	MaximumRange float64

	Fighters         int
	DeletedByGesture bool
	CanNotRally      bool
}

// Position returns the unit center and whether it has resolved.
func (u Unit) Position() (geo.Vec, bool) {
	if u.Center == nil {
		return geo.Vec{}, false
	}
	return *u.Center, true
}

// IsRanged reports whether the unit has a positive effective range.
func (u Unit) IsRanged() bool {
	return u.MaximumRange > 0
}

// Placement is the initial field position and bearing of a new unit.
type Placement struct {
	X       float64
	Y       float64
	Bearing float64
}

// UnitSpec describes a unit to create.
type UnitSpec struct {
	Alliance     ID
	Commander    ID
	UnitType     string
	Marker       string
	Placement    Placement
	MaximumRange float64
	CanNotRally  bool
}

// TeamKills is the running kill count attributed to an alliance.
type TeamKills struct {
	Alliance ID
	Kills    int
}

// Slot is a player seat in a team.
type Slot struct {
	PlayerID string `json:"playerId"`
}

// Team is a lobby team with its reported score.
type Team struct {
	ID      ID
	Slots   []Slot
	Score   int
	Outcome string
}

// Match is the lobby descriptor of the running match.
type Match struct {
	ID      ID
	Started bool
	Teams   []Team
}

// World is the queryable, mutable battle store.
//
// Query methods return fresh snapshots in a stable order (creation order).
// RequestMutation never blocks on the mutation being applied.
type World interface {
	Units() []Unit
	TeamKills() []TeamKills
	Match(id ID) (Match, error)

	CreateAlliance(position int) (Alliance, error)
	CreateCommander(alliance ID, playerID string) (Commander, error)
	CreateUnit(spec UnitSpec) (Unit, error)
	DeleteUnit(id ID) error

	RequestMutation(ctx context.Context, m Mutation) Outcome
}
