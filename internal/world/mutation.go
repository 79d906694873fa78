package world

import "github.com/warstage/samurai-practice/internal/geo"

// Service names understood by the world.
const (
	ServiceUpdateCommand = "UpdateCommand"
	ServiceUpdateTeam    = "UpdateTeam"
)

// Mutation is a request to change world state.
type Mutation interface {
	Service() string
}

// UpdateCommand directs a unit along a path with a facing and gait.
// Re-issuing an identical command is a no-op for the simulation.
type UpdateCommand struct {
	Unit    ID
	Path    geo.Path
	Facing  float64
	Running bool
}

func (UpdateCommand) Service() string { return ServiceUpdateCommand }

// UpdateTeam reports a team's outcome text and score to the lobby.
type UpdateTeam struct {
	Match   ID
	Team    ID
	Outcome string
	Score   int
}

func (UpdateTeam) Service() string { return ServiceUpdateTeam }

// Outcome delivers exactly one value, nil on success, then closes.
type Outcome <-chan error

// Resolved returns an already completed Outcome.
func Resolved(err error) Outcome {
	ch := make(chan error, 1)
	ch <- err
	close(ch)
	return ch
}
