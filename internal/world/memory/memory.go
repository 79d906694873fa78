// Package memory is an in-process World. Mutation requests are applied by
// dispatcher workers, so callers observe them asynchronously exactly as they
// would against a remote store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/warstage/samurai-practice/internal/dispatcher"
	"github.com/warstage/samurai-practice/internal/geo"
	"github.com/warstage/samurai-practice/internal/world"
)

// Gait speeds in battlefield units per second.
const (
	WalkSpeed = 8.0
	RunSpeed  = 16.0
)

const queueSize = 1024

// Verify World implements world.World
var _ world.World = (*World)(nil)

type unitState struct {
	unit      world.Unit
	placement world.Placement
	command   *world.UpdateCommand
}

// World holds every entity in memory.
type World struct {
	mu         sync.RWMutex
	alliances  map[world.ID]world.Alliance
	allyOrder  []world.ID
	commanders map[world.ID]world.Commander
	units      map[world.ID]*unitState
	order      []world.ID
	kills      map[world.ID]int
	matches    map[world.ID]*world.Match

	dispatcher *dispatcher.Dispatcher
}

// New creates an empty world. logger receives dispatcher diagnostics.
func New(logger dispatcher.Logger) (*World, error) {
	d, err := dispatcher.New(logger)
	if err != nil {
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	w := &World{
		alliances:  make(map[world.ID]world.Alliance),
		commanders: make(map[world.ID]world.Commander),
		units:      make(map[world.ID]*unitState),
		kills:      make(map[world.ID]int),
		matches:    make(map[world.ID]*world.Match),
		dispatcher: d,
	}

	d.Register(world.ServiceUpdateCommand, w.handleUpdateCommand, dispatcher.Buffered(queueSize), dispatcher.Logged())
	d.Register(world.ServiceUpdateTeam, w.handleUpdateTeam, dispatcher.Buffered(queueSize), dispatcher.Logged())

	return w, nil
}

// Close drains pending mutations and stops the dispatcher workers.
func (w *World) Close() {
	w.dispatcher.Close()
}

// Units returns live units in creation order.
func (w *World) Units() []world.Unit {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]world.Unit, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, cloneUnit(w.units[id].unit))
	}
	return out
}

// TeamKills returns one entry per alliance.
func (w *World) TeamKills() []world.TeamKills {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]world.TeamKills, 0, len(w.allyOrder))
	for _, id := range w.allyOrder {
		out = append(out, world.TeamKills{Alliance: id, Kills: w.kills[id]})
	}
	return out
}

// Match returns a copy of the match.
func (w *World) Match(id world.ID) (world.Match, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	m, ok := w.matches[id]
	if !ok {
		return world.Match{}, fmt.Errorf("match %s: %w", id, world.ErrUnknownEntity)
	}
	cp := *m
	cp.Teams = append([]world.Team(nil), m.Teams...)
	return cp, nil
}

// CreateAlliance registers a new side.
func (w *World) CreateAlliance(position int) (world.Alliance, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, a := range w.alliances {
		if a.Position == position {
			return world.Alliance{}, fmt.Errorf("alliance at position %d already exists", position)
		}
	}
	a := world.Alliance{ID: uuid.New(), Position: position}
	w.alliances[a.ID] = a
	w.allyOrder = append(w.allyOrder, a.ID)
	return a, nil
}

// CreateCommander registers a commander in an existing alliance.
func (w *World) CreateCommander(alliance world.ID, playerID string) (world.Commander, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.alliances[alliance]; !ok {
		return world.Commander{}, fmt.Errorf("alliance %s: %w", alliance, world.ErrUnknownEntity)
	}
	c := world.Commander{ID: uuid.New(), Alliance: alliance, PlayerID: playerID}
	w.commanders[c.ID] = c
	return c, nil
}

// CreateUnit adds a unit. It has no center until Materialize is called.
func (w *World) CreateUnit(spec world.UnitSpec) (world.Unit, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.alliances[spec.Alliance]; !ok {
		return world.Unit{}, fmt.Errorf("alliance %s: %w", spec.Alliance, world.ErrUnknownEntity)
	}
	if c, ok := w.commanders[spec.Commander]; !ok || c.Alliance != spec.Alliance {
		return world.Unit{}, fmt.Errorf("commander %s: %w", spec.Commander, world.ErrUnknownEntity)
	}

	u := world.Unit{
		ID:           uuid.New(),
		Alliance:     spec.Alliance,
		Commander:    spec.Commander,
		UnitType:     spec.UnitType,
		Marker:       spec.Marker,
		MaximumRange: spec.MaximumRange,
		Fighters:     40,
		CanNotRally:  spec.CanNotRally,
	}
	w.units[u.ID] = &unitState{unit: u, placement: spec.Placement}
	w.order = append(w.order, u.ID)
	return u, nil
}

// DeleteUnit removes a unit.
func (w *World) DeleteUnit(id world.ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.units[id]; !ok {
		return fmt.Errorf("unit %s: %w", id, world.ErrUnknownEntity)
	}
	delete(w.units, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// RequestMutation queues m with the dispatcher. The returned Outcome
// resolves once the mutation is applied or refused.
func (w *World) RequestMutation(ctx context.Context, m world.Mutation) world.Outcome {
	if err := ctx.Err(); err != nil {
		return world.Resolved(err)
	}

	ch := make(chan error, 1)
	_, err := w.dispatcher.Dispatch(dispatcher.Event{
		Service: m.Service(),
		Payload: m,
		Done: func(_ any, err error) {
			ch <- err
			close(ch)
		},
	})
	if err != nil {
		return world.Resolved(fmt.Errorf("%w: %v", world.ErrRejected, err))
	}
	return ch
}

func (w *World) handleUpdateCommand(e dispatcher.Event) (any, error) {
	cmd, ok := e.Payload.(world.UpdateCommand)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", world.ErrRejected, e.Payload)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.units[cmd.Unit]
	if !ok {
		return nil, fmt.Errorf("%w: unit %s: %v", world.ErrRejected, cmd.Unit, world.ErrUnknownEntity)
	}
	if st.unit.Routed {
		return nil, fmt.Errorf("%w: unit %s is routed", world.ErrRejected, cmd.Unit)
	}
	cmd.Path = append(geo.Path(nil), cmd.Path...)
	st.command = &cmd
	return cmd, nil
}

func (w *World) handleUpdateTeam(e dispatcher.Event) (any, error) {
	upd, ok := e.Payload.(world.UpdateTeam)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", world.ErrRejected, e.Payload)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.matches[upd.Match]
	if !ok {
		return nil, fmt.Errorf("%w: match %s: %v", world.ErrRejected, upd.Match, world.ErrUnknownEntity)
	}
	for i := range m.Teams {
		if m.Teams[i].ID == upd.Team {
			m.Teams[i].Score = upd.Score
			m.Teams[i].Outcome = upd.Outcome
			return upd, nil
		}
	}
	return nil, fmt.Errorf("%w: team %s: %v", world.ErrRejected, upd.Team, world.ErrUnknownEntity)
}

func cloneUnit(u world.Unit) world.Unit {
	if u.Center != nil {
		c := *u.Center
		u.Center = &c
	}
	return u
}
