package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warstage/samurai-practice/internal/geo"
	"github.com/warstage/samurai-practice/internal/world"
)

// Simulation hooks used by the demo host and by tests. Combat is not
// modeled; callers drive fighters, routing and kills explicitly.

// CreateMatch registers a match with one team per slot list.
func (w *World) CreateMatch(teams ...[]world.Slot) world.Match {
	w.mu.Lock()
	defer w.mu.Unlock()

	m := &world.Match{ID: uuid.New()}
	for _, slots := range teams {
		m.Teams = append(m.Teams, world.Team{ID: uuid.New(), Slots: slots})
	}
	w.matches[m.ID] = m
	cp := *m
	cp.Teams = append([]world.Team(nil), m.Teams...)
	return cp
}

// StartMatch flags the match as started.
func (w *World) StartMatch(id world.ID) error {
	return w.withMatch(id, func(m *world.Match) { m.Started = true })
}

// Materialize gives every unit without a center its placement position.
func (w *World) Materialize() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, st := range w.units {
		if st.unit.Center == nil {
			c := geo.V(st.placement.X, st.placement.Y)
			st.unit.Center = &c
		}
	}
}

// Step advances every commanded unit along its path for dt.
func (w *World) Step(dt time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, st := range w.units {
		if st.unit.Center == nil || st.command == nil || len(st.command.Path) == 0 {
			continue
		}
		speed := WalkSpeed
		if st.command.Running {
			speed = RunSpeed
		}
		budget := speed * dt.Seconds()
		pos := *st.unit.Center
		dest := st.command.Path[len(st.command.Path)-1]
		remaining := dest.Sub(pos)
		if remaining.Length() <= budget {
			pos = dest
			st.command.Path = nil
		} else {
			pos = pos.Add(remaining.Normalize().Scale(budget))
		}
		st.unit.Center = &pos
	}
}

// SetPosition moves a unit directly, materializing it if needed.
func (w *World) SetPosition(id world.ID, p geo.Vec) error {
	return w.withUnit(id, func(st *unitState) {
		st.unit.Center = &p
	})
}

// SetRouted flags a unit as fleeing.
func (w *World) SetRouted(id world.ID, routed bool) error {
	return w.withUnit(id, func(st *unitState) { st.unit.Routed = routed })
}

// SetFighters sets a unit's remaining fighter count.
func (w *World) SetFighters(id world.ID, n int) error {
	return w.withUnit(id, func(st *unitState) { st.unit.Fighters = n })
}

// MarkDeletedByGesture flags a unit the way a player delete gesture does.
func (w *World) MarkDeletedByGesture(id world.ID) error {
	return w.withUnit(id, func(st *unitState) { st.unit.DeletedByGesture = true })
}

// AddKills credits kills to an alliance.
func (w *World) AddKills(alliance world.ID, n int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.alliances[alliance]; !ok {
		return fmt.Errorf("alliance %s: %w", alliance, world.ErrUnknownEntity)
	}
	w.kills[alliance] += n
	return nil
}

// Command returns the last command applied to a unit.
func (w *World) Command(id world.ID) (world.UpdateCommand, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	st, ok := w.units[id]
	if !ok || st.command == nil {
		return world.UpdateCommand{}, false
	}
	return *st.command, true
}

// Placement returns the placement a unit was created with.
func (w *World) Placement(id world.ID) (world.Placement, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	st, ok := w.units[id]
	if !ok {
		return world.Placement{}, false
	}
	return st.placement, true
}

// Commanders returns all commanders of an alliance.
func (w *World) Commanders(alliance world.ID) []world.Commander {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var out []world.Commander
	for _, c := range w.commanders {
		if c.Alliance == alliance {
			out = append(out, c)
		}
	}
	return out
}

func (w *World) withUnit(id world.ID, fn func(*unitState)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.units[id]
	if !ok {
		return fmt.Errorf("unit %s: %w", id, world.ErrUnknownEntity)
	}
	fn(st)
	return nil
}

func (w *World) withMatch(id world.ID, fn func(*world.Match)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.matches[id]
	if !ok {
		return fmt.Errorf("match %s: %w", id, world.ErrUnknownEntity)
	}
	fn(m)
	return nil
}
