// Package memory keeps session records in memory. It is the default backend
// when no database is configured.
package memory

import (
	"sync"

	"github.com/warstage/samurai-practice/internal/model/core"
)

// Backend stores records in slices guarded by a mutex.
type Backend struct {
	session     *core.Session
	commands    []core.CommandRecord
	deployments []core.DeploymentRecord
	outcomes    []core.OutcomeRecord

	idCounter uint
	mu        sync.RWMutex
}

// New creates a new memory backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// StartSession begins a new session, discarding records of the previous one.
func (b *Backend) StartSession(s *core.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.idCounter++
	s.ID = b.idCounter
	cp := *s
	b.session = &cp

	b.commands = nil
	b.deployments = nil
	b.outcomes = nil
	return nil
}

// WriteCommands appends command records.
func (b *Backend) WriteCommands(items []core.CommandRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.commands = append(b.commands, items...)
	return nil
}

// WriteDeployments appends deployment records.
func (b *Backend) WriteDeployments(items []core.DeploymentRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deployments = append(b.deployments, items...)
	return nil
}

// WriteOutcomes appends outcome records.
func (b *Backend) WriteOutcomes(items []core.OutcomeRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outcomes = append(b.outcomes, items...)
	return nil
}

// Session returns the current session, if any.
func (b *Backend) Session() (core.Session, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.session == nil {
		return core.Session{}, false
	}
	return *b.session, true
}

// Commands returns a copy of the recorded commands.
func (b *Backend) Commands() []core.CommandRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.CommandRecord(nil), b.commands...)
}

// Deployments returns a copy of the recorded deployments.
func (b *Backend) Deployments() []core.DeploymentRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.DeploymentRecord(nil), b.deployments...)
}

// Outcomes returns a copy of the recorded outcomes.
func (b *Backend) Outcomes() []core.OutcomeRecord {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]core.OutcomeRecord(nil), b.outcomes...)
}
