// Package worker batches after-action records and flushes them to the
// storage backend on an interval.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/warstage/samurai-practice/internal/model/core"
	"github.com/warstage/samurai-practice/internal/queue"
	"github.com/warstage/samurai-practice/internal/storage"
)

// queueLimit bounds each record queue while the backend is unreachable.
const queueLimit = 100000

// DefaultFlushInterval is used when NewManager is given a non-positive interval.
const DefaultFlushInterval = 5 * time.Second

// Manager owns the record queues and the flush goroutine.
type Manager struct {
	backend  storage.Backend
	log      *slog.Logger
	interval time.Duration

	commands    *queue.Queue[core.CommandRecord]
	deployments *queue.Queue[core.DeploymentRecord]
	outcomes    *queue.Queue[core.OutcomeRecord]

	flushMu  sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// NewManager creates a new worker manager
func NewManager(backend storage.Backend, log *slog.Logger, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Manager{
		backend:     backend,
		log:         log,
		interval:    interval,
		commands:    queue.New[core.CommandRecord](queueLimit),
		deployments: queue.New[core.DeploymentRecord](queueLimit),
		outcomes:    queue.New[core.OutcomeRecord](queueLimit),
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// RecordCommand queues a command record.
func (m *Manager) RecordCommand(r core.CommandRecord) {
	if n := m.commands.Push(r); n > 0 {
		m.log.Warn("record queue full, dropped oldest", "queue", "commands", "dropped", n)
	}
}

// RecordDeployment queues a deployment record.
func (m *Manager) RecordDeployment(r core.DeploymentRecord) {
	if n := m.deployments.Push(r); n > 0 {
		m.log.Warn("record queue full, dropped oldest", "queue", "deployments", "dropped", n)
	}
}

// RecordOutcome queues an outcome record.
func (m *Manager) RecordOutcome(r core.OutcomeRecord) {
	if n := m.outcomes.Push(r); n > 0 {
		m.log.Warn("record queue full, dropped oldest", "queue", "outcomes", "dropped", n)
	}
}

// Pending returns the number of queued records across all queues.
func (m *Manager) Pending() int {
	return m.commands.Len() + m.deployments.Len() + m.outcomes.Len()
}

// Start launches the flush loop. It must be called at most once.
func (m *Manager) Start() {
	m.started = true
	go m.flushLoop()
}

func (m *Manager) flushLoop() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopChan:
			return
		case <-ticker.C:
			if err := m.Flush(); err != nil {
				m.log.Error("flush failed, records requeued", "error", err)
			}
		}
	}
}

// Flush writes every queued record. Batches the backend refuses are put
// back at the front of their queue.
func (m *Manager) Flush() error {
	m.flushMu.Lock()
	defer m.flushMu.Unlock()

	return errors.Join(
		flushQueue(m.commands, "commands", m.backend.WriteCommands),
		flushQueue(m.deployments, "deployments", m.backend.WriteDeployments),
		flushQueue(m.outcomes, "outcomes", m.backend.WriteOutcomes),
	)
}

func flushQueue[T any](q *queue.Queue[T], name string, write func([]T) error) error {
	if q.Empty() {
		return nil
	}
	items := q.Drain()
	if err := write(items); err != nil {
		q.Requeue(items...)
		return fmt.Errorf("writing %d %s: %w", len(items), name, err)
	}
	return nil
}

// Stop ends the flush loop and writes whatever is still queued. It is safe
// to call more than once.
func (m *Manager) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		close(m.stopChan)
		if m.started {
			<-m.done
		}
		err = m.Flush()
	})
	return err
}

// DBWriteDurationProvider is an optional interface that backends can implement
// to expose their last DB write duration for monitoring.
type DBWriteDurationProvider interface {
	GetLastDBWriteDuration() time.Duration
}

// GetLastDBWriteDuration returns the duration of the last DB write cycle.
// Returns 0 if the backend doesn't support this metric.
func (m *Manager) GetLastDBWriteDuration() time.Duration {
	if p, ok := m.backend.(DBWriteDurationProvider); ok {
		return p.GetLastDBWriteDuration()
	}
	return 0
}
