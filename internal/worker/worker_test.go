package worker

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warstage/samurai-practice/internal/model/core"
	"github.com/warstage/samurai-practice/internal/storage/memory"
)

// flakyBackend wraps the memory backend and fails writes while failing is set.
type flakyBackend struct {
	*memory.Backend
	mu      sync.Mutex
	failing bool
}

func (b *flakyBackend) setFailing(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failing = v
}

func (b *flakyBackend) WriteCommands(items []core.CommandRecord) error {
	b.mu.Lock()
	failing := b.failing
	b.mu.Unlock()
	if failing {
		return errors.New("db down")
	}
	return b.Backend.WriteCommands(items)
}

func (b *flakyBackend) GetLastDBWriteDuration() time.Duration {
	return 42 * time.Millisecond
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFlush_WritesAllQueues(t *testing.T) {
	backend := memory.New()
	m := NewManager(backend, discardLogger(), time.Hour)

	m.RecordCommand(core.CommandRecord{UnitID: "a"})
	m.RecordCommand(core.CommandRecord{UnitID: "b"})
	m.RecordDeployment(core.DeploymentRecord{Wave: 2})
	m.RecordOutcome(core.OutcomeRecord{Score: 1})
	assert.Equal(t, 4, m.Pending())

	require.NoError(t, m.Flush())
	assert.Equal(t, 0, m.Pending())

	assert.Len(t, backend.Commands(), 2)
	assert.Equal(t, "a", backend.Commands()[0].UnitID)
	assert.Len(t, backend.Deployments(), 1)
	assert.Len(t, backend.Outcomes(), 1)
}

func TestFlush_RequeuesOnFailure(t *testing.T) {
	backend := &flakyBackend{Backend: memory.New(), failing: true}
	m := NewManager(backend, discardLogger(), time.Hour)

	m.RecordCommand(core.CommandRecord{UnitID: "a"})
	m.RecordOutcome(core.OutcomeRecord{Score: 1})

	err := m.Flush()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commands")
	assert.Equal(t, 1, m.Pending())
	assert.Len(t, backend.Outcomes(), 1)

	m.RecordCommand(core.CommandRecord{UnitID: "b"})
	backend.setFailing(false)
	require.NoError(t, m.Flush())

	cmds := backend.Commands()
	require.Len(t, cmds, 2)
	assert.Equal(t, "a", cmds[0].UnitID)
	assert.Equal(t, "b", cmds[1].UnitID)
}

func TestStartStop_FlushesOnInterval(t *testing.T) {
	backend := memory.New()
	m := NewManager(backend, discardLogger(), 10*time.Millisecond)
	m.Start()

	m.RecordCommand(core.CommandRecord{UnitID: "a"})

	assert.Eventually(t, func() bool {
		return len(backend.Commands()) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	require.NoError(t, m.Stop())
}

func TestStop_FlushesRemaining(t *testing.T) {
	backend := memory.New()
	m := NewManager(backend, discardLogger(), time.Hour)
	m.Start()

	m.RecordDeployment(core.DeploymentRecord{Wave: 0})
	require.NoError(t, m.Stop())

	assert.Len(t, backend.Deployments(), 1)
}

func TestStop_WithoutStart(t *testing.T) {
	backend := memory.New()
	m := NewManager(backend, discardLogger(), time.Hour)
	m.RecordOutcome(core.OutcomeRecord{})

	require.NoError(t, m.Stop())
	assert.Len(t, backend.Outcomes(), 1)
}

func TestNewManager_NonPositiveIntervalUsesDefault(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		backend := memory.New()
		m := NewManager(backend, discardLogger(), interval)
		assert.Equal(t, DefaultFlushInterval, m.interval)

		require.NotPanics(t, m.Start)
		m.RecordOutcome(core.OutcomeRecord{Score: 2})
		require.NoError(t, m.Stop())
		assert.Len(t, backend.Outcomes(), 1)
	}
}

func TestGetLastDBWriteDuration(t *testing.T) {
	assert.Zero(t, NewManager(memory.New(), discardLogger(), time.Hour).GetLastDBWriteDuration())

	flaky := &flakyBackend{Backend: memory.New()}
	assert.Equal(t, 42*time.Millisecond, NewManager(flaky, discardLogger(), time.Hour).GetLastDBWriteDuration())
}
