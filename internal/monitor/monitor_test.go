package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readStatus(t *testing.T, path string) Status {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var st Status
	require.NoError(t, json.Unmarshal(data, &st))
	return st
}

func TestGetStatus_NoProviders(t *testing.T) {
	s := NewService(Dependencies{})
	st := s.GetStatus()

	assert.False(t, st.MatchStarted)
	assert.Equal(t, 0, st.Wave)
	assert.Equal(t, 0, st.PendingRecords)
	assert.Zero(t, st.LastWriteDurationMs)
	assert.Equal(t, DefaultInterval, s.deps.Interval)
}

func TestWriteStatus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	s := NewService(Dependencies{
		StatusPath:        path,
		MatchStarted:      func() bool { return true },
		Wave:              func() int { return 3 },
		PendingRecords:    func() int { return 42 },
		LastWriteDuration: func() time.Duration { return 1500 * time.Microsecond },
	})

	require.NoError(t, s.WriteStatus())

	st := readStatus(t, path)
	assert.True(t, st.MatchStarted)
	assert.Equal(t, 3, st.Wave)
	assert.Equal(t, 42, st.PendingRecords)
	assert.InDelta(t, 1.5, st.LastWriteDurationMs, 1e-6)
}

func TestWriteStatus_BadPath(t *testing.T) {
	s := NewService(Dependencies{StatusPath: filepath.Join(t.TempDir(), "missing", "status.json")})
	assert.Error(t, s.WriteStatus())
}

func TestStart_RequiresPath(t *testing.T) {
	s := NewService(Dependencies{})
	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestStartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.json")
	wave := 0
	s := NewService(Dependencies{
		StatusPath: path,
		Interval:   5 * time.Millisecond,
		Wave:       func() int { return wave },
	})

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	s.Stop()
	s.Stop()
	assert.False(t, s.IsRunning())
}
