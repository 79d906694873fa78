package gormstorage

import (
	"io"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warstage/samurai-practice/internal/database"
	"github.com/warstage/samurai-practice/internal/geo"
	"github.com/warstage/samurai-practice/internal/model"
	"github.com/warstage/samurai-practice/internal/model/convert"
	"github.com/warstage/samurai-practice/internal/model/core"
)

// newTestBackend creates a Backend on a private in-memory SQLite database.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	db, err := database.NewManager(zerolog.New(io.Discard)).GetSqliteDB("")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	b := New(db)
	require.NoError(t, b.Init())
	return b
}

func startSession(t *testing.T, b *Backend) uint {
	t.Helper()
	s := &core.Session{MatchID: "m1", Title: "practice", Map: "Maps/Practice.png", StartTime: time.Now()}
	require.NoError(t, b.StartSession(s))
	require.NotZero(t, s.ID)
	return s.ID
}

func TestInit_NoDB(t *testing.T) {
	assert.Error(t, New(nil).Init())
}

func TestStartSession(t *testing.T) {
	b := newTestBackend(t)
	assert.Zero(t, b.SessionID())

	id := startSession(t, b)
	assert.Equal(t, id, b.SessionID())

	var row model.Session
	require.NoError(t, b.DB().First(&row, id).Error)
	assert.Equal(t, "practice", row.Title)
}

func TestWriteCommands(t *testing.T) {
	b := newTestBackend(t)
	id := startSession(t, b)

	items := []core.CommandRecord{
		{Tick: 1, UnitID: "a", Maneuver: "advance", Path: geo.Path{geo.V(0, 0), geo.V(10, 20)}, Facing: 0.5},
		{Tick: 1, UnitID: "b", Maneuver: "hold", Path: geo.Path{}},
	}
	require.NoError(t, b.WriteCommands(items))

	var rows []model.Command
	require.NoError(t, b.DB().Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, id, r.SessionID)
	}

	rec, err := convert.CommandToCore(rows[0])
	require.NoError(t, err)
	assert.Equal(t, geo.Path{geo.V(0, 0), geo.V(10, 20)}, rec.Path)
	assert.Equal(t, "advance", rec.Maneuver)
	assert.Greater(t, b.GetLastDBWriteDuration(), time.Duration(0))
}

func TestWriteDeployments(t *testing.T) {
	b := newTestBackend(t)
	startSession(t, b)

	dep := core.DeploymentRecord{
		Wave:       1,
		Center:     geo.V(512, 712),
		Placements: []core.Placement{{Archetype: "ash_bow", X: 472, Y: 712}},
	}
	require.NoError(t, b.WriteDeployments([]core.DeploymentRecord{dep}))

	var rows []model.Deployment
	require.NoError(t, b.DB().Find(&rows).Error)
	require.Len(t, rows, 1)

	got, err := convert.DeploymentToCore(rows[0])
	require.NoError(t, err)
	assert.Equal(t, dep.Placements, got.Placements)
	assert.Equal(t, dep.Center, got.Center)
}

func TestWriteDeployments_UnencodableBatchInsertsNothing(t *testing.T) {
	b := newTestBackend(t)
	startSession(t, b)

	good := core.DeploymentRecord{Wave: 1, Center: geo.V(512, 712)}
	bad := core.DeploymentRecord{Wave: 2, Placements: []core.Placement{{Archetype: "ash_bow", X: math.NaN()}}}
	require.Error(t, b.WriteDeployments([]core.DeploymentRecord{good, bad}))

	var count int64
	require.NoError(t, b.DB().Model(&model.Deployment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWriteOutcomes(t *testing.T) {
	b := newTestBackend(t)
	startSession(t, b)

	require.NoError(t, b.WriteOutcomes([]core.OutcomeRecord{
		{TeamID: "t", Outcome: "Kills: 1", Score: 1},
		{TeamID: "t", Outcome: "Kills: 2", Score: 2},
	}))

	var count int64
	require.NoError(t, b.DB().Model(&model.Outcome{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestWrite_EmptyBatch(t *testing.T) {
	b := newTestBackend(t)

	assert.NoError(t, b.WriteCommands(nil))
	assert.NoError(t, b.WriteDeployments(nil))
	assert.NoError(t, b.WriteOutcomes(nil))
}
