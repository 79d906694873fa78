// Package gormstorage implements the storage.Backend interface on any GORM
// dialect. The sqlite and postgres backends wrap it and own the connection.
package gormstorage

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/warstage/samurai-practice/internal/model"
	"github.com/warstage/samurai-practice/internal/model/convert"
	"github.com/warstage/samurai-practice/internal/model/core"
	"gorm.io/gorm"
)

// Backend writes record batches in one transaction per batch.
type Backend struct {
	db            *gorm.DB
	sessionID     atomic.Uint64
	lastWriteNano atomic.Int64
}

// New creates a backend on an open connection.
func New(db *gorm.DB) *Backend {
	return &Backend{db: db}
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.db
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if b.db == nil {
		return fmt.Errorf("no database connection")
	}
	if err := b.db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close is a no-op; the connection belongs to the caller.
func (b *Backend) Close() error {
	return nil
}

// StartSession inserts the session row and remembers its ID.
func (b *Backend) StartSession(s *core.Session) error {
	row := convert.CoreToSession(*s)
	if err := b.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	s.ID = row.ID
	b.sessionID.Store(uint64(row.ID))
	return nil
}

// SessionID returns the current session, 0 before StartSession.
func (b *Backend) SessionID() uint {
	return uint(b.sessionID.Load())
}

// GetLastDBWriteDuration returns how long the last batch insert took.
func (b *Backend) GetLastDBWriteDuration() time.Duration {
	return time.Duration(b.lastWriteNano.Load())
}

// WriteCommands converts and inserts command records.
func (b *Backend) WriteCommands(items []core.CommandRecord) error {
	if len(items) == 0 {
		return nil
	}
	sessionID := b.SessionID()
	rows := make([]model.Command, len(items))
	for i, item := range items {
		row, err := convert.CoreToCommand(item)
		if err != nil {
			return err
		}
		row.SessionID = sessionID
		rows[i] = row
	}
	return b.insert("commands", &rows)
}

// WriteDeployments converts and inserts deployment records.
func (b *Backend) WriteDeployments(items []core.DeploymentRecord) error {
	if len(items) == 0 {
		return nil
	}
	sessionID := b.SessionID()
	rows := make([]model.Deployment, len(items))
	for i, item := range items {
		row, err := convert.CoreToDeployment(item)
		if err != nil {
			return err
		}
		row.SessionID = sessionID
		rows[i] = row
	}
	return b.insert("deployments", &rows)
}

// WriteOutcomes converts and inserts outcome records.
func (b *Backend) WriteOutcomes(items []core.OutcomeRecord) error {
	if len(items) == 0 {
		return nil
	}
	sessionID := b.SessionID()
	rows := make([]model.Outcome, len(items))
	for i, item := range items {
		rows[i] = convert.CoreToOutcome(item)
		rows[i].SessionID = sessionID
	}
	return b.insert("outcomes", &rows)
}

func (b *Backend) insert(name string, rows any) error {
	start := time.Now()
	err := b.db.Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Session").Create(rows).Error
	})
	b.lastWriteNano.Store(int64(time.Since(start)))
	if err != nil {
		return fmt.Errorf("error creating %s: %w", name, err)
	}
	return nil
}
