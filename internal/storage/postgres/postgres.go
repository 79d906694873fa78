// Package postgres implements the storage.Backend interface on PostgreSQL.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/warstage/samurai-practice/internal/config"
	"github.com/warstage/samurai-practice/internal/database"
	gormstorage "github.com/warstage/samurai-practice/internal/storage/gorm"
)

// Backend wraps the GORM backend with a postgres connection it owns.
type Backend struct {
	*gormstorage.Backend
	cfg     config.PostgresConfig
	manager *database.Manager
}

// New creates a new postgres storage backend. Nothing is opened until Init.
func New(cfg config.PostgresConfig, log zerolog.Logger) *Backend {
	return &Backend{
		cfg:     cfg,
		manager: database.NewManager(log),
	}
}

// Init connects, validates the connection and migrates the schema.
func (b *Backend) Init() error {
	if err := b.manager.Connect(config.StorageConfig{Type: "postgres", Postgres: b.cfg}); err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	b.Backend = gormstorage.New(b.manager.DB)
	return b.Backend.Init()
}

// Close closes the connection pool.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	return b.manager.Close()
}
