// Package sqlitestorage implements the storage.Backend interface on SQLite,
// either a file or a private in-memory database that can be copied to disk
// on close with VACUUM INTO.
package sqlitestorage

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/warstage/samurai-practice/internal/config"
	"github.com/warstage/samurai-practice/internal/database"
	gormstorage "github.com/warstage/samurai-practice/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg     config.SQLiteConfig
	manager *database.Manager
}

// New creates a new SQLite storage backend. Nothing is opened until Init.
func New(cfg config.SQLiteConfig, log zerolog.Logger) *Backend {
	return &Backend{
		cfg:     cfg,
		manager: database.NewManager(log),
	}
}

// Init opens the database and migrates the schema.
func (b *Backend) Init() error {
	if err := b.manager.Connect(config.StorageConfig{Type: "sqlite", SQLite: b.cfg}); err != nil {
		return err
	}
	b.Backend = gormstorage.New(b.manager.DB)
	return b.Backend.Init()
}

// Close dumps the database if a dump path is configured, then closes it.
func (b *Backend) Close() error {
	if b.Backend == nil {
		return nil
	}
	var dumpErr error
	if b.cfg.DumpPath != "" {
		if err := b.manager.DumpToDisk(b.cfg.DumpPath); err != nil {
			dumpErr = fmt.Errorf("failed to dump sqlite db: %w", err)
		} else {
			b.manager.Logger.Info().Str("path", b.cfg.DumpPath).Msg("Dumped SQLite DB to disk")
		}
	}
	if err := b.manager.Close(); err != nil {
		return err
	}
	return dumpErr
}
