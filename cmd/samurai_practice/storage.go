package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/warstage/samurai-practice/internal/config"
	"github.com/warstage/samurai-practice/internal/logging"
	"github.com/warstage/samurai-practice/internal/model/core"
	"github.com/warstage/samurai-practice/internal/storage"
	"github.com/warstage/samurai-practice/internal/worker"
	"github.com/warstage/samurai-practice/internal/world"
)

// recording pairs the storage backend with the worker flushing into it.
type recording struct {
	backend storage.Backend
	worker  *worker.Manager
}

func startRecording(out io.Writer, level string, logger *slog.Logger) (*recording, error) {
	storageCfg := config.GetStorageConfig()

	backend, err := storage.NewBackend(storageCfg, logging.NewZerolog(out, level, "storage"))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}
	if err := backend.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize %s storage backend: %w", storageCfg.Type, err)
	}
	logger.Info("Storage backend initialized", "type", storageCfg.Type)

	m := worker.NewManager(backend, logger.With("component", "worker"), storageCfg.FlushInterval)
	m.Start()
	return &recording{backend: backend, worker: m}, nil
}

func (r *recording) startSession(matchID world.ID, cfg config.ScenarioConfig, start time.Time) error {
	return r.backend.StartSession(&core.Session{
		MatchID:   matchID.String(),
		Title:     cfg.Title,
		Map:       cfg.Map,
		StartTime: start,
	})
}

// stop flushes what is left and closes the backend.
func (r *recording) stop(logger *slog.Logger) {
	if err := r.worker.Stop(); err != nil {
		logger.Error("Failed to flush records", "error", err)
	}
	logger.Debug("Last DB write", "duration", r.worker.GetLastDBWriteDuration())
	if err := r.backend.Close(); err != nil {
		logger.Error("Failed to close storage backend", "error", err)
	}
}
