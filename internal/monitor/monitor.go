// Package monitor periodically writes a status snapshot of the running
// scenario and its recording pipeline to a file.
package monitor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"
)

// DefaultInterval is how often the status file is rewritten.
const DefaultInterval = time.Second

// Status is one snapshot.
type Status struct {
	Time                time.Time `json:"time"`
	MatchStarted        bool      `json:"matchStarted"`
	Wave                int       `json:"wave"`
	PendingRecords      int       `json:"pendingRecords"`
	LastWriteDurationMs float32   `json:"lastWriteDurationMs"`
}

// Dependencies holds all dependencies for the monitor service
type Dependencies struct {
	Logger     *slog.Logger
	StatusPath string
	Interval   time.Duration

	MatchStarted      func() bool
	Wave              func() int
	PendingRecords    func() int
	LastWriteDuration func() time.Duration
}

// Service manages status monitoring
type Service struct {
	deps      Dependencies
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
	done      chan struct{}
}

// NewService creates a new monitor service
func NewService(deps Dependencies) *Service {
	if deps.Interval <= 0 {
		deps.Interval = DefaultInterval
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Service{deps: deps}
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetStatus collects a snapshot. Unset providers report zero values.
func (s *Service) GetStatus() Status {
	st := Status{Time: time.Now()}
	if s.deps.MatchStarted != nil {
		st.MatchStarted = s.deps.MatchStarted()
	}
	if s.deps.Wave != nil {
		st.Wave = s.deps.Wave()
	}
	if s.deps.PendingRecords != nil {
		st.PendingRecords = s.deps.PendingRecords()
	}
	if s.deps.LastWriteDuration != nil {
		st.LastWriteDurationMs = float32(s.deps.LastWriteDuration().Microseconds()) / 1000
	}
	return st
}

// WriteStatus replaces the status file with the current snapshot.
func (s *Service) WriteStatus() error {
	data, err := json.MarshalIndent(s.GetStatus(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal status: %w", err)
	}
	if err := os.WriteFile(s.deps.StatusPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write status file: %w", err)
	}
	return nil
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if s.deps.StatusPath == "" {
		s.mu.Unlock()
		return fmt.Errorf("monitor needs a status path")
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.loop(s.stopChan, s.done)
	return nil
}

func (s *Service) loop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	s.deps.Logger.Debug("Starting status monitor", "path", s.deps.StatusPath, "interval", s.deps.Interval)
	ticker := time.NewTicker(s.deps.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := s.WriteStatus(); err != nil {
				s.deps.Logger.Error("Error writing status file", "error", err)
			}
		}
	}
}

// Stop stops the status monitor and waits for the goroutine to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done
}
