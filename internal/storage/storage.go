// Package storage records the after-action history of a practice session.
package storage

import (
	"github.com/warstage/samurai-practice/internal/model/core"
)

// Backend is the interface all storage implementations must satisfy.
// Writes arrive in batches from the worker flush loop.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// StartSession registers a session and assigns s.ID. Records written
	// afterwards belong to it.
	StartSession(s *core.Session) error

	WriteCommands(items []core.CommandRecord) error
	WriteDeployments(items []core.DeploymentRecord) error
	WriteOutcomes(items []core.OutcomeRecord) error
}
