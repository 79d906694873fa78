// Package scenario runs the practice match: it sets up the two sides,
// drives the scripted enemy on a command tick and reports kills on an
// outcome tick.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warstage/samurai-practice/internal/config"
	"github.com/warstage/samurai-practice/internal/model/core"
	"github.com/warstage/samurai-practice/internal/roster"
	"github.com/warstage/samurai-practice/internal/wave"
	"github.com/warstage/samurai-practice/internal/world"
	"go.opentelemetry.io/otel/metric"
)

// Default tick intervals.
const (
	DefaultCommandInterval = 2 * time.Second
	DefaultOutcomeInterval = 250 * time.Millisecond
)

// EnemyPlayerID is the player id of the scripted commander.
const EnemyPlayerID = "$"

// Alliance positions.
const (
	PlayerPosition = 1
	EnemyPosition  = 2
)

// ErrAlreadyStarted is returned by Startup when called twice.
var ErrAlreadyStarted = errors.New("scenario already started up")

// Recorder receives after-action records. Implementations must not block.
type Recorder interface {
	RecordCommand(core.CommandRecord)
	RecordDeployment(core.DeploymentRecord)
	RecordOutcome(core.OutcomeRecord)
}

// Metrics receives one sample per command tick.
type Metrics interface {
	ObserveTick(ctx context.Context, s core.TickStats)
}

// Dependencies holds all dependencies for the scenario.
type Dependencies struct {
	World  world.World
	Roster *roster.Roster
	Logger *slog.Logger
	Config config.ScenarioConfig

	// Optional
	Recorder Recorder
	Metrics  Metrics
}

// Scenario is created once per match.
type Scenario struct {
	deps Dependencies
	seq  *wave.Sequencer

	// lifecycle
	mu       sync.Mutex
	matchID  world.ID
	hasMatch bool
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	running  bool
	stopOnce sync.Once
	pending  sync.WaitGroup

	// written once at match start
	playerAlliance   world.Alliance
	enemyAlliance    world.Alliance
	enemyCommander   world.Commander
	playerCommanders []world.Commander

	started  atomic.Bool
	waveNum  atomic.Int64
	tick     atomic.Uint64
	reported map[world.ID]int

	issued   metric.Int64Counter
	rejected metric.Int64Counter
	spawned  metric.Int64Counter
	pruned   metric.Int64Counter
}

// New creates a scenario. Missing intervals and roster fall back to defaults.
func New(deps Dependencies) (*Scenario, error) {
	if deps.World == nil {
		return nil, errors.New("scenario needs a world")
	}
	if deps.Roster == nil {
		deps.Roster = roster.Default()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Recorder == nil {
		deps.Recorder = nopRecorder{}
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Config.CommandInterval <= 0 {
		deps.Config.CommandInterval = DefaultCommandInterval
	}
	if deps.Config.OutcomeInterval <= 0 {
		deps.Config.OutcomeInterval = DefaultOutcomeInterval
	}

	s := &Scenario{
		deps:     deps,
		seq:      wave.NewSequencer(deps.Roster),
		done:     make(chan struct{}),
		reported: make(map[world.ID]int),
	}
	if err := s.initMetrics(); err != nil {
		return nil, err
	}
	return s, nil
}

// Wave returns the number of the next wave to spawn.
func (s *Scenario) Wave() int {
	return int(s.waveNum.Load())
}

// MatchStarted reports whether the match has started and the sides exist.
func (s *Scenario) MatchStarted() bool {
	return s.started.Load()
}

// Alliances returns the player and enemy alliances. Both are zero before
// the match starts.
func (s *Scenario) Alliances() (player, enemy world.Alliance) {
	return s.playerAlliance, s.enemyAlliance
}

// Startup binds the scenario to a match and starts it if the match has
// already started. ctx bounds the scenario's lifetime.
func (s *Scenario) Startup(ctx context.Context, matchID world.ID) error {
	s.mu.Lock()
	if s.hasMatch {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	if _, err := s.deps.World.Match(matchID); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("startup: %w", err)
	}
	s.matchID = matchID
	s.hasMatch = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.deps.Logger.Info("scenario startup", "match", matchID)
	return s.TryStartMatch()
}

// TryStartMatch starts the match once it is flagged as started. Calls
// before that, or after the first successful start, do nothing.
func (s *Scenario) TryStartMatch() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasMatch || s.started.Load() || s.ctx.Err() != nil {
		return nil
	}
	m, err := s.deps.World.Match(s.matchID)
	if err != nil {
		return fmt.Errorf("try start match: %w", err)
	}
	if !m.Started {
		return nil
	}
	if err := s.onMatchStarted(m); err != nil {
		return fmt.Errorf("starting match: %w", err)
	}
	return nil
}

// onMatchStarted runs with mu held.
func (s *Scenario) onMatchStarted(m world.Match) error {
	if err := s.setupAlliancesAndCommanders(m); err != nil {
		return err
	}
	s.started.Store(true)
	s.spawnPlayerUnits()

	s.deps.Logger.Info("match started",
		"match", m.ID,
		"commanders", len(s.playerCommanders),
		"commandInterval", s.deps.Config.CommandInterval,
		"outcomeInterval", s.deps.Config.OutcomeInterval)

	s.IssueCommands(s.ctx)
	s.UpdateOutcome(s.ctx)

	s.running = true
	go s.run(s.ctx)
	return nil
}

// run is the tick loop. Both tickers stop together when ctx ends.
func (s *Scenario) run(ctx context.Context) {
	defer close(s.done)

	commandTicker := time.NewTicker(s.deps.Config.CommandInterval)
	defer commandTicker.Stop()
	outcomeTicker := time.NewTicker(s.deps.Config.OutcomeInterval)
	defer outcomeTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-commandTicker.C:
			s.IssueCommands(ctx)
		case <-outcomeTicker.C:
			s.PruneUnits()
			s.UpdateOutcome(ctx)
		}
	}
}

// Shutdown stops both ticks and waits for the loop and for outstanding
// mutation outcomes. It is safe to call more than once.
func (s *Scenario) Shutdown() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.cancel != nil {
			s.cancel()
		}
		running := s.running
		s.mu.Unlock()

		if running {
			<-s.done
		}
		s.pending.Wait()
		s.deps.Logger.Info("scenario shut down", "ticks", s.tick.Load(), "wave", s.Wave())
	})
}

// await logs the outcome of a mutation request once it resolves.
func (s *Scenario) await(ctx context.Context, service string, subject world.ID, outcome world.Outcome) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		var err error
		select {
		case err = <-outcome:
		case <-ctx.Done():
			return
		}
		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			s.deps.Logger.Debug("mutation abandoned", "service", service, "subject", subject)
		default:
			s.rejected.Add(context.Background(), 1)
			s.deps.Logger.Error("mutation rejected", "service", service, "subject", subject, "error", err)
		}
	}()
}

type nopRecorder struct{}

func (nopRecorder) RecordCommand(core.CommandRecord)       {}
func (nopRecorder) RecordDeployment(core.DeploymentRecord) {}
func (nopRecorder) RecordOutcome(core.OutcomeRecord)       {}

type nopMetrics struct{}

func (nopMetrics) ObserveTick(context.Context, core.TickStats) {}
