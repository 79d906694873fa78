// Command samurai_practice hosts a practice match against scripted waves on
// an in-process world and records the after-action data.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/warstage/samurai-practice/internal/config"
	"github.com/warstage/samurai-practice/internal/influx"
	"github.com/warstage/samurai-practice/internal/logging"
	"github.com/warstage/samurai-practice/internal/monitor"
	intOtel "github.com/warstage/samurai-practice/internal/otel"
	"github.com/warstage/samurai-practice/internal/roster"
	"github.com/warstage/samurai-practice/internal/scenario"
	"github.com/warstage/samurai-practice/internal/world/memory"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion = "0.0.1"
	BuildDate      = "unknown"

	AppName = "samurai_practice"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configDir := "."
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	if err := run(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

func run(configDir string) error {
	sessionStart := time.Now()

	slogManager := logging.NewSlogManager()
	slogManager.Setup("info", logging.Outputs{})
	logger := slogManager.Logger()

	if err := config.Load(configDir); err != nil {
		logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		logger.Info("Loaded config", "dir", configDir)
	}
	level := config.GetString("logLevel")

	logFile, err := openLogFile(config.GetString("logsDir"), sessionStart)
	if err != nil {
		logger.Error("Failed to create/open log file!", "error", err)
	}
	var managerOut io.Writer = os.Stderr
	if logFile != nil {
		managerOut = logFile
		defer logFile.Close()
	}

	var otelProvider *intOtel.Provider
	if otelCfg := config.GetOTelConfig(); otelCfg.Enabled {
		cfg := intOtel.Config{
			Enabled:        true,
			ServiceName:    otelCfg.ServiceName,
			BatchTimeout:   otelCfg.BatchTimeout,
			MetricInterval: otelCfg.MetricInterval,
			Endpoint:       otelCfg.Endpoint,
			Insecure:       otelCfg.Insecure,
		}
		if logFile != nil {
			cfg.LogWriter = logFile
		}
		otelProvider, err = intOtel.New(cfg)
		if err != nil {
			logger.Error("Failed to initialize OTel provider", "error", err)
			otelProvider = nil
		} else {
			logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
		}
	}

	var sinks []io.Writer
	if config.GetBool("graylog.enabled") {
		gw, err := logging.NewGraylogWriter(config.GetString("graylog.address"), AppName)
		if err != nil {
			logger.Error("Failed to connect to graylog", "error", err)
		} else {
			defer gw.Close()
			sinks = append(sinks, gw)
		}
	}

	out := logging.Outputs{Sinks: sinks}
	if logFile != nil {
		out.File = logFile
	}
	if otelProvider != nil {
		out.Provider = otelProvider.LoggerProvider()
	}
	slogManager.Setup(level, out)
	logger = slogManager.Logger()
	logger.Info("Starting up", "version", CurrentVersion, "buildDate", BuildDate)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scenarioCfg := config.GetScenarioConfig()
	r, err := loadRoster(scenarioCfg.RosterFile)
	if err != nil {
		return err
	}

	w, err := memory.New(logging.NewDispatcherLogger(logging.NewZerolog(managerOut, level, "world")))
	if err != nil {
		return fmt.Errorf("failed to create world: %w", err)
	}
	defer w.Close()

	rec, err := startRecording(managerOut, level, logger)
	if err != nil {
		return err
	}

	im := influx.NewManager(logging.NewZerolog(managerOut, level, "influx"), config.GetInfluxConfig())
	var metrics scenario.Metrics
	switch err := im.Connect(ctx); {
	case errors.Is(err, influx.ErrDisabled):
		logger.Info("Influx metrics disabled")
	case err != nil:
		logger.Error("Failed to connect to influx", "error", err)
	default:
		metrics = im
	}

	s, err := scenario.New(scenario.Dependencies{
		World:    w,
		Roster:   r,
		Logger:   logger,
		Config:   scenarioCfg,
		Recorder: rec.worker,
		Metrics:  metrics,
	})
	if err != nil {
		rec.stop(logger)
		return fmt.Errorf("failed to create scenario: %w", err)
	}
	slogManager.SetState(s.Wave, s.MatchStarted)

	status := monitor.NewService(monitor.Dependencies{
		Logger:            logger,
		StatusPath:        filepath.Join(config.GetString("logsDir"), "status.json"),
		MatchStarted:      s.MatchStarted,
		Wave:              s.Wave,
		PendingRecords:    rec.worker.Pending,
		LastWriteDuration: rec.worker.GetLastDBWriteDuration,
	})
	if err := status.Start(); err != nil {
		logger.Error("Failed to start status monitor", "error", err)
	}
	defer status.Stop()

	match := createLobby(w, s.StagingParameters())
	if err := rec.startSession(match.ID, scenarioCfg, sessionStart); err != nil {
		logger.Error("Failed to start recording session", "error", err)
	}
	if err := s.Startup(ctx, match.ID); err != nil {
		rec.stop(logger)
		return fmt.Errorf("failed to start scenario: %w", err)
	}

	simulate(ctx, w, s, match.ID, logger)

	logger.Info("Shutting down", "wave", s.Wave())
	s.Shutdown()
	rec.stop(logger)
	if err := im.Close(); err != nil {
		logger.Error("Failed to close influx", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := slogManager.Flush(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to flush logs: %v\n", err)
	}
	if otelProvider != nil {
		if err := otelProvider.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shut down otel: %v\n", err)
		}
	}
	return nil
}

// openLogFile creates the session log file, moving a previous file with
// the same name aside.
func openLogFile(logsDir string, sessionStart time.Time) (*os.File, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs dir: %w", err)
	}
	path := logging.LogFilePath(logsDir, AppName, sessionStart)
	if _, err := os.Stat(path); err == nil {
		_ = os.Rename(path, path+".old")
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

func loadRoster(path string) (*roster.Roster, error) {
	if path == "" {
		return roster.Default(), nil
	}
	r, err := roster.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	return r, nil
}
