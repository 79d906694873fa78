package scenario

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/warstage/samurai-practice/internal/scenario"

func (s *Scenario) initMetrics() error {
	m := otel.Meter(instrumentationName)

	var err error
	if s.issued, err = m.Int64Counter(
		"scenario.commands.issued",
		metric.WithDescription("Maneuver commands issued to scripted units"),
	); err != nil {
		return fmt.Errorf("creating issued counter: %w", err)
	}
	if s.rejected, err = m.Int64Counter(
		"scenario.mutations.rejected",
		metric.WithDescription("Mutation requests refused by the world"),
	); err != nil {
		return fmt.Errorf("creating rejected counter: %w", err)
	}
	if s.spawned, err = m.Int64Counter(
		"scenario.waves.spawned",
		metric.WithDescription("Enemy waves spawned"),
	); err != nil {
		return fmt.Errorf("creating spawned counter: %w", err)
	}
	if s.pruned, err = m.Int64Counter(
		"scenario.units.pruned",
		metric.WithDescription("Units removed after losing all fighters or by gesture"),
	); err != nil {
		return fmt.Errorf("creating pruned counter: %w", err)
	}
	return nil
}
