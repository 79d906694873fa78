// Package roster holds the static unit tables of the practice scenario:
// archetypes, the player deployment and the six enemy wave rosters.
package roster

import (
	"errors"
	"fmt"
	"os"

	"github.com/warstage/samurai-practice/internal/geo"
	"gopkg.in/yaml.v3"
)

// WaveCount is the number of wave rosters the sequencer cycles through.
const WaveCount = 6

// ErrUnknownArchetype is returned for placements naming an undefined archetype.
var ErrUnknownArchetype = errors.New("unknown archetype")

// Archetype is a kind of unit that can be spawned.
type Archetype struct {
	UnitType     string  `yaml:"unitType"`
	Marker       string  `yaml:"marker"`
	MaximumRange float64 `yaml:"maximumRange"`
}

// Placement positions one unit of an archetype relative to a formation center.
type Placement struct {
	Archetype string  `yaml:"archetype"`
	Offset    geo.Vec `yaml:"offset"`
}

// Roster is the complete set of tables.
type Roster struct {
	Archetypes map[string]Archetype `yaml:"archetypes"`
	Player     []Placement          `yaml:"player"`
	Waves      [][]Placement        `yaml:"waves"`
}

// Load reads a YAML roster file. Sections absent from the file keep their
// defaults; archetypes are merged by name.
func Load(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML roster data over the defaults and validates the result.
func Parse(data []byte) (*Roster, error) {
	var override Roster
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	r := Default()
	for name, a := range override.Archetypes {
		r.Archetypes[name] = a
	}
	if override.Player != nil {
		r.Player = override.Player
	}
	if override.Waves != nil {
		r.Waves = override.Waves
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks wave count and that every placement names a known archetype.
func (r *Roster) Validate() error {
	if len(r.Waves) != WaveCount {
		return fmt.Errorf("roster must define %d waves, got %d", WaveCount, len(r.Waves))
	}
	check := func(section string, ps []Placement) error {
		for i, p := range ps {
			if _, ok := r.Archetypes[p.Archetype]; !ok {
				return fmt.Errorf("%s placement %d: %w: %q", section, i, ErrUnknownArchetype, p.Archetype)
			}
		}
		return nil
	}
	if err := check("player", r.Player); err != nil {
		return err
	}
	for w, ps := range r.Waves {
		if err := check(fmt.Sprintf("wave %d", w), ps); err != nil {
			return err
		}
	}
	return nil
}

// Archetype looks up an archetype by name.
func (r *Roster) Archetype(name string) (Archetype, error) {
	a, ok := r.Archetypes[name]
	if !ok {
		return Archetype{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	return a, nil
}

// Wave returns the placements of wave n (taken modulo WaveCount).
func (r *Roster) Wave(n int) []Placement {
	return r.Waves[((n%WaveCount)+WaveCount)%WaveCount]
}
