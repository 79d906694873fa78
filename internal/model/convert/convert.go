package convert

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/warstage/samurai-practice/internal/geo"
	"github.com/warstage/samurai-practice/internal/model"
	"github.com/warstage/samurai-practice/internal/model/core"
)

// SessionToCore converts a GORM Session to a core.Session.
func SessionToCore(s model.Session) core.Session {
	return core.Session{
		ID:        s.ID,
		MatchID:   s.MatchID,
		Title:     s.Title,
		Map:       s.Map,
		StartTime: s.StartTime,
	}
}

// CommandToCore converts a GORM Command back to a record. It fails only if
// the stored path is not a LineString.
func CommandToCore(c model.Command) (core.CommandRecord, error) {
	path, err := wkbToPath(c.Path)
	if err != nil {
		return core.CommandRecord{}, fmt.Errorf("command %d: %w", c.ID, err)
	}
	return core.CommandRecord{
		Time:     c.Time,
		Tick:     c.Tick,
		UnitID:   c.UnitID,
		UnitType: c.UnitType,
		TargetID: c.TargetID,
		Maneuver: c.Maneuver,
		Path:     path,
		Facing:   c.Facing,
		Running:  c.Running,
	}, nil
}

// DeploymentToCore converts a GORM Deployment back to a record. It fails if
// the stored placements are not a JSON placement list.
func DeploymentToCore(d model.Deployment) (core.DeploymentRecord, error) {
	var placements []core.Placement
	if len(d.Placements) > 0 {
		if err := json.Unmarshal(d.Placements, &placements); err != nil {
			return core.DeploymentRecord{}, fmt.Errorf("deployment %d: %w", d.ID, err)
		}
	}
	return core.DeploymentRecord{
		Time:       d.Time,
		Tick:       d.Tick,
		Wave:       d.Wave,
		Center:     geo.V(d.CenterX, d.CenterY),
		Angle:      d.Angle,
		Placements: placements,
	}, nil
}

// OutcomeToCore converts a GORM Outcome back to a record.
func OutcomeToCore(o model.Outcome) core.OutcomeRecord {
	return core.OutcomeRecord{
		Time:    o.Time,
		TeamID:  o.TeamID,
		Outcome: o.Outcome,
		Score:   o.Score,
	}
}

func wkbToPath(wkb []byte) (geo.Path, error) {
	if len(wkb) == 0 {
		return geo.Path{}, nil
	}
	g, err := geom.UnmarshalWKB(wkb)
	if err != nil {
		return nil, fmt.Errorf("failed to parse path WKB: %w", err)
	}
	ls, ok := g.AsLineString()
	if !ok {
		return nil, fmt.Errorf("expected LINESTRING, got %s", g.Type())
	}
	return geo.PathFromLineString(ls), nil
}
