// Package convert provides functions to convert between GORM models and core records
package convert

import (
	"encoding/json"
	"fmt"

	"github.com/warstage/samurai-practice/internal/model"
	"github.com/warstage/samurai-practice/internal/model/core"
	"gorm.io/datatypes"
)

// CoreToSession converts a core.Session to a GORM model.Session.
func CoreToSession(s core.Session) model.Session {
	out := model.Session{
		MatchID:   s.MatchID,
		Title:     s.Title,
		Map:       s.Map,
		StartTime: s.StartTime,
	}
	out.ID = s.ID
	return out
}

// CoreToCommand converts a command record. The path is stored as LineString
// WKB, which fails for non-finite waypoints.
func CoreToCommand(c core.CommandRecord) (model.Command, error) {
	path, err := c.Path.LineString()
	if err != nil {
		return model.Command{}, fmt.Errorf("command for %s: %w", c.UnitID, err)
	}
	return model.Command{
		Time:     c.Time,
		Tick:     c.Tick,
		UnitID:   c.UnitID,
		UnitType: c.UnitType,
		TargetID: c.TargetID,
		Maneuver: c.Maneuver,
		Path:     path.AsBinary(),
		Facing:   c.Facing,
		Running:  c.Running,
	}, nil
}

// CoreToDeployment converts a deployment record. Placements are stored as
// JSON, which fails for non-finite coordinates.
func CoreToDeployment(d core.DeploymentRecord) (model.Deployment, error) {
	placements, err := placementsToJSON(d.Placements)
	if err != nil {
		return model.Deployment{}, fmt.Errorf("deployment wave %d: %w", d.Wave, err)
	}
	return model.Deployment{
		Time:       d.Time,
		Tick:       d.Tick,
		Wave:       d.Wave,
		CenterX:    d.Center.X,
		CenterY:    d.Center.Y,
		Angle:      d.Angle,
		Placements: placements,
	}, nil
}

// CoreToOutcome converts an outcome record.
func CoreToOutcome(o core.OutcomeRecord) model.Outcome {
	return model.Outcome{
		Time:    o.Time,
		TeamID:  o.TeamID,
		Outcome: o.Outcome,
		Score:   o.Score,
	}
}

func placementsToJSON(p []core.Placement) (datatypes.JSON, error) {
	if len(p) == 0 {
		return datatypes.JSON("[]"), nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding placements: %w", err)
	}
	return datatypes.JSON(data), nil
}
