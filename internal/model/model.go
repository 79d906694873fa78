package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DatabaseModels lists every table of the recording schema.
var DatabaseModels = []interface{}{
	&Session{},
	&Command{},
	&Deployment{},
	&Outcome{},
}

// Session is one practice match.
type Session struct {
	gorm.Model
	MatchID   string    `json:"matchId" gorm:"size:36;index:idx_session_match_id"`
	Title     string    `json:"title" gorm:"size:127"`
	Map       string    `json:"map" gorm:"size:255"`
	StartTime time.Time `json:"startTime" gorm:"index:idx_session_start"`
}

func (*Session) TableName() string {
	return "sessions"
}

// Command is a maneuver order. Path holds the waypoints as LineString WKB.
type Command struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time `json:"time"`
	SessionID uint      `json:"sessionId" gorm:"index:idx_command_session_id"`
	Session   Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick      uint      `json:"tick" gorm:"index:idx_command_tick"`
	UnitID    string    `json:"unitId" gorm:"size:36;index:idx_command_unit_id"`
	UnitType  string    `json:"unitType" gorm:"size:32"`
	TargetID  string    `json:"targetId" gorm:"size:36"`
	Maneuver  string    `json:"maneuver" gorm:"size:16"`
	Path      []byte    `json:"-"`
	Facing    float64   `json:"facing"`
	Running   bool      `json:"running"`
}

func (*Command) TableName() string {
	return "commands"
}

// Deployment is one wave spawn with its placements as JSON.
type Deployment struct {
	ID         uint           `json:"id" gorm:"primarykey;autoIncrement;"`
	Time       time.Time      `json:"time"`
	SessionID  uint           `json:"sessionId" gorm:"index:idx_deployment_session_id"`
	Session    Session        `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	Tick       uint           `json:"tick"`
	Wave       int            `json:"wave"`
	CenterX    float64        `json:"centerX"`
	CenterY    float64        `json:"centerY"`
	Angle      float64        `json:"angle"`
	Placements datatypes.JSON `json:"placements"`
}

func (*Deployment) TableName() string {
	return "deployments"
}

// Outcome is one score change.
type Outcome struct {
	ID        uint      `json:"id" gorm:"primarykey;autoIncrement;"`
	Time      time.Time `json:"time"`
	SessionID uint      `json:"sessionId" gorm:"index:idx_outcome_session_id"`
	Session   Session   `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignkey:SessionID;"`
	TeamID    string    `json:"teamId" gorm:"size:36"`
	Outcome   string    `json:"outcome" gorm:"size:64"`
	Score     int       `json:"score"`
}

func (*Outcome) TableName() string {
	return "outcomes"
}
