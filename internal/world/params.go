package world

// MatchParams is the desired lobby configuration for a scenario.
type MatchParams struct {
	TeamsMin int            `json:"teamsMin"`
	TeamsMax int            `json:"teamsMax"`
	Teams    []TeamParams   `json:"teams"`
	Title    string         `json:"title"`
	Map      string         `json:"map"`
	Options  map[string]any `json:"options"`
	Started  bool           `json:"started"`
}

// TeamParams lists the slots of one team.
type TeamParams struct {
	Slots []Slot `json:"slots"`
}
