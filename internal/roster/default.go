package roster

import "github.com/warstage/samurai-practice/internal/geo"

func archetype(unitType string, maximumRange float64) Archetype {
	return Archetype{UnitType: unitType, Marker: unitType, MaximumRange: maximumRange}
}

func at(name string, x, y float64) Placement {
	return Placement{Archetype: name, Offset: geo.V(x, y)}
}

// Default returns a fresh copy of the built-in tables.
func Default() *Roster {
	return &Roster{
		Archetypes: map[string]Archetype{
			"ash_arq":  archetype("ash-arq", 110),
			"ash_bow":  archetype("ash-bow", 150),
			"ash_kata": archetype("ash-kata", 0),
			"ash_nagi": archetype("ash-nagi", 0),
			"ash_yari": archetype("ash-yari", 0),
			"cav_bow":  archetype("cav-bow", 120),
			"cav_kata": archetype("cav-kata", 0),
			"cav_nagi": archetype("cav-nagi", 0),
			"cav_yari": archetype("cav-yari", 0),
			"gen_kata": archetype("gen-kata", 0),
			"sam_arq":  archetype("sam-arq", 110),
			"sam_bow":  archetype("sam-bow", 150),
			"sam_kata": archetype("sam-kata", 0),
			"sam_nagi": archetype("sam-nagi", 0),
			"sam_yari": archetype("sam-yari", 0),
		},

		// around the battlefield center, facing south
		Player: []Placement{
			at("sam_bow", -50, 0),
			at("sam_arq", 0, 0),
			at("sam_bow", 50, 0),
			at("sam_yari", -25, -30),
			at("sam_yari", 25, -30),
			at("sam_kata", -50, -60),
			at("gen_kata", 0, -60),
			at("sam_kata", 50, -60),
			at("cav_yari", -70, -100),
			at("sam_nagi", 0, -90),
			at("cav_bow", 70, -100),
		},

		// lateral offsets, rotated by the staging angle at spawn time
		Waves: [][]Placement{
			{at("ash_yari", -90, 0), at("ash_yari", -30, 0), at("ash_yari", 30, 0), at("ash_yari", 90, 0)},
			{at("ash_bow", -40, 0), at("ash_bow", 40, 0)},
			{at("sam_kata", -60, 0), at("sam_nagi", 0, 0), at("sam_kata", 60, 0)},
			{at("cav_bow", -60, 0), at("cav_bow", 60, 0)},
			{at("cav_yari", -90, 0), at("sam_kata", -30, 0), at("sam_kata", 30, 0), at("cav_yari", 90, 0)},
			{at("ash_arq", -60, 0), at("ash_arq", 0, 0), at("ash_arq", 60, 0)},
		},
	}
}
