package geo

import (
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
)

// Path is an ordered list of waypoints handed to the movement system.
type Path []Vec

// LineString converts a path to a geom.LineString for storage. Repeated
// waypoints are collapsed, and a path left with fewer than two distinct
// points produces an empty LineString. Non-finite coordinates are an error.
func (p Path) LineString() (geom.LineString, error) {
	flat := make([]float64, 0, len(p)*2)
	n := 0
	for i, pt := range p {
		if i > 0 && pt == p[i-1] {
			continue
		}
		flat = append(flat, pt.X, pt.Y)
		n++
	}
	if n < 2 {
		return geom.LineString{}, nil
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.LineString{}, fmt.Errorf("invalid path %v: %w", p, err)
	}
	return ls, nil
}

// PathFromLineString reverses LineString.
func PathFromLineString(ls geom.LineString) Path {
	seq := ls.Coordinates()
	n := seq.Length()
	if n == 0 {
		return Path{}
	}
	p := make(Path, n)
	for i := 0; i < n; i++ {
		xy := seq.GetXY(i)
		p[i] = Vec{X: xy.X, Y: xy.Y}
	}
	return p
}
