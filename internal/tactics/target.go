package tactics

import (
	"github.com/warstage/samurai-practice/internal/geo"
	"github.com/warstage/samurai-practice/internal/world"
)

// Nearest returns the candidate closest to from by squared distance.
// Candidates without a resolved position are ignored; ties go to the first.
// ok is false when nothing qualifies.
func Nearest(candidates []world.Unit, from geo.Vec) (target world.Unit, ok bool) {
	best := 0.0
	for _, c := range candidates {
		p, resolved := c.Position()
		if !resolved {
			continue
		}
		d := p.DistanceSquared(from)
		if !ok || d < best {
			target, best, ok = c, d, true
		}
	}
	return target, ok
}

// Positions extracts resolved positions, skipping units that have none.
func Positions(units []world.Unit) []geo.Vec {
	out := make([]geo.Vec, 0, len(units))
	for _, u := range units {
		if p, ok := u.Position(); ok {
			out = append(out, p)
		}
	}
	return out
}
