// Package tactics implements the per-tick decisions for scripted units:
// formation clustering, target selection and the maneuver policy.
package tactics

import "github.com/warstage/samurai-practice/internal/geo"

// BattlefieldCenter is returned for empty formations and is the reference
// point waves are staged against.
var BattlefieldCenter = geo.V(512, 512)

// clusterBias softens the down-weighting of units far from the center unit.
const clusterBias = 50.0

// CenterIndex returns the index of the unit whose inverse-distance sum
// Σ 1/(1+d) to all other units is lowest. Ties go to the earliest index.
// Returns -1 for an empty slice.
func CenterIndex(positions []geo.Vec) int {
	best := -1
	bestWeight := 0.0
	for i, p := range positions {
		weight := 0.0
		for j, q := range positions {
			if i != j {
				weight += 1 / (1 + p.Distance(q))
			}
		}
		if best < 0 || weight < bestWeight {
			best = i
			bestWeight = weight
		}
	}
	return best
}

// ClusterCenter estimates the center of a formation as a weighted centroid,
// each unit weighted 1/(50+d) by its distance to the center unit.
func ClusterCenter(positions []geo.Vec) geo.Vec {
	if len(positions) == 0 {
		return BattlefieldCenter
	}

	ref := positions[CenterIndex(positions)]

	var sum geo.Vec
	total := 0.0
	for _, p := range positions {
		w := 1 / (clusterBias + p.Distance(ref))
		sum = sum.Add(p.Scale(w))
		total += w
	}
	return sum.Scale(1 / total)
}
