// Package cost implements the advancing-front node-placement cost function
// of spec §4.11: an angle-quality term plus a length-quality term, used by
// the driver to relax FREE and SLIDE nodes toward well-shaped triangles.
package cost

import (
	"math"

	"github.com/fenwick-geo/meshfront/types"
)

const (
	idealAngle = math.Pi / 3   // 60 degrees
	maxAngle   = 85 * math.Pi / 180
	scaleRad   = 3 * math.Pi / 180 // e-folding scale for the near-invalid penalty
)

// Edge is one of the (b,c) pairs a candidate point p would complete into a
// left-oriented triangle (p,b,c).
type Edge struct {
	B, C types.Point
}

// Evaluate computes the total cost of placing p to complete a left-oriented
// triangle with every edge in edges, at target edge length targetLength.
// The result is never zero or negative: the near-invalid term alone is
// exp((60°-82°)/3°) ≈ 6.53e-4 even for the ideal configuration (every
// triangle equilateral at exactly targetLength), which is the minimum.
func Evaluate(p types.Point, edges []Edge, targetLength float64) float64 {
	if len(edges) == 0 {
		return 0
	}

	worstDeviation := 0.0
	maxAngleObserved := 0.0
	minLenSq := math.Inf(1)
	maxLenSq := 0.0

	for _, e := range edges {
		ab := sub(e.B, p)  // p -> b
		bc := sub(e.C, e.B) // b -> c
		ca := sub(p, e.C)  // c -> p

		angleAB := math.Atan2(ab.Y, ab.X)
		angleBC := math.Atan2(bc.Y, bc.X)
		angleCA := math.Atan2(ca.Y, ca.X)

		alpha := internalAngleBetween(angleCA, angleAB) // at p
		beta := internalAngleBetween(angleAB, angleBC)  // at b
		gamma := internalAngleBetween(angleBC, angleCA) // at c

		for _, a := range [3]float64{alpha, beta, gamma} {
			if d := math.Abs(a - idealAngle); d > worstDeviation {
				worstDeviation = d
			}
			if a > maxAngleObserved {
				maxAngleObserved = a
			}
		}

		abLenSq := dot(ab, ab)
		caLenSq := dot(ca, ca)
		if abLenSq < minLenSq {
			minLenSq = abLenSq
		}
		if caLenSq < minLenSq {
			minLenSq = caLenSq
		}
		if abLenSq > maxLenSq {
			maxLenSq = abLenSq
		}
		if caLenSq > maxLenSq {
			maxLenSq = caLenSq
		}
	}

	alphaNorm := worstDeviation / (maxAngle - idealAngle)
	anglePenalty := 10 * math.Pow(alphaNorm, 5)

	thresh := maxAngle - scaleRad
	nearInvalidPenalty := math.Exp((maxAngleObserved - thresh) / scaleRad)

	targetSq := targetLength * targetLength
	undershoot := targetSq / minLenSq
	overshoot := maxLenSq / targetSq
	const lengthFactor = 2
	lengthPenalty := lengthFactor*(math.Max(undershoot, 1)-1) + lengthFactor*(math.Max(overshoot, 1)-1)

	return anglePenalty + nearInvalidPenalty + lengthPenalty
}

// internalAngleBetween returns the interior angle swept from the edge
// arriving at a vertex (direction angleIn) to the edge leaving it
// (direction angleOut), matching (pi - (out - in) % 2pi) % 2pi.
func internalAngleBetween(angleIn, angleOut float64) float64 {
	const twoPi = 2 * math.Pi
	diff := math.Mod(angleOut-angleIn, twoPi)
	if diff < 0 {
		diff += twoPi
	}
	a := math.Mod(math.Pi-diff, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}

func sub(a, b types.Point) types.Point { return types.Point{X: a.X - b.X, Y: a.Y - b.Y} }
func dot(a, b types.Point) float64     { return a.X*b.X + a.Y*b.Y }

// InternalAngle returns the interior angle at vertex B swept from BA to BC,
// used by Site selection and the Wall/Cutoff/Join strategies' metrics.
// Sites are built from consistently-oriented boundary edges, so this is
// always in (0, pi) for a sane site; it is not separately clamped.
func InternalAngle(a, b, c types.Point) float64 {
	ba := sub(a, b)
	bc := sub(c, b)
	thetaBA := math.Atan2(ba.Y, ba.X)
	thetaBC := math.Atan2(bc.Y, bc.X)
	return modPositive(thetaBA-thetaBC, 2*math.Pi)
}

func modPositive(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}
