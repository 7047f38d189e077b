// Package curve implements the piecewise-linear parameterized boundary of
// spec §4.10: a path indexable by arclength, with upsampling and bracket-
// then-bisect distance search, used by the advancing front to place and
// slide boundary nodes.
package curve

import (
	"errors"
	"fmt"
	"math"

	"github.com/fenwick-geo/meshfront/types"
)

// CurveException reports that DistanceAway could not converge within
// tolerance, mirroring the teacher's sentinel-error idiom (cdt/errors.go).
var CurveException = errors.New("curve: distance_away failed to converge")

// Curve is a piecewise-linear path over ≥2 points, optionally closed (in
// which case the first point is duplicated at the end so every segment,
// including the closing one, is represented uniformly).
type Curve struct {
	points    []types.Point
	closed    bool
	distances []float64 // cumulative arclength, len(points); distances[0]==0
}

// New builds a Curve from points (≥2). If closed, the first point is
// appended to close the ring before arclengths are computed.
func New(points []types.Point, closed bool) (*Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("curve: need at least 2 points, got %d", len(points))
	}
	pts := make([]types.Point, len(points))
	copy(pts, points)
	if closed {
		pts = append(pts, pts[0])
	}
	c := &Curve{points: pts, closed: closed}
	c.distances = make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		c.distances[i] = c.distances[i-1] + dist(pts[i-1], pts[i])
	}
	return c, nil
}

func dist(a, b types.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Hypot(dx, dy)
}

// TotalDistance returns the curve's total arclength.
func (c *Curve) TotalDistance() float64 { return c.distances[len(c.distances)-1] }

// Closed reports whether the curve wraps around (a closed ring).
func (c *Curve) Closed() bool { return c.closed }

// Eval locates the segment with distances[i] <= f < distances[i+1] (f
// taken modulo TotalDistance() if closed) and linearly interpolates.
// f=0 always maps to points[0].
func (c *Curve) Eval(f float64) types.Point {
	total := c.TotalDistance()
	if c.closed {
		f = math.Mod(f, total)
		if f < 0 {
			f += total
		}
	}
	i := c.searchSegment(f)
	a, b := c.points[i], c.points[i+1]
	span := c.distances[i+1] - c.distances[i]
	alpha := 0.0
	if span > 0 {
		alpha = (f - c.distances[i]) / span
	}
	return types.Point{
		X: (1-alpha)*a.X + alpha*b.X,
		Y: (1-alpha)*a.Y + alpha*b.Y,
	}
}

// searchSegment returns the largest i such that distances[i] <= f, clamped
// to [0, len(points)-2], matching np.searchsorted(..., side='right') - 1.
func (c *Curve) searchSegment(f float64) int {
	lo, hi := 0, len(c.distances)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if c.distances[mid] <= f {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo > len(c.points)-2 {
		lo = len(c.points) - 2
	}
	return lo
}

// ScaleFunc reports the desired local spacing near a point, consumed by
// Upsample and the advancing-front resample step.
type ScaleFunc func(types.Point) float64

// Upsample returns points spaced approximately scale(midpoint) apart along
// each source segment, with at least one interval per segment.
func (c *Curve) Upsample(scale ScaleFunc) []types.Point {
	pts, _ := c.UpsampleWithSources(scale)
	return pts
}

// UpsampleWithSources is Upsample plus each returned point's source
// arclength parameter, used by the advancing front to seed a new boundary
// node's ring_f.
func (c *Curve) UpsampleWithSources(scale ScaleFunc) ([]types.Point, []float64) {
	var out []types.Point
	var sources []float64
	for i := 0; i < len(c.points)-1; i++ {
		a, b := c.points[i], c.points[i+1]
		l := dist(a, b)
		mid := types.Point{X: 0.5 * (a.X + b.X), Y: 0.5 * (a.Y + b.Y)}
		localScale := scale(mid)
		n := 1
		if localScale > 0 {
			if r := math.Round(l / localScale); r > 1 {
				n = int(r)
			}
		}
		for k := 0; k < n; k++ {
			alpha := float64(k) / float64(n)
			out = append(out, types.Point{
				X: (1-alpha)*a.X + alpha*b.X,
				Y: (1-alpha)*a.Y + alpha*b.Y,
			})
			sources = append(sources, c.distances[i]+alpha*l)
		}
	}
	return out, sources
}

// DistanceAway finds f1,x1 such that |Eval(f1)-Eval(f0)| ≈ |signedDistance|
// within relative tolerance rtol, on the side indicated by the sign of
// signedDistance. It brackets the root with 10 geometric-expansion steps
// (factor 1.5) from the anchor, then bisects for up to 10 more steps.
func (c *Curve) DistanceAway(f0, signedDistance float64) (float64, types.Point, error) {
	const rtol = 0.05
	const maxSteps = 10
	const growth = 1.5

	anchor := c.Eval(f0)
	targetD := math.Abs(signedDistance)
	offset := signedDistance

	lastOffset, lastD := 0.0, 0.0

	for step := 0; step < maxSteps; step++ {
		x := c.Eval(f0 + offset)
		d := dist(anchor, x)
		relErr := (d - targetD) / targetD
		if -rtol < relErr && relErr < rtol {
			return f0 + offset, x, nil
		}
		if relErr < 0 {
			if d < lastD {
				return 0, types.Point{}, fmt.Errorf("%w: distance got smaller while expanding", CurveException)
			}
			lastOffset, lastD = offset, d
			offset *= growth
			continue
		}
		break // bracketed; fall through to bisection
	}

	low, high := lastOffset, offset
	for step := 0; step < maxSteps; step++ {
		mid := 0.5 * (low + high)
		x := c.Eval(f0 + mid)
		d := dist(anchor, x)
		relErr := (d - targetD) / targetD
		if -rtol < relErr && relErr < rtol {
			return f0 + mid, x, nil
		}
		if d < targetD {
			low = mid
		} else {
			high = mid
		}
	}
	return 0, types.Point{}, fmt.Errorf("%w: binary search did not converge", CurveException)
}

// IsForward reports whether b lies closer than c to a when walking the
// curve forward (modulo TotalDistance()). IsReverse is its mirror.
func (c *Curve) IsForward(fa, fb, fc float64) bool {
	d := c.TotalDistance()
	return modPositive(fb-fa, d) < modPositive(fc-fa, d)
}

// IsReverse is the mirror of IsForward.
func (c *Curve) IsReverse(fa, fb, fc float64) bool {
	return c.IsForward(fc, fb, fa)
}

func modPositive(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}
