package front

import (
	"github.com/fenwick-geo/meshfront/cost"
	"github.com/fenwick-geo/meshfront/types"
)

// TriangleSite is a candidate triangle (a,b,c) spanning one unmeshed edge
// (a,b) and its ring-adjacent node c, the unit of work ChooseSite and the
// strategies operate on.
type TriangleSite struct {
	Front *Front
	ABC   [3]types.NodeID
}

// Points returns the current positions of A, B, C.
func (s *TriangleSite) Points() [3]types.Point {
	var out [3]types.Point
	for i, nd := range s.ABC {
		out[i] = s.Front.grid.Node(nd).Pos
	}
	return out
}

// InternalAngle returns the interior angle at B.
func (s *TriangleSite) InternalAngle() float64 {
	p := s.Points()
	return cost.InternalAngle(p[0], p[1], p[2])
}

// Metric ranks sites for ChooseSite: the tightest angle goes first.
func (s *TriangleSite) Metric() float64 { return s.InternalAngle() }

// EdgeLength is the mean length of the site's two known edges, AB and BC.
func (s *TriangleSite) EdgeLength() float64 {
	p := s.Points()
	return (dist(p[0], p[1]) + dist(p[1], p[2])) / 2
}

// LocalLength is the target edge scale at the site's centroid.
func (s *TriangleSite) LocalLength() float64 {
	return s.Front.scale(meanPoint(s.Points()))
}

// Actions returns the strategies available to close this site, tried in a
// fixed order: Wall, Cutoff, Join.
func (s *TriangleSite) Actions() []Strategy {
	return []Strategy{wallStrategy{}, cutoffStrategy{}, joinStrategy{}}
}
