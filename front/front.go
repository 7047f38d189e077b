// Package front implements the advancing-front triangular mesher of spec
// §4.12: a driver that selects a boundary site, dispatches the cheapest
// applicable strategy (Wall/Cutoff/Join), resamples boundary neighbors
// against their owning curve, and relaxes the resulting edits against the
// cost function.
package front

import (
	"errors"
	"fmt"
	"math"

	"github.com/fenwick-geo/meshfront/container"
	"github.com/fenwick-geo/meshfront/curve"
	"github.com/fenwick-geo/meshfront/shadow"
	"github.com/fenwick-geo/meshfront/types"
)

// ErrStrategyFailed reports that a strategy's preconditions were not met;
// the site selector treats it as "this action is unavailable", per §7.
var ErrStrategyFailed = errors.New("front: strategy preconditions not met")

// Front drives the advancing front over an owned primary mesh, with its own
// shadow CDT attached so every mutation is mirrored as it happens (§4.9).
type Front struct {
	grid   *container.Mesh
	shadow *shadow.Shadow
	curves []*curve.Curve
	scale  curve.ScaleFunc

	maxSpanFactor float64
}

// New constructs a driver over a fresh primary mesh.
func New() *Front {
	grid := container.NewMesh()
	return &Front{
		grid:          grid,
		shadow:        shadow.New(grid),
		maxSpanFactor: 4,
	}
}

// Grid exposes the primary mesh (e.g. for rasterization or export).
func (f *Front) Grid() *container.Mesh { return f.grid }

// Shadow exposes the mirrored CDT, e.g. for CheckGlobalDelaunay.
func (f *Front) Shadow() *shadow.Shadow { return f.shadow }

// AddCurve registers a boundary curve and returns its index, used as a
// node's Oring.
func (f *Front) AddCurve(c *curve.Curve) int {
	f.curves = append(f.curves, c)
	return len(f.curves) - 1
}

// SetEdgeScale installs the target-edge-length field consulted by
// Upsample, the cost function, and the strategy metrics.
func (f *Front) SetEdgeScale(scale curve.ScaleFunc) { f.scale = scale }

// InitializeBoundaries upsamples every registered curve at the current
// edge scale and adds the resulting nodes/edges as SLIDE boundary ring(s),
// each edge bordering Unmeshed on its interior side and Undefined on the
// other (there is no mesh there yet, nor will there ever be, outside the
// curve).
func (f *Front) InitializeBoundaries() error {
	for curveIdx, crv := range f.curves {
		points, sources := crv.UpsampleWithSources(f.scale)
		nodes := make([]types.NodeID, len(points))
		for i, p := range points {
			nd, err := f.grid.AddNode(p)
			if err != nil {
				return fmt.Errorf("front: initialize_boundaries: %w", err)
			}
			if err := f.grid.SetNodeAttrs(nd, types.Slide, curveIdx, sources[i]); err != nil {
				return err
			}
			nodes[i] = nd
		}

		ne := len(points)
		if !crv.Closed() {
			ne--
		}
		for i := 0; i < ne; i++ {
			j := (i + 1) % len(points)
			if _, err := f.grid.AddEdgeCells(nodes[i], nodes[j], types.Unmeshed, types.Undefined); err != nil {
				return fmt.Errorf("front: initialize_boundaries: %w", err)
			}
		}
	}
	return nil
}

// ChooseSite scans for edges bordering Unmeshed on one side, builds the
// TriangleSite for each, and returns the one with the smallest internal
// angle (the tightest, most urgent gap to close). Returns ok=false once
// every boundary edge borders a real cell on both sides.
func (f *Front) ChooseSite() (*TriangleSite, bool) {
	var best *TriangleSite
	bestScore := math.Inf(1)

	for eid := types.EdgeID(0); int(eid) < f.grid.NumEdgesCap(); eid++ {
		if !f.grid.IsValidEdge(eid) {
			continue
		}
		edge := f.grid.Edge(eid)
		candidates := [2]struct {
			a, b types.NodeID
			cell types.CellID
		}{
			{edge.N0, edge.N1, edge.CellLeft},
			{edge.N1, edge.N0, edge.CellRight},
		}
		for _, cand := range candidates {
			if cand.cell != types.Unmeshed {
				continue
			}
			c, ok := f.ringStep(cand.b, cand.a)
			if !ok {
				continue
			}
			site := &TriangleSite{Front: f, ABC: [3]types.NodeID{cand.a, cand.b, c}}
			if m := site.Metric(); m < bestScore {
				best, bestScore = site, m
			}
		}
	}
	return best, best != nil
}

// ringStep returns the neighbor of n, other than prev, reachable by a live
// edge bordering Unmeshed on either side — a simplified stand-in for the
// teacher's halfedge rotation (container.Mesh.HeFwd/HeRev require a finite,
// real HeCell, which an Unmeshed-bordered boundary edge never has). This is
// valid as long as the boundary ring is locally a simple chain at n, which
// holds everywhere the driver calls it (site selection, free-span walking,
// slide-conflict search).
func (f *Front) ringStep(n, prev types.NodeID) (types.NodeID, bool) {
	for _, eid := range f.grid.NodeToEdges(n) {
		edge := f.grid.Edge(eid)
		other := edge.OtherNode(n)
		if other == prev {
			continue
		}
		if edge.CellLeft == types.Unmeshed || edge.CellRight == types.Unmeshed {
			return other, true
		}
	}
	return types.NilNode, false
}

// Loop runs the driver until no unmeshed site remains, or until count
// iterations have executed if count > 0.
func (f *Front) Loop(count int) error {
	for {
		site, ok := f.ChooseSite()
		if !ok {
			return nil
		}
		if err := f.resampleNeighbors(site); err != nil {
			return err
		}

		actions := site.Actions()
		failed := make([]bool, len(actions))
	pick:
		bestIdx := -1
		bestMetric := math.Inf(1)
		for i, act := range actions {
			if m := act.Metric(site); m < bestMetric && !failed[i] {
				bestMetric, bestIdx = m, i
			}
		}
		if bestIdx < 0 || math.IsInf(bestMetric, 1) {
			return fmt.Errorf("front: no strategy applicable to site (%d,%d,%d)",
				site.ABC[0], site.ABC[1], site.ABC[2])
		}

		edits, err := actions[bestIdx].Execute(site)
		if errors.Is(err, ErrStrategyFailed) {
			failed[bestIdx] = true
			goto pick
		}
		if err != nil {
			return fmt.Errorf("front: %s: %w", actions[bestIdx].Name(), err)
		}
		f.optimizeEdits(edits)

		if count > 0 {
			count--
			if count == 0 {
				return nil
			}
		}
	}
}

func dist(a, b types.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return math.Hypot(dx, dy)
}

func meanPoint(pts [3]types.Point) types.Point {
	return types.Point{
		X: (pts[0].X + pts[1].X + pts[2].X) / 3,
		Y: (pts[0].Y + pts[1].Y + pts[2].Y) / 3,
	}
}
