package front

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/fenwick-geo/meshfront/cost"
	"github.com/fenwick-geo/meshfront/types"
)

// freeSpan measures the distance along the still-unmeshed ring from anchor
// through start, continuing through successive SLIDE, degree<=2 nodes,
// until it either hits a non-SLIDE/branching node, wraps back to anchor,
// or exceeds maxSpan.
func (f *Front) freeSpan(anchor, start types.NodeID, maxSpan float64) float64 {
	span := 0.0
	last, cur := anchor, start
	for cur != anchor {
		node := f.grid.Node(cur)
		if node.Fixed != types.Slide || len(f.grid.NodeToEdges(cur)) > 2 {
			break
		}
		span += dist(f.grid.Node(last).Pos, node.Pos)
		if span >= maxSpan {
			break
		}
		next, ok := f.ringStep(cur, last)
		if !ok {
			break
		}
		last, cur = cur, next
	}
	return span
}

// resample moves n along its owning curve so that the span between anchor
// and n's far neighbor (in the given direction, +1 forward/-1 reverse) is
// close to scale, deleting any SLIDE nodes the new position passes over.
func (f *Front) resample(n, anchor types.NodeID, scale float64, direction int) error {
	spanLength := f.freeSpan(anchor, n, f.maxSpanFactor*scale)

	var targetSpan float64
	if spanLength < f.maxSpanFactor*scale {
		nSegments := int(math.Round(spanLength / scale))
		if nSegments < 1 {
			nSegments = 1
		}
		if nSegments == 1 {
			return nil
		}
		targetSpan = spanLength / float64(nSegments)
	} else {
		targetSpan = scale
	}

	anchorNode := f.grid.Node(anchor)
	crv := f.curves[anchorNode.Oring]
	anchorF := anchorNode.RingF

	newF, newX, err := crv.DistanceAway(anchorF, float64(direction)*targetSpan)
	if err != nil {
		return fmt.Errorf("front: resample: %w", err)
	}

	var toDelete []types.NodeID
	last, cur := anchor, n
	for {
		next, ok := f.ringStep(cur, last)
		if !ok {
			return fmt.Errorf("front: resample: ran off the boundary ring")
		}
		last, cur = cur, next
		if cur == anchor {
			return fmt.Errorf("front: resample: walked all the way around the ring")
		}
		curF := f.grid.Node(cur).RingF
		if direction == 1 {
			if crv.IsForward(anchorF, newF, curF) {
				break
			}
		} else {
			if crv.IsReverse(anchorF, newF, curF) {
				break
			}
		}
		toDelete = append(toDelete, cur)
	}
	for _, d := range toDelete {
		if err := f.mergeEdges(d); err != nil {
			return err
		}
	}
	return f.moveNode(n, newX, anchorNode.Oring, newF)
}

// resampleNeighbors resamples a site's outer nodes (a in reverse, c in
// forward) away from the shared node b, before a strategy commits to
// closing the site.
func (f *Front) resampleNeighbors(site *TriangleSite) error {
	a, b, c := site.ABC[0], site.ABC[1], site.ABC[2]
	localLength := f.scale(meanPoint(site.Points()))

	for _, nd := range [2]struct {
		n   types.NodeID
		dir int
	}{{a, -1}, {c, 1}} {
		node := f.grid.Node(nd.n)
		if node.Fixed == types.Slide && len(f.grid.NodeToEdges(nd.n)) <= 2 {
			if err := f.resample(nd.n, b, localLength, nd.dir); err != nil {
				return err
			}
		}
	}
	return nil
}

// costFunction returns a closure evaluating the cost of moving n to a
// candidate position, built from n's currently-incident cells (each
// reduced to the opposite edge, oriented so n sits to the left).
func (f *Front) costFunction(n types.NodeID) (func(types.Point) float64, bool) {
	cells := f.grid.NodeToCells(n)
	if len(cells) == 0 {
		return nil, false
	}
	localLength := f.scale(f.grid.Node(n).Pos)
	edges := make([]cost.Edge, 0, len(cells))
	for _, cid := range cells {
		nodes := f.grid.CellToNodes(cid)
		var b, c types.NodeID
		switch n {
		case nodes[0]:
			b, c = nodes[1], nodes[2]
		case nodes[1]:
			b, c = nodes[2], nodes[0]
		default:
			b, c = nodes[0], nodes[1]
		}
		edges = append(edges, cost.Edge{B: f.grid.Node(b).Pos, C: f.grid.Node(c).Pos})
	}
	return func(p types.Point) float64 { return cost.Evaluate(p, edges, localLength) }, true
}

func (f *Front) evalCost(n types.NodeID) (float64, bool) {
	costFn, ok := f.costFunction(n)
	if !ok {
		return 0, false
	}
	return costFn(f.grid.Node(n).Pos), true
}

// minimize2D runs a derivative-free simplex search over the plane,
// the counterpart of the original's simplex (fmin) search for node
// relaxation; gonum/optimize is the pack's sole derivative-free optimizer.
func minimize2D(costFn func(types.Point) float64, x0 types.Point, tol float64) types.Point {
	p := optimize.Problem{
		Func: func(x []float64) float64 { return costFn(types.Point{X: x[0], Y: x[1]}) },
	}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{Absolute: tol, Iterations: 30},
	}
	result, err := optimize.Minimize(p, []float64{x0.X, x0.Y}, settings, &optimize.NelderMead{})
	if err != nil || result == nil {
		return x0
	}
	return types.Point{X: result.X[0], Y: result.X[1]}
}

func minimize1D(costFn func(float64) float64, x0, tol float64) float64 {
	p := optimize.Problem{Func: func(x []float64) float64 { return costFn(x[0]) }}
	settings := &optimize.Settings{
		Converger: &optimize.FunctionConverge{Absolute: tol, Iterations: 30},
	}
	result, err := optimize.Minimize(p, []float64{x0}, settings, &optimize.NelderMead{})
	if err != nil || result == nil {
		return x0
	}
	return result.X[0]
}

func (f *Front) relaxFreeNode(n types.NodeID) (float64, bool) {
	costFn, ok := f.costFunction(n)
	if !ok {
		return 0, false
	}
	x0 := f.grid.Node(n).Pos
	localLength := f.scale(x0)
	newX := minimize2D(costFn, x0, localLength*1e-4)
	if newX != x0 {
		if err := f.grid.ModifyNode(n, newX, true); err != nil {
			return 0, false
		}
	}
	return costFn(newX), true
}

func (f *Front) relaxSlideNode(n types.NodeID) (float64, bool) {
	costFn, ok := f.costFunction(n)
	if !ok {
		return 0, false
	}
	node := f.grid.Node(n)
	crv := f.curves[node.Oring]
	costAlongCurve := func(fParam float64) float64 { return costFn(crv.Eval(fParam)) }

	localLength := f.scale(node.Pos)
	newF := minimize1D(costAlongCurve, node.RingF, localLength*1e-4)
	if newF != node.RingF {
		if err := f.slideNode(n, newF-node.RingF); err != nil {
			return 0, false
		}
	}
	return costAlongCurve(newF), true
}

func (f *Front) relaxNode(n types.NodeID) float64 {
	switch f.grid.Node(n).Fixed {
	case types.Free:
		if v, ok := f.relaxFreeNode(n); ok {
			return v
		}
	case types.Slide:
		if v, ok := f.relaxSlideNode(n); ok {
			return v
		}
	}
	return 0
}

// optimizeNodes relaxes each node up to maxLevels passes, stopping early
// once every node's cost is at or below costThresh.
func (f *Front) optimizeNodes(nodes []types.NodeID, maxLevels int, costThresh float64) {
	for level := 0; level < maxLevels; level++ {
		maxCost := 0.0
		for _, n := range nodes {
			if v := f.relaxNode(n); v > maxCost {
				maxCost = v
			}
		}
		if maxCost <= costThresh {
			return
		}
	}
}

// optimizeEdits relaxes every node touched by a strategy's edits, plus
// every node of every cell it created (the new cell's third vertex is
// often an existing, now-adjacent node whose local geometry also changed).
func (f *Front) optimizeEdits(e Edits) {
	seen := make(map[types.NodeID]bool, len(e.Nodes))
	nodes := make([]types.NodeID, 0, len(e.Nodes))
	for _, n := range e.Nodes {
		if !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	for _, c := range e.Cells {
		for _, n := range f.grid.CellToNodes(c) {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	f.optimizeNodes(nodes, 3, 2)
}

// findSlideConflicts returns the SLIDE, degree-2 nodes that sliding n by
// deltaF would pass over, so slideNode can absorb them first.
func (f *Front) findSlideConflicts(n types.NodeID, deltaF float64) ([]types.NodeID, error) {
	node := f.grid.Node(n)
	crv := f.curves[node.Oring]
	nF := node.RingF

	for _, nbr := range f.grid.NodeToNodes(n) {
		nbrNode := f.grid.Node(nbr)
		if nbrNode.Oring != node.Oring || len(f.grid.NodeToEdges(nbr)) != 2 {
			continue
		}

		var toDelete []types.NodeID
		last, cur := n, nbr
		for {
			curF := f.grid.Node(cur).RingF
			passed := false
			if deltaF > 0 {
				passed = crv.IsForward(nF, nF+deltaF, curF)
			} else {
				passed = crv.IsReverse(nF, nF+deltaF, curF)
			}
			if passed {
				return toDelete, nil
			}
			toDelete = append(toDelete, cur)
			next, ok := f.ringStep(cur, last)
			if !ok {
				return nil, fmt.Errorf("front: find_slide_conflicts: ran off the ring")
			}
			last, cur = cur, next
		}
	}
	return nil, nil
}

// slideNode moves n along its curve by deltaF, first absorbing any SLIDE
// nodes that position would pass over.
func (f *Front) slideNode(n types.NodeID, deltaF float64) error {
	conflicts, err := f.findSlideConflicts(n, deltaF)
	if err != nil {
		return err
	}
	for _, nbr := range conflicts {
		if err := f.mergeEdges(nbr); err != nil {
			return err
		}
	}
	node := f.grid.Node(n)
	newF := node.RingF + deltaF
	crv := f.curves[node.Oring]
	return f.moveNode(n, crv.Eval(newF), node.Oring, newF)
}
