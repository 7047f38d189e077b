package cdt

import (
	"fmt"

	"github.com/fenwick-geo/meshfront/container"
	"github.com/fenwick-geo/meshfront/predicates"
	"github.com/fenwick-geo/meshfront/types"
)

// LocType classifies the result of Locate, per spec §4.2.
type LocType int

const (
	LocOutsideAffineHull LocType = iota
	LocOutsideConvexHull
	LocInVertex
	LocInEdge
	LocInFace
)

// Location is the classified result of a point-location query.
type Location struct {
	Type LocType

	Cell types.CellID       // IN_FACE: the containing cell.
	Node types.NodeID       // IN_VERTEX: the coincident node. OUTSIDE_CONVEX_HULL(dim=1): nearest end node.
	Edge container.Halfedge // IN_EDGE: the edge, as a halfedge. OUTSIDE_CONVEX_HULL(dim=2): the exterior-facing boundary halfedge.
	Dim  int                // OUTSIDE_AFFINE_HULL: the current dimension.
}

// pickHint chooses a starting cell for Locate's dim=2 walk. It favors a
// cell incident to the nearest node the spatial index finds near p, expanding the
// search radius a few times if the nearest cells are empty or stale
// (deleted since being indexed); it falls back to t.hint, the single
// last-cell-the-walk-landed-on suggestion, when the index has nothing
// usable yet.
func (t *Triangulation) pickHint(p types.Point) types.CellID {
	radius := t.cfg.hintCellSize
	if radius <= 0 {
		radius = defaultHintCellSize
	}
	for attempt := 0; attempt < 4; attempt++ {
		best, bestD := types.NilCell, -1.0
		for _, n := range t.nodeIndex.FindVerticesNear(p, radius) {
			if !t.mesh.IsValidNode(n) {
				continue
			}
			d := predicates.Dist2(p, t.pos(n))
			if bestD >= 0 && d >= bestD {
				continue
			}
			for _, c := range t.mesh.NodeToCells(n) {
				if t.mesh.IsValidCell(c) {
					best, bestD = c, d
					break
				}
			}
		}
		if best != types.NilCell {
			return best
		}
		radius *= 4
	}
	return t.hint
}

// Locate classifies point p against the current triangulation, per §4.2.
// hint is a starting-cell suggestion for the 2D walk; types.NilCell means
// "pick any live cell".
func (t *Triangulation) Locate(p types.Point, hint types.CellID) (Location, error) {
	switch t.dim {
	case -1:
		return Location{Type: LocOutsideAffineHull, Dim: -1}, nil
	case 0:
		return t.locateDim0(p)
	case 1:
		return t.locateDim1(p)
	default:
		return t.locateDim2(p, hint)
	}
}

func (t *Triangulation) anyLiveNode() types.NodeID {
	for id := types.NodeID(0); int(id) < t.mesh.NumNodesCap(); id++ {
		if t.mesh.IsValidNode(id) {
			return id
		}
	}
	return types.NilNode
}

func (t *Triangulation) locateDim0(p types.Point) (Location, error) {
	n := t.anyLiveNode()
	if n == types.NilNode {
		return Location{}, fmt.Errorf("cdt: dim=0 but no live node")
	}
	if p == t.pos(n) {
		return Location{Type: LocInVertex, Node: n}, nil
	}
	return Location{Type: LocOutsideAffineHull, Dim: 0}, nil
}

// locateDim1 walks the single collinear chain of nodes to classify p. The
// chain is always a simple path: the only dim=1 topology a CDT can build
// incrementally is a sequence of collinear points linked end to end.
func (t *Triangulation) locateDim1(p types.Point) (Location, error) {
	start := t.anyLiveNode()
	if start == types.NilNode {
		return Location{}, fmt.Errorf("cdt: dim=1 but no live node")
	}
	neighbors := t.mesh.NodeToNodes(start)
	if len(neighbors) == 0 {
		return Location{}, fmt.Errorf("cdt: dim=1 node %d has no neighbors", start)
	}
	origin := t.pos(start)
	dir := sub(t.pos(neighbors[0]), origin)

	if predicates.Orient2D(origin, t.pos(neighbors[0]), p) != 0 {
		return Location{Type: LocOutsideAffineHull, Dim: 1}, nil
	}

	// Walk to the chain's start: the node with the smallest projection.
	chainStart, prev := start, types.NilNode
	for steps := 0; steps < t.mesh.NumNodes()+1; steps++ {
		var back types.NodeID = types.NilNode
		for _, nb := range t.mesh.NodeToNodes(chainStart) {
			if nb == prev {
				continue
			}
			if project(dir, origin, t.pos(nb)) < project(dir, origin, t.pos(chainStart)) {
				back = nb
			}
		}
		if back == types.NilNode {
			break
		}
		prev, chainStart = chainStart, back
	}

	cur, prevNode := chainStart, types.NilNode
	for steps := 0; steps < t.mesh.NumNodes()+1; steps++ {
		curProj := project(dir, origin, t.pos(cur))
		pProj := project(dir, origin, p)

		if prevNode == types.NilNode && pProj < curProj {
			return Location{Type: LocOutsideConvexHull, Node: cur}, nil
		}
		if pProj == curProj {
			return Location{Type: LocInVertex, Node: cur}, nil
		}

		var next types.NodeID = types.NilNode
		for _, nb := range t.mesh.NodeToNodes(cur) {
			if nb == prevNode {
				continue
			}
			if project(dir, origin, t.pos(nb)) > curProj {
				next = nb
			}
		}
		if next == types.NilNode {
			// cur is the far end of the chain; p lies beyond it (the
			// pProj==curProj and "before the start" cases were already
			// handled above).
			return Location{Type: LocOutsideConvexHull, Node: cur}, nil
		}

		nextProj := project(dir, origin, t.pos(next))
		if pProj > curProj && pProj < nextProj {
			he, _ := t.mesh.NodesToHalfedge(cur, next)
			return Location{Type: LocInEdge, Edge: he}, nil
		}
		prevNode, cur = cur, next
	}
	return Location{}, fmt.Errorf("cdt: 1D locate walk failed to terminate")
}

// locateDim2 implements the orientation-walk of §4.2: repeatedly cross into
// the neighbor across whichever edge p lies on the negative side of, until
// all three orientations are non-negative.
func (t *Triangulation) locateDim2(p types.Point, hint types.CellID) (Location, error) {
	cur := hint
	if !t.mesh.IsValidCell(cur) {
		cur = t.anyLiveCell()
	}
	if cur == types.NilCell {
		return Location{}, fmt.Errorf("cdt: dim=2 but no live cell")
	}

	visited := make(map[types.CellID]bool)
	maxSteps := t.mesh.NumCells()*2 + 8

	for step := 0; step < maxSteps; step++ {
		visited[cur] = true
		c := t.mesh.Cell(cur)
		a0, a1, a2 := t.pos(c.N[0]), t.pos(c.N[1]), t.pos(c.N[2])

		os := [3]int{
			predicates.Orient2D(a1, a2, p), // edge 0: opposite N[0], i.e. (N1,N2)
			predicates.Orient2D(a2, a0, p), // edge 1: opposite N[1], i.e. (N2,N0)
			predicates.Orient2D(a0, a1, p), // edge 2: opposite N[2], i.e. (N0,N1)
		}

		negIdx := -1
		zeros := 0
		var zeroIdx [2]int
		for i, o := range os {
			if o < 0 && negIdx == -1 {
				negIdx = i
			}
			if o == 0 {
				if zeros < 2 {
					zeroIdx[zeros] = i
				}
				zeros++
			}
		}

		if negIdx >= 0 {
			nb := t.edgeOtherCell(c.E[negIdx], cur)
			if nb == types.InfCell {
				v1, v2 := c.LocalEdge(negIdx)
				he, _ := t.mesh.NodesToHalfedge(v1, v2)
				t.hint = cur
				return Location{Type: LocOutsideConvexHull, Edge: he.Opposite()}, nil
			}
			if visited[nb] {
				// Robust predicates should guarantee monotone progress; a
				// revisit means a degenerate walk. Fall back to a scan.
				return t.locateDim2Scan(p)
			}
			cur = nb
			continue
		}

		t.hint = cur
		switch zeros {
		case 0:
			return Location{Type: LocInFace, Cell: cur}, nil
		case 1:
			v1, v2 := c.LocalEdge(zeroIdx[0])
			he, _ := t.mesh.NodesToHalfedge(v1, v2)
			return Location{Type: LocInEdge, Edge: he}, nil
		default: // 2 zeros: p coincides with the node opposite the remaining edge.
			nodeIdx := 3 - (zeroIdx[0] + zeroIdx[1])
			return Location{Type: LocInVertex, Node: c.N[nodeIdx]}, nil
		}
	}
	return t.locateDim2Scan(p)
}

// locateDim2Scan is the robustness fallback for locateDim2's walk: a linear
// scan over all live cells. Only reached on degenerate walks.
func (t *Triangulation) locateDim2Scan(p types.Point) (Location, error) {
	for id := types.CellID(0); int(id) < t.mesh.NumCellsCap(); id++ {
		if !t.mesh.IsValidCell(id) {
			continue
		}
		c := t.mesh.Cell(id)
		a0, a1, a2 := t.pos(c.N[0]), t.pos(c.N[1]), t.pos(c.N[2])
		o0 := predicates.Orient2D(a1, a2, p)
		o1 := predicates.Orient2D(a2, a0, p)
		o2 := predicates.Orient2D(a0, a1, p)
		if o0 < 0 || o1 < 0 || o2 < 0 {
			continue
		}
		t.hint = id
		zeros := 0
		var zeroIdx [2]int
		for i, o := range [3]int{o0, o1, o2} {
			if o == 0 {
				if zeros < 2 {
					zeroIdx[zeros] = i
				}
				zeros++
			}
		}
		switch zeros {
		case 0:
			return Location{Type: LocInFace, Cell: id}, nil
		case 1:
			v1, v2 := c.LocalEdge(zeroIdx[0])
			he, _ := t.mesh.NodesToHalfedge(v1, v2)
			return Location{Type: LocInEdge, Edge: he}, nil
		default:
			nodeIdx := 3 - (zeroIdx[0] + zeroIdx[1])
			return Location{Type: LocInVertex, Node: c.N[nodeIdx]}, nil
		}
	}
	// Outside every cell: report via any boundary edge whose exterior side
	// is InfCell.
	for id := types.EdgeID(0); int(id) < t.mesh.NumEdgesCap(); id++ {
		if !t.mesh.IsValidEdge(id) {
			continue
		}
		e := t.mesh.Edge(id)
		if e.CellLeft == types.InfCell {
			return Location{Type: LocOutsideConvexHull, Edge: container.Halfedge{Edge: id, Orientation: 1}}, nil
		}
		if e.CellRight == types.InfCell {
			return Location{Type: LocOutsideConvexHull, Edge: container.Halfedge{Edge: id, Orientation: 0}}, nil
		}
	}
	return Location{}, fmt.Errorf("cdt: point location failed")
}

func (t *Triangulation) anyLiveCell() types.CellID {
	for id := types.CellID(0); int(id) < t.mesh.NumCellsCap(); id++ {
		if t.mesh.IsValidCell(id) {
			return id
		}
	}
	return types.NilCell
}

// edgeOtherCell returns the cell adjacent to e that is not from.
func (t *Triangulation) edgeOtherCell(e types.EdgeID, from types.CellID) types.CellID {
	edge := t.mesh.Edge(e)
	if edge.CellLeft == from {
		return edge.CellRight
	}
	return edge.CellLeft
}

func sub(a, b types.Point) types.Point {
	return types.Point{X: a.X - b.X, Y: a.Y - b.Y}
}

func project(dir, origin, p types.Point) float64 {
	v := sub(p, origin)
	return v.X*dir.X + v.Y*dir.Y
}
