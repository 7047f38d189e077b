package cdt

import (
	"fmt"

	"github.com/fenwick-geo/meshfront/container"
	"github.com/fenwick-geo/meshfront/predicates"
	"github.com/fenwick-geo/meshfront/types"
)

// triInsert dispatches insertion of the already-stored node n according to
// the classification loc returned by Locate, per §4.3, and brings t.dim up
// to date. It calls restoreDelaunay(n) whenever the resulting dimension is
// 2, as required by §4.4.
func (t *Triangulation) triInsert(n types.NodeID, loc Location) error {
	oldDim := t.dim

	switch loc.Type {
	case LocInVertex:
		return ErrDuplicateNode

	case LocInFace:
		if err := t.triInsertInFace(n, loc.Cell); err != nil {
			return err
		}

	case LocInEdge:
		if err := t.triInsertInEdge(n, loc.Edge); err != nil {
			return err
		}

	case LocOutsideConvexHull:
		if oldDim == 1 {
			if _, err := t.mesh.AddEdge(n, loc.Node); err != nil {
				return err
			}
		} else {
			if err := t.triInsertOutsideHullDim2(n, loc.Edge); err != nil {
				return err
			}
		}

	case LocOutsideAffineHull:
		if err := t.triInsertOutsideAffineHull(n, oldDim); err != nil {
			return err
		}
		t.dim = oldDim + 1

	default:
		return fmt.Errorf("cdt: unhandled location type %v", loc.Type)
	}

	if t.dim >= 2 {
		return t.restoreDelaunay(n)
	}
	return nil
}

// triInsertInFace implements the IN_FACE case of §4.3.
func (t *Triangulation) triInsertInFace(n types.NodeID, cellID types.CellID) error {
	c := t.mesh.Cell(cellID)
	a, b, cc := c.N[0], c.N[1], c.N[2]
	eBC, eCA, eAB := c.E[0], c.E[1], c.E[2]

	if err := t.mesh.DeleteCell(cellID); err != nil {
		return err
	}

	eNA, err := t.ensureEdge(n, a)
	if err != nil {
		return err
	}
	eNB, err := t.ensureEdge(n, b)
	if err != nil {
		return err
	}
	eNC, err := t.ensureEdge(n, cc)
	if err != nil {
		return err
	}

	if _, err := t.addCellCCW(a, b, n, eNB, eNA, eAB); err != nil {
		return err
	}
	if _, err := t.addCellCCW(b, cc, n, eNC, eNB, eBC); err != nil {
		return err
	}
	if _, err := t.addCellCCW(cc, a, n, eNA, eNC, eCA); err != nil {
		return err
	}
	return nil
}

// triInsertInEdge implements the IN_EDGE case of §4.3.
func (t *Triangulation) triInsertInEdge(n types.NodeID, he container.Halfedge) error {
	e := he.Edge
	a := t.mesh.NodeRev(he)
	b := t.mesh.NodeFwd(he)
	left, right := t.mesh.EdgeToCells(e)

	type side struct {
		cell types.CellID
		opp  types.NodeID
	}
	var sides []side
	if left.Finite() {
		sides = append(sides, side{left, thirdNode(t.mesh.Cell(left), a, b)})
	}
	if right.Finite() {
		sides = append(sides, side{right, thirdNode(t.mesh.Cell(right), a, b)})
	}

	for _, s := range sides {
		if err := t.mesh.DeleteCell(s.cell); err != nil {
			return err
		}
	}
	if err := t.mesh.DeleteEdge(e); err != nil {
		return err
	}

	eNA, err := t.ensureEdge(n, a)
	if err != nil {
		return err
	}
	eNB, err := t.ensureEdge(n, b)
	if err != nil {
		return err
	}

	for _, s := range sides {
		eAOpp, err := t.ensureEdge(a, s.opp)
		if err != nil {
			return err
		}
		eBOpp, err := t.ensureEdge(b, s.opp)
		if err != nil {
			return err
		}
		eNOpp, err := t.ensureEdge(n, s.opp)
		if err != nil {
			return err
		}
		if _, err := t.addCellCCW(a, n, s.opp, eNOpp, eAOpp, eNA); err != nil {
			return err
		}
		if _, err := t.addCellCCW(n, b, s.opp, eBOpp, eNOpp, eNB); err != nil {
			return err
		}
	}
	return nil
}

// triInsertOutsideHullDim2 implements the OUTSIDE_CONVEX_HULL(dim=2) case of
// §4.3: fan out from n to every boundary node visible from n, walking
// forward and backward from the located boundary halfedge h0.
func (t *Triangulation) triInsertOutsideHullDim2(n types.NodeID, h0 container.Halfedge) error {
	maxSteps := t.mesh.NumEdges() + 4

	fwd := []container.Halfedge{h0}
	cur := h0
	for i := 0; i < maxSteps; i++ {
		next := t.nextHullHalfedge(cur)
		if next.IsNil() || next.Edge == h0.Edge {
			break
		}
		if predicates.Orient2D(t.pos(t.mesh.NodeRev(next)), t.pos(t.mesh.NodeFwd(next)), t.pos(n)) <= 0 {
			break
		}
		fwd = append(fwd, next)
		cur = next
	}

	var back []container.Halfedge
	cur = t.prevHullHalfedge(h0)
	for i := 0; i < maxSteps; i++ {
		if cur.IsNil() || cur.Edge == h0.Edge {
			break
		}
		if predicates.Orient2D(t.pos(t.mesh.NodeRev(cur)), t.pos(t.mesh.NodeFwd(cur)), t.pos(n)) <= 0 {
			break
		}
		back = append(back, cur)
		cur = t.prevHullHalfedge(cur)
	}

	all := make([]container.Halfedge, 0, len(back)+len(fwd))
	for i := len(back) - 1; i >= 0; i-- {
		all = append(all, back[i])
	}
	all = append(all, fwd...)

	for _, h := range all {
		a := t.mesh.NodeRev(h)
		b := t.mesh.NodeFwd(h)
		eAB, ok := t.mesh.NodesToEdge(a, b)
		if !ok {
			return fmt.Errorf("cdt: hull edge (%d,%d) vanished mid-insertion", a, b)
		}
		eNA, err := t.ensureEdge(n, a)
		if err != nil {
			return err
		}
		eNB, err := t.ensureEdge(n, b)
		if err != nil {
			return err
		}
		if _, err := t.addCellCCW(a, b, n, eNB, eNA, eAB); err != nil {
			return err
		}
	}
	return nil
}

// triInsertOutsideAffineHull implements the dimension-promotion case of
// §4.3, for the dimension the triangulation had before n was added.
func (t *Triangulation) triInsertOutsideAffineHull(n types.NodeID, oldDim int) error {
	switch oldDim {
	case -1:
		return nil
	case 0:
		other := t.anyLiveNodeExcept(n)
		if other == types.NilNode {
			return fmt.Errorf("cdt: dim=0 promotion but no other node")
		}
		_, err := t.mesh.AddEdge(n, other)
		return err
	case 1:
		var nodes []types.NodeID
		for id := types.NodeID(0); int(id) < t.mesh.NumNodesCap(); id++ {
			if t.mesh.IsValidNode(id) && id != n {
				nodes = append(nodes, id)
			}
		}
		for _, nd := range nodes {
			if _, err := t.ensureEdge(n, nd); err != nil {
				return err
			}
		}
		for id := types.EdgeID(0); int(id) < t.mesh.NumEdgesCap(); id++ {
			if !t.mesh.IsValidEdge(id) {
				continue
			}
			edge := t.mesh.Edge(id)
			if edge.N0 == n || edge.N1 == n {
				continue
			}
			a, b := edge.N0, edge.N1
			eNA, _ := t.mesh.NodesToEdge(n, a)
			eNB, _ := t.mesh.NodesToEdge(n, b)
			if _, err := t.addCellCCW(a, b, n, eNB, eNA, id); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("cdt: unexpected dim %d for affine-hull promotion", oldDim)
	}
}

func (t *Triangulation) anyLiveNodeExcept(n types.NodeID) types.NodeID {
	for id := types.NodeID(0); int(id) < t.mesh.NumNodesCap(); id++ {
		if t.mesh.IsValidNode(id) && id != n {
			return id
		}
	}
	return types.NilNode
}

// nextHullHalfedge returns the convex-hull boundary halfedge that continues
// h (same exterior-left convention), starting at NodeFwd(h).
func (t *Triangulation) nextHullHalfedge(h container.Halfedge) container.Halfedge {
	b := t.mesh.NodeFwd(h)
	for _, e := range t.mesh.NodeToEdges(b) {
		if e == h.Edge {
			continue
		}
		cand := t.haltFrom(e, b)
		if t.mesh.HeCell(cand) == types.InfCell {
			return cand
		}
	}
	return container.NilHalfedge
}

// prevHullHalfedge returns the convex-hull boundary halfedge that precedes
// h, ending at NodeRev(h).
func (t *Triangulation) prevHullHalfedge(h container.Halfedge) container.Halfedge {
	a := t.mesh.NodeRev(h)
	for _, e := range t.mesh.NodeToEdges(a) {
		if e == h.Edge {
			continue
		}
		cand := t.haltTo(e, a)
		if t.mesh.HeCell(cand) == types.InfCell {
			return cand
		}
	}
	return container.NilHalfedge
}

// haltFrom returns the halfedge of e whose tail (NodeRev) is n.
func (t *Triangulation) haltFrom(e types.EdgeID, n types.NodeID) container.Halfedge {
	edge := t.mesh.Edge(e)
	if edge.N0 == n {
		return container.Halfedge{Edge: e, Orientation: 0}
	}
	return container.Halfedge{Edge: e, Orientation: 1}
}

// haltTo returns the halfedge of e whose head (NodeFwd) is n.
func (t *Triangulation) haltTo(e types.EdgeID, n types.NodeID) container.Halfedge {
	edge := t.mesh.Edge(e)
	if edge.N1 == n {
		return container.Halfedge{Edge: e, Orientation: 0}
	}
	return container.Halfedge{Edge: e, Orientation: 1}
}
