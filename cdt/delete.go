package cdt

import (
	"math"
	"sort"

	"github.com/fenwick-geo/meshfront/predicates"
	"github.com/fenwick-geo/meshfront/types"
)

// deleteNode implements delete_node(n) of §4.5, dispatching on the current
// dimension.
func (t *Triangulation) deleteNode(n types.NodeID) error {
	switch t.dim {
	case 0:
		if err := t.mesh.DeleteNode(n); err != nil {
			return err
		}
		t.updateDimAfterDelete()
		return nil
	case 1:
		return t.deleteNodeDim1(n)
	default:
		return t.deleteNodeDim2(n)
	}
}

// updateDimAfterDelete lowers t.dim to reflect how many nodes remain after a
// deletion that did not already decide the new dimension itself.
func (t *Triangulation) updateDimAfterDelete() {
	switch t.mesh.NumNodes() {
	case 0:
		t.dim = -1
	case 1:
		t.dim = 0
	}
}

// deleteNodeDim1 handles deletion while the triangulation is a single
// collinear chain: n is either a chain endpoint (degree 1, just drop its
// edge) or an interior link (degree 2, splice its two neighbors together).
func (t *Triangulation) deleteNodeDim1(n types.NodeID) error {
	nbrs := t.mesh.NodeToNodes(n)
	edges := t.mesh.NodeToEdges(n)

	switch len(nbrs) {
	case 0:
		if err := t.mesh.DeleteNode(n); err != nil {
			return err
		}
	case 1:
		for _, e := range edges {
			if err := t.mesh.DeleteEdge(e); err != nil {
				return err
			}
		}
		if err := t.mesh.DeleteNode(n); err != nil {
			return err
		}
	default: // 2
		a, b := nbrs[0], nbrs[1]
		for _, e := range edges {
			if err := t.mesh.DeleteEdge(e); err != nil {
				return err
			}
		}
		if err := t.mesh.DeleteNode(n); err != nil {
			return err
		}
		if _, err := t.mesh.AddEdge(a, b); err != nil {
			return err
		}
	}
	t.updateDimAfterDelete()
	return nil
}

// deleteNodeDim2 handles deletion from a 2D triangulation: first testing
// for dimension demotion, then either demoting or carving and refilling the
// hole left by n.
func (t *Triangulation) deleteNodeDim2(n types.NodeID) error {
	if t.canDemoteDim1(n) {
		return t.demoteDim2To1(n)
	}

	hole := t.orderedHoleNodes(n)

	for _, c := range t.mesh.NodeToCells(n) {
		if err := t.mesh.DeleteCell(c); err != nil {
			return err
		}
	}
	for _, e := range t.mesh.NodeToEdges(n) {
		if err := t.mesh.DeleteEdge(e); err != nil {
			return err
		}
	}
	if err := t.mesh.DeleteNode(n); err != nil {
		return err
	}
	return t.fillHole(hole)
}

// canDemoteDim1 tests the dimension-demotion precondition of §4.5: every
// node other than n is collinear with two reference nodes, AND every live
// cell is incident to n (so removing n leaves no 2D structure at all).
func (t *Triangulation) canDemoteDim1(n types.NodeID) bool {
	var others []types.NodeID
	for id := types.NodeID(0); int(id) < t.mesh.NumNodesCap(); id++ {
		if t.mesh.IsValidNode(id) && id != n {
			others = append(others, id)
		}
	}
	if len(others) >= 2 {
		p0, p1 := t.pos(others[0]), t.pos(others[1])
		for _, o := range others[2:] {
			if predicates.Orient2D(p0, p1, t.pos(o)) != 0 {
				return false
			}
		}
	}
	for id := types.CellID(0); int(id) < t.mesh.NumCellsCap(); id++ {
		if !t.mesh.IsValidCell(id) {
			continue
		}
		if t.mesh.Cell(id).IndexOfNode(n) < 0 {
			return false
		}
	}
	return true
}

// demoteDim2To1 removes n along with every cell and edge touching it,
// leaving behind the collinear 1D chain that canDemoteDim1 verified exists.
func (t *Triangulation) demoteDim2To1(n types.NodeID) error {
	for _, c := range t.mesh.NodeToCells(n) {
		if err := t.mesh.DeleteCell(c); err != nil {
			return err
		}
	}
	for _, e := range t.mesh.NodeToEdges(n) {
		if err := t.mesh.DeleteEdge(e); err != nil {
			return err
		}
	}
	if err := t.mesh.DeleteNode(n); err != nil {
		return err
	}
	t.dim = 1
	t.updateDimAfterDelete()
	return nil
}

// orderedHoleNodes builds the hole_nodes ring of §4.5 step 2: n's neighbors
// in CCW order around n, with the types.InfNode sentinel inserted between
// any two consecutive neighbors whose shared cell with n does not exist
// (a convex-hull-exterior gap). Ordering by angle around n coincides with
// topological CCW order for any embedded planar triangulation, so this
// sidesteps a halfedge-rotation walk without changing the result.
func (t *Triangulation) orderedHoleNodes(n types.NodeID) []types.NodeID {
	nbrs := t.mesh.NodeToNodes(n)
	pn := t.pos(n)
	sort.Slice(nbrs, func(i, j int) bool {
		pi, pj := t.pos(nbrs[i]), t.pos(nbrs[j])
		return math.Atan2(pi.Y-pn.Y, pi.X-pn.X) < math.Atan2(pj.Y-pn.Y, pj.X-pn.X)
	})

	k := len(nbrs)
	hole := make([]types.NodeID, 0, k+1)
	for idx := 0; idx < k; idx++ {
		a := nbrs[idx]
		b := nbrs[(idx+1)%k]
		hole = append(hole, a)
		if _, ok := t.mesh.NodesToCell(n, a, b); !ok {
			hole = append(hole, types.InfNode)
		}
	}
	return hole
}
