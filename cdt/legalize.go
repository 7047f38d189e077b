package cdt

import (
	"fmt"

	"github.com/fenwick-geo/meshfront/container"
	"github.com/fenwick-geo/meshfront/predicates"
	"github.com/fenwick-geo/meshfront/types"
)

// restoreDelaunay is propagating_flip / restore_delaunay(n) of §4.4: after
// inserting n, walk its incident-cell fan and flip any unconstrained
// opposite edge that violates the local Delaunay property, repeating on the
// edges newly brought into the fan by each flip.
func (t *Triangulation) restoreDelaunay(n types.NodeID) error {
	var stack []types.EdgeID
	seen := make(map[types.EdgeID]bool)
	push := func(e types.EdgeID) {
		if e == types.NilEdge || seen[e] {
			return
		}
		seen[e] = true
		stack = append(stack, e)
	}

	for _, c := range t.mesh.NodeToCells(n) {
		cell := t.mesh.Cell(c)
		push(cell.E[cell.IndexOfNode(n)])
	}

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		delete(seen, e)

		if !t.mesh.IsValidEdge(e) {
			continue
		}
		edge := t.mesh.Edge(e)
		if edge.Constrained {
			continue
		}
		if !edge.CellLeft.Finite() || !edge.CellRight.Finite() {
			continue
		}

		nCell, farCell, ok := cellPairByIncidentNode(t, edge.CellLeft, edge.CellRight, n)
		if !ok {
			continue // n's fan moved on; this edge is no longer adjacent to it
		}
		far := t.mesh.Cell(farCell)
		q := thirdNode(far, edge.N0, edge.N1)
		nc := t.mesh.Cell(nCell)

		if predicates.InCircle(t.pos(nc.N[0]), t.pos(nc.N[1]), t.pos(nc.N[2]), t.pos(q)) > 0 {
			if _, _, err := t.FlipEdge(e); err != nil {
				return err
			}
			// e is now the new diagonal and ends at n: re-check the edge
			// opposite n in each of its two new cells.
			left, right := t.mesh.EdgeToCells(e)
			for _, c := range []types.CellID{left, right} {
				cell := t.mesh.Cell(c)
				push(cell.E[cell.IndexOfNode(n)])
			}
		}
	}
	return nil
}

// cellPairByIncidentNode reports which of left/right has n as a vertex,
// returning (containingN, other, true); (0,0,false) if neither does.
func cellPairByIncidentNode(t *Triangulation, left, right types.CellID, n types.NodeID) (types.CellID, types.CellID, bool) {
	if cellHasNode(t, left, n) {
		return left, right, true
	}
	if cellHasNode(t, right, n) {
		return right, left, true
	}
	return types.NilCell, types.NilCell, false
}

func cellHasNode(t *Triangulation, c types.CellID, n types.NodeID) bool {
	if !c.Finite() {
		return false
	}
	cell := t.mesh.Cell(c)
	return cell.N[0] == n || cell.N[1] == n || cell.N[2] == n
}

// thirdNode returns the vertex of c that is neither a nor b.
func thirdNode(c container.Cell, a, b types.NodeID) types.NodeID {
	for _, nd := range c.N {
		if nd != a && nd != b {
			return nd
		}
	}
	return types.NilNode
}

// FlipEdge implements flip_edge(j) of §4.4: j must have finite cells on
// both sides and must not be constrained. Returns eBP and eQB (the spec's
// a/b/c/d naming): the outer edges of the two replacement cells that lie
// opposite d, the apex of j's former left cell.
func (t *Triangulation) FlipEdge(j types.EdgeID) (types.EdgeID, types.EdgeID, error) {
	edge := t.mesh.Edge(j)
	if edge.Constrained {
		return types.NilEdge, types.NilEdge, fmt.Errorf("cdt: flip_edge on constrained edge %d", j)
	}
	if !edge.CellLeft.Finite() || !edge.CellRight.Finite() {
		return types.NilEdge, types.NilEdge, fmt.Errorf("cdt: flip_edge on boundary edge %d", j)
	}
	p, q := edge.N0, edge.N1
	lc := t.mesh.Cell(edge.CellLeft)
	rc := t.mesh.Cell(edge.CellRight)
	d := thirdNode(lc, p, q)
	b := thirdNode(rc, p, q)

	eBP, _ := t.mesh.NodesToEdge(b, p)
	eDP, _ := t.mesh.NodesToEdge(d, p)
	eQB, _ := t.mesh.NodesToEdge(q, b)
	eQD, _ := t.mesh.NodesToEdge(q, d)

	if err := t.mesh.DeleteCell(edge.CellLeft); err != nil {
		return types.NilEdge, types.NilEdge, err
	}
	if err := t.mesh.DeleteCell(edge.CellRight); err != nil {
		return types.NilEdge, types.NilEdge, err
	}
	if err := t.mesh.ModifyEdgeNodes(j, b, d); err != nil {
		return types.NilEdge, types.NilEdge, err
	}

	if _, err := t.addCellCCW(p, b, d, j, eDP, eBP); err != nil {
		return types.NilEdge, types.NilEdge, err
	}
	if _, err := t.addCellCCW(q, d, b, j, eQB, eQD); err != nil {
		return types.NilEdge, types.NilEdge, err
	}

	return eBP, eQB, nil
}

// CheckLocalDelaunay returns the ids of every unconstrained interior edge
// that violates I4 (the local Delaunay property). An empty result means the
// triangulation is Delaunay everywhere unconstrained edges allow it.
func (t *Triangulation) CheckLocalDelaunay() []types.EdgeID {
	var bad []types.EdgeID
	for id := types.EdgeID(0); int(id) < t.mesh.NumEdgesCap(); id++ {
		if !t.mesh.IsValidEdge(id) {
			continue
		}
		e := t.mesh.Edge(id)
		if e.Constrained || !e.CellLeft.Finite() || !e.CellRight.Finite() {
			continue
		}
		lc := t.mesh.Cell(e.CellLeft)
		q := thirdNode(t.mesh.Cell(e.CellRight), e.N0, e.N1)
		if predicates.InCircle(t.pos(lc.N[0]), t.pos(lc.N[1]), t.pos(lc.N[2]), t.pos(q)) > 0 {
			bad = append(bad, id)
		}
	}
	return bad
}

// CheckGlobalDelaunay is an alias of CheckLocalDelaunay: a triangulation
// that is locally Delaunay at every unconstrained edge is globally Delaunay
// (subject to the constrained edges present), which is exactly why Lawson
// legalization need only ever check local edges.
func (t *Triangulation) CheckGlobalDelaunay() []types.EdgeID {
	return t.CheckLocalDelaunay()
}
