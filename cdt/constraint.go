package cdt

import (
	"fmt"

	"github.com/fenwick-geo/meshfront/container"
	"github.com/fenwick-geo/meshfront/predicates"
	"github.com/fenwick-geo/meshfront/types"
)

// eltKind tags one entry of the intersection history walked by
// findIntersectedElements.
type eltKind int

const (
	eltNode eltKind = iota
	eltEdge
	eltCell
)

type elt struct {
	kind eltKind
	node types.NodeID
	he   container.Halfedge
	cell types.CellID
}

func nodeElt(n types.NodeID) elt        { return elt{kind: eltNode, node: n} }
func edgeElt(h container.Halfedge) elt  { return elt{kind: eltEdge, he: h} }
func cellElt(c types.CellID) elt        { return elt{kind: eltCell, cell: c} }
func (e elt) isNode(n types.NodeID) bool { return e.kind == eltNode && e.node == n }

// AddConstraint implements add_constraint(n_a, n_b) of §4.7: if the edge
// already exists it is simply flagged constrained; otherwise the segment is
// walked node-by-node and cell-by-cell, carving the two bordering holes
// (left_nodes, right_nodes) which are re-triangulated by fillHole once the
// constrained edge itself is in place.
func (t *Triangulation) AddConstraint(nA, nB types.NodeID) error {
	if j, ok := t.mesh.NodesToEdge(nA, nB); ok {
		return t.mesh.SetEdgeConstrained(j, true)
	}

	history, err := t.findIntersectedElements(nA, nB)
	if err != nil {
		return err
	}

	leftNodes := []types.NodeID{nA}
	rightNodes := []types.NodeID{nA}
	var deadCells []types.CellID
	var deadEdges []types.EdgeID

	for _, e := range history[1 : len(history)-1] {
		switch e.kind {
		case eltNode:
			return collinearNodeError(int(e.node))
		case eltCell:
			deadCells = append(deadCells, e.cell)
		case eltEdge:
			if t.mesh.Edge(e.he.Edge).Constrained {
				return intersectingConstraintError(int(e.he.Edge))
			}
			nextLeft := t.mesh.NodeFwd(e.he)
			if leftNodes[len(leftNodes)-1] != nextLeft {
				leftNodes = append(leftNodes, nextLeft)
			}
			nextRight := t.mesh.NodeRev(e.he)
			if rightNodes[len(rightNodes)-1] != nextRight {
				rightNodes = append(rightNodes, nextRight)
			}
			deadEdges = append(deadEdges, e.he.Edge)
		}
	}
	leftNodes = append(leftNodes, nB)
	rightNodes = append(rightNodes, nB)
	reverseNodes(leftNodes)

	for _, c := range deadCells {
		if err := t.mesh.DeleteCell(c); err != nil {
			return err
		}
	}
	for _, j := range deadEdges {
		if err := t.mesh.DeleteEdge(j); err != nil {
			return err
		}
	}

	j, err := t.mesh.AddEdge(nA, nB)
	if err != nil {
		return err
	}
	if err := t.mesh.SetEdgeConstrained(j, true); err != nil {
		return err
	}

	if err := t.fillHole(leftNodes); err != nil {
		return err
	}
	return t.fillHole(rightNodes)
}

func reverseNodes(ns []types.NodeID) {
	for i, k := 0, len(ns)-1; i < k; i, k = i+1, k-1 {
		ns[i], ns[k] = ns[k], ns[i]
	}
}

// RemoveConstraint implements remove_constraint(n_a, n_b) of §4.7: clear
// the constrained flag and propagate a single flip check from one incident
// cell using its apex opposite the edge, restoring the local Delaunay
// property without a full global recheck.
func (t *Triangulation) RemoveConstraint(nA, nB types.NodeID) error {
	j, ok := t.mesh.NodesToEdge(nA, nB)
	if !ok {
		return fmt.Errorf("cdt: remove_constraint: no edge (%d,%d)", nA, nB)
	}
	if err := t.mesh.SetEdgeConstrained(j, false); err != nil {
		return err
	}

	left, right := t.mesh.EdgeToCells(j)
	if left.Finite() && right.Finite() {
		c := t.mesh.Cell(left)
		for _, n := range c.N {
			if n != nA && n != nB {
				return t.restoreDelaunay(n)
			}
		}
	}
	return t.postCheck()
}

// findIntersectedElements walks from nA to nB recording the sequence of
// nodes, edges and cells the straight segment passes through, per §4.7
// step 1.
func (t *Triangulation) findIntersectedElements(nA, nB types.NodeID) ([]elt, error) {
	A, B := t.pos(nA), t.pos(nB)
	history := []elt{nodeElt(nA)}
	trav := history[0]

	if t.dim == 1 {
		// A 1D triangulation is a bare chain with no cells, so the walk is
		// plain node-to-node stepping rather than halfedge navigation.
		cur, prev := nA, types.NilNode
		found := false
		for _, nb := range t.mesh.NodeToNodes(nA) {
			if nb == nB {
				history = append(history, nodeElt(nB))
				return history, nil
			}
			if ordered(A, t.pos(nb), B) {
				prev, cur = nA, nb
				trav = nodeElt(nb)
				history = append(history, trav)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("cdt: find_intersected_elements: no direction from %d toward %d", nA, nB)
		}
		for !trav.isNode(nB) {
			var next types.NodeID = types.NilNode
			for _, nb := range t.mesh.NodeToNodes(cur) {
				if nb != prev {
					next = nb
					break
				}
			}
			if next == types.NilNode {
				return nil, fmt.Errorf("cdt: find_intersected_elements: chain ended before reaching %d", nB)
			}
			prev, cur = cur, next
			trav = nodeElt(cur)
			history = append(history, trav)
		}
		return history, nil
	}

	maxSteps := 4*(t.mesh.NumCells()+t.mesh.NumNodes()) + 16
	for step := 0; !trav.isNode(nB); step++ {
		if step > maxSteps {
			return nil, fmt.Errorf("cdt: find_intersected_elements: walk from %d to %d failed to terminate", nA, nB)
		}

		switch trav.kind {
		case eltNode:
			ntrav := trav.node
			N := t.pos(ntrav)
			next, ok := elt{}, false
			for _, c := range t.mesh.NodeToCells(ntrav) {
				cn := t.mesh.CellToNodes(c)
				ci := indexOfNodeArr(cn, ntrav)
				nD := cn[(ci+1)%3]
				nE := cn[(ci+2)%3]
				if nD == nB || nE == nB {
					next, ok = nodeElt(nB), true
					break
				}

				oD := predicates.Orient2D(A, B, t.pos(nD))
				if oD > 0 {
					continue
				}
				if oD == 0 && ordered(N, t.pos(nD), B) {
					next, ok = nodeElt(nD), true
					break
				}

				oE := predicates.Orient2D(A, B, t.pos(nE))
				if oE < 0 {
					continue
				}
				if oE == 0 && ordered(N, t.pos(nE), B) {
					next, ok = nodeElt(nE), true
					break
				}

				edges := t.mesh.CellToEdges(c)
				j := edges[ci]
				left, right := t.mesh.EdgeToCells(j)
				history = append(history, cellElt(c))
				if left == c {
					next, ok = edgeElt(container.Halfedge{Edge: j, Orientation: 0}), true
				} else if right == c {
					next, ok = edgeElt(container.Halfedge{Edge: j, Orientation: 1}), true
				}
				break
			}
			if !ok {
				return nil, fmt.Errorf("cdt: find_intersected_elements: stuck at node %d", ntrav)
			}
			trav = next

		case eltEdge:
			he := trav.he.Opposite()
			cNext := t.mesh.HeCell(he)
			history = append(history, cellElt(cNext))

			nD := t.mesh.NodeFwd(t.mesh.HeFwd(he))
			oD := predicates.Orient2D(A, B, t.pos(nD))
			switch {
			case oD == 0:
				trav = nodeElt(nD)
			case oD > 0:
				trav = edgeElt(t.mesh.HeFwd(he))
			default:
				trav = edgeElt(t.mesh.HeRev(he))
			}

		default:
			return nil, fmt.Errorf("cdt: find_intersected_elements: unexpected history element")
		}
		history = append(history, trav)
	}
	return history, nil
}

func indexOfNodeArr(arr [3]types.NodeID, n types.NodeID) int {
	for i, v := range arr {
		if v == n {
			return i
		}
	}
	return -1
}

// ordered reports whether three collinear points lie in order along their
// shared line, per §4.7's "ordered" helper.
func ordered(x1, x2, x3 types.Point) bool {
	if x1.X != x2.X {
		return (x1.X < x2.X) == (x2.X < x3.X)
	}
	return (x1.Y < x2.Y) == (x2.Y < x3.Y)
}
