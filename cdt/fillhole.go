package cdt

import (
	"fmt"

	"github.com/fenwick-geo/meshfront/predicates"
	"github.com/fenwick-geo/meshfront/types"
)

// fillHole implements fill_hole of §4.6: given a boundary ring of nodes left
// behind by a deletion, with types.InfNode marking any gap that borders the
// convex hull, re-triangulate it. The ring is processed as a work stack of
// loops rather than recursively, since carving an "ear" off one loop can
// leave one or two smaller loops still to be closed.
func (t *Triangulation) fillHole(hole []types.NodeID) error {
	stack := [][]types.NodeID{hole}

	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if len(h) < 3 {
			continue
		}

		// Rotate so the first two entries are real nodes: an edge (a,b)
		// between two sentinels can't be the base of a candidate search.
		for i := 0; i < len(h) && (isInfNode(h[0]) || isInfNode(h[1])); i++ {
			h = append(append([]types.NodeID{}, h[1:]...), h[0])
		}
		a, b := h[0], h[1]

		var cands []types.NodeID
		hasInf := false
		for _, cnode := range h[2:] {
			if isInfNode(cnode) {
				hasInf = true
				continue
			}
			if predicates.Orient2D(t.pos(a), t.pos(b), t.pos(cnode)) > 0 {
				cands = append(cands, cnode)
			}
		}

		// Among the candidates strictly to the left of (a,b), the
		// Delaunay-correct third vertex is the one whose circumcircle with
		// a,b contains none of the others. Ties broken by first-seen order.
		winner := types.InfNode
		found := false
		for _, c := range cands {
			ok := true
			for _, d := range cands {
				if d == c {
					continue
				}
				if predicates.InCircle(t.pos(a), t.pos(b), t.pos(c), t.pos(d)) > 0 {
					ok = false
					break
				}
			}
			if ok {
				winner = c
				found = true
				break
			}
		}

		if !found {
			if !hasInf {
				return fmt.Errorf("cdt: fill_hole found no candidate for edge (%d,%d)", a, b)
			}
			// (a,b) is itself a hull edge; no cell is emitted for it.
		} else if err := t.addCellFilling(a, b, winner); err != nil {
			return err
		}

		if len(h) == 3 {
			continue
		}

		switch {
		case winner == h[2]:
			newHole := append([]types.NodeID{a, winner}, h[3:]...)
			stack = append(stack, newHole)
		case winner == h[len(h)-1]:
			newHole := append([]types.NodeID{}, h[1:]...)
			stack = append(stack, newHole)
		default:
			idx := indexOfNode(h, winner)
			if idx < 0 {
				return fmt.Errorf("cdt: fill_hole lost track of node %d in loop", winner)
			}
			h1 := append([]types.NodeID{}, h[1:idx+1]...)
			h2 := append(append([]types.NodeID{}, h[idx:]...), h[0])
			stack = append(stack, h1, h2)
		}
	}
	return nil
}

// addCellFilling adds a cell for (a,b,c), creating whichever of its three
// edges don't already exist from the surviving hole boundary.
func (t *Triangulation) addCellFilling(a, b, c types.NodeID) error {
	eAB, err := t.ensureEdge(a, b)
	if err != nil {
		return err
	}
	eBC, err := t.ensureEdge(b, c)
	if err != nil {
		return err
	}
	eCA, err := t.ensureEdge(c, a)
	if err != nil {
		return err
	}
	_, err = t.addCellCCW(a, b, c, eBC, eCA, eAB)
	return err
}

func isInfNode(n types.NodeID) bool { return n == types.InfNode }

func indexOfNode(h []types.NodeID, n types.NodeID) int {
	for i, v := range h {
		if v == n {
			return i
		}
	}
	return -1
}
