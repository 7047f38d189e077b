// Package cdt implements an incremental, exact Constrained Delaunay
// Triangulation: point location, insertion with dimensional promotion,
// Lawson legalization that skips constrained edges, constraint insertion by
// hole carving, and node deletion with Devillers-style hole filling.
package cdt

import (
	"fmt"

	"github.com/fenwick-geo/meshfront/container"
	"github.com/fenwick-geo/meshfront/predicates"
	"github.com/fenwick-geo/meshfront/spatial"
	"github.com/fenwick-geo/meshfront/types"
)

// Triangulation is a planar, exact Constrained Delaunay Triangulation. It
// owns its storage (a *container.Mesh); Mesh exposes that storage so a
// shadow.Shadow or an advancing-front driver can subscribe to its mutation
// events or issue read-only adjacency queries.
type Triangulation struct {
	mesh *container.Mesh
	dim  int // -1, 0, 1, 2

	hint      types.CellID                    // last-used-cell point-location fallback
	nodeIndex *spatial.HashGrid[types.NodeID] // nearby-node point-location hint

	cfg config
}

// New constructs an empty Triangulation.
func New(opts ...Option) *Triangulation {
	cfg := config{hintCellSize: defaultHintCellSize}
	for _, o := range opts {
		o(&cfg)
	}
	t := &Triangulation{
		mesh:      container.NewMesh(),
		dim:       -1,
		hint:      types.NilCell,
		nodeIndex: spatial.NewHashGrid[types.NodeID](cfg.hintCellSize),
		cfg:       cfg,
	}
	t.mesh.SubscribeAfter(container.OpAddNode, func(evt container.Event) {
		t.nodeIndex.AddVertex(evt.Node, evt.Pos)
	})
	t.mesh.SubscribeAfter(container.OpModifyNode, func(evt container.Event) {
		t.nodeIndex.AddVertex(evt.Node, evt.Pos)
	})
	return t
}

// Mesh exposes the underlying container so other subsystems (shadow sync,
// the advancing-front driver) can subscribe to its events or query
// adjacency. Direct mutation through Mesh bypasses the Delaunay/constraint
// machinery and is the caller's responsibility not to do.
func (t *Triangulation) Mesh() *container.Mesh { return t.mesh }

// Dim reports the current affine-hull dimension: -1 empty, 0 a single
// node, 1 all nodes collinear, 2 otherwise.
func (t *Triangulation) Dim() int { return t.dim }

// AddNode locates x within the current triangulation and inserts it,
// dispatching per §4.3. Returns ErrDuplicateNode if x coincides with an
// existing node.
func (t *Triangulation) AddNode(x types.Point) (types.NodeID, error) {
	loc, err := t.Locate(x, t.pickHint(x))
	if err != nil {
		return types.NilNode, err
	}
	if loc.Type == LocInVertex {
		return types.NilNode, ErrDuplicateNode
	}

	n, err := t.mesh.AddNode(x)
	if err != nil {
		return types.NilNode, err
	}

	if err := t.triInsert(n, loc); err != nil {
		return types.NilNode, err
	}
	if err := t.postCheck(); err != nil {
		return types.NilNode, err
	}
	return n, nil
}

// ModifyNode moves node n to a new position, using the save/delete/
// reinsert/rollback protocol of spec §4.9 to preserve its constraints. If
// the new position would make a preserved constraint cross another, the
// node is restored to its original position and all original constraints
// are re-added before ErrIntersectingConstraints (wrapped) is returned.
func (t *Triangulation) ModifyNode(n types.NodeID, x types.Point) error {
	if !t.mesh.IsValidNode(n) {
		return container.ErrInvalidNode
	}

	type pair struct{ a, b types.NodeID }
	var constraints []pair
	for _, e := range t.mesh.NodeToEdges(n) {
		edge := t.mesh.Edge(e)
		if edge.Constrained {
			constraints = append(constraints, pair{edge.N0, edge.N1})
		}
	}

	oldX := t.mesh.Node(n).Pos
	attrs := t.mesh.Node(n)

	if err := t.deleteNode(n); err != nil {
		return fmt.Errorf("modify_node: %w", err)
	}

	reinsert := func(pos types.Point) error {
		loc, err := t.Locate(pos, t.pickHint(pos))
		if err != nil {
			return err
		}
		if loc.Type == LocInVertex {
			return ErrDuplicateNode
		}
		if _, err := t.mesh.AddNodeAt(n, pos); err != nil {
			return err
		}
		if err := t.mesh.SetNodeAttrs(n, attrs.Fixed, attrs.Oring, attrs.RingF); err != nil {
			return err
		}
		return t.triInsert(n, loc)
	}

	if err := reinsert(x); err != nil {
		return err
	}

	for _, c := range constraints {
		if err := t.AddConstraint(c.a, c.b); err != nil {
			if isBadConstraint(err) {
				// Roll back: delete, reinsert at the original position,
				// and restore all original constraints (must succeed).
				if delErr := t.deleteNode(n); delErr != nil {
					return fmt.Errorf("modify_node: rollback delete failed: %w", delErr)
				}
				if reErr := reinsert(oldX); reErr != nil {
					return fmt.Errorf("modify_node: rollback reinsert failed: %w", reErr)
				}
				for _, c2 := range constraints {
					if addErr := t.AddConstraint(c2.a, c2.b); addErr != nil {
						return fmt.Errorf("modify_node: rollback constraint restore failed: %w", addErr)
					}
				}
				return err
			}
			return err
		}
	}

	return t.postCheck()
}

// DeleteNode removes n, re-triangulating the resulting hole (§4.5).
func (t *Triangulation) DeleteNode(n types.NodeID) error {
	if err := t.deleteNode(n); err != nil {
		return err
	}
	return t.postCheck()
}

func (t *Triangulation) postCheck() error {
	if !t.cfg.postCheck {
		return nil
	}
	if probs := t.CheckLocalDelaunay(); len(probs) > 0 {
		return fmt.Errorf("%w: %d locally-illegal edges", ErrGridException, len(probs))
	}
	return nil
}

// addCellCCW adds a cell for (a,b,c), reversing winding if necessary so the
// stored order is strictly CCW (I1), using edges eBC, eCA, eAB already
// present between the respective node pairs. It then attaches the new cell
// to the correct left/right slot of each of its three edges (I2), so every
// caller gets consistent adjacency for free.
func (t *Triangulation) addCellCCW(a, b, c types.NodeID, eBC, eCA, eAB types.EdgeID) (types.CellID, error) {
	pa, pb, pc := t.pos(a), t.pos(b), t.pos(c)
	if predicates.Orient2D(pa, pb, pc) < 0 {
		b, c = c, b
		eCA, eAB = eAB, eCA
		// after swapping b,c the edge opposite a is still (b,c) i.e. eBC unchanged
	}
	id, err := t.mesh.AddCell([3]types.NodeID{a, b, c}, [3]types.EdgeID{eBC, eCA, eAB})
	if err != nil {
		return types.NilCell, err
	}
	for _, e := range [3]types.EdgeID{eBC, eCA, eAB} {
		if err := t.attachCellToEdge(id, e); err != nil {
			return types.NilCell, err
		}
	}
	return id, nil
}

// attachCellToEdge records cellID on whichever of e's two adjacency slots
// matches cellID's own CCW boundary direction along e, leaving the other
// slot untouched.
func (t *Triangulation) attachCellToEdge(cellID types.CellID, e types.EdgeID) error {
	cell := t.mesh.Cell(cellID)
	i := cell.IndexOfEdge(e)
	v1, v2 := cell.LocalEdge(i)
	edge := t.mesh.Edge(e)
	left, right := t.mesh.EdgeToCells(e)
	if edge.N0 == v1 && edge.N1 == v2 {
		left = cellID
	} else {
		right = cellID
	}
	return t.mesh.SetEdgeCells(e, left, right)
}

func (t *Triangulation) pos(n types.NodeID) types.Point {
	return t.mesh.Node(n).Pos
}

// ensureEdge returns the edge between a and b, creating it (with both cell
// slots InfCell, to be attached by the caller) if it does not yet exist.
func (t *Triangulation) ensureEdge(a, b types.NodeID) (types.EdgeID, error) {
	if e, ok := t.mesh.NodesToEdge(a, b); ok {
		return e, nil
	}
	return t.mesh.AddEdge(a, b)
}
