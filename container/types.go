// Package container implements the generic unstructured mesh storage that
// the CDT and advancing-front packages are built on: stable-indexed arenas
// of nodes, edges and cells with tombstone deletion, halfedge navigation,
// and a synchronous before/after event bus.
package container

import "github.com/fenwick-geo/meshfront/types"

// NoCurve is the Oring sentinel for a node that is not attached to any
// boundary curve.
const NoCurve = -1

// Node is the stored representation of a mesh node: position plus the
// advancing-front attributes (Fixed, Oring, RingF) described in spec §3.
// Deleted marks a tombstoned slot; its id may be reused by a later AddNode
// call that supplies the same index via AddNodeAt.
type Node struct {
	Pos     types.Point
	Deleted bool

	Fixed types.Fixed
	Oring int     // curve id owning this node, or NoCurve
	RingF float64 // arclength parameter on that curve, or math.NaN()
}

// Edge is the stored representation of an undirected connection between two
// nodes, plus the two adjacent cell slots. CellLeft is the cell for which
// the directed edge N0->N1 runs counter-clockwise around its boundary;
// CellRight is the cell for which N1->N0 does. Unused/unlinked slots use
// types.InfCell, types.Unmeshed or types.Undefined as documented on those
// constants, never types.NilCell (which means "this isn't a real edge").
type Edge struct {
	N0, N1      types.NodeID
	CellLeft    types.CellID
	CellRight   types.CellID
	Deleted     bool
	Constrained bool
}

// OtherNode returns the endpoint of e that is not n.
func (e Edge) OtherNode(n types.NodeID) types.NodeID {
	if e.N0 == n {
		return e.N1
	}
	return e.N0
}

// HasCell reports whether c occupies either adjacency slot of e.
func (e Edge) HasCell(c types.CellID) bool {
	return e.CellLeft == c || e.CellRight == c
}

// Cell is the stored representation of a triangle: three nodes in strict
// CCW order (invariant I1) plus the three edges opposite each node. E[i] is
// opposite N[i], connecting N[(i+1)%3] and N[(i+2)%3] — i.e. walking the
// cell's CCW boundary visits edges in the order E[2], E[0], E[1].
type Cell struct {
	N [3]types.NodeID
	E [3]types.EdgeID

	Deleted bool
}

// LocalEdge returns the two endpoint node ids, in CCW order, of the edge
// opposite vertex position i, i.e. the edge connecting the other two
// vertices.
func (c Cell) LocalEdge(i int) (types.NodeID, types.NodeID) {
	return c.N[(i+1)%3], c.N[(i+2)%3]
}

// IndexOfNode returns the local vertex position (0,1,2) of n within c, or
// -1 if n is not a vertex of c.
func (c Cell) IndexOfNode(n types.NodeID) int {
	for i := 0; i < 3; i++ {
		if c.N[i] == n {
			return i
		}
	}
	return -1
}

// IndexOfEdge returns the local edge position (0,1,2) of e within c, or -1
// if e is not one of c's edges.
func (c Cell) IndexOfEdge(e types.EdgeID) int {
	for i := 0; i < 3; i++ {
		if c.E[i] == e {
			return i
		}
	}
	return -1
}

// Halfedge is a directed view of an undirected edge. It is never stored;
// callers reconstruct it on demand from a Mesh. Orientation 0 means the
// halfedge runs N0->N1 as stored on the Edge; orientation 1 means N1->N0.
type Halfedge struct {
	Edge        types.EdgeID
	Orientation int
}

// NilHalfedge is the zero-value-adjacent invalid halfedge.
var NilHalfedge = Halfedge{Edge: types.NilEdge, Orientation: 0}

// IsNil reports whether h refers to no edge.
func (h Halfedge) IsNil() bool { return h.Edge == types.NilEdge }

// Opposite returns the halfedge for the same edge running the other way.
func (h Halfedge) Opposite() Halfedge {
	return Halfedge{Edge: h.Edge, Orientation: 1 - h.Orientation}
}
