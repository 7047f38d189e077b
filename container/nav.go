package container

import "github.com/fenwick-geo/meshfront/types"

// NodeToEdges returns the (unordered) ids of edges incident to n.
func (m *Mesh) NodeToEdges(n types.NodeID) []types.EdgeID {
	set := m.nodeEdges[n]
	out := make([]types.EdgeID, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	return out
}

// NodeToNodes returns the nodes directly connected to n by a live edge.
func (m *Mesh) NodeToNodes(n types.NodeID) []types.NodeID {
	edges := m.NodeToEdges(n)
	out := make([]types.NodeID, 0, len(edges))
	for _, e := range edges {
		out = append(out, m.edges[e].OtherNode(n))
	}
	return out
}

// NodeToCells returns the distinct live cells incident to n.
func (m *Mesh) NodeToCells(n types.NodeID) []types.CellID {
	seen := make(map[types.CellID]struct{})
	var out []types.CellID
	for e := range m.nodeEdges[n] {
		edge := m.edges[e]
		for _, c := range [2]types.CellID{edge.CellLeft, edge.CellRight} {
			if !c.Finite() || m.cells[c].Deleted {
				continue
			}
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	return out
}

// EdgeToCells returns the two cell slots of an edge in (left, right) order.
func (m *Mesh) EdgeToCells(e types.EdgeID) (types.CellID, types.CellID) {
	edge := m.edges[e]
	return edge.CellLeft, edge.CellRight
}

// CellToEdges returns the three edge ids of a cell, E[i] opposite N[i].
func (m *Mesh) CellToEdges(c types.CellID) [3]types.EdgeID {
	return m.cells[c].E
}

// CellToNodes returns the three node ids of a cell in stored CCW order.
func (m *Mesh) CellToNodes(c types.CellID) [3]types.NodeID {
	return m.cells[c].N
}

// NodesToEdge looks up the (possibly absent) live edge connecting a and b.
func (m *Mesh) NodesToEdge(a, b types.NodeID) (types.EdgeID, bool) {
	id, ok := m.edgeIndex[canonicalPair(a, b)]
	return id, ok
}

// NodesToCell looks up the (possibly absent) live cell with exactly the
// vertex set {a, b, c}, regardless of winding.
func (m *Mesh) NodesToCell(a, b, c types.NodeID) (types.CellID, bool) {
	id, ok := m.cellIndex[canonicalTriple(a, b, c)]
	return id, ok
}

// NodesToHalfedge returns the halfedge running a->b, if edge (a,b) exists.
func (m *Mesh) NodesToHalfedge(a, b types.NodeID) (Halfedge, bool) {
	id, ok := m.edgeIndex[canonicalPair(a, b)]
	if !ok {
		return NilHalfedge, false
	}
	e := m.edges[id]
	if e.N0 == a {
		return Halfedge{Edge: id, Orientation: 0}, true
	}
	return Halfedge{Edge: id, Orientation: 1}, true
}

// NodeRev returns the tail node of a directed halfedge.
func (m *Mesh) NodeRev(h Halfedge) types.NodeID {
	e := m.edges[h.Edge]
	if h.Orientation == 0 {
		return e.N0
	}
	return e.N1
}

// NodeFwd returns the head node of a directed halfedge.
func (m *Mesh) NodeFwd(h Halfedge) types.NodeID {
	e := m.edges[h.Edge]
	if h.Orientation == 0 {
		return e.N1
	}
	return e.N0
}

// HeCell returns the cell lying to the left of h, i.e. the cell whose own
// CCW boundary runs in the same direction as h.
func (m *Mesh) HeCell(h Halfedge) types.CellID {
	e := m.edges[h.Edge]
	if h.Orientation == 0 {
		return e.CellLeft
	}
	return e.CellRight
}

// HeCellOpp returns the cell on the other side of h from HeCell.
func (m *Mesh) HeCellOpp(h Halfedge) types.CellID {
	e := m.edges[h.Edge]
	if h.Orientation == 0 {
		return e.CellRight
	}
	return e.CellLeft
}

// HeFwd returns the next halfedge walking CCW around HeCell(h), i.e. the
// edge leaving NodeFwd(h) that continues the same cell's boundary.
// Requires HeCell(h) to be finite.
func (m *Mesh) HeFwd(h Halfedge) Halfedge {
	c := m.HeCell(h)
	cell := m.cells[c]
	i := cell.IndexOfEdge(h.Edge)
	next := cell.E[(i+1)%3]
	tail := m.NodeFwd(h)
	return m.orientFrom(next, tail)
}

// HeRev returns the previous halfedge walking CCW around HeCell(h), i.e.
// the edge arriving at NodeRev(h) that precedes it on the same boundary.
// Requires HeCell(h) to be finite.
func (m *Mesh) HeRev(h Halfedge) Halfedge {
	c := m.HeCell(h)
	cell := m.cells[c]
	i := cell.IndexOfEdge(h.Edge)
	prev := cell.E[(i+2)%3]
	head := m.NodeRev(h)
	return m.orientFrom(prev, head).Opposite()
}

// orientFrom returns the halfedge for edge e whose tail is n.
func (m *Mesh) orientFrom(e types.EdgeID, n types.NodeID) Halfedge {
	edge := m.edges[e]
	if edge.N0 == n {
		return Halfedge{Edge: e, Orientation: 0}
	}
	return Halfedge{Edge: e, Orientation: 1}
}
