package container

import (
	"math"

	"github.com/fenwick-geo/meshfront/types"
)

// Mesh owns all node/edge/cell storage for one logical triangulation.
// Deletion uses tombstones so ids stay stable across mutation; strategies
// and higher layers hold only ids, never direct storage references (see
// spec §3 "Ownership").
type Mesh struct {
	nodes []Node
	edges []Edge
	cells []Cell

	freeNodes []types.NodeID
	freeEdges []types.EdgeID
	freeCells []types.CellID

	liveNodes, liveEdges, liveCells int

	nodeEdges map[types.NodeID]map[types.EdgeID]struct{}
	edgeIndex map[nodePair]types.EdgeID
	cellIndex map[nodeTriple]types.CellID

	beforeHooks [numOps][]BeforeFunc
	afterHooks  [numOps][]AfterFunc
}

type nodePair [2]types.NodeID

func canonicalPair(a, b types.NodeID) nodePair {
	if a > b {
		a, b = b, a
	}
	return nodePair{a, b}
}

type nodeTriple [3]types.NodeID

func canonicalTriple(a, b, c types.NodeID) nodeTriple {
	arr := [3]types.NodeID{a, b, c}
	// simple insertion sort, 3 elements
	if arr[0] > arr[1] {
		arr[0], arr[1] = arr[1], arr[0]
	}
	if arr[1] > arr[2] {
		arr[1], arr[2] = arr[2], arr[1]
	}
	if arr[0] > arr[1] {
		arr[0], arr[1] = arr[1], arr[0]
	}
	return nodeTriple(arr)
}

// NewMesh constructs an empty mesh container.
func NewMesh() *Mesh {
	return &Mesh{
		nodeEdges: make(map[types.NodeID]map[types.EdgeID]struct{}),
		edgeIndex: make(map[nodePair]types.EdgeID),
		cellIndex: make(map[nodeTriple]types.CellID),
	}
}

// NumNodes, NumEdges, NumCells report the live entity counts.
func (m *Mesh) NumNodes() int { return m.liveNodes }
func (m *Mesh) NumEdges() int { return m.liveEdges }
func (m *Mesh) NumCells() int { return m.liveCells }

// NumNodesCap, NumEdgesCap, NumCellsCap report the allocated slot count
// (live + tombstoned), i.e. the exclusive upper bound on valid ids. Used by
// callers that need to scan every slot, such as cdt's locate fallback.
func (m *Mesh) NumNodesCap() int { return len(m.nodes) }
func (m *Mesh) NumEdgesCap() int { return len(m.edges) }
func (m *Mesh) NumCellsCap() int { return len(m.cells) }

// --- node lifecycle -------------------------------------------------------

// AddNode appends a new node at position p and returns its id.
func (m *Mesh) AddNode(p types.Point) (types.NodeID, error) {
	return m.addNode(p, types.NilNode)
}

// AddNodeAt inserts a node at position p reusing the tombstoned slot idx.
// idx must currently be a deleted (or never-allocated, at most one past the
// end) slot; this is how the CDT's modify_node rollback protocol and the
// shadow's mirrored ids stay stable across delete/reinsert.
func (m *Mesh) AddNodeAt(idx types.NodeID, p types.Point) (types.NodeID, error) {
	return m.addNode(p, idx)
}

func (m *Mesh) addNode(p types.Point, want types.NodeID) (types.NodeID, error) {
	var id types.NodeID
	switch {
	case want == types.NilNode:
		id = m.allocNode()
	case int(want) == len(m.nodes):
		m.nodes = append(m.nodes, Node{Deleted: true})
		id = want
	case int(want) < len(m.nodes) && m.nodes[want].Deleted:
		id = want
		m.removeFromFreeList(&m.freeNodes, id)
	case int(want) < len(m.nodes) && !m.nodes[want].Deleted:
		return types.NilNode, ErrInvalidNode
	default:
		return types.NilNode, ErrInvalidNode
	}

	m.nodes[id] = Node{Pos: p, Oring: NoCurve, RingF: math.NaN()}
	m.liveNodes++

	m.fireAfter(Event{Op: OpAddNode, Node: id, Pos: p})
	return id, nil
}

func (m *Mesh) allocNode() types.NodeID {
	if n := len(m.freeNodes); n > 0 {
		id := m.freeNodes[n-1]
		m.freeNodes = m.freeNodes[:n-1]
		return id
	}
	id := types.NodeID(len(m.nodes))
	m.nodes = append(m.nodes, Node{})
	return id
}

func (m *Mesh) removeFromFreeList(list *[]types.NodeID, id types.NodeID) {
	for i, v := range *list {
		if v == id {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return
		}
	}
}

// Node returns the stored record for id. Panics on an invalid id, mirroring
// the teacher's slice-index style: callers must validate with IsValidNode
// first when the id comes from outside the package.
func (m *Mesh) Node(id types.NodeID) Node {
	return m.nodes[id]
}

// IsValidNode reports whether id is a live node.
func (m *Mesh) IsValidNode(id types.NodeID) bool {
	return id >= 0 && int(id) < len(m.nodes) && !m.nodes[id].Deleted
}

// ModifyNode updates the stored fields of a live node in place. Passing a
// zero Point for newPos with changed==false leaves the position untouched
// (used for updates that only touch Fixed/Oring/RingF).
func (m *Mesh) ModifyNode(id types.NodeID, newPos types.Point, changed bool) error {
	if !m.IsValidNode(id) {
		return ErrInvalidNode
	}
	old := m.nodes[id]
	if !changed {
		newPos = old.Pos
	}
	evt := Event{Op: OpModifyNode, Node: id, Pos: newPos, OldPos: old.Pos}
	if err := m.fireBefore(evt); err != nil {
		return err
	}
	m.nodes[id].Pos = newPos
	m.fireAfter(evt)
	return nil
}

// SetNodeAttrs updates the advancing-front attributes of a node without
// touching its position or firing position-change hooks.
func (m *Mesh) SetNodeAttrs(id types.NodeID, fixed types.Fixed, oring int, ringF float64) error {
	if !m.IsValidNode(id) {
		return ErrInvalidNode
	}
	n := &m.nodes[id]
	n.Fixed = fixed
	n.Oring = oring
	n.RingF = ringF
	return nil
}

// DeleteNode tombstones a node. The caller (cdt package) is responsible for
// having already removed all incident edges/cells; DeleteNode only clears
// the node slot itself and fires the event.
func (m *Mesh) DeleteNode(id types.NodeID) error {
	if !m.IsValidNode(id) {
		return ErrInvalidNode
	}
	if len(m.nodeEdges[id]) > 0 {
		return ErrInvalidNode
	}
	evt := Event{Op: OpDeleteNode, Node: id, Pos: m.nodes[id].Pos}
	if err := m.fireBefore(evt); err != nil {
		return err
	}
	m.nodes[id] = Node{Deleted: true}
	delete(m.nodeEdges, id)
	m.freeNodes = append(m.freeNodes, id)
	m.liveNodes--
	m.fireAfter(evt)
	return nil
}

// --- edge lifecycle --------------------------------------------------------

// AddEdge creates an edge between n0 and n1 with both cell slots set to
// types.InfCell (unlinked), matching the original's add_edge default.
func (m *Mesh) AddEdge(n0, n1 types.NodeID) (types.EdgeID, error) {
	return m.AddEdgeCells(n0, n1, types.InfCell, types.InfCell)
}

// AddEdgeCells creates an edge between n0 and n1 with explicit cell slots.
func (m *Mesh) AddEdgeCells(n0, n1 types.NodeID, left, right types.CellID) (types.EdgeID, error) {
	if !m.IsValidNode(n0) || !m.IsValidNode(n1) {
		return types.NilEdge, ErrInvalidNode
	}
	key := canonicalPair(n0, n1)
	if _, exists := m.edgeIndex[key]; exists {
		return types.NilEdge, ErrEdgeExists
	}
	evt := Event{Op: OpAddEdge, EdgeNodes: [2]types.NodeID{n0, n1}}
	if err := m.fireBefore(evt); err != nil {
		return types.NilEdge, err
	}

	var id types.EdgeID
	if n := len(m.freeEdges); n > 0 {
		id = m.freeEdges[n-1]
		m.freeEdges = m.freeEdges[:n-1]
	} else {
		id = types.EdgeID(len(m.edges))
		m.edges = append(m.edges, Edge{})
	}
	m.edges[id] = Edge{N0: n0, N1: n1, CellLeft: left, CellRight: right}
	m.edgeIndex[key] = id
	m.liveEdges++
	m.addIncidence(n0, id)
	m.addIncidence(n1, id)

	evt.Edge = id
	m.fireAfter(evt)
	return id, nil
}

func (m *Mesh) addIncidence(n types.NodeID, e types.EdgeID) {
	set, ok := m.nodeEdges[n]
	if !ok {
		set = make(map[types.EdgeID]struct{})
		m.nodeEdges[n] = set
	}
	set[e] = struct{}{}
}

func (m *Mesh) removeIncidence(n types.NodeID, e types.EdgeID) {
	if set, ok := m.nodeEdges[n]; ok {
		delete(set, e)
	}
}

// Edge returns the stored record for id.
func (m *Mesh) Edge(id types.EdgeID) Edge {
	return m.edges[id]
}

// IsValidEdge reports whether id is a live edge.
func (m *Mesh) IsValidEdge(id types.EdgeID) bool {
	return id >= 0 && int(id) < len(m.edges) && !m.edges[id].Deleted
}

// SetEdgeCells updates the cell adjacency slots of an edge without firing
// ModifyEdge hooks (topology-internal, not a node-pair change).
func (m *Mesh) SetEdgeCells(id types.EdgeID, left, right types.CellID) error {
	if !m.IsValidEdge(id) {
		return ErrInvalidEdge
	}
	m.edges[id].CellLeft = left
	m.edges[id].CellRight = right
	return nil
}

// SetEdgeConstrained flips the constrained flag without touching topology.
func (m *Mesh) SetEdgeConstrained(id types.EdgeID, constrained bool) error {
	if !m.IsValidEdge(id) {
		return ErrInvalidEdge
	}
	m.edges[id].Constrained = constrained
	return nil
}

// ModifyEdgeNodes retargets an edge's endpoints (used by flip_edge). Both
// new endpoints must already be live nodes; adjacency bookkeeping and the
// nodes_to_edge index are updated to match.
func (m *Mesh) ModifyEdgeNodes(id types.EdgeID, n0, n1 types.NodeID) error {
	if !m.IsValidEdge(id) {
		return ErrInvalidEdge
	}
	if !m.IsValidNode(n0) || !m.IsValidNode(n1) {
		return ErrInvalidNode
	}
	old := m.edges[id]
	evt := Event{
		Op:           OpModifyEdge,
		Edge:         id,
		EdgeNodes:    [2]types.NodeID{n0, n1},
		OldEdgeNodes: [2]types.NodeID{old.N0, old.N1},
		Constrained:  old.Constrained,
	}
	if err := m.fireBefore(evt); err != nil {
		return err
	}
	delete(m.edgeIndex, canonicalPair(old.N0, old.N1))
	m.removeIncidence(old.N0, id)
	m.removeIncidence(old.N1, id)

	m.edges[id].N0, m.edges[id].N1 = n0, n1
	m.edgeIndex[canonicalPair(n0, n1)] = id
	m.addIncidence(n0, id)
	m.addIncidence(n1, id)

	m.fireAfter(evt)
	return nil
}

// DeleteEdge tombstones an edge. Caller must have already detached it from
// any cells referencing it.
func (m *Mesh) DeleteEdge(id types.EdgeID) error {
	if !m.IsValidEdge(id) {
		return ErrInvalidEdge
	}
	e := m.edges[id]
	evt := Event{Op: OpDeleteEdge, Edge: id, EdgeNodes: [2]types.NodeID{e.N0, e.N1}, Constrained: e.Constrained}
	if err := m.fireBefore(evt); err != nil {
		return err
	}
	delete(m.edgeIndex, canonicalPair(e.N0, e.N1))
	m.removeIncidence(e.N0, id)
	m.removeIncidence(e.N1, id)
	m.edges[id] = Edge{Deleted: true}
	m.freeEdges = append(m.freeEdges, id)
	m.liveEdges--
	m.fireAfter(evt)
	return nil
}

// --- cell lifecycle --------------------------------------------------------

// AddCell adds a cell with the given nodes and edges, exactly as supplied
// (the caller, cdt.addCellCCW, is responsible for CCW ordering per I1).
func (m *Mesh) AddCell(n [3]types.NodeID, e [3]types.EdgeID) (types.CellID, error) {
	for _, nd := range n {
		if !m.IsValidNode(nd) {
			return types.NilCell, ErrInvalidNode
		}
	}
	for _, ed := range e {
		if !m.IsValidEdge(ed) {
			return types.NilCell, ErrInvalidEdge
		}
	}
	var id types.CellID
	if k := len(m.freeCells); k > 0 {
		id = m.freeCells[k-1]
		m.freeCells = m.freeCells[:k-1]
	} else {
		id = types.CellID(len(m.cells))
		m.cells = append(m.cells, Cell{})
	}
	m.cells[id] = Cell{N: n, E: e}
	m.cellIndex[canonicalTriple(n[0], n[1], n[2])] = id
	m.liveCells++
	m.fireAfter(Event{Op: OpAddCell, Cell: id})
	return id, nil
}

// Cell returns the stored record for id.
func (m *Mesh) Cell(id types.CellID) Cell {
	return m.cells[id]
}

// IsValidCell reports whether id is a live, finite cell.
func (m *Mesh) IsValidCell(id types.CellID) bool {
	return id >= 0 && int(id) < len(m.cells) && !m.cells[id].Deleted
}

// DeleteCell tombstones a cell. It does not touch the edges that reference
// it; callers update edge cell-slots via SetEdgeCells before or after.
func (m *Mesh) DeleteCell(id types.CellID) error {
	if !m.IsValidCell(id) {
		return ErrInvalidCell
	}
	evt := Event{Op: OpDeleteCell, Cell: id}
	if err := m.fireBefore(evt); err != nil {
		return err
	}
	c := m.cells[id]
	delete(m.cellIndex, canonicalTriple(c.N[0], c.N[1], c.N[2]))
	m.cells[id] = Cell{Deleted: true}
	m.freeCells = append(m.freeCells, id)
	m.liveCells--
	m.fireAfter(evt)
	return nil
}
