package front

import (
	"fmt"

	"github.com/fenwick-geo/meshfront/types"
)

// addTriangleCCW mirrors cdt.Triangulation's private addCellCCW/
// attachCellToEdge pair (unexported there, so not reusable directly): it
// adds a cell over the three given nodes, reorienting to counterclockwise
// if needed, then attaches it to each of its three edges' CellLeft/
// CellRight slot — container.Mesh.AddCell does not do this itself.
func (f *Front) addTriangleCCW(a, b, c types.NodeID, eBC, eCA, eAB types.EdgeID) (types.CellID, error) {
	pa, pb, pc := f.grid.Node(a).Pos, f.grid.Node(b).Pos, f.grid.Node(c).Pos
	if orient2D(pa, pb, pc) < 0 {
		b, c = c, b
		eCA, eAB = eAB, eCA
	}
	id, err := f.grid.AddCell([3]types.NodeID{a, b, c}, [3]types.EdgeID{eBC, eCA, eAB})
	if err != nil {
		return types.NilCell, err
	}
	for _, e := range [3]types.EdgeID{eBC, eCA, eAB} {
		if err := f.attachCellToEdge(id, e); err != nil {
			return types.NilCell, err
		}
	}
	return id, nil
}

func (f *Front) attachCellToEdge(cellID types.CellID, e types.EdgeID) error {
	cell := f.grid.Cell(cellID)
	i := cell.IndexOfEdge(e)
	v1, v2 := cell.LocalEdge(i)
	edge := f.grid.Edge(e)
	left, right := edge.CellLeft, edge.CellRight
	if edge.N0 == v1 && edge.N1 == v2 {
		left = cellID
	} else {
		right = cellID
	}
	return f.grid.SetEdgeCells(e, left, right)
}

// orient2D is the twice-signed area of (a,b,c): positive when
// counterclockwise. Front's own mesh never needs the exact-arithmetic
// robustness the CDT's Delaunay flips depend on (every triangle it builds
// comes from already-placed, well-separated boundary/front nodes), so a
// plain floating-point determinant is enough here.
func orient2D(a, b, c types.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// mergeEdges deletes a degree-2 boundary node and reconnects its two
// neighbors with a single edge, collapsing a resampled-away SLIDE node out
// of the still-unmeshed ring. Unlike cdt.Triangulation.DeleteNode, which
// re-triangulates a deleted node's cavity, a ring node being merged away
// here has no incident cells yet, so there is no cavity to refill: the new
// edge simply inherits the cell-slot sentinels of its first surviving
// neighbor edge, since both were cut from the same still-unmeshed ring.
func (f *Front) mergeEdges(n types.NodeID) error {
	edgeIDs := f.grid.NodeToEdges(n)
	if len(edgeIDs) != 2 {
		return fmt.Errorf("front: merge_edges: node %d has degree %d, want 2", n, len(edgeIDs))
	}
	e0 := f.grid.Edge(edgeIDs[0])
	e1 := f.grid.Edge(edgeIDs[1])
	a := e0.OtherNode(n)
	b := e1.OtherNode(n)
	left, right := e0.CellLeft, e0.CellRight

	if err := f.grid.DeleteEdge(edgeIDs[0]); err != nil {
		return err
	}
	if err := f.grid.DeleteEdge(edgeIDs[1]); err != nil {
		return err
	}
	if err := f.grid.DeleteNode(n); err != nil {
		return err
	}
	_, err := f.grid.AddEdgeCells(a, b, left, right)
	return err
}

// moveNode repositions n (firing the primary mesh's ModifyNode event, which
// the shadow CDT mirrors) and updates its curve parameterization.
func (f *Front) moveNode(n types.NodeID, pos types.Point, oring int, ringF float64) error {
	node := f.grid.Node(n)
	if err := f.grid.ModifyNode(n, pos, true); err != nil {
		return err
	}
	return f.grid.SetNodeAttrs(n, node.Fixed, oring, ringF)
}
