package cdt

import (
	"errors"
	"testing"

	"github.com/fenwick-geo/meshfront/types"
)

func pt(x, y float64) types.Point { return types.Point{X: x, Y: y} }

// S1: the classic unit-square 4-point insertion.
func TestInsertUnitSquare(t *testing.T) {
	tr := New(WithPostCheck(true))
	pts := []types.Point{pt(0, 0), pt(1, 0), pt(0, 1), pt(1, 1)}
	for i, p := range pts {
		if _, err := tr.AddNode(p); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	if got := tr.Mesh().NumCells(); got != 2 {
		t.Fatalf("expected 2 cells, got %d", got)
	}
	if bad := tr.CheckLocalDelaunay(); len(bad) != 0 {
		t.Fatalf("expected empty CheckLocalDelaunay, got %v", bad)
	}
	if tr.Dim() != 2 {
		t.Fatalf("expected dim 2, got %d", tr.Dim())
	}
}

// B1: dimension promotion -1 -> 0 -> 1 -> 2 across the first three
// non-collinear points.
func TestDimPromotion(t *testing.T) {
	tr := New()
	if tr.Dim() != -1 {
		t.Fatalf("expected dim -1 initially, got %d", tr.Dim())
	}
	if _, err := tr.AddNode(pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if tr.Dim() != 0 {
		t.Fatalf("expected dim 0, got %d", tr.Dim())
	}
	if _, err := tr.AddNode(pt(1, 0)); err != nil {
		t.Fatal(err)
	}
	if tr.Dim() != 1 {
		t.Fatalf("expected dim 1, got %d", tr.Dim())
	}
	if _, err := tr.AddNode(pt(0, 1)); err != nil {
		t.Fatal(err)
	}
	if tr.Dim() != 2 {
		t.Fatalf("expected dim 2, got %d", tr.Dim())
	}
}

// S3: (0,0),(1,0),(2,0) then (1,1): dim walks 0->1->1->2, final mesh has
// two cells fanning from the apex over the collinear chain.
func TestCollinearThenPromote(t *testing.T) {
	tr := New()
	for _, p := range []types.Point{pt(0, 0), pt(1, 0), pt(2, 0)} {
		if _, err := tr.AddNode(p); err != nil {
			t.Fatal(err)
		}
	}
	if tr.Dim() != 1 {
		t.Fatalf("expected dim 1 after 3 collinear points, got %d", tr.Dim())
	}
	if _, err := tr.AddNode(pt(1, 1)); err != nil {
		t.Fatal(err)
	}
	if tr.Dim() != 2 {
		t.Fatalf("expected dim 2, got %d", tr.Dim())
	}
	if got := tr.Mesh().NumCells(); got != 2 {
		t.Fatalf("expected 2 cells fanning from the collinear chain, got %d", got)
	}
}

// B3: inserting a duplicate point raises ErrDuplicateNode.
func TestDuplicateNode(t *testing.T) {
	tr := New()
	p := pt(0, 0)
	if _, err := tr.AddNode(p); err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddNode(p); !errors.Is(err, ErrDuplicateNode) {
		t.Fatalf("expected ErrDuplicateNode, got %v", err)
	}
}

// B2: inserting a point exactly on an existing edge triggers IN_EDGE
// handling and yields 4 cells where there were 2.
func TestInsertOnEdge(t *testing.T) {
	tr := New(WithPostCheck(true))
	for _, p := range []types.Point{pt(0, 0), pt(2, 0), pt(0, 2), pt(2, 2)} {
		if _, err := tr.AddNode(p); err != nil {
			t.Fatal(err)
		}
	}
	if got := tr.Mesh().NumCells(); got != 2 {
		t.Fatalf("setup: expected 2 cells, got %d", got)
	}
	if _, err := tr.AddNode(pt(1, 1)); err != nil {
		t.Fatalf("insert on edge: %v", err)
	}
	if got := tr.Mesh().NumCells(); got != 4 {
		t.Fatalf("expected 4 cells after splitting an edge-interior cell pair, got %d", got)
	}
}

// Random point clouds should always end up fully Delaunay (P2/P4).
func TestRandomCloudIsDelaunay(t *testing.T) {
	tr := New(WithPostCheck(true))
	pts := []types.Point{
		pt(0, 0), pt(5, 0), pt(10, 0), pt(3, 4), pt(7, 2),
		pt(2, 8), pt(9, 9), pt(4.5, 4.5), pt(1, 6), pt(8, 6),
	}
	for _, p := range pts {
		if _, err := tr.AddNode(p); err != nil {
			t.Fatal(err)
		}
	}
	if bad := tr.CheckGlobalDelaunay(); len(bad) != 0 {
		t.Fatalf("expected a fully Delaunay mesh, found bad edges: %v", bad)
	}
}

// S2: add_constraint(0,3) on the unit square adds the diagonal and flags it
// constrained, without creating the other diagonal.
func TestAddConstraintDiagonal(t *testing.T) {
	tr := New(WithPostCheck(true))
	var ids []types.NodeID
	for _, p := range []types.Point{pt(0, 0), pt(1, 0), pt(0, 1), pt(1, 1)} {
		n, err := tr.AddNode(p)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n)
	}
	if err := tr.AddConstraint(ids[0], ids[3]); err != nil {
		t.Fatalf("add_constraint: %v", err)
	}
	j, ok := tr.Mesh().NodesToEdge(ids[0], ids[3])
	if !ok {
		t.Fatal("expected constrained diagonal edge to exist")
	}
	if !tr.Mesh().Edge(j).Constrained {
		t.Fatal("expected diagonal edge to be constrained")
	}
	if _, ok := tr.Mesh().NodesToEdge(ids[1], ids[2]); ok {
		t.Fatal("expected the other diagonal to not exist")
	}
}

// B4: add_constraint across a collinear interior node fails.
func TestAddConstraintCollinearNode(t *testing.T) {
	tr := New()
	a, err := tr.AddNode(pt(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	w, err := tr.AddNode(pt(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	b, err := tr.AddNode(pt(2, 0))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.AddNode(pt(1, 1)); err != nil {
		t.Fatal(err)
	}
	_ = w
	if err := tr.AddConstraint(a, b); !errors.Is(err, ErrConstraintCollinearNode) {
		t.Fatalf("expected ErrConstraintCollinearNode, got %v", err)
	}
}

// B5: two crossing constraint requests; the second raises
// IntersectingConstraints.
func TestAddConstraintIntersecting(t *testing.T) {
	tr := New()
	var ids []types.NodeID
	for _, p := range []types.Point{pt(0, 0), pt(1, 0), pt(0, 1), pt(1, 1)} {
		n, err := tr.AddNode(p)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n)
	}
	if err := tr.AddConstraint(ids[0], ids[3]); err != nil {
		t.Fatalf("first constraint: %v", err)
	}
	if err := tr.AddConstraint(ids[1], ids[2]); !errors.Is(err, ErrIntersectingConstraints) {
		t.Fatalf("expected ErrIntersectingConstraints, got %v", err)
	}
}

// R2: add_constraint then remove_constraint yields a fully Delaunay mesh.
func TestConstraintRoundTrip(t *testing.T) {
	tr := New(WithPostCheck(true))
	var ids []types.NodeID
	for _, p := range []types.Point{pt(0, 0), pt(1, 0), pt(0, 1), pt(1, 1)} {
		n, err := tr.AddNode(p)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n)
	}
	if err := tr.AddConstraint(ids[0], ids[3]); err != nil {
		t.Fatal(err)
	}
	if err := tr.RemoveConstraint(ids[0], ids[3]); err != nil {
		t.Fatal(err)
	}
	if bad := tr.CheckGlobalDelaunay(); len(bad) != 0 {
		t.Fatalf("expected fully Delaunay mesh after round-trip, found: %v", bad)
	}
}

// Deleting every node from a small triangulation, one at a time, should
// leave the mesh empty and dim -1 with no invariant violations along the
// way.
func TestDeleteNodeDrainsToEmpty(t *testing.T) {
	tr := New(WithPostCheck(true))
	pts := []types.Point{pt(0, 0), pt(4, 0), pt(2, 4), pt(2, 1)}
	var ids []types.NodeID
	for _, p := range pts {
		n, err := tr.AddNode(p)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n)
	}
	for _, n := range ids {
		if err := tr.DeleteNode(n); err != nil {
			t.Fatalf("delete node %d: %v", n, err)
		}
	}
	if tr.Dim() != -1 {
		t.Fatalf("expected dim -1 after draining all nodes, got %d", tr.Dim())
	}
	if got := tr.Mesh().NumNodes(); got != 0 {
		t.Fatalf("expected 0 live nodes, got %d", got)
	}
}

// Deleting an interior node from a larger cloud should re-triangulate the
// hole and leave the mesh Delaunay.
func TestDeleteInteriorNode(t *testing.T) {
	tr := New(WithPostCheck(true))
	pts := []types.Point{
		pt(0, 0), pt(5, 0), pt(10, 0), pt(3, 4), pt(7, 2),
		pt(2, 8), pt(9, 9), pt(4.5, 4.5), pt(1, 6), pt(8, 6),
	}
	var ids []types.NodeID
	for _, p := range pts {
		n, err := tr.AddNode(p)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n)
	}
	interior := ids[7] // (4.5,4.5): roughly central
	if err := tr.DeleteNode(interior); err != nil {
		t.Fatalf("delete interior node: %v", err)
	}
	if bad := tr.CheckGlobalDelaunay(); len(bad) != 0 {
		t.Fatalf("expected fully Delaunay mesh after hole fill, found: %v", bad)
	}
	if tr.Mesh().IsValidNode(interior) {
		t.Fatal("expected deleted node to no longer be valid")
	}
}

// R1: insert a set of points, delete them all, reinsert the same set — the
// resulting mesh should again be fully Delaunay with the same cell count.
func TestReinsertAfterFullDelete(t *testing.T) {
	pts := []types.Point{
		pt(0, 0), pt(5, 0), pt(10, 0), pt(3, 4), pt(7, 2), pt(4.5, 4.5),
	}
	tr := New(WithPostCheck(true))
	var ids []types.NodeID
	for _, p := range pts {
		n, err := tr.AddNode(p)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n)
	}
	wantCells := tr.Mesh().NumCells()
	for _, n := range ids {
		if err := tr.DeleteNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range pts {
		if _, err := tr.AddNode(p); err != nil {
			t.Fatal(err)
		}
	}
	if got := tr.Mesh().NumCells(); got != wantCells {
		t.Fatalf("expected %d cells after reinsertion, got %d", wantCells, got)
	}
	if bad := tr.CheckGlobalDelaunay(); len(bad) != 0 {
		t.Fatalf("expected fully Delaunay mesh, found: %v", bad)
	}
}

// S6: modify_node on an interior node with two constraints preserves both
// when the move crosses no other constraint.
func TestModifyNodePreservesConstraints(t *testing.T) {
	tr := New(WithPostCheck(true))
	var ids []types.NodeID
	for _, p := range []types.Point{pt(0, 0), pt(4, 0), pt(4, 4), pt(0, 4), pt(2, 2)} {
		n, err := tr.AddNode(p)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, n)
	}
	center := ids[4]
	if err := tr.AddConstraint(ids[0], center); err != nil {
		t.Fatal(err)
	}
	if err := tr.AddConstraint(ids[2], center); err != nil {
		t.Fatal(err)
	}

	if err := tr.ModifyNode(center, pt(2.1, 1.9)); err != nil {
		t.Fatalf("modify_node: %v", err)
	}
	for _, other := range []types.NodeID{ids[0], ids[2]} {
		j, ok := tr.Mesh().NodesToEdge(center, other)
		if !ok || !tr.Mesh().Edge(j).Constrained {
			t.Fatalf("expected constraint (center,%d) to survive modify_node", other)
		}
	}
}

// BulkInit should insert every point and leave a fully Delaunay mesh.
func TestBulkInit(t *testing.T) {
	tr := New()
	pts := []types.Point{
		pt(0, 0), pt(5, 0), pt(10, 0), pt(3, 4), pt(7, 2),
		pt(2, 8), pt(9, 9), pt(4.5, 4.5), pt(1, 6), pt(8, 6),
	}
	if err := tr.BulkInit(pts, WithBulkPostCheck(true)); err != nil {
		t.Fatalf("bulk_init: %v", err)
	}
	if got := tr.Mesh().NumNodes(); got != len(pts) {
		t.Fatalf("expected %d live nodes, got %d", len(pts), got)
	}
	if bad := tr.CheckGlobalDelaunay(); len(bad) != 0 {
		t.Fatalf("expected fully Delaunay mesh after bulk_init, found: %v", bad)
	}
}

// BulkInit refuses to run against a non-empty triangulation.
func TestBulkInitRequiresEmpty(t *testing.T) {
	tr := New()
	if _, err := tr.AddNode(pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := tr.BulkInit([]types.Point{pt(1, 1)}); err == nil {
		t.Fatal("expected bulk_init on a non-empty triangulation to fail")
	}
}

// pickHint should resolve to a cell near the query point once the node
// index has something nearby, not just whatever cell Locate last touched.
func TestPickHintFindsNearbyCell(t *testing.T) {
	tr := New(WithHintCellSize(2))
	pts := []types.Point{
		pt(0, 0), pt(10, 0), pt(0, 10), pt(10, 10),
		pt(20, 0), pt(20, 10),
	}
	for _, p := range pts {
		if _, err := tr.AddNode(p); err != nil {
			t.Fatalf("insert %v: %v", p, err)
		}
	}

	// Force the stale single-cell hint toward the opposite corner of the
	// mesh from where pickHint will be asked to locate.
	tr.hint = types.NilCell
	for id := types.CellID(0); int(id) < tr.mesh.NumCellsCap(); id++ {
		if tr.mesh.IsValidCell(id) {
			nodes := tr.mesh.CellToNodes(id)
			if tr.pos(nodes[0]) == pt(0, 0) || tr.pos(nodes[1]) == pt(0, 0) || tr.pos(nodes[2]) == pt(0, 0) {
				tr.hint = id
				break
			}
		}
	}
	if tr.hint == types.NilCell {
		t.Fatal("expected to find a cell incident to (0,0)")
	}

	near := pt(19.5, 5)
	got := tr.pickHint(near)
	if !tr.mesh.IsValidCell(got) {
		t.Fatalf("pickHint returned invalid cell %d", got)
	}
	nodes := tr.mesh.CellToNodes(got)
	foundNear := false
	for _, n := range nodes {
		if d := tr.pos(n); d.X >= 15 {
			foundNear = true
		}
	}
	if !foundNear {
		t.Fatalf("expected pickHint(%v) to favor a cell near (20,*), got nodes at %v, %v, %v",
			near, tr.pos(nodes[0]), tr.pos(nodes[1]), tr.pos(nodes[2]))
	}
}
