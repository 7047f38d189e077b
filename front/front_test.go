package front

import (
	"testing"

	"github.com/fenwick-geo/meshfront/curve"
	"github.com/fenwick-geo/meshfront/types"
)

func pt(x, y float64) types.Point { return types.Point{X: x, Y: y} }

func unitScale(types.Point) float64 { return 1.0 }

func squareCurve(t *testing.T, side float64) *curve.Curve {
	t.Helper()
	c, err := curve.New([]types.Point{
		pt(0, 0), pt(side, 0), pt(side, side), pt(0, side),
	}, true)
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	return c
}

// S5: a closed square boundary at unit scale upsamples into one SLIDE node
// per unit of perimeter, connected by an Unmeshed/Undefined boundary ring.
func TestInitializeBoundariesSquare(t *testing.T) {
	f := New()
	f.SetEdgeScale(unitScale)
	f.AddCurve(squareCurve(t, 4))

	if err := f.InitializeBoundaries(); err != nil {
		t.Fatalf("InitializeBoundaries: %v", err)
	}

	if got := f.Grid().NumNodes(); got != 16 {
		t.Fatalf("expected 16 boundary nodes, got %d", got)
	}
	if got := f.Grid().NumEdges(); got != 16 {
		t.Fatalf("expected 16 boundary edges, got %d", got)
	}
	for n := types.NodeID(0); int(n) < f.Grid().NumNodesCap(); n++ {
		if !f.Grid().IsValidNode(n) {
			continue
		}
		node := f.Grid().Node(n)
		if node.Fixed != types.Slide {
			t.Fatalf("node %d: expected Slide, got %v", n, node.Fixed)
		}
	}
}

// ChooseSite must find a candidate site as soon as the boundary exists, and
// that site's two known edges must actually border Unmeshed.
func TestChooseSiteFindsBoundarySite(t *testing.T) {
	f := New()
	f.SetEdgeScale(unitScale)
	f.AddCurve(squareCurve(t, 4))
	if err := f.InitializeBoundaries(); err != nil {
		t.Fatalf("InitializeBoundaries: %v", err)
	}

	site, ok := f.ChooseSite()
	if !ok {
		t.Fatal("ChooseSite: expected a site, got none")
	}
	a, b, c := site.ABC[0], site.ABC[1], site.ABC[2]
	if a == b || b == c || a == c {
		t.Fatalf("site (%d,%d,%d) has repeated nodes", a, b, c)
	}
	jAB, ok := f.Grid().NodesToEdge(a, b)
	if !ok {
		t.Fatalf("site edge (a,b)=(%d,%d) does not exist", a, b)
	}
	edge := f.Grid().Edge(jAB)
	if edge.CellLeft != types.Unmeshed && edge.CellRight != types.Unmeshed {
		t.Fatalf("site edge (%d,%d) does not border Unmeshed", a, b)
	}
}

// Closing a single triangle with Cutoff leaves the mesh with one real cell
// and the closing edge bordering it.
func TestCutoffStrategyClosesTriangle(t *testing.T) {
	f := New()
	f.SetEdgeScale(unitScale)
	c, err := curve.New([]types.Point{pt(0, 0), pt(1, 0), pt(0.5, 1)}, true)
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	// Force exactly one node per side: scale larger than the perimeter.
	f.SetEdgeScale(func(types.Point) float64 { return 10 })
	f.AddCurve(c)
	if err := f.InitializeBoundaries(); err != nil {
		t.Fatalf("InitializeBoundaries: %v", err)
	}

	site, ok := f.ChooseSite()
	if !ok {
		t.Fatal("ChooseSite: expected a site, got none")
	}
	edits, err := (cutoffStrategy{}).Execute(site)
	if err != nil {
		t.Fatalf("Cutoff.Execute: %v", err)
	}
	if len(edits.Cells) != 1 {
		t.Fatalf("expected 1 new cell, got %d", len(edits.Cells))
	}
	if got := f.Grid().NumCells(); got != 1 {
		t.Fatalf("expected 1 cell in mesh, got %d", got)
	}
}

// Loop must fully mesh a simple closed boundary: once it returns with no
// error, no edge should still border Unmeshed.
func TestLoopMeshesSimpleTriangleBoundary(t *testing.T) {
	f := New()
	f.SetEdgeScale(func(types.Point) float64 { return 10 })
	c, err := curve.New([]types.Point{pt(0, 0), pt(1, 0), pt(0.5, 1)}, true)
	if err != nil {
		t.Fatalf("curve.New: %v", err)
	}
	f.AddCurve(c)
	if err := f.InitializeBoundaries(); err != nil {
		t.Fatalf("InitializeBoundaries: %v", err)
	}

	if err := f.Loop(0); err != nil {
		t.Fatalf("Loop: %v", err)
	}

	for eid := types.EdgeID(0); int(eid) < f.Grid().NumEdgesCap(); eid++ {
		if !f.Grid().IsValidEdge(eid) {
			continue
		}
		edge := f.Grid().Edge(eid)
		if edge.CellLeft == types.Unmeshed || edge.CellRight == types.Unmeshed {
			t.Fatalf("edge %d still borders Unmeshed after Loop", eid)
		}
	}
}
