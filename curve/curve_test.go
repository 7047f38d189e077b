package curve

import (
	"math"
	"testing"

	"github.com/fenwick-geo/meshfront/types"
)

func pt(x, y float64) types.Point { return types.Point{X: x, Y: y} }

func almostEqual(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// S4: a closed square, distance_away(0, 5) lands near (5,0).
func TestDistanceAwaySquare(t *testing.T) {
	c, err := New([]types.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f1, x1, err := c.DistanceAway(0.0, 5.0)
	if err != nil {
		t.Fatalf("DistanceAway: %v", err)
	}
	if !almostEqual(f1, 5.0, 0.25) {
		t.Errorf("f1 = %v, want ~5.0", f1)
	}
	if !almostEqual(x1.X, 5.0, 0.25) || !almostEqual(x1.Y, 0.0, 0.25) {
		t.Errorf("x1 = %v, want ~(5,0)", x1)
	}
}

func TestEvalZeroMapsToFirstPoint(t *testing.T) {
	c, err := New([]types.Point{pt(0, 0), pt(10, 0), pt(10, 10)}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := c.Eval(0)
	if got != pt(0, 0) {
		t.Errorf("Eval(0) = %v, want (0,0)", got)
	}
}

func TestEvalMidSegment(t *testing.T) {
	c, err := New([]types.Point{pt(0, 0), pt(10, 0)}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := c.Eval(5)
	if !almostEqual(got.X, 5, 1e-9) || !almostEqual(got.Y, 0, 1e-9) {
		t.Errorf("Eval(5) = %v, want (5,0)", got)
	}
}

func TestEvalWrapsOnClosedCurve(t *testing.T) {
	c, err := New([]types.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	total := c.TotalDistance()
	got := c.Eval(total + 5)
	want := c.Eval(5)
	if !almostEqual(got.X, want.X, 1e-9) || !almostEqual(got.Y, want.Y, 1e-9) {
		t.Errorf("Eval(total+5) = %v, want %v", got, want)
	}
}

func TestUpsampleAtLeastOnePointPerSegment(t *testing.T) {
	c, err := New([]types.Point{pt(0, 0), pt(100, 0)}, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	pts := c.Upsample(func(types.Point) float64 { return 10 })
	if len(pts) < 10 {
		t.Errorf("Upsample produced %d points, want >= 10 for a 100-unit segment at scale 10", len(pts))
	}
}

func TestIsForwardAndReverse(t *testing.T) {
	c, err := New([]types.Point{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10)}, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !c.IsForward(0, 5, 15) {
		t.Errorf("expected 5 to be forward-closer to 0 than 15")
	}
	if !c.IsReverse(15, 5, 0) {
		t.Errorf("IsReverse should mirror IsForward")
	}
}

func TestNewRejectsTooFewPoints(t *testing.T) {
	if _, err := New([]types.Point{pt(0, 0)}, false); err == nil {
		t.Errorf("expected error for a single-point curve")
	}
}
