package cost

import (
	"math"
	"testing"

	"github.com/fenwick-geo/meshfront/types"
)

func pt(x, y float64) types.Point { return types.Point{X: x, Y: y} }

func TestEvaluateMinimumForIdealEquilateralTriangle(t *testing.T) {
	// p at the apex of an equilateral triangle with side length L=1,
	// b and c on the base. The angle and length terms vanish; only the
	// near-invalid term exp((60°-82°)/3°) remains.
	b := pt(-0.5, 0)
	c := pt(0.5, 0)
	p := pt(0, math.Sqrt(3)/2)
	got := Evaluate(p, []Edge{{B: b, C: c}}, 1.0)
	want := math.Exp(-22.0 / 3)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Evaluate(ideal triangle) = %v, want %v", got, want)
	}
}

func TestEvaluateNoEdgesIsZero(t *testing.T) {
	if got := Evaluate(pt(0, 0), nil, 1.0); got != 0 {
		t.Errorf("Evaluate(no edges) = %v, want 0", got)
	}
}

func TestEvaluatePenalizesSliverTriangle(t *testing.T) {
	b := pt(-5, 0)
	c := pt(5, 0)
	p := pt(0, 0.05) // very flat triangle: two near-180 degree, one near-0
	ideal := Evaluate(pt(0, math.Sqrt(3)/2*10), []Edge{{B: b, C: c}}, 10)
	sliver := Evaluate(p, []Edge{{B: b, C: c}}, 10)
	if sliver <= ideal {
		t.Errorf("sliver cost %v should exceed near-ideal cost %v", sliver, ideal)
	}
}

func TestEvaluateNeverNegative(t *testing.T) {
	for _, pz := range []types.Point{pt(0, 1), pt(3, 4), pt(-2, -7), pt(0.1, 0.1)} {
		got := Evaluate(pz, []Edge{{B: pt(-1, 0), C: pt(1, 0)}}, 2.0)
		if got < 0 {
			t.Errorf("Evaluate(%v) = %v, want >= 0", pz, got)
		}
	}
}

func TestInternalAngleRightTriangle(t *testing.T) {
	// Right angle at B.
	a := pt(0, 1)
	b := pt(0, 0)
	c := pt(1, 0)
	got := InternalAngle(a, b, c)
	want := math.Pi / 2
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("InternalAngle = %v, want %v", got, want)
	}
}
