package stats

import (
	"math"
	"testing"
)

func TestPearsonPerfectPositive(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 4, 6, 8, 10}
	r, ok := Pearson(xs, ys)
	if !ok || math.Abs(r-1) > 1e-12 {
		t.Fatalf("r = %v ok=%v, want 1", r, ok)
	}
}

func TestPearsonPerfectNegative(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{8, 6, 4, 2}
	r, ok := Pearson(xs, ys)
	if !ok || math.Abs(r+1) > 1e-12 {
		t.Fatalf("r = %v ok=%v, want -1", r, ok)
	}
}

func TestPearsonZeroVariance(t *testing.T) {
	xs := []float64{1, 1, 1, 1}
	ys := []float64{1, 2, 3, 4}
	if _, ok := Pearson(xs, ys); ok {
		t.Fatalf("constant series must be degenerate")
	}
}

func TestPearsonKnownValue(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 1, 4, 3, 5}
	r, ok := Pearson(xs, ys)
	if !ok {
		t.Fatalf("expected ok")
	}
	// sum dx*dy = 8, sum dx^2 = sum dy^2 = 10: r = 0.8
	if math.Abs(r-0.8) > 1e-12 {
		t.Fatalf("r = %v, want 0.8", r)
	}
}

func TestPearsonPValueBounds(t *testing.T) {
	p, ok := PearsonPValue(0.7, 5)
	if !ok || p <= 0 || p >= 1 {
		t.Fatalf("p = %v ok=%v, want in (0,1)", p, ok)
	}

	// Stronger correlation on the same n must have a smaller p-value.
	p2, _ := PearsonPValue(0.95, 5)
	if p2 >= p {
		t.Fatalf("p(0.95)=%v must be below p(0.7)=%v", p2, p)
	}

	// Perfect correlation is certain.
	p3, _ := PearsonPValue(1, 5)
	if p3 != 0 {
		t.Fatalf("p(1) = %v, want 0", p3)
	}
}

func TestPearsonPValueTooFew(t *testing.T) {
	if _, ok := PearsonPValue(0.5, 2); ok {
		t.Fatalf("n=2 has no degrees of freedom")
	}
}
