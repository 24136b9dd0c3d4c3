package vector

import (
	"errors"
	"math"
	"testing"
)

// TestVec_Arithmetic tests the basic vector operations
func TestVec_Arithmetic(t *testing.T) {
	a := New(3, 4)
	b := New(1, -2)

	if got := a.Add(b); got != New(4, 2) {
		t.Errorf("expected (4, 2), got %v", got)
	}
	if got := a.Sub(b); got != New(2, 6) {
		t.Errorf("expected (2, 6), got %v", got)
	}
	if got := a.Scale(0.5); got != New(1.5, 2) {
		t.Errorf("expected (1.5, 2), got %v", got)
	}
	if got := a.Mid(b); got != New(2, 1) {
		t.Errorf("expected (2, 1), got %v", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("expected dot=-5, got %v", got)
	}
	if got := a.Len(); math.Abs(got-5) > 1e-12 {
		t.Errorf("expected len=5, got %v", got)
	}
}

// TestVec_Cross tests the orientation of the 2D cross product
func TestVec_Cross(t *testing.T) {
	x := New(1, 0)
	y := New(0, 1)

	if got := x.Cross(y); got != 1 {
		t.Errorf("expected x×y=1, got %v", got)
	}
	if got := y.Cross(x); got != -1 {
		t.Errorf("expected y×x=-1, got %v", got)
	}
	if got := x.Cross(x.Scale(3)); got != 0 {
		t.Errorf("expected parallel cross=0, got %v", got)
	}
}

// TestVec_Component tests indexed access and the out-of-range error
func TestVec_Component(t *testing.T) {
	v := New(7, 9)

	for i, want := range []float64{7, 9} {
		got, err := v.Component(i)
		if err != nil {
			t.Fatalf("component %d: unexpected error: %v", i, err)
		}
		if got != want {
			t.Errorf("component %d: expected %v, got %v", i, want, got)
		}
	}

	for _, i := range []int{-1, 2, 100} {
		if _, err := v.Component(i); !errors.Is(err, ErrComponentIndex) {
			t.Errorf("component %d: expected ErrComponentIndex, got %v", i, err)
		}
	}

	if err := v.SetComponent(1, -3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Y() != -3 {
		t.Errorf("expected y=-3 after set, got %v", v.Y())
	}
	if err := v.SetComponent(2, 1); !errors.Is(err, ErrComponentIndex) {
		t.Errorf("expected ErrComponentIndex on set, got %v", err)
	}
	if v != New(7, -3) {
		t.Errorf("failed set must not modify the vector, got %v", v)
	}
}
