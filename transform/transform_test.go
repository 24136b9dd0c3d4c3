package transform

import (
	"math"
	"testing"

	"gesturebrainz/gesture"
	"gesturebrainz/kinematics"
	"gesturebrainz/vector"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearVec(t *testing.T, got vector.Vec, x, y float64) {
	t.Helper()
	if !near(got.X(), x) || !near(got.Y(), y) {
		t.Errorf("expected (%v, %v), got %v", x, y, got)
	}
}

// TestTransform_ScaleAroundKeepsCenter tests that the pivot stays fixed
func TestTransform_ScaleAroundKeepsCenter(t *testing.T) {
	tr := Identity().ScaleAround(2, 3, vector.New(10, 20))
	nearVec(t, tr.Point(vector.New(10, 20)), 10, 20)
	nearVec(t, tr.Point(vector.New(11, 21)), 12, 23)
}

// TestTransform_RotateAround tests a quarter turn on a y-down screen
func TestTransform_RotateAround(t *testing.T) {
	tr := Identity().RotateAround(math.Pi/2, vector.New(5, 5))
	nearVec(t, tr.Point(vector.New(5, 5)), 5, 5)
	// one unit right of the pivot ends one unit below it
	nearVec(t, tr.Point(vector.New(6, 5)), 5, 6)
}

// TestTransform_ComposeOrder tests that later operations apply after earlier ones
func TestTransform_ComposeOrder(t *testing.T) {
	tr := Identity().Translate(10, 0).ScaleAround(2, 2, vector.New(0, 0))
	nearVec(t, tr.Point(vector.New(1, 1)), 22, 2)
}

// TestTransform_Apply tests folding gesture events into the matrix
func TestTransform_Apply(t *testing.T) {
	tr := Identity()

	if !tr.Apply(gesture.Move{Vector: kinematics.Vector{X: 3, Y: 4}}) {
		t.Fatalf("expected move to change the matrix")
	}
	if !tr.Apply(gesture.SmoothMove{Vector: kinematics.Vector{X: 1}}) {
		t.Fatalf("expected smoothMove to change the matrix")
	}
	nearVec(t, tr.Point(vector.New(0, 0)), 4, 4)

	center := kinematics.Sample{X: 4, Y: 4}
	tr.Apply(gesture.Scale{Vector: kinematics.Vector{X: 2, Y: 2}, Center: center})
	nearVec(t, tr.Point(vector.New(0, 0)), 4, 4)
	nearVec(t, tr.Point(vector.New(1, 0)), 6, 4)

	if tr.Apply(gesture.Scale{Vector: kinematics.Vector{X: 1, Y: 1}}) {
		t.Errorf("expected unit scale to be a no-op")
	}
	if tr.Apply(gesture.SmoothScale{Vector: kinematics.Vector{X: 0, Y: 2}}) {
		t.Errorf("expected non-positive scale to be ignored")
	}
	if tr.Apply(gesture.ChangeEnd{}) {
		t.Errorf("expected changeEnd to leave the matrix alone")
	}
	if !tr.Apply(gesture.Rotate{Angle: math.Pi, Center: center}) {
		t.Errorf("expected rotate to change the matrix")
	}
	nearVec(t, tr.Point(vector.New(1, 0)), 2, 4)
}

// TestTransform_Bounds tests the bounding box of a rotated rectangle
func TestTransform_Bounds(t *testing.T) {
	tr := Identity().RotateAround(math.Pi/4, vector.New(0, 0))
	b := tr.Bounds(RectXYWH(-1, -1, 2, 2))
	h := math.Sqrt2
	if !near(b.Left, -h) || !near(b.Right, h) || !near(b.Top, -h) || !near(b.Bottom, h) {
		t.Errorf("expected ±√2 bounds, got %+v", b)
	}
}

// TestTransform_SettleTranslatesBack tests that content dragged out is pulled back inside
func TestTransform_SettleTranslatesBack(t *testing.T) {
	content := RectXYWH(0, 0, 50, 50)
	boundary := RectXYWH(0, 0, 100, 100)

	tr := Identity().Translate(80, -20)
	if !tr.Settle(content, boundary) {
		t.Fatalf("expected settle to move the content")
	}
	b := tr.Bounds(content)
	if !near(b.Right, 100) || !near(b.Top, 0) || !near(b.Width(), 50) {
		t.Errorf("expected content flush with the right and top edges, got %+v", b)
	}

	if tr.Settle(content, boundary) {
		t.Errorf("expected settled content to stay put")
	}
}

// TestTransform_SettleScalesDown tests that oversized content is shrunk to fit
func TestTransform_SettleScalesDown(t *testing.T) {
	content := RectXYWH(0, 0, 100, 50)
	boundary := RectXYWH(0, 0, 100, 100)

	tr := Identity().ScaleAround(4, 4, vector.New(50, 25))
	tr.Settle(content, boundary)

	b := tr.Bounds(content)
	if !near(b.Width(), 100) || !near(b.Height(), 50) {
		t.Errorf("expected content scaled to 100x50, got %vx%v", b.Width(), b.Height())
	}
	if b.Left < -1e-9 || b.Top < -1e-9 || b.Right > 100+1e-9 || b.Bottom > 100+1e-9 {
		t.Errorf("expected content inside the boundary, got %+v", b)
	}
}

// TestTransform_SettleEmpty tests that degenerate rectangles are ignored
func TestTransform_SettleEmpty(t *testing.T) {
	tr := Identity().Translate(500, 500)
	if tr.Settle(Rect{}, RectXYWH(0, 0, 10, 10)) {
		t.Errorf("expected no change for empty content")
	}
}

// TestTransform_CSS tests the CSS matrix rendering
func TestTransform_CSS(t *testing.T) {
	tr := Identity().ScaleAround(2, 2, vector.New(0, 0)).Translate(5, -3)
	if got, want := tr.CSS(), "matrix(2,0,0,2,5,-3)"; got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
	tr.Reset()
	if got := tr.CSS(); got != "matrix(1,0,0,1,0,0)" {
		t.Errorf("expected identity css, got %s", got)
	}
}

// TestTransform_Invert tests that the inverse maps points back
func TestTransform_Invert(t *testing.T) {
	tr := Identity().Translate(7, -3).RotateAround(0.3, vector.New(2, 2)).ScaleAround(2, 0.5, vector.New(1, 4))
	inv, ok := tr.Invert()
	if !ok {
		t.Fatalf("expected invertible transform")
	}
	p := vector.New(3.5, -1.25)
	back := inv.Point(tr.Point(p))
	nearVec(t, back, p.X(), p.Y())

	if _, ok := Identity().ScaleAround(0, 1, vector.New(0, 0)).Invert(); ok {
		t.Errorf("expected singular transform to fail")
	}
}
