// Package transform accumulates gesture events into a 2D affine transform
// and keeps transformed content inside a boundary once a gesture settles.
//
// The matrix is an f64.Aff3 in row-major order:
//
//	| m[0] m[1] m[2] |
//	| m[3] m[4] m[5] |
//
// so x' = m[0]*x + m[1]*y + m[2] and y' = m[3]*x + m[4]*y + m[5]. All
// operations compose on the left, in screen coordinates.
package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/math/f64"

	"gesturebrainz/gesture"
	"gesturebrainz/kinematics"
	"gesturebrainz/vector"
)

// Rect is an axis-aligned rectangle in screen coordinates.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
}

// RectXYWH builds a rectangle from its origin and size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Center returns the midpoint of r.
func (r Rect) Center() vector.Vec {
	return vector.New((r.Left+r.Right)/2, (r.Top+r.Bottom)/2)
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Transform is a mutable affine transform. The zero value is not usable;
// start from Identity.
type Transform struct {
	m f64.Aff3
}

// Identity returns the identity transform.
func Identity() *Transform {
	return &Transform{m: identity()}
}

// FromMatrix wraps an existing matrix.
func FromMatrix(m f64.Aff3) *Transform {
	return &Transform{m: m}
}

func identity() f64.Aff3 { return f64.Aff3{1, 0, 0, 0, 1, 0} }

// mul returns a*b: b is applied first.
func mul(a, b f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		a[0]*b[0] + a[1]*b[3],
		a[0]*b[1] + a[1]*b[4],
		a[0]*b[2] + a[1]*b[5] + a[2],
		a[3]*b[0] + a[4]*b[3],
		a[3]*b[1] + a[4]*b[4],
		a[3]*b[2] + a[4]*b[5] + a[5],
	}
}

func (t *Transform) then(op f64.Aff3) *Transform {
	t.m = mul(op, t.m)
	return t
}

// Matrix returns a copy of the current matrix.
func (t *Transform) Matrix() f64.Aff3 { return t.m }

// Reset returns to the identity.
func (t *Transform) Reset() { t.m = identity() }

// Translate moves the content by (dx, dy).
func (t *Transform) Translate(dx, dy float64) *Transform {
	return t.then(f64.Aff3{1, 0, dx, 0, 1, dy})
}

// ScaleAround scales the content by (sx, sy) keeping center fixed.
func (t *Transform) ScaleAround(sx, sy float64, center vector.Vec) *Transform {
	cx, cy := center.X(), center.Y()
	return t.then(f64.Aff3{sx, 0, cx - sx*cx, 0, sy, cy - sy*cy})
}

// RotateAround rotates the content by angle radians around center. On a
// y-down screen positive angles turn clockwise.
func (t *Transform) RotateAround(angle float64, center vector.Vec) *Transform {
	sin, cos := math.Sincos(angle)
	cx, cy := center.X(), center.Y()
	return t.then(f64.Aff3{
		cos, -sin, cx - cos*cx + sin*cy,
		sin, cos, cy - sin*cx - cos*cy,
	})
}

// Apply folds one gesture event into the transform. It reports whether the
// matrix changed.
func (t *Transform) Apply(ev gesture.Event) bool {
	switch ev := ev.(type) {
	case gesture.Move:
		return t.translateBy(ev.Vector)
	case gesture.SmoothMove:
		return t.translateBy(ev.Vector)
	case gesture.Scale:
		return t.scaleBy(ev.Vector, ev.Center)
	case gesture.SmoothScale:
		return t.scaleBy(ev.Vector, ev.Center)
	case gesture.Rotate:
		if ev.Angle == 0 {
			return false
		}
		t.RotateAround(ev.Angle, ev.Center.Pos())
		return true
	}
	return false
}

func (t *Transform) translateBy(v kinematics.Vector) bool {
	if v.X == 0 && v.Y == 0 {
		return false
	}
	t.Translate(v.X, v.Y)
	return true
}

func (t *Transform) scaleBy(v kinematics.Vector, center kinematics.Sample) bool {
	if v.X <= 0 || v.Y <= 0 || (v.X == 1 && v.Y == 1) {
		return false
	}
	t.ScaleAround(v.X, v.Y, center.Pos())
	return true
}

// Point maps p through the transform.
func (t *Transform) Point(p vector.Vec) vector.Vec {
	m := t.m
	return vector.New(
		m[0]*p.X()+m[1]*p.Y()+m[2],
		m[3]*p.X()+m[4]*p.Y()+m[5],
	)
}

// Invert returns the inverse transform. It reports false when the matrix
// is singular.
func (t *Transform) Invert() (*Transform, bool) {
	m := t.m
	det := m[0]*m[4] - m[1]*m[3]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, false
	}
	a, b, c, d := m[4]/det, -m[1]/det, -m[3]/det, m[0]/det
	return &Transform{m: f64.Aff3{
		a, b, -(a*m[2] + b*m[5]),
		c, d, -(c*m[2] + d*m[5]),
	}}, true
}

// Bounds returns the axis-aligned bounding box of r after the transform.
func (t *Transform) Bounds(r Rect) Rect {
	corners := [4]vector.Vec{
		t.Point(vector.New(r.Left, r.Top)),
		t.Point(vector.New(r.Right, r.Top)),
		t.Point(vector.New(r.Right, r.Bottom)),
		t.Point(vector.New(r.Left, r.Bottom)),
	}
	out := Rect{
		Left: math.Inf(1), Top: math.Inf(1),
		Right: math.Inf(-1), Bottom: math.Inf(-1),
	}
	for _, c := range corners {
		out.Left = math.Min(out.Left, c.X())
		out.Top = math.Min(out.Top, c.Y())
		out.Right = math.Max(out.Right, c.X())
		out.Bottom = math.Max(out.Bottom, c.Y())
	}
	return out
}

// Settle pulls content back inside boundary after a gesture ends.
//
// If the transformed content is larger than boundary on either axis it is
// scaled down uniformly around its own center until it fits. It is then
// translated the shortest way back inside. Settle reports whether anything
// changed; empty rectangles are left alone.
func (t *Transform) Settle(content, boundary Rect) bool {
	if content.Empty() || boundary.Empty() {
		return false
	}
	changed := false

	cur := t.Bounds(content)
	scalar := math.Min(boundary.Width()/cur.Width(), boundary.Height()/cur.Height())
	if scalar < 1 {
		t.ScaleAround(scalar, scalar, cur.Center())
		cur = t.Bounds(content)
		changed = true
	}

	var dx, dy float64
	if cur.Right > boundary.Right {
		dx = boundary.Right - cur.Right
	} else if cur.Left < boundary.Left {
		dx = boundary.Left - cur.Left
	}
	if cur.Bottom > boundary.Bottom {
		dy = boundary.Bottom - cur.Bottom
	} else if cur.Top < boundary.Top {
		dy = boundary.Top - cur.Top
	}
	if dx != 0 || dy != 0 {
		t.Translate(dx, dy)
		changed = true
	}
	return changed
}

// CSS renders the matrix as a CSS transform function.
func (t *Transform) CSS() string {
	m := t.m
	vals := []float64{m[0], m[3], m[1], m[4], m[2], m[5]}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "matrix(" + strings.Join(parts, ",") + ")"
}

func (t *Transform) String() string {
	return fmt.Sprintf("Transform%v", t.m)
}
