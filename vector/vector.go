// Package vector provides the small 2D vector type shared by the gesture
// packages. It is backed by golang.org/x/image/math/f64 so values can be
// handed straight to affine code built on the same types.
package vector

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/image/math/f64"
)

// ErrComponentIndex is returned when a component index other than 0 (x) or
// 1 (y) is used.
var ErrComponentIndex = errors.New("vector: component index out of range")

// Vec is a 2D vector. Index 0 is x, index 1 is y.
type Vec f64.Vec2

// New returns the vector (x, y).
func New(x, y float64) Vec { return Vec{x, y} }

func (v Vec) X() float64 { return v[0] }
func (v Vec) Y() float64 { return v[1] }

func (v Vec) Add(o Vec) Vec { return Vec{v[0] + o[0], v[1] + o[1]} }
func (v Vec) Sub(o Vec) Vec { return Vec{v[0] - o[0], v[1] - o[1]} }

// Scale multiplies both components by s.
func (v Vec) Scale(s float64) Vec { return Vec{v[0] * s, v[1] * s} }

// Mid returns the midpoint between v and o.
func (v Vec) Mid(o Vec) Vec { return Vec{(v[0] + o[0]) / 2, (v[1] + o[1]) / 2} }

func (v Vec) Dot(o Vec) float64 { return v[0]*o[0] + v[1]*o[1] }

// Cross returns the z component of the 3D cross product v × o.
// It is positive when o lies counter-clockwise of v in a y-up frame.
func (v Vec) Cross(o Vec) float64 { return v[0]*o[1] - v[1]*o[0] }

// Len returns the Euclidean length.
func (v Vec) Len() float64 { return math.Hypot(v[0], v[1]) }

// Component returns the component at index i.
func (v Vec) Component(i int) (float64, error) {
	if i != 0 && i != 1 {
		return 0, fmt.Errorf("%w: %d", ErrComponentIndex, i)
	}
	return v[i], nil
}

// SetComponent sets the component at index i.
func (v *Vec) SetComponent(i int, val float64) error {
	if i != 0 && i != 1 {
		return fmt.Errorf("%w: %d", ErrComponentIndex, i)
	}
	v[i] = val
	return nil
}

// F64 returns the vector as the x/image type.
func (v Vec) F64() f64.Vec2 { return f64.Vec2(v) }

func (v Vec) String() string {
	return fmt.Sprintf("(%g, %g)", v[0], v[1])
}
