// Package pinch decomposes the motion of two tracked contacts into a
// translation, a uniform scale factor and a signed rotation.
package pinch

import (
	"math"

	"gesturebrainz/kinematics"
	"gesturebrainz/vector"
)

// Rotation is a signed rotation in [0, 2π) around Center.
type Rotation struct {
	Angle  float64           `json:"angle"`
	Center kinematics.Sample `json:"center"`
}

// Result is the decomposition of one two-contact move.
//
// When OK is false fewer than two contacts had a previous and current
// sample and every other field is zero.
type Result struct {
	OK bool

	// Move is the displacement of the contacts' midpoint.
	Move kinematics.Vector

	// Scalar is the ratio of the new contact distance to the old one. It is
	// 1 when the old contacts coincided.
	Scalar float64

	// Rotate is nil when there is no measurable rotation.
	Rotate *Rotation

	// Center is halfway between the old and new midpoints.
	Center kinematics.Sample
}

// Resolve decomposes the change from (aOld, bOld) to (aNew, bNew).
//
// The rotation angle is the angle from the old A→B vector to the new one,
// measured counter-clockwise in a y-up frame (clockwise on a y-down screen),
// folded into [0, 2π).
func Resolve(aOld, aNew, bOld, bNew *kinematics.Sample) Result {
	if aOld == nil || aNew == nil || bOld == nil || bNew == nil {
		return Result{}
	}

	oldCenter := aOld.Pos().Mid(bOld.Pos())
	newCenter := aNew.Pos().Mid(bNew.Pos())
	oldVec := bOld.Pos().Sub(aOld.Pos())
	newVec := bNew.Pos().Sub(aNew.Pos())

	elapsed := math.Max(
		kinematics.Millis(aNew.At.Sub(aOld.At)),
		kinematics.Millis(bNew.At.Sub(bOld.At)),
	)
	at := aNew.At
	if bNew.At.After(at) {
		at = bNew.At
	}

	move := newCenter.Sub(oldCenter)
	mid := oldCenter.Mid(newCenter)
	center := kinematics.Sample{X: mid.X(), Y: mid.Y(), At: at}

	scalar := 1.0
	if oldLen := oldVec.Len(); oldLen != 0 {
		scalar = newVec.Len() / oldLen
	}

	res := Result{
		OK:     true,
		Move:   kinematics.Vector{X: move.X(), Y: move.Y(), Time: elapsed},
		Scalar: scalar,
		Center: center,
	}
	if angle, ok := angleBetween(oldVec, newVec); ok {
		res.Rotate = &Rotation{Angle: angle, Center: center}
	}
	return res
}

func angleBetween(from, to vector.Vec) (float64, bool) {
	mag := from.Len() * to.Len()
	if mag == 0 {
		return 0, false
	}
	cos := math.Max(-1, math.Min(1, to.Dot(from)/mag))
	angle := math.Acos(cos)
	if from.Cross(to) < 0 {
		angle = 2*math.Pi - angle
	}
	if math.IsNaN(angle) || angle == 0 || angle == 2*math.Pi {
		return 0, false
	}
	return angle, true
}
