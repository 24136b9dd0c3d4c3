package gesture

import (
	"gesturebrainz/kinematics"
)

// Kind names a gesture event stream.
type Kind string

const (
	KindMove        Kind = "move"
	KindSmoothMove  Kind = "smoothMove"
	KindScale       Kind = "scale"
	KindSmoothScale Kind = "smoothScale"
	KindRotate      Kind = "rotate"
	KindChangeEnd   Kind = "changeEnd"
)

// Kinds lists every event kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindMove, KindSmoothMove, KindScale, KindSmoothScale, KindRotate, KindChangeEnd}
}

// Event is emitted by the decoders. The concrete types below are the only
// implementations.
type Event interface {
	Kind() Kind
}

// Move is a translation produced while a pointer or finger is down.
type Move struct {
	Vector kinematics.Vector `json:"vector"`
}

// SmoothMove is a translation increment produced by pan inertia.
type SmoothMove struct {
	Vector kinematics.Vector `json:"vector"`
}

// Scale is a multiplicative scale change pivoting on Center. Vector.X and
// Vector.Y are the per-axis factors.
type Scale struct {
	Vector kinematics.Vector `json:"vector"`
	Center kinematics.Sample `json:"center"`
}

// SmoothScale is one step of a smooth scale sequence.
type SmoothScale struct {
	Vector kinematics.Vector `json:"vector"`
	Center kinematics.Sample `json:"center"`
}

// Rotate is a rotation in radians, in [0, 2π), around Center.
type Rotate struct {
	Angle  float64           `json:"angle"`
	Center kinematics.Sample `json:"center"`
}

// ChangeEnd follows the last increment of an inertia sequence that ran to
// completion.
type ChangeEnd struct{}

func (Move) Kind() Kind        { return KindMove }
func (SmoothMove) Kind() Kind  { return KindSmoothMove }
func (Scale) Kind() Kind       { return KindScale }
func (SmoothScale) Kind() Kind { return KindSmoothScale }
func (Rotate) Kind() Kind      { return KindRotate }
func (ChangeEnd) Kind() Kind   { return KindChangeEnd }
