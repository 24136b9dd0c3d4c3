package gesture

import (
	"time"

	"gesturebrainz/pinch"
)

// InputKind distinguishes raw pointer inputs.
type InputKind string

const (
	InputPress      InputKind = "press"
	InputMove       InputKind = "move"
	InputRelease    InputKind = "release"
	InputWheel      InputKind = "wheel"
	InputTouchStart InputKind = "touch_start"
	InputTouchMove  InputKind = "touch_move"
	InputTouchEnd   InputKind = "touch_end"
)

// ButtonPrimary is the button number of the primary (left) mouse button.
const ButtonPrimary = 0

// Input is one raw pointer observation.
type Input struct {
	Kind InputKind `json:"-"`

	X  float64   `json:"x"`
	Y  float64   `json:"y"`
	At time.Time `json:"at"`

	// Button is set for press and release.
	Button int `json:"button,omitempty"`

	// WheelDelta is set for wheel; positive scrolls down.
	WheelDelta float64 `json:"wheel_delta,omitempty"`

	// Touches holds the contacts still down after a touch input, in the
	// order the source reports them.
	Touches []pinch.Contact `json:"touches,omitempty"`
}

// IsTouch reports whether the input comes from a touch surface.
func (in Input) IsTouch() bool {
	switch in.Kind {
	case InputTouchStart, InputTouchMove, InputTouchEnd:
		return true
	}
	return false
}

// Source delivers raw inputs to a registered handler until the returned
// cancel function is called.
//
// Implementations must be comparable (typically pointers) so decoders can
// recognize a source they are already subscribed to.
type Source interface {
	Listen(fn func(Input)) (cancel func())
}

type sourceListener struct {
	id uint64
	fn func(Input)
}

// Dispatcher is an in-process Source fed by calling Dispatch.
//
// Dispatcher is not safe for concurrent use; feed it from the goroutine
// that owns the decoders.
type Dispatcher struct {
	nextID    uint64
	listeners []sourceListener
}

var _ Source = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher with no listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Listen registers fn. The returned function removes it and may be called
// more than once.
func (d *Dispatcher) Listen(fn func(Input)) func() {
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, sourceListener{id: id, fn: fn})
	return func() {
		for i := range d.listeners {
			if d.listeners[i].id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns the number of registered handlers.
func (d *Dispatcher) Listeners() int { return len(d.listeners) }

// Dispatch delivers in to every handler in registration order.
func (d *Dispatcher) Dispatch(in Input) {
	ls := make([]sourceListener, len(d.listeners))
	copy(ls, d.listeners)
	for _, l := range ls {
		l.fn(in)
	}
}

// subscription tracks the Source a decoder listens to.
type subscription struct {
	src    Source
	cancel func()
}

// subscribe listens to src with fn. Subscribing again to the same source is
// a no-op; subscribing to a different source drops the old one first.
func (s *subscription) subscribe(src Source, fn func(Input)) {
	if src == nil {
		return
	}
	if s.src == src && s.cancel != nil {
		return
	}
	s.unsubscribe()
	s.src = src
	s.cancel = src.Listen(fn)
}

func (s *subscription) unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
	s.src = nil
	s.cancel = nil
}

func (s *subscription) active() bool { return s.cancel != nil }
