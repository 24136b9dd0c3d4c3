package main

import (
	"time"

	"golang.org/x/image/math/f64"

	"gesturebrainz/frame"
	"gesturebrainz/gesture"
	"gesturebrainz/transform"
)

// ============================================================================
// Engine - decoders, frame loop and view transform
// ============================================================================
// The engine is owned by the daemon loop goroutine. Inputs go in through
// handle(), frames advance through tick(), and everything observable leaves
// through the publish callback as StateBroadcast values.
// ============================================================================

// StateBroadcast is an outbound, externally-consumable state change.
type StateBroadcast interface {
	isStateBroadcast()
}

// BroadcastGesture carries one decoded gesture event.
type BroadcastGesture struct {
	Event gesture.Event
	At    time.Time
}

// BroadcastTransform carries the view transform after it changed.
type BroadcastTransform struct {
	Matrix f64.Aff3
	CSS    string
	At     time.Time
}

func (BroadcastGesture) isStateBroadcast()   {}
func (BroadcastTransform) isStateBroadcast() {}

// StateSnapshot is the state reported to newly connected clients.
type StateSnapshot struct {
	Matrix   f64.Aff3
	CSS      string
	Pressed  bool
	Touching bool
	Inertia  bool
	Config   gesture.Config
}

// RequestStateSnapshot asks the daemon loop for a StateSnapshot.
type RequestStateSnapshot struct {
	Reply chan<- StateSnapshot
}

type engine struct {
	cfg     gesture.Config
	view    ViewConfig
	publish func(StateBroadcast)

	loop  *frame.Loop
	bus   *gesture.Bus
	src   *gesture.Dispatcher
	mouse *gesture.MouseDecoder
	touch *gesture.TouchDecoder
	xf    *transform.Transform

	// frame time of the event being emitted, for broadcast timestamps
	now time.Time
}

func newEngine(cfg gesture.Config, view ViewConfig, publish func(StateBroadcast)) *engine {
	if publish == nil {
		publish = func(StateBroadcast) {}
	}
	e := &engine{
		cfg:     cfg,
		view:    view,
		publish: publish,
		loop:    frame.NewLoop(),
		bus:     gesture.NewBus(),
		src:     gesture.NewDispatcher(),
		xf:      transform.Identity(),
	}
	e.mouse = gesture.NewMouseDecoder(cfg, e.loop, e.bus)
	e.touch = gesture.NewTouchDecoder(cfg, e.loop, e.bus)
	e.mouse.Subscribe(e.src)
	e.touch.Subscribe(e.src)

	e.bus.OnAll(e.onEvent)
	return e
}

func (e *engine) onEvent(ev gesture.Event) {
	e.publish(BroadcastGesture{Event: ev, At: e.now})

	changed := e.xf.Apply(ev)
	if _, ok := ev.(gesture.ChangeEnd); ok && e.view.Settle {
		changed = e.xf.Settle(e.view.Content, e.view.Boundary) || changed
	}
	if changed {
		e.publish(BroadcastTransform{Matrix: e.xf.Matrix(), CSS: e.xf.CSS(), At: e.now})
	}
}

// handle feeds one raw input to both decoders.
func (e *engine) handle(in gesture.Input) {
	if in.At.IsZero() {
		in.At = time.Now()
	}
	e.now = in.At
	e.src.Dispatch(in)
}

// tick advances inertia by one frame and returns the number of callbacks run.
func (e *engine) tick(now time.Time) int {
	e.now = now
	return e.loop.RunFrame(now)
}

func (e *engine) snapshot() StateSnapshot {
	return StateSnapshot{
		Matrix:   e.xf.Matrix(),
		CSS:      e.xf.CSS(),
		Pressed:  e.mouse.Pressed(),
		Touching: e.touch.Touching(),
		Inertia:  e.mouse.Inertia() || e.touch.Inertia(),
		Config:   e.cfg,
	}
}

// close stops the decoders and any running inertia.
func (e *engine) close() {
	e.mouse.Unsubscribe()
	e.touch.Unsubscribe()
}
