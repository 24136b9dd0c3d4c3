package gesture

import (
	"math"
	"time"

	"gesturebrainz/frame"
	"gesturebrainz/kinematics"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// recorder collects every event emitted on a bus.
type recorder struct {
	events []Event
}

func record(bus *Bus) *recorder {
	r := &recorder{}
	bus.OnAll(func(ev Event) { r.events = append(r.events, ev) })
	return r
}

func (r *recorder) count(k Kind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind() == k {
			n++
		}
	}
	return n
}

func (r *recorder) last() Event {
	if len(r.events) == 0 {
		return nil
	}
	return r.events[len(r.events)-1]
}

func (r *recorder) reset() { r.events = nil }

// runFrames advances loop n frames of 16ms starting at start.
func runFrames(loop *frame.Loop, start time.Time, n int) time.Time {
	now := start
	for range n {
		now = now.Add(16 * time.Millisecond)
		loop.RunFrame(now)
	}
	return now
}

func mouseFixture(cfg Config) (*MouseDecoder, *frame.Loop, *recorder) {
	loop := frame.NewLoop()
	bus := NewBus()
	rec := record(bus)
	return NewMouseDecoder(cfg, loop, bus), loop, rec
}

func touchFixture(cfg Config) (*TouchDecoder, *frame.Loop, *recorder) {
	loop := frame.NewLoop()
	bus := NewBus()
	rec := record(bus)
	return NewTouchDecoder(cfg, loop, bus), loop, rec
}

// drag presses at x=0, moves to 10 and 25 and releases at 25ms.
func drag(d *MouseDecoder) {
	d.Handle(Input{Kind: InputPress, X: 0, Y: 0, At: at(0)})
	d.Handle(Input{Kind: InputMove, X: 10, Y: 0, At: at(10)})
	d.Handle(Input{Kind: InputMove, X: 25, Y: 0, At: at(20)})
	d.Handle(Input{Kind: InputRelease, X: 25, Y: 0, At: at(25)})
}

func vectorOf(ev Event) kinematics.Vector {
	switch ev := ev.(type) {
	case Move:
		return ev.Vector
	case SmoothMove:
		return ev.Vector
	case Scale:
		return ev.Vector
	case SmoothScale:
		return ev.Vector
	}
	return kinematics.Vector{}
}
