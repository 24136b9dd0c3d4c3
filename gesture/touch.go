package gesture

import (
	"gesturebrainz/frame"
	"gesturebrainz/inertia"
	"gesturebrainz/kinematics"
	"gesturebrainz/pinch"
)

// TouchDecoder turns one-finger drags into move events, two-finger moves
// into move/scale/rotate events and the final lift into pan inertia.
//
// Only the first two reported contacts are tracked.
//
// TouchDecoder is single-owner, like MouseDecoder.
type TouchDecoder struct {
	cfg   Config
	bus   *Bus
	sched frame.Scheduler
	sub   subscription

	tracker  *pinch.Tracker
	touching bool

	pan *runner
}

// NewTouchDecoder creates a decoder emitting on bus and stepping inertia on
// sched. A nil bus gets a fresh one.
func NewTouchDecoder(cfg Config, sched frame.Scheduler, bus *Bus) *TouchDecoder {
	if bus == nil {
		bus = NewBus()
	}
	d := &TouchDecoder{
		cfg:     cfg,
		bus:     bus,
		sched:   sched,
		tracker: pinch.NewTracker(cfg.HistoryLimit, cfg.HistoryWindow),
	}
	d.pan = newRunner(sched, func() { d.bus.Emit(ChangeEnd{}) })
	return d
}

// Bus returns the bus events are emitted on.
func (d *TouchDecoder) Bus() *Bus { return d.bus }

// Subscribe starts listening to src. It is safe to call repeatedly.
func (d *TouchDecoder) Subscribe(src Source) { d.sub.subscribe(src, d.Handle) }

// Unsubscribe stops listening and cancels any running inertia.
func (d *TouchDecoder) Unsubscribe() {
	d.sub.unsubscribe()
	d.pan.cancel()
	d.touching = false
	d.tracker.Clear()
}

// Subscribed reports whether the decoder is listening to a source.
func (d *TouchDecoder) Subscribed() bool { return d.sub.active() }

// Touching reports whether at least one contact is down.
func (d *TouchDecoder) Touching() bool { return d.touching }

// Contacts returns the number of tracked contacts.
func (d *TouchDecoder) Contacts() int { return d.tracker.Count() }

// Inertia reports whether a pan sequence is running.
func (d *TouchDecoder) Inertia() bool { return d.pan.active() }

// Handle feeds one raw input into the decoder. Mouse inputs are ignored.
func (d *TouchDecoder) Handle(in Input) {
	in = stamped(in)
	switch in.Kind {
	case InputTouchStart:
		d.start(in)
	case InputTouchMove:
		d.move(in)
	case InputTouchEnd:
		d.end(in)
	}
}

func (d *TouchDecoder) start(in Input) {
	d.pan.cancel()
	if d.touching {
		// contacts already down keep their history
		d.tracker.Update(in.Touches, in.At)
	} else {
		d.tracker.Reset(in.Touches, in.At)
	}
	d.touching = len(in.Touches) > 0
}

func (d *TouchDecoder) move(in Input) {
	if !d.touching {
		return
	}
	d.tracker.Update(in.Touches, in.At)

	switch d.tracker.Count() {
	case 1:
		d.bus.Emit(Move{Vector: d.tracker.Slot(0).LastDelta()})

	case pinch.MaxContacts:
		res := d.tracker.Resolve()
		if !res.OK {
			return
		}
		d.bus.Emit(Move{Vector: res.Move})
		d.bus.Emit(Scale{
			Vector: kinematics.Vector{X: res.Scalar, Y: res.Scalar, Time: res.Move.Time},
			Center: res.Center,
		})
		if res.Rotate != nil {
			d.bus.Emit(Rotate{Angle: res.Rotate.Angle, Center: res.Rotate.Center})
		}
	}
}

func (d *TouchDecoder) end(in Input) {
	if !d.touching {
		return
	}
	if len(in.Touches) > 0 {
		// a contact that shifts into another slot starts that slot over,
		// so nothing jumps
		d.tracker.Update(in.Touches, in.At)
		return
	}

	d.touching = false
	var speed kinematics.Vector
	if h := d.tracker.Slot(0); h != nil {
		speed = h.AvgSpeed(in.At)
	}
	d.tracker.Clear()

	emit := func(v kinematics.Vector) { d.bus.Emit(SmoothMove{Vector: v}) }
	d.pan.start(d.cfg.newPan(speed, in.At), emit, in.At, d.cfg.PanPolicy != inertia.PanDuration)
}
