package gesture

import (
	"time"

	"gesturebrainz/convergence"
	"gesturebrainz/frame"
	"gesturebrainz/inertia"
	"gesturebrainz/kinematics"
)

// MouseDecoder turns primary-button drags into move/smoothMove events and
// wheel ticks into scale/smoothScale events.
//
// With Config.TouchLocksMouse set, the decoder ignores mouse input once any
// touch input has been seen, since touch surfaces also synthesize mouse
// events.
//
// MouseDecoder is single-owner: Handle and the frame loop driving its
// scheduler must run on the same goroutine.
type MouseDecoder struct {
	cfg   Config
	bus   *Bus
	sched frame.Scheduler
	sub   subscription

	history   *kinematics.History
	pressed   bool
	touchSeen bool
	lastSpeed kinematics.Vector

	// wheelCount accumulates raw ticks; wheelTicks is the clamped counter
	// used by WheelLinear.
	wheelCount int
	wheelTicks int

	pan   *runner
	scale *runner
}

// NewMouseDecoder creates a decoder emitting on bus and stepping inertia on
// sched. A nil bus gets a fresh one.
func NewMouseDecoder(cfg Config, sched frame.Scheduler, bus *Bus) *MouseDecoder {
	if bus == nil {
		bus = NewBus()
	}
	d := &MouseDecoder{
		cfg:     cfg,
		bus:     bus,
		sched:   sched,
		history: kinematics.NewHistory(cfg.HistoryLimit, cfg.HistoryWindow),
	}
	changeEnd := func() { d.bus.Emit(ChangeEnd{}) }
	d.pan = newRunner(sched, changeEnd)
	d.scale = newRunner(sched, changeEnd)
	return d
}

// Bus returns the bus events are emitted on.
func (d *MouseDecoder) Bus() *Bus { return d.bus }

// Subscribe starts listening to src. It is safe to call repeatedly.
func (d *MouseDecoder) Subscribe(src Source) { d.sub.subscribe(src, d.Handle) }

// Unsubscribe stops listening and cancels any running inertia.
func (d *MouseDecoder) Unsubscribe() {
	d.sub.unsubscribe()
	d.pan.cancel()
	d.scale.cancel()
	d.pressed = false
}

// Subscribed reports whether the decoder is listening to a source.
func (d *MouseDecoder) Subscribed() bool { return d.sub.active() }

// Pressed reports whether the primary button is down.
func (d *MouseDecoder) Pressed() bool { return d.pressed }

// LastSpeed returns the velocity between the last two drag samples.
func (d *MouseDecoder) LastSpeed() kinematics.Vector { return d.lastSpeed }

// Inertia reports whether a pan or scale sequence is running.
func (d *MouseDecoder) Inertia() bool { return d.pan.active() || d.scale.active() }

// SetScaleMode switches between discrete and smooth wheel scaling.
func (d *MouseDecoder) SetScaleMode(m ScaleMode) { d.cfg.ScaleMode = m }

// ScaleMode returns the current wheel scale mode.
func (d *MouseDecoder) ScaleMode() ScaleMode { return d.cfg.ScaleMode }

// Handle feeds one raw input into the decoder.
func (d *MouseDecoder) Handle(in Input) {
	in = stamped(in)
	if in.IsTouch() {
		d.touchSeen = d.touchSeen || d.cfg.TouchLocksMouse
		return
	}
	if d.touchSeen {
		return
	}

	switch in.Kind {
	case InputPress:
		d.press(in)
	case InputMove:
		d.move(in)
	case InputRelease:
		d.release(in)
	case InputWheel:
		d.wheel(in)
	}
}

func (d *MouseDecoder) press(in Input) {
	if in.Button != d.cfg.PrimaryButton {
		return
	}
	d.pan.cancel()
	d.pressed = true
	d.history.Clear()
	d.history.Push(sampleOf(in))
	d.lastSpeed = kinematics.Vector{}
}

func (d *MouseDecoder) move(in Input) {
	if !d.pressed {
		return
	}
	d.history.Push(sampleOf(in))
	d.lastSpeed = d.history.LastSpeed()
	d.bus.Emit(Move{Vector: d.history.LastDelta()})
}

func (d *MouseDecoder) release(in Input) {
	if in.Button != d.cfg.PrimaryButton || !d.pressed {
		return
	}
	d.pressed = false
	speed := d.history.AvgSpeed(in.At)
	d.history.Clear()

	emit := func(v kinematics.Vector) { d.bus.Emit(SmoothMove{Vector: v}) }
	d.pan.start(d.cfg.newPan(speed, in.At), emit, in.At, d.cfg.PanPolicy != inertia.PanDuration)
}

func (d *MouseDecoder) wheel(in Input) {
	if in.WheelDelta == 0 {
		return
	}
	d.scale.cancel()

	dir := 1
	if in.WheelDelta < 0 {
		dir = -1
	}
	d.wheelCount += dir

	var scalar float64
	switch d.cfg.WheelMode {
	case WheelLinear:
		// scrolling up raises the counter so both modes zoom in on up
		d.wheelTicks, scalar = d.cfg.Wheel.Step(d.wheelTicks, -dir)
		if scalar == 1 {
			return
		}
	default:
		scalar = convergence.TickRatio(float64(dir), d.cfg.ScaleRatio)
	}

	center := sampleOf(in)
	vec := kinematics.Vector{X: scalar, Y: scalar}

	if d.cfg.ScaleMode == ScaleDiscrete {
		d.bus.Emit(Scale{Vector: vec, Center: center})
		return
	}
	emit := func(v kinematics.Vector) { d.bus.Emit(SmoothScale{Vector: v, Center: center}) }
	d.scale.start(inertia.NewScale(vec, d.cfg.SmoothScaleSteps, center), emit, in.At, true)
}

// WheelCount returns the accumulated tick counter (positive is down).
func (d *MouseDecoder) WheelCount() int { return d.wheelCount }

func sampleOf(in Input) kinematics.Sample {
	return kinematics.Sample{X: in.X, Y: in.Y, At: in.At}
}

// stamped fills in a missing timestamp with the current time.
func stamped(in Input) Input {
	if in.At.IsZero() {
		in.At = time.Now()
	}
	return in
}
