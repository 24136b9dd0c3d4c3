package gesture

import (
	"time"

	"gesturebrainz/frame"
	"gesturebrainz/inertia"
	"gesturebrainz/kinematics"
)

// runner drives one inertia simulator from a frame scheduler. Starting a
// new simulator cancels the previous one along with its scheduled step.
type runner struct {
	sched  frame.Scheduler
	sim    inertia.Simulator
	handle frame.Handle
	emit   func(kinematics.Vector)
	done   func()
}

func newRunner(sched frame.Scheduler, done func()) *runner {
	return &runner{sched: sched, done: done}
}

// start runs sim, emitting each increment through emit. With immediate set
// the first step runs now instead of on the next frame.
func (r *runner) start(sim inertia.Simulator, emit func(kinematics.Vector), now time.Time, immediate bool) {
	r.cancel()
	r.sim = sim
	r.emit = emit
	if immediate {
		r.step(now)
		return
	}
	r.handle = r.sched.Request(r.step)
}

func (r *runner) step(now time.Time) {
	r.handle = 0
	if r.sim == nil {
		return
	}
	sim := r.sim
	inc, ok := sim.Step(now)
	if ok {
		r.emit(inc)
		// a listener may have cancelled or replaced the sequence
		if r.sim == sim {
			r.handle = r.sched.Request(r.step)
		}
		return
	}
	completed := sim.Completed()
	r.sim = nil
	if completed && r.done != nil {
		r.done()
	}
}

func (r *runner) cancel() {
	r.sched.Cancel(r.handle)
	r.handle = 0
	if r.sim != nil {
		r.sim.Cancel()
		r.sim = nil
	}
}

func (r *runner) active() bool { return r.sim != nil }
