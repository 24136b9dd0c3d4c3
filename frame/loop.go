// Package frame provides the per-frame callback scheduling that drives
// inertia: callbacks are requested for the next frame and may be cancelled
// by handle until they run.
package frame

import "time"

// Handle identifies a requested callback. The zero Handle is never issued
// and can be used to mean "nothing scheduled".
type Handle uint64

// Scheduler requests callbacks for the next frame.
type Scheduler interface {
	Request(fn func(now time.Time)) Handle
	Cancel(h Handle)
}

type request struct {
	handle Handle
	fn     func(now time.Time)
}

// Loop is a Scheduler advanced explicitly by RunFrame.
//
// Loop is not safe for concurrent use; it belongs to the goroutine that
// calls RunFrame.
type Loop struct {
	next    Handle
	pending []request

	// the frame currently running, and the handles cancelled inside it
	running []request
	skip    map[Handle]struct{}
}

var _ Scheduler = (*Loop)(nil)

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{pending: make([]request, 0, 8)}
}

// Request schedules fn for the next RunFrame. Callbacks requested while a
// frame is running wait for the following frame.
func (l *Loop) Request(fn func(now time.Time)) Handle {
	if fn == nil {
		return 0
	}
	l.next++
	l.pending = append(l.pending, request{handle: l.next, fn: fn})
	return l.next
}

// Cancel guarantees the callback for h never runs. Cancelling a handle that
// already ran, was already cancelled, or is zero does nothing.
func (l *Loop) Cancel(h Handle) {
	if h == 0 {
		return
	}
	for i := range l.pending {
		if l.pending[i].handle == h {
			copy(l.pending[i:], l.pending[i+1:])
			l.pending[len(l.pending)-1] = request{}
			l.pending = l.pending[:len(l.pending)-1]
			return
		}
	}
	for _, r := range l.running {
		if r.handle == h {
			l.skip[h] = struct{}{}
			return
		}
	}
}

// Pending returns the number of callbacks waiting for the next frame.
func (l *Loop) Pending() int { return len(l.pending) }

// RunFrame runs every callback requested before this call, in request
// order, and returns how many ran.
func (l *Loop) RunFrame(now time.Time) int {
	if len(l.pending) == 0 {
		return 0
	}

	l.running = l.pending
	l.skip = make(map[Handle]struct{})
	l.pending = make([]request, 0, cap(l.running))
	defer func() {
		l.running = nil
		l.skip = nil
	}()

	ran := 0
	for _, r := range l.running {
		if _, ok := l.skip[r.handle]; ok {
			continue
		}
		l.skip[r.handle] = struct{}{}
		r.fn(now)
		ran++
	}
	return ran
}
