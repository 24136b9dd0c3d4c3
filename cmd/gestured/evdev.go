package main

import (
	"time"

	"gesturebrainz/gesture"
	"gesturebrainz/pinch"
)

// ============================================================================
// evdev -> gesture.Input translation
// ============================================================================
// The kernel reports one "frame" of state changes terminated by
// EV_SYN/SYN_REPORT. The translator accumulates a frame and emits
// gesture inputs when it is flushed:
//
//   - EV_REL REL_X/REL_Y move a virtual pointer clamped to the screen
//   - EV_KEY BTN_LEFT/RIGHT/MIDDLE press and release buttons
//   - EV_REL REL_WHEEL scrolls (kernel +1 is "up", so the sign is flipped)
//   - EV_ABS ABS_MT_* follow multi-touch protocol B slots
//
// A translator is owned by the daemon loop; one per device.
// ============================================================================

type mtSlot struct {
	id     int
	x, y   float64
	active bool
}

type buttonChange struct {
	button int
	down   bool
}

type evdevTranslator struct {
	width, height float64

	// pointer state
	x, y    float64
	dx, dy  float64
	buttons []buttonChange
	wheel   int32

	// multi-touch state
	slots   []mtSlot
	slot    int
	touched bool
	active  int // contacts down at the last flush
}

func newEvdevTranslator(width, height float64, maxSlots int) *evdevTranslator {
	if maxSlots <= 0 {
		maxSlots = defaultMaxSlots
	}
	return &evdevTranslator{
		width:  width,
		height: height,
		x:      width / 2,
		y:      height / 2,
		slots:  make([]mtSlot, maxSlots),
	}
}

// feed consumes one kernel event and returns the inputs completed by it.
// Only SYN_REPORT produces output.
func (t *evdevTranslator) feed(ev inputEvent) []gesture.Input {
	switch ev.Type {
	case EV_REL:
		switch ev.Code {
		case REL_X:
			t.dx += float64(ev.Value)
		case REL_Y:
			t.dy += float64(ev.Value)
		case REL_WHEEL:
			t.wheel += ev.Value
		}

	case EV_KEY:
		button, ok := evdevButton(ev.Code)
		if !ok || ev.Value == evValueRepeat {
			return nil
		}
		t.buttons = append(t.buttons, buttonChange{button: button, down: ev.Value == evValuePress})

	case EV_ABS:
		t.feedAbs(ev)

	case EV_SYN:
		if ev.Code == SYN_REPORT {
			return t.flush(ev.Time())
		}
	}
	return nil
}

func (t *evdevTranslator) feedAbs(ev inputEvent) {
	switch ev.Code {
	case ABS_MT_SLOT:
		t.slot = int(ev.Value)
		return
	}
	if t.slot < 0 || t.slot >= len(t.slots) {
		return
	}
	s := &t.slots[t.slot]
	switch ev.Code {
	case ABS_MT_TRACKING_ID:
		if ev.Value < 0 {
			s.active = false
		} else {
			s.active = true
			s.id = int(ev.Value)
		}
		t.touched = true
	case ABS_MT_POSITION_X:
		s.x = float64(ev.Value)
		t.touched = true
	case ABS_MT_POSITION_Y:
		s.y = float64(ev.Value)
		t.touched = true
	}
}

func (t *evdevTranslator) flush(at time.Time) []gesture.Input {
	var out []gesture.Input

	if t.dx != 0 || t.dy != 0 {
		t.x = clamp(t.x+t.dx, 0, t.width)
		t.y = clamp(t.y+t.dy, 0, t.height)
		t.dx, t.dy = 0, 0
		out = append(out, gesture.Input{Kind: gesture.InputMove, X: t.x, Y: t.y, At: at})
	}

	for _, b := range t.buttons {
		kind := gesture.InputRelease
		if b.down {
			kind = gesture.InputPress
		}
		out = append(out, gesture.Input{Kind: kind, X: t.x, Y: t.y, At: at, Button: b.button})
	}
	t.buttons = t.buttons[:0]

	if t.wheel != 0 {
		out = append(out, gesture.Input{
			Kind:       gesture.InputWheel,
			X:          t.x,
			Y:          t.y,
			At:         at,
			WheelDelta: -float64(t.wheel),
		})
		t.wheel = 0
	}

	if t.touched {
		t.touched = false
		if in, ok := t.touchInput(at); ok {
			out = append(out, in)
		}
	}
	return out
}

// touchInput classifies a touch frame by how the contact count changed.
func (t *evdevTranslator) touchInput(at time.Time) (gesture.Input, bool) {
	var contacts []pinch.Contact
	for _, s := range t.slots {
		if s.active {
			contacts = append(contacts, pinch.Contact{ID: s.id, X: s.x, Y: s.y})
		}
	}
	prev := t.active
	t.active = len(contacts)

	in := gesture.Input{At: at, Touches: contacts}
	if len(contacts) > 0 {
		in.X, in.Y = contacts[0].X, contacts[0].Y
	}
	switch {
	case len(contacts) > prev:
		in.Kind = gesture.InputTouchStart
	case len(contacts) < prev:
		in.Kind = gesture.InputTouchEnd
	case len(contacts) == 0:
		return gesture.Input{}, false
	default:
		in.Kind = gesture.InputTouchMove
	}
	return in, true
}

// evdevButton maps kernel button codes to DOM-style button numbers.
func evdevButton(code uint16) (int, bool) {
	switch code {
	case BTN_LEFT:
		return gesture.ButtonPrimary, true
	case BTN_MIDDLE:
		return 1, true
	case BTN_RIGHT:
		return 2, true
	}
	return 0, false
}

func clamp(v, lo, hi float64) float64 {
	return min(hi, max(lo, v))
}
