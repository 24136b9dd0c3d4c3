package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"gesturebrainz/gesture"
)

func evAt(sec int64, typ, code uint16, value int32) inputEvent {
	return inputEvent{Sec: sec, Type: typ, Code: code, Value: value}
}

func syn(sec int64) inputEvent { return evAt(sec, EV_SYN, SYN_REPORT, 0) }

func feedAll(t *testing.T, tr *evdevTranslator, evs ...inputEvent) []gesture.Input {
	t.Helper()
	var out []gesture.Input
	for _, ev := range evs {
		out = append(out, tr.feed(ev)...)
	}
	return out
}

func TestEvdev_RelativeMoveWaitsForSyn(t *testing.T) {
	tr := newEvdevTranslator(100, 100, 0)

	if got := tr.feed(evAt(1, EV_REL, REL_X, 5)); got != nil {
		t.Fatalf("REL_X without SYN produced %v", got)
	}
	got := feedAll(t, tr, evAt(1, EV_REL, REL_Y, -3), syn(1))
	if len(got) != 1 {
		t.Fatalf("inputs = %d, want 1", len(got))
	}
	in := got[0]
	if in.Kind != gesture.InputMove || in.X != 55 || in.Y != 47 {
		t.Fatalf("move = %+v, want (55,47)", in)
	}
	if !in.At.Equal(time.Unix(1, 0)) {
		t.Fatalf("At = %v, want kernel timestamp", in.At)
	}
}

func TestEvdev_MoveClampsToScreen(t *testing.T) {
	tr := newEvdevTranslator(100, 50, 0)
	got := feedAll(t, tr, evAt(0, EV_REL, REL_X, 500), evAt(0, EV_REL, REL_Y, -500), syn(0))
	if got[0].X != 100 || got[0].Y != 0 {
		t.Fatalf("clamped = (%v,%v), want (100,0)", got[0].X, got[0].Y)
	}
}

func TestEvdev_Buttons(t *testing.T) {
	tr := newEvdevTranslator(100, 100, 0)

	got := feedAll(t, tr, evAt(0, EV_KEY, BTN_LEFT, evValuePress), syn(0))
	if len(got) != 1 || got[0].Kind != gesture.InputPress || got[0].Button != gesture.ButtonPrimary {
		t.Fatalf("press = %+v", got)
	}

	// Autorepeat is ignored; unknown keys are ignored.
	got = feedAll(t, tr, evAt(0, EV_KEY, BTN_LEFT, evValueRepeat), evAt(0, EV_KEY, 0x1e, evValuePress), syn(0))
	if len(got) != 0 {
		t.Fatalf("repeat/unknown produced %+v", got)
	}

	got = feedAll(t, tr, evAt(0, EV_KEY, BTN_RIGHT, evValueRelease), syn(0))
	if len(got) != 1 || got[0].Kind != gesture.InputRelease || got[0].Button != 2 {
		t.Fatalf("release = %+v", got)
	}
}

func TestEvdev_MoveBeforeButton(t *testing.T) {
	tr := newEvdevTranslator(100, 100, 0)
	got := feedAll(t, tr,
		evAt(0, EV_KEY, BTN_LEFT, evValueRelease),
		evAt(0, EV_REL, REL_X, 1),
		syn(0),
	)
	if len(got) != 2 || got[0].Kind != gesture.InputMove || got[1].Kind != gesture.InputRelease {
		t.Fatalf("order = %+v, want move then release", got)
	}
	if got[1].X != 51 {
		t.Fatalf("release X = %v, want 51", got[1].X)
	}
}

func TestEvdev_WheelSign(t *testing.T) {
	tr := newEvdevTranslator(100, 100, 0)
	got := feedAll(t, tr, evAt(0, EV_REL, REL_WHEEL, 1), syn(0))
	if len(got) != 1 || got[0].Kind != gesture.InputWheel {
		t.Fatalf("wheel = %+v", got)
	}
	// Kernel +1 is "up"; wheel deltas are positive downwards.
	if got[0].WheelDelta != -1 {
		t.Fatalf("WheelDelta = %v, want -1", got[0].WheelDelta)
	}
}

func TestEvdev_MultiTouch(t *testing.T) {
	tr := newEvdevTranslator(1000, 1000, 4)

	// First finger down.
	got := feedAll(t, tr,
		evAt(0, EV_ABS, ABS_MT_SLOT, 0),
		evAt(0, EV_ABS, ABS_MT_TRACKING_ID, 7),
		evAt(0, EV_ABS, ABS_MT_POSITION_X, 10),
		evAt(0, EV_ABS, ABS_MT_POSITION_Y, 20),
		syn(0),
	)
	if len(got) != 1 || got[0].Kind != gesture.InputTouchStart || len(got[0].Touches) != 1 {
		t.Fatalf("first finger = %+v", got)
	}
	if got[0].X != 10 || got[0].Y != 20 || got[0].Touches[0].ID != 7 {
		t.Fatalf("first contact = %+v", got[0])
	}

	// Second finger down.
	got = feedAll(t, tr,
		evAt(0, EV_ABS, ABS_MT_SLOT, 1),
		evAt(0, EV_ABS, ABS_MT_TRACKING_ID, 8),
		evAt(0, EV_ABS, ABS_MT_POSITION_X, 30),
		evAt(0, EV_ABS, ABS_MT_POSITION_Y, 20),
		syn(0),
	)
	if len(got) != 1 || got[0].Kind != gesture.InputTouchStart || len(got[0].Touches) != 2 {
		t.Fatalf("second finger = %+v", got)
	}

	// Slot 1 moves; the slot stays selected.
	got = feedAll(t, tr, evAt(0, EV_ABS, ABS_MT_POSITION_X, 40), syn(0))
	if len(got) != 1 || got[0].Kind != gesture.InputTouchMove || got[0].Touches[1].X != 40 {
		t.Fatalf("move = %+v", got)
	}

	// First finger lifts.
	got = feedAll(t, tr,
		evAt(0, EV_ABS, ABS_MT_SLOT, 0),
		evAt(0, EV_ABS, ABS_MT_TRACKING_ID, -1),
		syn(0),
	)
	if len(got) != 1 || got[0].Kind != gesture.InputTouchEnd || len(got[0].Touches) != 1 || got[0].Touches[0].ID != 8 {
		t.Fatalf("partial lift = %+v", got)
	}

	// Last finger lifts.
	got = feedAll(t, tr,
		evAt(0, EV_ABS, ABS_MT_SLOT, 1),
		evAt(0, EV_ABS, ABS_MT_TRACKING_ID, -1),
		syn(0),
	)
	if len(got) != 1 || got[0].Kind != gesture.InputTouchEnd || len(got[0].Touches) != 0 {
		t.Fatalf("final lift = %+v", got)
	}

	// Nothing down, nothing reported.
	if got = feedAll(t, tr, evAt(0, EV_ABS, ABS_MT_POSITION_X, 1), syn(0)); len(got) != 0 {
		t.Fatalf("idle frame produced %+v", got)
	}
}

func TestEvdev_SlotOutOfRangeIgnored(t *testing.T) {
	tr := newEvdevTranslator(100, 100, 2)
	got := feedAll(t, tr,
		evAt(0, EV_ABS, ABS_MT_SLOT, 5),
		evAt(0, EV_ABS, ABS_MT_TRACKING_ID, 1),
		syn(0),
	)
	if len(got) != 0 {
		t.Fatalf("out-of-range slot produced %+v", got)
	}
}

func TestReadInputEvents(t *testing.T) {
	var buf bytes.Buffer
	want := []inputEvent{
		{Sec: 1, Usec: 500, Type: EV_REL, Code: REL_X, Value: -4},
		{Sec: 1, Usec: 600, Type: EV_SYN, Code: SYN_REPORT},
	}
	for _, ev := range want {
		if err := binary.Write(&buf, binary.LittleEndian, ev); err != nil {
			t.Fatalf("binary.Write: %v", err)
		}
	}

	events := make(chan taggedEvent, len(want))
	readErr := make(chan error, 1)
	go readInputEvents(&buf, 3, events, readErr)

	for i, w := range want {
		select {
		case got := <-events:
			if got.dev != 3 || got.ev != w {
				t.Fatalf("event %d = %+v, want dev 3 %+v", i, got, w)
			}
		case <-time.After(time.Second):
			t.Fatalf("timeout waiting for event %d", i)
		}
	}

	select {
	case err := <-readErr:
		if !errors.Is(err, io.EOF) {
			t.Fatalf("readErr = %v, want EOF", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("timeout waiting for read error")
	}
}
