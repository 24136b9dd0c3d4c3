package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"gesturebrainz/gesture"
)

type fakeScreen struct {
	w, h  int
	cells map[[2]int]tcell.Style
	runes map[[2]int]rune
}

func newFakeScreen(w, h int) *fakeScreen {
	return &fakeScreen{w: w, h: h, cells: map[[2]int]tcell.Style{}, runes: map[[2]int]rune{}}
}

func (f *fakeScreen) SetContent(x, y int, primary rune, _ []rune, style tcell.Style) {
	f.cells[[2]int{x, y}] = style
	f.runes[[2]int{x, y}] = primary
}

func (f *fakeScreen) filled(x, y int) bool {
	_, bg, _ := f.cells[[2]int{x, y}].Decompose()
	return bg == tcell.ColorTeal || bg == tcell.ColorNavy
}

func mouseAt(col, row int, btn tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(col, row, btn, tcell.ModNone)
}

func TestApp_MouseInputs(t *testing.T) {
	a := newApp(gesture.DefaultConfig(), 80, 25)

	got := a.mouseInputs(mouseAt(10, 5, tcell.Button1))
	if len(got) != 1 || got[0].Kind != gesture.InputPress || got[0].X != 10 || got[0].Y != 10 {
		t.Fatalf("press = %+v, want press at (10,10)", got)
	}

	got = a.mouseInputs(mouseAt(12, 5, tcell.Button1))
	if len(got) != 1 || got[0].Kind != gesture.InputMove || got[0].X != 12 {
		t.Fatalf("drag = %+v", got)
	}

	// Wheel while held does not release.
	got = a.mouseInputs(mouseAt(12, 5, tcell.WheelUp))
	if len(got) != 1 || got[0].Kind != gesture.InputWheel || got[0].WheelDelta != -1 {
		t.Fatalf("wheel = %+v", got)
	}
	if !a.down {
		t.Fatalf("wheel report released the button")
	}

	got = a.mouseInputs(mouseAt(12, 5, tcell.ButtonNone))
	if len(got) != 1 || got[0].Kind != gesture.InputRelease {
		t.Fatalf("release = %+v", got)
	}

	// Same position, no button: nothing to report.
	if got = a.mouseInputs(mouseAt(12, 5, tcell.ButtonNone)); len(got) != 0 {
		t.Fatalf("idle = %+v", got)
	}
}

func TestApp_DragPansView(t *testing.T) {
	a := newApp(gesture.DefaultConfig(), 80, 25)

	a.handle(mouseAt(10, 5, tcell.Button1))
	a.handle(mouseAt(14, 5, tcell.Button1))

	if m := a.xf.Matrix(); m[2] != 4 || m[5] != 0 {
		t.Fatalf("matrix = %v, want translation (4,0)", m)
	}
	if a.last != string(gesture.KindMove) {
		t.Fatalf("last = %q", a.last)
	}
}

func TestApp_Keys(t *testing.T) {
	a := newApp(gesture.DefaultConfig(), 80, 25)

	if !a.handle(tcell.NewEventKey(tcell.KeyRune, 's', tcell.ModNone)) {
		t.Fatalf("'s' quit the app")
	}
	if a.scaleMode() != gesture.ScaleDiscrete {
		t.Fatalf("scale mode = %q, want discrete", a.scaleMode())
	}

	a.handle(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone))
	if m := a.xf.Matrix(); m[0] <= 1 {
		t.Fatalf("'+' did not zoom in: %v", m)
	}

	a.handle(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if a.xf.CSS() != "matrix(1,0,0,1,0,0)" {
		t.Fatalf("'r' did not reset: %s", a.xf.CSS())
	}

	if a.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Fatalf("'q' did not quit")
	}
	if a.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Fatalf("Esc did not quit")
	}
}

func TestApp_InertiaSettles(t *testing.T) {
	a := newApp(gesture.DefaultConfig(), 80, 25)

	// Fling to the right; content must end back inside the screen.
	start := time.Now()
	a.src.Dispatch(gesture.Input{Kind: gesture.InputPress, X: 10, Y: 10, At: start})
	a.src.Dispatch(gesture.Input{Kind: gesture.InputMove, X: 30, Y: 10, At: start.Add(10 * time.Millisecond)})
	a.src.Dispatch(gesture.Input{Kind: gesture.InputMove, X: 60, Y: 10, At: start.Add(20 * time.Millisecond)})
	a.src.Dispatch(gesture.Input{Kind: gesture.InputRelease, X: 60, Y: 10, At: start.Add(25 * time.Millisecond)})

	now := start.Add(25 * time.Millisecond)
	for range 30 {
		now = now.Add(16 * time.Millisecond)
		a.tick(now)
	}

	if a.last != string(gesture.KindChangeEnd) {
		t.Fatalf("last = %q, want changeEnd", a.last)
	}
	got := a.xf.Bounds(a.content)
	b := a.bounds()
	if got.Left < b.Left || got.Right > b.Right || got.Top < b.Top || got.Bottom > b.Bottom {
		t.Fatalf("content %+v outside screen %+v", got, b)
	}
}

func TestApp_Draw(t *testing.T) {
	a := newApp(gesture.DefaultConfig(), 20, 11)
	s := newFakeScreen(20, 11)
	a.draw(s)

	// Content covers the middle half: units x 5..15, y 5..15, so rows 2..6.
	if s.filled(0, 0) {
		t.Fatalf("corner should be empty")
	}
	if !s.filled(10, 5) {
		t.Fatalf("center should be filled")
	}
	if s.runes[[2]int{1, 10}] != 'm' {
		t.Fatalf("status line should start with the css matrix, got %q", s.runes[[2]int{1, 10}])
	}

	// Panning right moves the content with it.
	a.xf.Translate(10, 0)
	a.draw(s)
	if s.filled(6, 5) || !s.filled(18, 5) {
		t.Fatalf("content did not move right")
	}
}
