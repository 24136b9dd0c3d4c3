package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"gesturebrainz/frame"
	"gesturebrainz/gesture"
	"gesturebrainz/transform"
	"gesturebrainz/vector"
)

// cellAspect is the height of a terminal cell in units of its width. Inputs
// and drawing use square units so rotation looks right.
const cellAspect = 2.0

// checker is the size of one checkerboard square, in units.
const checker = 4.0

// cellSetter is the part of tcell.Screen the renderer needs.
type cellSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// app owns the decoder stack and the view. It is driven from one goroutine.
type app struct {
	loop  *frame.Loop
	bus   *gesture.Bus
	src   *gesture.Dispatcher
	mouse *gesture.MouseDecoder
	xf    *transform.Transform

	width, height int // screen size in cells
	content       transform.Rect

	// mouse tracking
	down   bool
	lastX  float64
	lastY  float64
	events int
	last   string
}

func newApp(cfg gesture.Config, width, height int) *app {
	a := &app{
		loop: frame.NewLoop(),
		bus:  gesture.NewBus(),
		src:  gesture.NewDispatcher(),
		xf:   transform.Identity(),
	}
	a.mouse = gesture.NewMouseDecoder(cfg, a.loop, a.bus)
	a.mouse.Subscribe(a.src)
	a.bus.OnAll(a.onEvent)
	a.resize(width, height)
	return a
}

// resize sets the screen size and recenters content at half the screen.
func (a *app) resize(width, height int) {
	a.width, a.height = width, height
	w, h := a.bounds().Width(), a.bounds().Height()
	a.content = transform.RectXYWH(w/4, h/4, w/2, h/2)
}

// bounds is the screen area in units.
func (a *app) bounds() transform.Rect {
	return transform.RectXYWH(0, 0, float64(a.width), float64(a.height-1)*cellAspect)
}

func (a *app) onEvent(ev gesture.Event) {
	a.events++
	a.last = string(ev.Kind())
	a.xf.Apply(ev)
	if _, ok := ev.(gesture.ChangeEnd); ok {
		a.xf.Settle(a.content, a.bounds())
	}
}

// handle processes one terminal event and reports whether to keep running.
func (a *app) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)

	case *tcell.EventMouse:
		for _, in := range a.mouseInputs(ev) {
			a.src.Dispatch(in)
		}

	case *tcell.EventResize:
		w, h := ev.Size()
		a.resize(w, h)
	}
	return true
}

func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	center := a.bounds().Center()
	wheel := func(delta float64) {
		a.src.Dispatch(gesture.Input{
			Kind: gesture.InputWheel, X: center.X(), Y: center.Y(),
			WheelDelta: delta, At: ev.When(),
		})
	}

	switch ev.Rune() {
	case 'q':
		return false
	case 'r':
		a.xf.Reset()
	case 's':
		mode := gesture.ScaleSmooth
		if a.scaleMode() == gesture.ScaleSmooth {
			mode = gesture.ScaleDiscrete
		}
		a.mouse.SetScaleMode(mode)
		a.last = "scale mode " + string(mode)
	case '+', '=':
		wheel(-1)
	case '-':
		wheel(1)
	}
	return true
}

func (a *app) scaleMode() gesture.ScaleMode { return a.mouse.ScaleMode() }

// mouseInputs converts a terminal mouse report into decoder inputs. Wheel
// reports never change the button state.
func (a *app) mouseInputs(ev *tcell.EventMouse) []gesture.Input {
	col, row := ev.Position()
	x, y := float64(col), float64(row)*cellAspect
	at := ev.When()
	btn := ev.Buttons()

	if btn&(tcell.WheelUp|tcell.WheelDown) != 0 {
		delta := 1.0
		if btn&tcell.WheelUp != 0 {
			delta = -1
		}
		return []gesture.Input{{Kind: gesture.InputWheel, X: x, Y: y, WheelDelta: delta, At: at}}
	}

	var out []gesture.Input
	down := btn&tcell.Button1 != 0
	switch {
	case down && !a.down:
		out = append(out, gesture.Input{Kind: gesture.InputPress, X: x, Y: y, At: at, Button: gesture.ButtonPrimary})
	case !down && a.down:
		out = append(out, gesture.Input{Kind: gesture.InputRelease, X: x, Y: y, At: at, Button: gesture.ButtonPrimary})
	case x != a.lastX || y != a.lastY:
		out = append(out, gesture.Input{Kind: gesture.InputMove, X: x, Y: y, At: at})
	}
	a.down = down
	a.lastX, a.lastY = x, y
	return out
}

// tick advances inertia by one frame.
func (a *app) tick(now time.Time) {
	a.loop.RunFrame(now)
}

// draw renders the checkerboard content through the view transform, and a
// status line on the last row.
func (a *app) draw(s cellSetter) {
	inv, ok := a.xf.Invert()

	light := tcell.StyleDefault.Background(tcell.ColorTeal)
	dark := tcell.StyleDefault.Background(tcell.ColorNavy)
	empty := tcell.StyleDefault

	for row := 0; row < a.height-1; row++ {
		for col := 0; col < a.width; col++ {
			style := empty
			if ok {
				p := inv.Point(vector.New(float64(col)+0.5, (float64(row)+0.5)*cellAspect))
				if inside(a.content, p) {
					style = dark
					u := math.Floor((p.X() - a.content.Left) / checker)
					v := math.Floor((p.Y() - a.content.Top) / checker)
					if int(u+v)%2 == 0 {
						style = light
					}
				}
			}
			s.SetContent(col, row, ' ', nil, style)
		}
	}

	status := a.status()
	for col := 0; col < a.width; col++ {
		r := ' '
		if col < len(status) {
			r = rune(status[col])
		}
		s.SetContent(col, a.height-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
}

func (a *app) status() string {
	return fmt.Sprintf(" %s  %s  events=%d  [drag] pan [wheel/+/-] zoom [s] mode [r] reset [q] quit",
		a.xf.CSS(), a.last, a.events)
}

func inside(r transform.Rect, p vector.Vec) bool {
	return p.X() >= r.Left && p.X() < r.Right && p.Y() >= r.Top && p.Y() < r.Bottom
}
