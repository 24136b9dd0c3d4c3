package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"gesturebrainz/gesture"
	"gesturebrainz/pinch"
)

// step is one input to send after waiting Delay.
type step struct {
	Delay time.Duration
	Input gesture.Input
}

// parseFloats parses exactly n numeric arguments.
func parseFloats(args []string, n int, usage string) ([]float64, error) {
	if len(args) < n {
		return nil, fmt.Errorf("usage: %s", usage)
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", args[i], err)
		}
		out[i] = v
	}
	return out, nil
}

// optionalInt returns args[i] as an int, or def when absent.
func optionalInt(args []string, i, def int) (int, error) {
	if len(args) <= i {
		return def, nil
	}
	v, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q: %w", args[i], err)
	}
	return v, nil
}

// dragScript presses at (x0,y0), moves to (x1,y1) in steps evenly spaced
// over d and releases there.
func dragScript(x0, y0, x1, y1 float64, steps int, d time.Duration) []step {
	if steps < 1 {
		steps = 1
	}
	interval := d / time.Duration(steps)

	out := []step{{Input: gesture.Input{Kind: gesture.InputPress, X: x0, Y: y0}}}
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		out = append(out, step{
			Delay: interval,
			Input: gesture.Input{Kind: gesture.InputMove, X: x0 + (x1-x0)*f, Y: y0 + (y1-y0)*f},
		})
	}
	return append(out, step{Input: gesture.Input{Kind: gesture.InputRelease, X: x1, Y: y1}})
}

// twoFingerScript puts two fingers down on opposite sides of (cx,cy), then
// moves them from radius r0 to r1 while turning by angle radians, and lifts
// them one after the other.
func twoFingerScript(cx, cy, r0, r1, angle float64, steps int, d time.Duration) []step {
	if steps < 1 {
		steps = 1
	}
	interval := d / time.Duration(steps)

	contacts := func(r, a float64) []pinch.Contact {
		sin, cos := math.Sincos(a)
		return []pinch.Contact{
			{ID: 0, X: cx - r*cos, Y: cy - r*sin},
			{ID: 1, X: cx + r*cos, Y: cy + r*sin},
		}
	}
	touch := func(kind gesture.InputKind, cs []pinch.Contact) gesture.Input {
		in := gesture.Input{Kind: kind, Touches: cs}
		if len(cs) > 0 {
			in.X, in.Y = cs[0].X, cs[0].Y
		}
		return in
	}

	start := contacts(r0, 0)
	out := []step{
		{Input: touch(gesture.InputTouchStart, start[:1])},
		{Input: touch(gesture.InputTouchStart, start)},
	}
	var last []pinch.Contact
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		last = contacts(r0+(r1-r0)*f, angle*f)
		out = append(out, step{Delay: interval, Input: touch(gesture.InputTouchMove, last)})
	}
	return append(out,
		step{Input: touch(gesture.InputTouchEnd, last[1:])},
		step{Input: touch(gesture.InputTouchEnd, nil)},
	)
}
