package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"gesturebrainz/gesture"
)

// printer renders daemon messages one line each.
type printer struct {
	w    io.Writer
	only map[string]bool
	raw  bool

	lastCSS string
}

func newPrinter(w io.Writer, only map[string]bool, raw bool) *printer {
	return &printer{w: w, only: only, raw: raw}
}

type message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (p *printer) handle(b []byte) {
	var msg message
	if err := json.Unmarshal(b, &msg); err != nil {
		fmt.Fprintf(p.w, "[TEXT] %s\n", b)
		return
	}
	if p.only != nil && !p.only[msg.Type] {
		return
	}
	if p.raw {
		fmt.Fprintf(p.w, "%s\n", b)
		return
	}

	switch msg.Type {
	case "state_init":
		var s struct {
			CSS       string `json:"css"`
			Pressed   bool   `json:"pressed"`
			Touching  bool   `json:"touching"`
			Inertia   bool   `json:"inertia"`
			PanPolicy string `json:"pan_policy"`
			ScaleMode string `json:"scale_mode"`
			WheelMode string `json:"wheel_mode"`
		}
		if err := json.Unmarshal(msg.Data, &s); err != nil {
			fmt.Fprintf(p.w, "[INIT] %s\n", msg.Data)
			return
		}
		p.lastCSS = s.CSS
		fmt.Fprintf(p.w, "[INIT] %s pressed=%t touching=%t inertia=%t pan=%s scale=%s wheel=%s\n",
			s.CSS, s.Pressed, s.Touching, s.Inertia, s.PanPolicy, s.ScaleMode, s.WheelMode)

	case "transform":
		var xf struct {
			CSS string `json:"css"`
		}
		if err := json.Unmarshal(msg.Data, &xf); err != nil {
			fmt.Fprintf(p.w, "[TRANSFORM] %s\n", msg.Data)
			return
		}
		if xf.CSS == p.lastCSS {
			return
		}
		p.lastCSS = xf.CSS
		fmt.Fprintf(p.w, "[TRANSFORM] %s\n", xf.CSS)

	default:
		ev, err := gesture.UnmarshalEvent(b)
		if err != nil {
			fmt.Fprintf(p.w, "[TEXT] %s\n", b)
			return
		}
		fmt.Fprintln(p.w, formatEvent(ev))
	}
}

func formatEvent(ev gesture.Event) string {
	switch ev := ev.(type) {
	case gesture.Move:
		return fmt.Sprintf("[MOVE] dx=%.2f dy=%.2f dt=%.0fms", ev.Vector.X, ev.Vector.Y, ev.Vector.Time)
	case gesture.SmoothMove:
		return fmt.Sprintf("[SMOOTH_MOVE] dx=%.2f dy=%.2f", ev.Vector.X, ev.Vector.Y)
	case gesture.Scale:
		return fmt.Sprintf("[SCALE] x%.4f at (%.1f,%.1f)", ev.Vector.X, ev.Center.X, ev.Center.Y)
	case gesture.SmoothScale:
		return fmt.Sprintf("[SMOOTH_SCALE] x%.4f at (%.1f,%.1f)", ev.Vector.X, ev.Center.X, ev.Center.Y)
	case gesture.Rotate:
		return fmt.Sprintf("[ROTATE] %.1f deg at (%.1f,%.1f)", ev.Angle*180/math.Pi, ev.Center.X, ev.Center.Y)
	case gesture.ChangeEnd:
		return "[CHANGE_END]"
	}
	return fmt.Sprintf("[%T]", ev)
}
