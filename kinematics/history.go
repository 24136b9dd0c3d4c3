// Package kinematics turns a stream of timestamped pointer positions into
// instantaneous and averaged velocities.
package kinematics

import (
	"math"
	"time"

	"gesturebrainz/vector"
)

const (
	// DefaultLimit is the number of samples a History keeps.
	DefaultLimit = 5

	// DefaultWindow bounds how far back AvgSpeed looks.
	DefaultWindow = 50 * time.Millisecond
)

// Sample is a single observed position.
type Sample struct {
	X  float64   `json:"x"`
	Y  float64   `json:"y"`
	At time.Time `json:"at"`
}

// Pos returns the sample position as a vector.
func (s Sample) Pos() vector.Vec { return vector.New(s.X, s.Y) }

// Vector is a displacement, velocity or scale pair together with a
// duration. Time is in milliseconds; velocities are in px/ms.
type Vector struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Time float64 `json:"time"`
}

// IsZero reports whether all fields are zero.
func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Time == 0 }

// Millis converts a duration to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// History is a bounded, time-windowed buffer of samples.
//
// A History is owned by a single decoder and is not safe for concurrent use.
type History struct {
	samples []Sample
	limit   int
	window  time.Duration
}

// NewHistory creates a history keeping at most limit samples and averaging
// over window. Non-positive values select the defaults.
func NewHistory(limit int, window time.Duration) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &History{
		samples: make([]Sample, 0, limit+1),
		limit:   limit,
		window:  window,
	}
}

// Limit returns the configured capacity.
func (h *History) Limit() int { return h.limit }

// Window returns the configured averaging window.
func (h *History) Window() time.Duration { return h.window }

// Push appends s, evicting the oldest sample when the history is full.
func (h *History) Push(s Sample) {
	h.samples = append(h.samples, s)
	if over := len(h.samples) - h.limit; over > 0 {
		n := copy(h.samples, h.samples[over:])
		clear(h.samples[n:])
		h.samples = h.samples[:n]
	}
}

// Clear empties the buffer, keeping its storage.
func (h *History) Clear() {
	clear(h.samples)
	h.samples = h.samples[:0]
}

// Len returns the number of stored samples.
func (h *History) Len() int { return len(h.samples) }

// Samples returns a copy of the stored samples, oldest first.
func (h *History) Samples() []Sample {
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Last returns the newest sample.
func (h *History) Last() (Sample, bool) {
	if len(h.samples) == 0 {
		return Sample{}, false
	}
	return h.samples[len(h.samples)-1], true
}

// LastPair returns the two newest samples, older first.
func (h *History) LastPair() (prev, last Sample, ok bool) {
	n := len(h.samples)
	if n < 2 {
		return Sample{}, Sample{}, false
	}
	return h.samples[n-2], h.samples[n-1], true
}

// LastDelta returns the displacement between the two newest samples.
// With fewer than two samples it returns the zero Vector.
func (h *History) LastDelta() Vector {
	prev, last, ok := h.LastPair()
	if !ok {
		return Vector{}
	}
	return delta(prev, last)
}

// LastSpeed returns LastDelta divided by its duration. Both components are
// zero when the duration is zero.
func (h *History) LastSpeed() Vector {
	return speed(h.LastDelta())
}

// SpeedList drops samples at or before now minus the window (the drop is
// kept) and returns the velocity between each consecutive pair of what
// remains. It returns nil when fewer than two samples remain.
func (h *History) SpeedList(now time.Time) []Vector {
	cutoff := now.Add(-h.window)

	kept := h.samples[:0] // reuse underlying array
	for _, s := range h.samples {
		if s.At.After(cutoff) {
			kept = append(kept, s)
		}
	}
	clear(h.samples[len(kept):])
	h.samples = kept

	if len(kept) < 2 {
		return nil
	}
	speeds := make([]Vector, 0, len(kept)-1)
	for i := 0; i+1 < len(kept); i++ {
		speeds = append(speeds, speed(delta(kept[i], kept[i+1])))
	}
	return speeds
}

// AvgSpeed returns the average velocity over the window ending at now.
//
// Only velocities whose sign matches the last non-zero velocity on the same
// axis are kept. Each axis sum is divided by the length of the longer of the
// two filtered lists, not by its own count, so an axis with few qualifying
// samples does not report an inflated rate. Time is the mean duration of
// that longer list (x wins ties).
func (h *History) AvgSpeed(now time.Time) Vector {
	speeds := h.SpeedList(now)
	if len(speeds) == 0 {
		return Vector{}
	}

	var lastX, lastY float64
	for i := len(speeds) - 1; i >= 0; i-- {
		if lastX == 0 && speeds[i].X != 0 {
			lastX = speeds[i].X
		}
		if lastY == 0 && speeds[i].Y != 0 {
			lastY = speeds[i].Y
		}
	}

	var xs, ys []Vector
	for _, s := range speeds {
		if s.X*lastX > 0 {
			xs = append(xs, s)
		}
		if s.Y*lastY > 0 {
			ys = append(ys, s)
		}
	}

	maxLen := max(len(xs), len(ys))
	if maxLen == 0 {
		return Vector{}
	}
	longest := xs
	if len(ys) > len(xs) {
		longest = ys
	}

	var sumX, sumY, sumT float64
	for _, s := range xs {
		sumX += s.X
	}
	for _, s := range ys {
		sumY += s.Y
	}
	for _, s := range longest {
		sumT += s.Time
	}

	n := float64(maxLen)
	return Vector{X: sumX / n, Y: sumY / n, Time: sumT / n}
}

func delta(from, to Sample) Vector {
	return Vector{
		X:    to.X - from.X,
		Y:    to.Y - from.Y,
		Time: math.Abs(Millis(to.At.Sub(from.At))),
	}
}

func speed(d Vector) Vector {
	if d.Time == 0 {
		return Vector{Time: d.Time}
	}
	return Vector{X: d.X / d.Time, Y: d.Y / d.Time, Time: d.Time}
}
