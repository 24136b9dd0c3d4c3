// Package inertia produces the decaying motion and scale increments that
// continue a gesture after the input is released.
//
// Simulators are plain values advanced by an external frame loop: each call
// to Step yields at most one increment. Nothing here schedules itself.
package inertia

import (
	"time"

	"gesturebrainz/kinematics"
)

// Simulator is the stepping contract shared by Pan and Scale.
type Simulator interface {
	// Step advances by one frame. ok is false once the sequence has ended
	// or was cancelled; it stays false afterwards.
	Step(now time.Time) (inc kinematics.Vector, ok bool)
	Cancel()
	// Done reports whether Step will never yield again.
	Done() bool
	// Completed reports whether the sequence ran to its end without being
	// cancelled.
	Completed() bool
}

// PanPolicy selects how a pan decays.
type PanPolicy string

const (
	// PanFrames decays linearly over a fixed number of steps.
	PanFrames PanPolicy = "frames"
	// PanDuration decays over a wall-clock duration, scaling each increment
	// by the time since the previous step.
	PanDuration PanPolicy = "duration"
)

// Pan turns a release velocity into a finite sequence of translation
// increments that decays to zero.
type Pan struct {
	policy   PanPolicy
	velocity kinematics.Vector
	ratio    float64

	// frames policy
	steps int
	step  int

	// duration policy
	start time.Time
	total time.Duration

	last      time.Time
	done      bool
	cancelled bool
}

var _ Simulator = (*Pan)(nil)

// NewPanFrames returns a pan emitting v*ratio*(1 - i/steps) for i in
// [0, steps).
func NewPanFrames(v kinematics.Vector, ratio float64, steps int) *Pan {
	return &Pan{
		policy:   PanFrames,
		velocity: v,
		ratio:    ratio,
		steps:    steps,
		done:     steps <= 0,
	}
}

// NewPanDuration returns a pan lasting total from start. Each increment is
// v*ratio*dt*(remaining/total) where dt is the time in ms since the previous
// step (or since start).
func NewPanDuration(v kinematics.Vector, ratio float64, total time.Duration, start time.Time) *Pan {
	return &Pan{
		policy:   PanDuration,
		velocity: v,
		ratio:    ratio,
		start:    start,
		total:    total,
		last:     start,
		done:     total <= 0,
	}
}

// Policy returns the decay policy.
func (p *Pan) Policy() PanPolicy { return p.policy }

// Velocity returns the release velocity the pan started from.
func (p *Pan) Velocity() kinematics.Vector { return p.velocity }

// Step returns the next increment. Its Time is the number of milliseconds
// since the previous step (0 for the first frames-policy step).
func (p *Pan) Step(now time.Time) (kinematics.Vector, bool) {
	if p.done || p.cancelled {
		return kinematics.Vector{}, false
	}

	var dt float64
	if !p.last.IsZero() {
		dt = kinematics.Millis(now.Sub(p.last))
	}

	var f float64
	switch p.policy {
	case PanDuration:
		elapsed := now.Sub(p.start)
		if elapsed >= p.total {
			p.done = true
			return kinematics.Vector{}, false
		}
		remaining := float64(p.total-elapsed) / float64(p.total)
		f = p.ratio * dt * remaining

	default:
		if p.step >= p.steps {
			p.done = true
			return kinematics.Vector{}, false
		}
		f = p.ratio * (1 - float64(p.step)/float64(p.steps))
		p.step++
	}

	p.last = now
	return kinematics.Vector{
		X:    p.velocity.X * f,
		Y:    p.velocity.Y * f,
		Time: dt,
	}, true
}

// Cancel stops the sequence. It is a no-op once the pan has ended.
func (p *Pan) Cancel() {
	if !p.done {
		p.cancelled = true
	}
}

func (p *Pan) Done() bool      { return p.done || p.cancelled }
func (p *Pan) Completed() bool { return p.done && !p.cancelled }
