package inertia

import (
	"time"

	"gesturebrainz/convergence"
	"gesturebrainz/kinematics"
)

// BaseStep is the first exponent index of a smooth scale sequence. Starting
// at 10 keeps the first step from taking most of the zoom.
const BaseStep = 10

// Scale spreads a raw scale factor over a fixed number of multiplicative
// steps. Step i (BaseStep <= i < BaseStep+steps) yields
// raw^(1/(i*HarmonicSum(BaseStep, BaseStep+steps-1))), so the product of all
// steps equals raw whatever the step count.
type Scale struct {
	raw    kinematics.Vector
	center kinematics.Sample
	steps  int
	sum    float64

	next      int
	last      time.Time
	done      bool
	cancelled bool
}

var _ Simulator = (*Scale)(nil)

// NewScale returns a smooth scale toward raw (per axis) pivoting on center.
func NewScale(raw kinematics.Vector, steps int, center kinematics.Sample) *Scale {
	return &Scale{
		raw:    raw,
		center: center,
		steps:  steps,
		sum:    convergence.HarmonicSum(BaseStep, BaseStep+steps-1),
		next:   BaseStep,
		done:   steps <= 0,
	}
}

// Raw returns the target scale factor.
func (s *Scale) Raw() kinematics.Vector { return s.raw }

// Center returns the pivot passed through to the render side.
func (s *Scale) Center() kinematics.Sample { return s.center }

// Step returns the next multiplier. Steps whose root is not positive on
// both axes are skipped.
func (s *Scale) Step(now time.Time) (kinematics.Vector, bool) {
	for !s.done && !s.cancelled {
		if s.next >= BaseStep+s.steps {
			s.done = true
			break
		}
		i := s.next
		s.next++

		x, okX := convergence.Root(s.raw.X, i, s.sum)
		y, okY := convergence.Root(s.raw.Y, i, s.sum)
		if !okX || !okY {
			continue
		}

		var dt float64
		if !s.last.IsZero() {
			dt = kinematics.Millis(now.Sub(s.last))
		}
		s.last = now
		return kinematics.Vector{X: x, Y: y, Time: dt}, true
	}
	return kinematics.Vector{}, false
}

// Cancel stops the sequence. It is a no-op once the scale has ended.
func (s *Scale) Cancel() {
	if !s.done {
		s.cancelled = true
	}
}

func (s *Scale) Done() bool      { return s.done || s.cancelled }
func (s *Scale) Completed() bool { return s.done && !s.cancelled }
