// Package convergence holds the pure numeric helpers behind smooth scaling:
// harmonic normalization of multi-step scale sequences and the mapping from
// wheel ticks to scale multipliers.
package convergence

import "math"

// HarmonicSum returns Σ 1/i for i in [start, end]. It returns 0 when
// end < start. Non-positive terms are skipped.
func HarmonicSum(start, end int) float64 {
	sum := 0.0
	for i := start; i <= end; i++ {
		if i <= 0 {
			continue
		}
		sum += 1 / float64(i)
	}
	return sum
}

// Root returns scalar^(1/(step*sum)), the share of scalar applied at one
// step of a sequence normalized by sum.
//
// Raising scalar to 1/(i*H) for every i in [a, b], with H = HarmonicSum(a, b),
// multiplies back to exactly scalar. ok is false for a non-positive scalar,
// step or sum, and for non-finite results; no scale should be applied then.
func Root(scalar float64, step int, sum float64) (float64, bool) {
	if scalar <= 0 || step <= 0 || sum <= 0 {
		return 0, false
	}
	r := math.Pow(scalar, 1/(float64(step)*sum))
	if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
		return 0, false
	}
	return r, true
}

// TickRatio returns the per-tick multiplier for a fixed zoom ratio.
// A positive delta (scroll down) zooms out by 1/ratio, a negative delta
// zooms in by ratio and zero leaves the scale unchanged.
func TickRatio(delta, ratio float64) float64 {
	switch {
	case delta > 0:
		return 1 / ratio
	case delta < 0:
		return ratio
	default:
		return 1
	}
}

// WheelMapping maps an accumulated wheel tick counter into a bounded scale
// multiplier.
type WheelMapping struct {
	TickMin   int     `yaml:"tick_min"`
	TickMax   int     `yaml:"tick_max"`
	ScalarMin float64 `yaml:"scalar_min"`
	ScalarMax float64 `yaml:"scalar_max"`
}

// DefaultWheelMapping maps [-10, 10] ticks onto [0.2, 8].
func DefaultWheelMapping() WheelMapping {
	return WheelMapping{TickMin: -10, TickMax: 10, ScalarMin: 0.2, ScalarMax: 8}
}

// Valid reports whether the ranges bracket 0 ticks and a scale of 1.
func (m WheelMapping) Valid() bool {
	return m.TickMin < 0 && m.TickMax > 0 &&
		m.ScalarMin > 0 && m.ScalarMin < 1 && m.ScalarMax > 1
}

// Clamp limits ticks to [TickMin, TickMax].
func (m WheelMapping) Clamp(ticks int) int {
	return min(m.TickMax, max(m.TickMin, ticks))
}

// Accumulate adds diff to prev and clamps the result.
func (m WheelMapping) Accumulate(prev, diff int) int {
	return m.Clamp(prev + diff)
}

// Scalar maps ticks (clamped first) to a multiplier. Zero maps to 1;
// negative ticks fall linearly into [ScalarMin, 1) and positive ticks rise
// linearly into (1, ScalarMax].
func (m WheelMapping) Scalar(ticks int) float64 {
	t := m.Clamp(ticks)
	switch {
	case t == 0:
		return 1
	case t < 0:
		return 1 - (float64(t)/float64(m.TickMin))*(1-m.ScalarMin)
	default:
		return 1 + (float64(t)/float64(m.TickMax))*(m.ScalarMax-1)
	}
}

// Step returns the clamped counter after adding diff and the multiplier that
// takes the mapped scale at prev to the mapped scale at the new counter.
func (m WheelMapping) Step(prev, diff int) (next int, scalar float64) {
	next = m.Accumulate(prev, diff)
	from := m.Scalar(prev)
	if from == 0 {
		return next, 1
	}
	return next, m.Scalar(next) / from
}
