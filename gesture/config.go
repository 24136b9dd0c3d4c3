package gesture

import (
	"errors"
	"fmt"
	"time"

	"gesturebrainz/convergence"
	"gesturebrainz/inertia"
	"gesturebrainz/kinematics"
)

// ScaleMode selects what a wheel tick produces.
type ScaleMode string

const (
	// ScaleDiscrete emits one scale event per tick.
	ScaleDiscrete ScaleMode = "discrete"
	// ScaleSmooth spreads each tick over a smoothScale sequence.
	ScaleSmooth ScaleMode = "smooth"
)

// WheelMode selects how a tick becomes a scale factor.
type WheelMode string

const (
	// WheelRatio zooms by a fixed ratio per tick.
	WheelRatio WheelMode = "ratio"
	// WheelLinear maps the accumulated, clamped tick counter through a
	// WheelMapping and emits the change between consecutive mapped values.
	WheelLinear WheelMode = "linear"
)

// Default decoder tuning.
const (
	DefaultSmoothMoveRatio  = 12.0
	DefaultSmoothMoveSteps  = 16
	DefaultPanDuration      = 300 * time.Millisecond
	DefaultPanDurationRatio = 0.7
	DefaultScaleRatio       = 1.5
	DefaultSmoothScaleSteps = 5
)

// Config tunes the decoders.
type Config struct {
	// Pan inertia. With PanFrames the release velocity is multiplied by
	// SmoothMoveRatio and decays over SmoothMoveSteps frames. With
	// PanDuration it decays over PanDuration scaled by PanDurationRatio.
	PanPolicy        inertia.PanPolicy
	SmoothMoveRatio  float64
	SmoothMoveSteps  int
	PanDuration      time.Duration
	PanDurationRatio float64

	// Wheel scaling.
	ScaleMode        ScaleMode
	WheelMode        WheelMode
	ScaleRatio       float64
	SmoothScaleSteps int
	Wheel            convergence.WheelMapping

	// Velocity estimation.
	HistoryLimit  int
	HistoryWindow time.Duration

	PrimaryButton int

	// TouchLocksMouse makes the mouse decoder ignore mouse input for good
	// once any touch input has been seen. Hosts that synthesize mouse
	// events from touch need it.
	TouchLocksMouse bool
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		PanPolicy:        inertia.PanFrames,
		SmoothMoveRatio:  DefaultSmoothMoveRatio,
		SmoothMoveSteps:  DefaultSmoothMoveSteps,
		PanDuration:      DefaultPanDuration,
		PanDurationRatio: DefaultPanDurationRatio,
		ScaleMode:        ScaleSmooth,
		WheelMode:        WheelRatio,
		ScaleRatio:       DefaultScaleRatio,
		SmoothScaleSteps: DefaultSmoothScaleSteps,
		Wheel:            convergence.DefaultWheelMapping(),
		HistoryLimit:     kinematics.DefaultLimit,
		HistoryWindow:    kinematics.DefaultWindow,
		PrimaryButton:    ButtonPrimary,
		TouchLocksMouse:  true,
	}
}

// Validate checks the tuning and returns a user-facing error.
func (c Config) Validate() error {
	switch c.PanPolicy {
	case inertia.PanFrames:
		if c.SmoothMoveSteps <= 0 {
			return errors.New("smooth_move_steps must be > 0")
		}
	case inertia.PanDuration:
		if c.PanDuration <= 0 {
			return errors.New("pan_duration must be > 0")
		}
	default:
		return fmt.Errorf("pan_policy must be %q or %q", inertia.PanFrames, inertia.PanDuration)
	}
	if c.SmoothMoveRatio < 0 || c.PanDurationRatio < 0 {
		return errors.New("pan ratios must be >= 0")
	}

	if c.ScaleMode != ScaleDiscrete && c.ScaleMode != ScaleSmooth {
		return fmt.Errorf("scale_mode must be %q or %q", ScaleDiscrete, ScaleSmooth)
	}
	switch c.WheelMode {
	case WheelRatio:
		if c.ScaleRatio <= 0 {
			return errors.New("scale_ratio must be > 0")
		}
	case WheelLinear:
		if !c.Wheel.Valid() {
			return errors.New("wheel mapping must satisfy tick_min < 0 < tick_max and 0 < scalar_min < 1 < scalar_max")
		}
	default:
		return fmt.Errorf("wheel_mode must be %q or %q", WheelRatio, WheelLinear)
	}
	if c.ScaleMode == ScaleSmooth && c.SmoothScaleSteps <= 0 {
		return errors.New("smooth_scale_steps must be > 0")
	}

	if c.HistoryLimit < 2 {
		return errors.New("history_limit must be >= 2")
	}
	if c.HistoryWindow <= 0 {
		return errors.New("history_window must be > 0")
	}
	return nil
}

func (c Config) newPan(v kinematics.Vector, now time.Time) *inertia.Pan {
	if c.PanPolicy == inertia.PanDuration {
		return inertia.NewPanDuration(v, c.PanDurationRatio, c.PanDuration, now)
	}
	return inertia.NewPanFrames(v, c.SmoothMoveRatio, c.SmoothMoveSteps)
}
