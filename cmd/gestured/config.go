package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gesturebrainz/convergence"
	"gesturebrainz/gesture"
	"gesturebrainz/inertia"
	"gesturebrainz/transform"
)

// Config is the top-level YAML configuration for the gestured daemon.
//
// Keep defaults and validation centralized so the rest of the code can
// assume a well-formed config.
type Config struct {
	// Input devices
	Input InputConfig `yaml:"input"`

	// Decoder tuning
	Gesture GestureFileConfig `yaml:"gesture"`

	// Frame loop
	Frame FrameConfig `yaml:"frame"`

	// Content and boundary used to settle the transform after a gesture
	View ViewConfig `yaml:"view"`

	// IPC configuration (synthetic input from gesturectl and scripts)
	IPC IPCConfig `yaml:"ipc"`

	// WebSocket state server
	WS WSConfig `yaml:"ws"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

type InputConfig struct {
	Devices      []string `yaml:"devices"` // evdev devices to read; empty means IPC only
	ScreenWidth  float64  `yaml:"screen_width"`
	ScreenHeight float64  `yaml:"screen_height"`
	MaxSlots     int      `yaml:"max_slots,omitempty"`
}

// GestureFileConfig is the user-facing decoder configuration as represented
// in YAML. Durations are in milliseconds.
type GestureFileConfig struct {
	PanPolicy        string  `yaml:"pan_policy"` // "frames" or "duration"
	SmoothMoveRatio  float64 `yaml:"smooth_move_ratio"`
	SmoothMoveSteps  int     `yaml:"smooth_move_steps"`
	PanDurationMS    int     `yaml:"pan_duration_ms"`
	PanDurationRatio float64 `yaml:"pan_duration_ratio"`

	ScaleMode        string                   `yaml:"scale_mode"` // "discrete" or "smooth"
	WheelMode        string                   `yaml:"wheel_mode"` // "ratio" or "linear"
	ScaleRatio       float64                  `yaml:"scale_ratio"`
	SmoothScaleSteps int                      `yaml:"smooth_scale_steps"`
	Wheel            convergence.WheelMapping `yaml:"wheel"`

	HistoryLimit    int `yaml:"history_limit"`
	HistoryWindowMS int `yaml:"history_window_ms"`

	PrimaryButton int `yaml:"primary_button"`

	// Evdev does not synthesize mouse events from touch, so touch leaves
	// mouse decoding on unless this is set.
	TouchLocksMouse bool `yaml:"touch_locks_mouse"`
}

type FrameConfig struct {
	UpdateHz int `yaml:"update_hz"`
}

type ViewConfig struct {
	Settle   bool           `yaml:"settle"`
	Content  transform.Rect `yaml:"content"`
	Boundary transform.Rect `yaml:"boundary"`
}

type IPCConfig struct {
	SocketPath string `yaml:"socket_path"`
}

type WSConfig struct {
	Enabled      bool   `yaml:"enabled"`
	ListenAddr   string `yaml:"listen_addr"`
	Path         string `yaml:"path"`
	SendBuf      int    `yaml:"send_buf,omitempty"`
	BroadcastBuf int    `yaml:"broadcast_buf,omitempty"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
func DefaultConfig() Config {
	g := gesture.DefaultConfig()
	return Config{
		Input: InputConfig{
			ScreenWidth:  defaultScreenWidth,
			ScreenHeight: defaultScreenHeight,
			MaxSlots:     defaultMaxSlots,
		},
		Gesture: GestureFileConfig{
			PanPolicy:        string(g.PanPolicy),
			SmoothMoveRatio:  g.SmoothMoveRatio,
			SmoothMoveSteps:  g.SmoothMoveSteps,
			PanDurationMS:    int(g.PanDuration / time.Millisecond),
			PanDurationRatio: g.PanDurationRatio,
			ScaleMode:        string(g.ScaleMode),
			WheelMode:        string(g.WheelMode),
			ScaleRatio:       g.ScaleRatio,
			SmoothScaleSteps: g.SmoothScaleSteps,
			Wheel:            g.Wheel,
			HistoryLimit:     g.HistoryLimit,
			HistoryWindowMS:  int(g.HistoryWindow / time.Millisecond),
			PrimaryButton:    g.PrimaryButton,
			TouchLocksMouse:  false,
		},
		Frame: FrameConfig{
			UpdateHz: defaultUpdateHz,
		},
		View: ViewConfig{
			Settle:   true,
			Content:  transform.RectXYWH(0, 0, defaultScreenWidth, defaultScreenHeight),
			Boundary: transform.RectXYWH(0, 0, defaultScreenWidth, defaultScreenHeight),
		},
		IPC: IPCConfig{
			SocketPath: defaultIPCSocket,
		},
		WS: WSConfig{
			Enabled:    true,
			ListenAddr: defaultWSListen,
			Path:       defaultWSPath,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file on top of the
// defaults. Unknown fields are rejected via KnownFields(true).
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return parseConfig(b)
}

func parseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace and comments may follow the document. A yaml.Node
	// accepts any content, so KnownFields cannot mask a second document.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Config{}, errors.New("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides holds values from command-line flags. Each non-nil pointer
// is applied on top of the loaded config, even if it is a zero value.
type FlagOverrides struct {
	Devices *string

	PanPolicy *string
	ScaleMode *string
	WheelMode *string
	UpdateHz  *int

	IPCSocketPath *string
	WSListenAddr  *string
	WSEnabled     *bool

	LogLevel *string
}

// Apply merges the overrides into cfg.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Devices != nil {
		cfg.Input.Devices = splitList(*o.Devices)
	}
	if o.PanPolicy != nil {
		cfg.Gesture.PanPolicy = *o.PanPolicy
	}
	if o.ScaleMode != nil {
		cfg.Gesture.ScaleMode = *o.ScaleMode
	}
	if o.WheelMode != nil {
		cfg.Gesture.WheelMode = *o.WheelMode
	}
	if o.UpdateHz != nil {
		cfg.Frame.UpdateHz = *o.UpdateHz
	}
	if o.IPCSocketPath != nil {
		cfg.IPC.SocketPath = *o.IPCSocketPath
	}
	if o.WSListenAddr != nil {
		cfg.WS.ListenAddr = *o.WSListenAddr
	}
	if o.WSEnabled != nil {
		cfg.WS.Enabled = *o.WSEnabled
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// This is intended to be called after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	for i, dev := range c.Input.Devices {
		if dev == "" {
			return fmt.Errorf("input.devices[%d] is empty", i)
		}
	}
	if c.Input.ScreenWidth <= 0 || c.Input.ScreenHeight <= 0 {
		return errors.New("input.screen_width and input.screen_height must be > 0")
	}
	if c.Input.MaxSlots < 0 {
		return errors.New("input.max_slots must be >= 0")
	}

	if err := c.ToGestureConfig().Validate(); err != nil {
		return fmt.Errorf("gesture: %w", err)
	}

	if c.Frame.UpdateHz <= 0 || c.Frame.UpdateHz > 1000 {
		return errors.New("frame.update_hz must be between 1 and 1000")
	}

	if c.View.Settle && (c.View.Content.Empty() || c.View.Boundary.Empty()) {
		return errors.New("view.content and view.boundary must have positive size when view.settle is true")
	}

	if c.IPC.SocketPath == "" {
		return errors.New("ipc.socket_path must not be empty")
	}

	if c.WS.Enabled {
		if c.WS.ListenAddr == "" {
			return errors.New("ws.listen_addr must not be empty")
		}
		if c.WS.Path == "" || c.WS.Path[0] != '/' {
			return errors.New("ws.path must start with /")
		}
	}

	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// ToGestureConfig converts the file config into decoder tuning.
func (c *Config) ToGestureConfig() gesture.Config {
	g := c.Gesture
	return gesture.Config{
		PanPolicy:        inertia.PanPolicy(g.PanPolicy),
		SmoothMoveRatio:  g.SmoothMoveRatio,
		SmoothMoveSteps:  g.SmoothMoveSteps,
		PanDuration:      time.Duration(g.PanDurationMS) * time.Millisecond,
		PanDurationRatio: g.PanDurationRatio,
		ScaleMode:        gesture.ScaleMode(g.ScaleMode),
		WheelMode:        gesture.WheelMode(g.WheelMode),
		ScaleRatio:       g.ScaleRatio,
		SmoothScaleSteps: g.SmoothScaleSteps,
		Wheel:            g.Wheel,
		HistoryLimit:     g.HistoryLimit,
		HistoryWindow:    time.Duration(g.HistoryWindowMS) * time.Millisecond,
		PrimaryButton:    g.PrimaryButton,
		TouchLocksMouse:  g.TouchLocksMouse,
	}
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
