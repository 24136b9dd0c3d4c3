package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gesturebrainz/gesture"
	"gesturebrainz/inertia"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	g := cfg.ToGestureConfig()
	want := gesture.DefaultConfig()
	if g.PanPolicy != want.PanPolicy || g.ScaleMode != want.ScaleMode || g.WheelMode != want.WheelMode {
		t.Fatalf("modes = %q/%q/%q, want %q/%q/%q",
			g.PanPolicy, g.ScaleMode, g.WheelMode, want.PanPolicy, want.ScaleMode, want.WheelMode)
	}
	if g.PanDuration != want.PanDuration || g.HistoryWindow != want.HistoryWindow {
		t.Fatalf("durations = %v/%v, want %v/%v", g.PanDuration, g.HistoryWindow, want.PanDuration, want.HistoryWindow)
	}
	if g.TouchLocksMouse {
		t.Fatalf("touch_locks_mouse defaults to true, want false for evdev input")
	}

	cfg, err := parseConfig([]byte("gesture:\n  touch_locks_mouse: true\n"))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if !cfg.ToGestureConfig().TouchLocksMouse {
		t.Fatalf("touch_locks_mouse not carried into decoder config")
	}
}

func TestParseConfig_OverlaysDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte(`
input:
  devices: [/dev/input/event3]
gesture:
  pan_policy: duration
  pan_duration_ms: 500
frame:
  update_hz: 120
`))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if len(cfg.Input.Devices) != 1 || cfg.Input.Devices[0] != "/dev/input/event3" {
		t.Fatalf("devices = %v", cfg.Input.Devices)
	}
	if cfg.Input.ScreenWidth != defaultScreenWidth {
		t.Fatalf("screen_width = %v, want default %v", cfg.Input.ScreenWidth, defaultScreenWidth)
	}
	g := cfg.ToGestureConfig()
	if g.PanPolicy != inertia.PanDuration || g.PanDuration != 500*time.Millisecond {
		t.Fatalf("pan = %q %v", g.PanPolicy, g.PanDuration)
	}
	if cfg.Frame.UpdateHz != 120 {
		t.Fatalf("update_hz = %d, want 120", cfg.Frame.UpdateHz)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "frame:\n  update_rate: 10\n", "field update_rate not found"},
		{"trailing document", "frame:\n  update_hz: 10\n---\nframe:\n  update_hz: 20\n", "unexpected trailing document"},
		{"trailing scalar", "frame:\n  update_hz: 10\n---\nhello\n", "unexpected trailing document"},
		{"wrong type", "frame:\n  update_hz: fast\n", "decode config yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig([]byte(tt.yaml))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestParseConfig_TrailingCommentAllowed(t *testing.T) {
	cfg, err := parseConfig([]byte("frame:\n  update_hz: 10\n# tuned for the lab screen\n"))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg.Frame.UpdateHz != 10 {
		t.Fatalf("update_hz = %d, want 10", cfg.Frame.UpdateHz)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gestured.yaml")
	if err := os.WriteFile(path, []byte("ws:\n  enabled: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.WS.Enabled {
		t.Fatalf("ws.enabled = true, want false")
	}

	if _, err := LoadConfigFile(""); err == nil {
		t.Fatalf("empty path: expected error")
	}
	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file: expected error")
	}
}

func TestFlagOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()

	devices := " /dev/input/event1, ,/dev/input/event2 "
	scale := "discrete"
	hz := 30
	ws := false
	FlagOverrides{
		Devices:   &devices,
		ScaleMode: &scale,
		UpdateHz:  &hz,
		WSEnabled: &ws,
	}.Apply(&cfg)

	if len(cfg.Input.Devices) != 2 || cfg.Input.Devices[1] != "/dev/input/event2" {
		t.Fatalf("devices = %q", cfg.Input.Devices)
	}
	if cfg.Gesture.ScaleMode != "discrete" || cfg.Frame.UpdateHz != 30 || cfg.WS.Enabled {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched fields keep their value.
	if cfg.IPC.SocketPath != defaultIPCSocket {
		t.Fatalf("socket_path = %q", cfg.IPC.SocketPath)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty device", func(c *Config) { c.Input.Devices = []string{""} }, "input.devices[0]"},
		{"screen", func(c *Config) { c.Input.ScreenWidth = 0 }, "screen_width"},
		{"slots", func(c *Config) { c.Input.MaxSlots = -1 }, "max_slots"},
		{"pan policy", func(c *Config) { c.Gesture.PanPolicy = "spring" }, "gesture:"},
		{"update hz", func(c *Config) { c.Frame.UpdateHz = 0 }, "update_hz"},
		{"view", func(c *Config) { c.View.Content.Right = c.View.Content.Left }, "view.content"},
		{"socket", func(c *Config) { c.IPC.SocketPath = "" }, "socket_path"},
		{"ws addr", func(c *Config) { c.WS.ListenAddr = "" }, "listen_addr"},
		{"ws path", func(c *Config) { c.WS.Path = "ws" }, "ws.path"},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}

	// Settle off tolerates an empty view; WS off tolerates an empty address.
	cfg := DefaultConfig()
	cfg.View = ViewConfig{}
	cfg.WS = WSConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := map[string]string{
		"":           "",
		"/abs/path":  "/abs/path",
		"~":          home,
		"~/x/y.yaml": filepath.Join(home, "x/y.yaml"),
		"~other":     "~other",
	}
	for in, want := range tests {
		if got := ExpandPath(in); got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
