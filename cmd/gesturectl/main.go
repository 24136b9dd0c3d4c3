package main

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"os"
	"time"

	"gesturebrainz/gesture"
)

// ============================================================================
// gesturectl - Command-line IPC Client
// ============================================================================
// This tool sends synthetic pointer and touch input to the gestured daemon
// via IPC.
//
// Usage:
//   gesturectl press 100 100
//   gesturectl drag 100 100 400 100
//   gesturectl wheel 960 540 -1
//   gesturectl pinch 960 540 100 200
//
// Options:
//   -socket PATH    Unix domain socket path (default: /tmp/gestured.sock)
// ============================================================================

const defaultSocket = "/tmp/gestured.sock"

// IPCResponse represents the daemon's response
type IPCResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func main() {
	socketPath := defaultSocket

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "-socket" || args[0] == "--socket" {
		if len(args) < 2 {
			fmt.Fprintf(os.Stderr, "error: -socket requires an argument\n")
			os.Exit(1)
		}
		socketPath = args[1]
		args = args[2:]
	}

	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage()
		os.Exit(0)
	}

	steps, err := buildSteps(args[0], args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	if err := sendSteps(socketPath, steps); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("ok")
}

func buildSteps(cmd string, args []string) ([]step, error) {
	single := func(kind gesture.InputKind, usage string) ([]step, error) {
		v, err := parseFloats(args, 2, usage)
		if err != nil {
			return nil, err
		}
		in := gesture.Input{Kind: kind, X: v[0], Y: v[1]}
		if kind != gesture.InputMove {
			if in.Button, err = optionalInt(args, 2, gesture.ButtonPrimary); err != nil {
				return nil, err
			}
		}
		return []step{{Input: in}}, nil
	}

	switch cmd {
	case "press":
		return single(gesture.InputPress, "press X Y [BUTTON]")

	case "move":
		return single(gesture.InputMove, "move X Y")

	case "release":
		return single(gesture.InputRelease, "release X Y [BUTTON]")

	case "wheel":
		v, err := parseFloats(args, 3, "wheel X Y DELTA")
		if err != nil {
			return nil, err
		}
		return []step{{Input: gesture.Input{Kind: gesture.InputWheel, X: v[0], Y: v[1], WheelDelta: v[2]}}}, nil

	case "drag":
		const usage = "drag X0 Y0 X1 Y1 [STEPS] [DURATION_MS]"
		v, err := parseFloats(args, 4, usage)
		if err != nil {
			return nil, err
		}
		n, err := optionalInt(args, 4, 10)
		if err != nil {
			return nil, err
		}
		ms, err := optionalInt(args, 5, 160)
		if err != nil {
			return nil, err
		}
		return dragScript(v[0], v[1], v[2], v[3], n, time.Duration(ms)*time.Millisecond), nil

	case "pinch":
		const usage = "pinch CX CY R0 R1 [STEPS] [DURATION_MS]"
		v, err := parseFloats(args, 4, usage)
		if err != nil {
			return nil, err
		}
		n, err := optionalInt(args, 4, 10)
		if err != nil {
			return nil, err
		}
		ms, err := optionalInt(args, 5, 160)
		if err != nil {
			return nil, err
		}
		return twoFingerScript(v[0], v[1], v[2], v[3], 0, n, time.Duration(ms)*time.Millisecond), nil

	case "rotate":
		const usage = "rotate CX CY R DEGREES [STEPS] [DURATION_MS]"
		v, err := parseFloats(args, 4, usage)
		if err != nil {
			return nil, err
		}
		n, err := optionalInt(args, 4, 10)
		if err != nil {
			return nil, err
		}
		ms, err := optionalInt(args, 5, 160)
		if err != nil {
			return nil, err
		}
		return twoFingerScript(v[0], v[1], v[2], v[2], v[3]*math.Pi/180, n, time.Duration(ms)*time.Millisecond), nil
	}
	return nil, fmt.Errorf("unknown command: %s", cmd)
}

// sendSteps sends each input over one connection, pausing for its delay and
// waiting for each response. The daemon stamps arrival times.
func sendSteps(socketPath string, steps []step) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	decoder := json.NewDecoder(conn)
	for _, s := range steps {
		if s.Delay > 0 {
			time.Sleep(s.Delay)
		}

		data, err := gesture.MarshalInput(s.Input)
		if err != nil {
			return fmt.Errorf("marshal input: %w", err)
		}
		if _, err := fmt.Fprintf(conn, "%s\n", data); err != nil {
			return fmt.Errorf("send input: %w", err)
		}

		var response IPCResponse
		if err := decoder.Decode(&response); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		if response.Status == "error" {
			return fmt.Errorf("daemon error: %s", response.Error)
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `gesturectl - Send synthetic input to the gestured daemon via IPC

Usage:
  gesturectl [options] <command> [args]

Options:
  -socket PATH    Unix domain socket path (default: %s)

Commands:
  press X Y [BUTTON]                          Press a mouse button (default primary)
  move X Y                                    Move the pointer
  release X Y [BUTTON]                        Release a mouse button
  wheel X Y DELTA                             Scroll (negative is up, zooms in)
  drag X0 Y0 X1 Y1 [STEPS] [DURATION_MS]      Press, move and release
  pinch CX CY R0 R1 [STEPS] [DURATION_MS]     Two-finger pinch from radius R0 to R1
  rotate CX CY R DEGREES [STEPS] [DURATION_MS] Two-finger rotation
  help, -h, --help                            Show this help message

Examples:
  gesturectl drag 100 100 600 100
  gesturectl wheel 960 540 -1
  gesturectl -socket /run/gestured.sock pinch 960 540 100 250
`, defaultSocket)
}
