package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"gesturebrainz/gesture"
)

const version = "1.0.0"

func printVersion() {
	fmt.Printf("gestured v%s\n", version)
	fmt.Println("Pointer and touch gesture daemon with inertial pan and zoom")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  gestured [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Reads mouse and touchscreen events from Linux input devices (and synthetic")
	fmt.Println("  input over a Unix socket), decodes them into move, scale and rotate gestures")
	fmt.Println("  with inertia, and publishes the gestures and the resulting view transform")
	fmt.Println("  over WebSocket.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML config file (optional)")
	fmt.Println()
	fmt.Println("  -devices string")
	fmt.Println("        Comma-separated Linux input event devices (e.g. /dev/input/event3,/dev/input/event7)")
	fmt.Println()
	fmt.Println("  -pan-policy string")
	fmt.Println("        Pan inertia policy: frames|duration (default \"frames\")")
	fmt.Println()
	fmt.Println("  -scale-mode string")
	fmt.Println("        Wheel zoom mode: discrete|smooth (default \"smooth\")")
	fmt.Println()
	fmt.Println("  -wheel-mode string")
	fmt.Println("        Wheel mapping: ratio|linear (default \"ratio\")")
	fmt.Println()
	fmt.Println("  -update-hz int")
	fmt.Printf("        Frame loop frequency in Hz (default %d)\n", defaultUpdateHz)
	fmt.Println()
	fmt.Println("  -ipc-socket string")
	fmt.Printf("        Unix domain socket path for IPC (default %q)\n", defaultIPCSocket)
	fmt.Println()
	fmt.Println("  -ws-listen string")
	fmt.Printf("        WebSocket listen address (default %q)\n", defaultWSListen)
	fmt.Println()
	fmt.Println("  -ws")
	fmt.Println("        Enable the WebSocket state server (default true)")
	fmt.Println()
	fmt.Println("  -log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # IPC only (drive it with gesturectl)")
	fmt.Println("  gestured")
	fmt.Println()
	fmt.Println("  # Mouse and touchscreen, discrete wheel zoom")
	fmt.Println("  gestured -devices /dev/input/event3,/dev/input/event7 -scale-mode discrete")
	fmt.Println()
	fmt.Println("  # Watch the output")
	fmt.Println("  gesture-listen -url ws://127.0.0.1:8090/ws")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - Requires read access to input devices (run as root or add user to 'input' group)")
	fmt.Println("  - Flags override values from the config file")
	fmt.Println()
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
		if arg == "-help" || arg == "--help" || arg == "-h" {
			printUsage()
			return
		}
	}

	fs := flag.NewFlagSet("gestured", flag.ExitOnError)
	fs.Usage = printUsage

	configPath := fs.String("config", "", "Path to YAML config file")
	var (
		devices   = fs.String("devices", "", "Comma-separated Linux input event devices")
		panPolicy = fs.String("pan-policy", "", "Pan inertia policy: frames|duration")
		scaleMode = fs.String("scale-mode", "", "Wheel zoom mode: discrete|smooth")
		wheelMode = fs.String("wheel-mode", "", "Wheel mapping: ratio|linear")
		updateHz  = fs.Int("update-hz", 0, "Frame loop frequency in Hz")
		ipcSocket = fs.String("ipc-socket", "", "Unix domain socket path for IPC")
		wsListen  = fs.String("ws-listen", "", "WebSocket listen address")
		wsEnabled = fs.Bool("ws", true, "Enable the WebSocket state server")
		logLevel  = fs.String("log-level", "", "Log level: error, warn, info, debug")
	)
	_ = fs.Parse(os.Args[1:])

	cfg := DefaultConfig()
	if *configPath != "" {
		loaded, err := LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	// Only flags given on the command line override the config.
	var o FlagOverrides
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "devices":
			o.Devices = devices
		case "pan-policy":
			o.PanPolicy = panPolicy
		case "scale-mode":
			o.ScaleMode = scaleMode
		case "wheel-mode":
			o.WheelMode = wheelMode
		case "update-hz":
			o.UpdateHz = updateHz
		case "ipc-socket":
			o.IPCSocketPath = ipcSocket
		case "ws-listen":
			o.WSListenAddr = wsListen
		case "ws":
			o.WSEnabled = wsEnabled
		case "log-level":
			o.LogLevel = logLevel
		}
	})
	o.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	level, _ := parseLogLevel(cfg.Logging.Level)
	logger := setupLogger(level)

	// Open input devices
	var files []*os.File
	for _, dev := range cfg.Input.Devices {
		f, err := os.Open(ExpandPath(dev))
		if err != nil {
			logger.Error("failed to open input device", "device", dev, "error", err, "tip", "run as root or add user to 'input' group")
			os.Exit(1)
		}
		defer f.Close()
		files = append(files, f)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	raw := make(chan taggedEvent, 64)
	readErr := make(chan error, len(files)+1)
	inputs := make(chan gesture.Input, maxInputQueueSize)
	requests := make(chan RequestStateSnapshot, 8)
	broadcasts := make(chan StateBroadcast, 256)

	// The daemon loop must never block on slow WS consumers.
	publish := func(b StateBroadcast) {
		select {
		case broadcasts <- b:
		default:
			logger.Warn("broadcast queue full, dropping", "type", fmt.Sprintf("%T", b))
		}
	}
	if !cfg.WS.Enabled {
		publish = nil
	}

	eng := newEngine(cfg.ToGestureConfig(), cfg.View, publish)

	if len(files) > 0 {
		go readDevices(files, raw, readErr)
	}

	logger.Debug("starting gestured", "version", version)
	logger.Debug("configuration",
		"devices", cfg.Input.Devices,
		"screen_width", cfg.Input.ScreenWidth,
		"screen_height", cfg.Input.ScreenHeight,
		"pan_policy", cfg.Gesture.PanPolicy,
		"scale_mode", cfg.Gesture.ScaleMode,
		"wheel_mode", cfg.Gesture.WheelMode,
		"update_hz", cfg.Frame.UpdateHz,
		"settle", cfg.View.Settle,
		"ipc_socket", cfg.IPC.SocketPath,
		"ws_enabled", cfg.WS.Enabled,
		"ws_listen", cfg.WS.ListenAddr)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		runDaemon(ctx, eng, daemonSources{raw: raw, inputs: inputs, requests: requests}, cfg.Input, cfg.Frame.UpdateHz, logger)
		return nil
	})

	g.Go(func() error {
		return runIPCServer(ctx, ExpandPath(cfg.IPC.SocketPath), inputs, logger)
	})

	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return fmt.Errorf("input reader stopped: %w", err)
		}
	})

	if cfg.WS.Enabled {
		srv := NewServer(logger, requests, ServerConfig{Hub: HubConfig{
			SendBuf:      cfg.WS.SendBuf,
			BroadcastBuf: cfg.WS.BroadcastBuf,
		}})
		mux := http.NewServeMux()
		srv.Register(mux, cfg.WS.Path)

		httpSrv := &http.Server{
			Addr:              cfg.WS.ListenAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			srv.Hub().Run(ctx)
			return nil
		})
		g.Go(func() error {
			RunBroadcaster(ctx, srv.Hub(), broadcasts, logger)
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			logger.Info("ws listening", "addr", cfg.WS.ListenAddr, "path", cfg.WS.Path)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ws server: %w", err)
			}
			return nil
		})
	}

	logger.Info("listening", "devices", len(files), "ipc", cfg.IPC.SocketPath, "update_rate_hz", cfg.Frame.UpdateHz)

	if err := g.Wait(); err != nil {
		logger.Error("gestured stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}
