package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"gesturebrainz/gesture"
	"gesturebrainz/inertia"
)

func main() {
	var (
		panPolicy = flag.String("pan-policy", string(inertia.PanFrames), "Pan inertia policy: frames|duration")
		scaleMode = flag.String("scale-mode", string(gesture.ScaleSmooth), "Wheel zoom mode: discrete|smooth")
		wheelMode = flag.String("wheel-mode", string(gesture.WheelRatio), "Wheel mapping: ratio|linear")
	)
	flag.Parse()

	cfg := gesture.DefaultConfig()
	cfg.PanPolicy = inertia.PanPolicy(*panPolicy)
	cfg.ScaleMode = gesture.ScaleMode(*scaleMode)
	cfg.WheelMode = gesture.WheelMode(*wheelMode)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	w, h := screen.Size()
	run(screen, newApp(cfg, w, h))
}

func run(screen tcell.Screen, a *app) {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// screen finalized
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handle(ev) {
				return
			}
			if _, ok := ev.(*tcell.EventResize); ok {
				screen.Sync()
			}

		case now := <-ticker.C:
			a.tick(now)
			a.draw(screen)
			screen.Show()
		}
	}
}
