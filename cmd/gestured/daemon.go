package main

import (
	"context"
	"log/slog"
	"time"

	"gesturebrainz/gesture"
)

// ============================================================================
// Central Daemon Loop
// ============================================================================
//
// The daemon loop is the single owner of the engine (decoders, frame loop,
// view transform). Everything else talks to it through channels:
//   - raw evdev events from the device reader(s)
//   - gesture inputs from the IPC server
//   - snapshot requests from the WS server
//   - a ticker at frame.update_hz driving inertia
//
// ============================================================================

type daemonSources struct {
	raw      <-chan taggedEvent
	inputs   <-chan gesture.Input
	requests <-chan RequestStateSnapshot
}

// runDaemon runs until ctx is canceled.
func runDaemon(
	ctx context.Context,
	eng *engine,
	src daemonSources,
	input InputConfig,
	updateHz int,
	logger *slog.Logger,
) {
	updateInterval := time.Second / time.Duration(updateHz)
	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()
	defer eng.close()

	translators := map[int]*evdevTranslator{}
	translator := func(dev int) *evdevTranslator {
		t, ok := translators[dev]
		if !ok {
			t = newEvdevTranslator(input.ScreenWidth, input.ScreenHeight, input.MaxSlots)
			translators[dev] = t
		}
		return t
	}

	raw, inputs, requests := src.raw, src.inputs, src.requests

	for {
		select {
		case <-ctx.Done():
			logger.Info("daemon stopping (context canceled)")
			return

		case te, ok := <-raw:
			if !ok {
				raw = nil
				continue
			}
			for _, in := range translator(te.dev).feed(te.ev) {
				logger.Debug("input", "kind", in.Kind, "x", in.X, "y", in.Y, "dev", te.dev)
				eng.handle(in)
			}

		case in, ok := <-inputs:
			if !ok {
				inputs = nil
				continue
			}
			logger.Debug("ipc input", "kind", in.Kind, "x", in.X, "y", in.Y)
			eng.handle(in)

		case req, ok := <-requests:
			if !ok {
				requests = nil
				continue
			}
			// Reply is buffered by the requester; never block the loop on it.
			select {
			case req.Reply <- eng.snapshot():
			default:
			}

		case now := <-ticker.C:
			eng.tick(now)
		}
	}
}
