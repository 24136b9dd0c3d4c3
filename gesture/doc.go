// Package gesture decodes raw mouse, wheel and touch input into pan, scale
// and rotate events, and continues pans and wheel zooms with inertia after
// release.
//
// Decoders listen to a Source, emit on a Bus, and step their inertia on a
// frame.Scheduler. Everything runs on the goroutine that calls Handle (or
// Dispatch) and advances the scheduler; nothing here starts goroutines.
//
//	loop := frame.NewLoop()
//	bus := gesture.NewBus()
//	src := gesture.NewDispatcher()
//	mouse := gesture.NewMouseDecoder(gesture.DefaultConfig(), loop, bus)
//	mouse.Subscribe(src)
//	bus.On(gesture.KindSmoothMove, func(ev gesture.Event) { ... })
//	src.Dispatch(gesture.Input{Kind: gesture.InputPress, X: 10, Y: 10})
//	loop.RunFrame(time.Now())
package gesture

// Decoder is implemented by MouseDecoder and TouchDecoder.
type Decoder interface {
	Handle(in Input)
	Subscribe(src Source)
	Unsubscribe()
	Bus() *Bus
}

var (
	_ Decoder = (*MouseDecoder)(nil)
	_ Decoder = (*TouchDecoder)(nil)
)
