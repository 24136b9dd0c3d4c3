package main

// Linux input event types and codes (from <linux/input.h>)
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_REL = 0x02
	EV_ABS = 0x03

	SYN_REPORT = 0x00

	BTN_LEFT   = 0x110
	BTN_RIGHT  = 0x111
	BTN_MIDDLE = 0x112

	REL_X     = 0x00
	REL_Y     = 0x01
	REL_WHEEL = 0x08

	// Multi-touch protocol B
	ABS_MT_SLOT        = 0x2f
	ABS_MT_POSITION_X  = 0x35
	ABS_MT_POSITION_Y  = 0x36
	ABS_MT_TRACKING_ID = 0x39
)

// Input event value constants
const (
	evValueRelease = 0
	evValuePress   = 1
	evValueRepeat  = 2
)

const (
	defaultUpdateHz     = 60 // Frame loop frequency (Hz)
	defaultScreenWidth  = 1920
	defaultScreenHeight = 1080

	defaultIPCSocket  = "/tmp/gestured.sock"
	defaultWSListen   = "127.0.0.1:8090"
	defaultWSPath     = "/ws"
	defaultMaxSlots   = 10 // MT slots tracked per device
	maxInputQueueSize = 256
)
