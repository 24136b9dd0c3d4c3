package main

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"
)

// inputEvent represents a Linux input event structure
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

// Time returns the kernel timestamp of the event.
func (ev inputEvent) Time() time.Time {
	return time.Unix(ev.Sec, ev.Usec*int64(time.Microsecond))
}

// inputEventSize is the wire size of one event on 64-bit kernels.
var inputEventSize = binary.Size(inputEvent{})

// decodeInputEvent parses one little-endian event from buf.
func decodeInputEvent(reader *bytes.Reader, buf []byte) (inputEvent, error) {
	reader.Reset(buf)
	var ev inputEvent
	err := binary.Read(reader, binary.LittleEndian, &ev)
	return ev, err
}

// taggedEvent is an input event along with the index of the device it came
// from, so per-device translators keep their own state.
type taggedEvent struct {
	dev int
	ev  inputEvent
}

// readInputEvents reads input events from r and sends them to a channel.
// This runs in a dedicated goroutine and blocks on read operations.
func readInputEvents(r io.Reader, dev int, events chan<- taggedEvent, readErr chan<- error) {
	buf := make([]byte, inputEventSize)
	reader := bytes.NewReader(buf)

	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			readErr <- err
			return
		}

		ev, err := decodeInputEvent(reader, buf)
		if err != nil {
			// Skip malformed events
			continue
		}

		events <- taggedEvent{dev: dev, ev: ev}
	}
}
