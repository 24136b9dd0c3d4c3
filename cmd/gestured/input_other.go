//go:build !linux

package main

import (
	"errors"
	"os"
)

// readDevices runs one blocking reader goroutine per device where epoll is
// not available.
func readDevices(files []*os.File, events chan<- taggedEvent, readErr chan<- error) {
	if len(files) == 0 {
		readErr <- errors.New("no input devices provided")
		return
	}
	for i, f := range files {
		go readInputEvents(f, i, events, readErr)
	}
}
