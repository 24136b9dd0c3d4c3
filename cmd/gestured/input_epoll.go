//go:build linux

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// readDevices reads from every device with a single epoll loop.
// Events are tagged with the device index in files.
//
// A hangup or error on any device is fatal; unplugging a pointer should be
// handled by restarting the daemon under its supervisor.
func readDevices(files []*os.File, events chan<- taggedEvent, readErr chan<- error) {
	if len(files) == 0 {
		readErr <- errors.New("no input devices provided")
		return
	}

	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		readErr <- fmt.Errorf("epoll_create1: %w", err)
		return
	}
	defer unix.Close(epfd)

	fdToDev := make(map[int]int, len(files))
	for i, f := range files {
		fd := int(f.Fd())
		fdToDev[fd] = i

		event := unix.EpollEvent{
			Events: unix.EPOLLIN,
			Fd:     int32(fd),
		}
		if err := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
			readErr <- fmt.Errorf("epoll_ctl_add fd=%d: %w", fd, err)
			return
		}
	}

	const maxEvents = 32
	epollEvents := make([]unix.EpollEvent, maxEvents)
	// Read several kernel events per wakeup; a touch frame is often 10+ events.
	buf := make([]byte, inputEventSize*64)
	reader := bytes.NewReader(nil)

	for {
		n, err := unix.EpollWait(epfd, epollEvents, -1)
		if err != nil {
			if err == syscall.EINTR {
				continue
			}
			readErr <- fmt.Errorf("epoll_wait: %w", err)
			return
		}

		for i := 0; i < n; i++ {
			fd := int(epollEvents[i].Fd)
			dev := fdToDev[fd]
			f := files[dev]

			if epollEvents[i].Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0 {
				readErr <- fmt.Errorf("device error/hangup: %s (fd=%d)", f.Name(), fd)
				return
			}

			nr, err := f.Read(buf)
			if err != nil {
				readErr <- fmt.Errorf("read from %s: %w", f.Name(), err)
				return
			}

			for off := 0; off+inputEventSize <= nr; off += inputEventSize {
				ev, err := decodeInputEvent(reader, buf[off:off+inputEventSize])
				if err != nil {
					continue
				}
				events <- taggedEvent{dev: dev, ev: ev}
			}
		}
	}
}
