//go:build linux

package sensehat

import (
	"encoding/binary"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"midiclock/debug"
	"midiclock/input"
)

// rawEvent is struct input_event; Timeval matches the platform word size.
type rawEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Joystick reads joystick presses from evdev.
type Joystick struct {
	path string
	r    io.ReadCloser
	log  *logrus.Entry

	mu        sync.Mutex
	listening bool
	closed    bool
	done      chan struct{}
}

// OpenJoystick locates and opens the Sense HAT joystick event device.
func OpenJoystick() (*Joystick, error) {
	path, err := findDevice("/sys/class/input/event*", "device/name", joystickName, "/dev/input")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return newJoystick(path, f), nil
}

func newJoystick(path string, r io.ReadCloser) *Joystick {
	return &Joystick{
		path: path,
		r:    r,
		log:  debug.For("joystick"),
		done: make(chan struct{}),
	}
}

// Listen starts delivering presses to handler on a reader goroutine.
func (j *Joystick) Listen(handler func(input.Press)) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return errors.Errorf("%s: closed", j.path)
	}
	if j.listening {
		return errors.Errorf("%s: already listening", j.path)
	}
	j.listening = true
	go j.read(handler)
	return nil
}

func (j *Joystick) read(handler func(input.Press)) {
	defer close(j.done)
	for {
		var ev rawEvent
		if err := binary.Read(j.r, binary.LittleEndian, &ev); err != nil {
			j.mu.Lock()
			closed := j.closed
			j.mu.Unlock()
			if !closed {
				j.log.WithError(err).Warn("joystick read stopped")
			}
			return
		}
		// stamped on arrival: the event's wall clock can step under NTP
		if p, ok := pressFor(ev.Type, ev.Code, ev.Value, time.Now()); ok {
			handler(p)
		}
	}
}

// Close stops the reader.
func (j *Joystick) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	listening := j.listening
	j.mu.Unlock()

	err := j.r.Close()
	if listening {
		select {
		case <-j.done:
		case <-time.After(time.Second):
			j.log.Warn("joystick reader did not exit")
		}
	}
	return errors.Wrapf(err, "close %s", j.path)
}
