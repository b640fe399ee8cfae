//go:build linux

package sensehat

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"midiclock/input"
)

func event(typ, code uint16, value int32, sec int64) rawEvent {
	return rawEvent{Time: unix.NsecToTimeval(sec * int64(time.Second)), Type: typ, Code: code, Value: value}
}

func TestJoystickListen(t *testing.T) {
	var buf bytes.Buffer
	for _, ev := range []rawEvent{
		event(evKey, keyUp, valuePress, 10),
		event(0, 0, 0, 10), // EV_SYN
		event(evKey, keyUp, valueRepeat, 11),
		event(evKey, keyUp, valueRelease, 12),
		event(evKey, keyEnter, valuePress, 13),
	} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, ev))
	}

	before := time.Now()
	j := newJoystick("/dev/input/event0", io.NopCloser(&buf))
	var (
		mu  sync.Mutex
		got []input.Press
	)
	require.NoError(t, j.Listen(func(p input.Press) {
		mu.Lock()
		got = append(got, p)
		mu.Unlock()
	}))
	assert.Error(t, j.Listen(func(input.Press) {}))

	select {
	case <-j.done:
	case <-time.After(time.Second):
		t.Fatal("reader did not finish")
	}
	require.NoError(t, j.Close())
	after := time.Now()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 3)
	assert.Equal(t, input.Up, got[0].Direction)
	assert.Equal(t, input.Up, got[1].Direction)
	assert.Equal(t, input.Middle, got[2].Direction)
	// kernel times from 1970 are ignored; presses carry the read time
	for _, p := range got {
		assert.False(t, p.At.Before(before), "stamped at read time")
		assert.False(t, p.At.After(after), "stamped at read time")
	}
}

func TestJoystickClosedRejectsListen(t *testing.T) {
	j := newJoystick("/dev/input/event0", io.NopCloser(&bytes.Buffer{}))
	require.NoError(t, j.Close())
	assert.Error(t, j.Listen(func(input.Press) {}))
}
