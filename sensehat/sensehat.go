// Package sensehat drives the Raspberry Pi Sense HAT: the 8x8 LED matrix
// through its framebuffer and the five-way joystick through evdev.
package sensehat

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"midiclock/input"
	"midiclock/matrix"
)

// ErrNotFound means no Sense HAT device of the requested kind is present.
var ErrNotFound = errors.New("sense hat not found")

const (
	fbName       = "RPi-Sense FB"
	joystickName = "Raspberry Pi Sense HAT Joystick"

	fbSize = matrix.Size * matrix.Size * 2
)

// evdev constants
const (
	evKey = 0x01

	keyEnter = 28
	keyUp    = 103
	keyLeft  = 105
	keyRight = 106
	keyDown  = 108

	valueRelease = 0
	valuePress   = 1
	valueRepeat  = 2
)

var keyDirections = map[uint16]input.Direction{
	keyUp:    input.Up,
	keyDown:  input.Down,
	keyLeft:  input.Left,
	keyRight: input.Right,
	keyEnter: input.Middle,
}

// findDevice scans sysGlob for a "name" file (relative to each match) whose
// content is want and returns devDir joined with the matching node name.
func findDevice(sysGlob, nameFile, want, devDir string) (string, error) {
	matches, err := filepath.Glob(sysGlob)
	if err != nil {
		return "", errors.Wrapf(err, "glob %s", sysGlob)
	}
	for _, m := range matches {
		data, err := os.ReadFile(filepath.Join(m, nameFile))
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(data)) == want {
			return filepath.Join(devDir, filepath.Base(m)), nil
		}
	}
	return "", errors.Wrap(ErrNotFound, want)
}

// encodeFrame writes f as little-endian RGB565, row by row.
func encodeFrame(f matrix.Frame, buf []byte) {
	for y := 0; y < matrix.Size; y++ {
		for x := 0; x < matrix.Size; x++ {
			off := (y*matrix.Size + x) * 2
			binary.LittleEndian.PutUint16(buf[off:], f[y][x].RGB565())
		}
	}
}

// pressFor maps one evdev event to a press. Releases and non-key events are dropped.
func pressFor(typ, code uint16, value int32, at time.Time) (input.Press, bool) {
	if typ != evKey {
		return input.Press{}, false
	}
	if value != valuePress && value != valueRepeat {
		return input.Press{}, false
	}
	dir, ok := keyDirections[code]
	if !ok {
		return input.Press{}, false
	}
	return input.Press{Direction: dir, At: at}, true
}
