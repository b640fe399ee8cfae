package midi

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"midiclock/debug"
	"midiclock/input"
	"midiclock/matrix"
)

// ErrNoLaunchpad means no Launchpad port pair was found
var ErrNoLaunchpad = errors.New("no Launchpad connected")

// Launchpad shows the clock on a Novation Launchpad X grid and reads its
// arrow buttons as joystick directions. Any grid pad toggles the transport.
type Launchpad struct {
	name    string
	outPort drivers.Out
	inPort  drivers.In

	mu       sync.Mutex
	send     func(gomidi.Message) error
	stopFunc func()
	prev     map[[2]int]uint8 // for diffing
}

// Top row buttons on the Launchpad X
const (
	ccUp    = 91
	ccDown  = 92
	ccLeft  = 93
	ccRight = 94
)

var ccDirections = map[uint8]input.Direction{
	ccUp:    input.Up,
	ccDown:  input.Down,
	ccLeft:  input.Left,
	ccRight: input.Right,
}

// IsLaunchpad reports whether a port name belongs to a Launchpad's MIDI interface
func IsLaunchpad(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "launchpad") && strings.Contains(name, "midi")
}

// OpenLaunchpad finds the first Launchpad and switches it to Programmer mode
func OpenLaunchpad() (*Launchpad, error) {
	outs, err := ListOutPorts(ScanTimeout)
	if err != nil {
		return nil, err
	}
	out, ok := lo.Find(outs, func(o drivers.Out) bool { return IsLaunchpad(o.String()) })
	if !ok {
		return nil, ErrNoLaunchpad
	}

	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, errors.Wrapf(err, "open output %q", out.String())
	}
	lp := newLaunchpad(out.String(), send)
	lp.outPort = out

	ins := gomidi.GetInPorts()
	if in, ok := lo.Find(ins, func(i drivers.In) bool { return i.String() == out.String() }); ok {
		lp.inPort = in
	}

	// Programmer mode: F0 00 20 29 02 0C 00 7F F7
	lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F}))
	// Brightness max: F0 00 20 29 02 0C 08 7F F7
	lp.send(gomidi.SysEx([]byte{0x00, 0x20, 0x29, 0x02, 0x0C, 0x08, 0x7F}))

	return lp, nil
}

func newLaunchpad(name string, send func(gomidi.Message) error) *Launchpad {
	return &Launchpad{
		name: name,
		send: send,
		prev: make(map[[2]int]uint8),
	}
}

func (lp *Launchpad) Name() string {
	return lp.name
}

func (lp *Launchpad) Render(bpm float64, running bool, beat int) {
	lp.Show(matrix.Compose(bpm, running, beat))
}

// Show sends the pads that changed since the last frame.
// Frame row 0 is the top row of the grid.
func (lp *Launchpad) Show(f matrix.Frame) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.send == nil {
		return
	}

	sent := 0
	for y := 0; y < matrix.Size; y++ {
		for x := 0; x < matrix.Size; x++ {
			row := matrix.Size - 1 - y
			color := mapRGBToLaunchpad(f[y][x])
			key := [2]int{row, x}
			if prev, ok := lp.prev[key]; ok && prev == color {
				continue
			}
			if err := lp.send(gomidi.NoteOn(0, rowColToNote(row, x), color)); err != nil {
				debug.LogEvery(50, "launchpad", "send failed: %v", err)
				continue
			}
			lp.prev[key] = color
			sent++
		}
	}
	if sent > 0 {
		debug.LogEvery(100, "launchpad", "frame pads=%d", sent)
	}
}

// Listen delivers arrow buttons as directions and grid pads as Middle
func (lp *Launchpad) Listen(handler func(input.Press)) error {
	if lp.inPort == nil {
		return errors.Errorf("%s: no input port", lp.name)
	}
	stop, err := gomidi.ListenTo(lp.inPort, func(msg gomidi.Message, timestampms int32) {
		if p, ok := pressFromMessage(msg); ok {
			handler(p)
		}
	})
	if err != nil {
		return errors.Wrapf(err, "listen %q", lp.name)
	}
	lp.mu.Lock()
	lp.stopFunc = stop
	lp.mu.Unlock()
	return nil
}

func pressFromMessage(msg gomidi.Message) (input.Press, bool) {
	var channel, key, value uint8

	// top row buttons send CC 91-98
	if msg.GetControlChange(&channel, &key, &value) && value > 0 {
		if dir, ok := ccDirections[key]; ok {
			return input.Press{Direction: dir, At: time.Now()}, true
		}
		return input.Press{}, false
	}

	if msg.GetNoteOn(&channel, &key, &value) && value > 0 {
		if row, _ := noteToRowCol(key); row >= 0 {
			return input.Press{Direction: input.Middle, At: time.Now()}, true
		}
	}
	return input.Press{}, false
}

// Close clears the grid and releases the ports
func (lp *Launchpad) Close() error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if lp.send == nil {
		return nil
	}
	for row := 0; row < matrix.Size; row++ {
		for col := 0; col < matrix.Size; col++ {
			lp.send(gomidi.NoteOn(0, rowColToNote(row, col), 0))
		}
	}
	if lp.stopFunc != nil {
		lp.stopFunc()
	}
	lp.send = nil
	if lp.outPort != nil && lp.outPort.IsOpen() {
		return errors.Wrapf(lp.outPort.Close(), "close %q", lp.name)
	}
	return nil
}

// mapRGBToLaunchpad finds the nearest Launchpad X palette color for an RGB value
func mapRGBToLaunchpad(c matrix.RGB) uint8 {
	// Format: {velocity, R, G, B}
	palette := [][4]uint8{
		{0, 0, 0, 0},         // off
		{5, 255, 0, 0},       // red
		{7, 180, 60, 60},     // dim red
		{13, 255, 200, 0},    // yellow
		{19, 0, 100, 0},      // dim green
		{21, 0, 255, 0},      // bright green
		{45, 0, 100, 255},    // blue
		{1, 127, 127, 127},   // grey
		{119, 255, 255, 255}, // white
	}

	best := uint8(0)
	bestDist := 1 << 30
	r, g, b := int(c.R), int(c.G), int(c.B)
	for _, p := range palette {
		pr, pg, pb := int(p[1]), int(p[2]), int(p[3])
		dist := (r-pr)*(r-pr) + (g-pg)*(g-pg) + (b-pb)*(b-pb)
		if dist < bestDist {
			bestDist = dist
			best = p[0]
		}
	}
	return best
}

// Launchpad X note mapping
// 8x8 Grid:  Row 0 (bottom) = notes 11-18, Row 7 = notes 81-88

func rowColToNote(row, col int) uint8 {
	return uint8((row+1)*10 + col + 1)
}

func noteToRowCol(note uint8) (row, col int) {
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row > 7 || col < 0 || col > 7 {
		return -1, -1
	}
	return row, col
}
