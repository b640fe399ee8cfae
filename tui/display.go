package tui

import (
	"sync"

	"midiclock/input"
)

// State is the clock state last handed to the display.
type State struct {
	BPM     float64
	Running bool
	Beat    int
}

// Display is the terminal stand-in for the LED matrix and joystick.
// Render is called by the clock's refresher; key presses from the
// bubbletea program are delivered to the handler registered with Listen.
type Display struct {
	mu      sync.RWMutex
	state   State
	handler func(input.Press)

	// Notify TUI of updates
	UpdateChan chan struct{}
}

func NewDisplay() *Display {
	return &Display{UpdateChan: make(chan struct{}, 1)}
}

func (d *Display) Render(bpm float64, running bool, beat int) {
	d.mu.Lock()
	d.state = State{BPM: bpm, Running: running, Beat: beat}
	d.mu.Unlock()

	select {
	case d.UpdateChan <- struct{}{}:
	default:
	}
}

func (d *Display) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Listen registers the press handler. A later call replaces it.
func (d *Display) Listen(handler func(input.Press)) error {
	d.mu.Lock()
	d.handler = handler
	d.mu.Unlock()
	return nil
}

func (d *Display) press(dir input.Direction) {
	d.mu.RLock()
	h := d.handler
	d.mu.RUnlock()
	if h != nil {
		h(input.Press{Direction: dir})
	}
}
