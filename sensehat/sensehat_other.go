//go:build !linux

package sensehat

import (
	"midiclock/input"
	"midiclock/matrix"
)

// Display is unavailable off Linux.
type Display struct{}

func OpenDisplay() (*Display, error) { return nil, ErrNotFound }

func (d *Display) Render(float64, bool, int) {}
func (d *Display) Show(matrix.Frame)         {}
func (d *Display) Close() error              { return nil }

// Joystick is unavailable off Linux.
type Joystick struct{}

func OpenJoystick() (*Joystick, error) { return nil, ErrNotFound }

func (j *Joystick) Listen(func(input.Press)) error { return ErrNotFound }
func (j *Joystick) Close() error                   { return nil }
