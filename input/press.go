package input

import "time"

// Direction is a joystick or arrow-key direction.
type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
	Middle
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Middle:
		return "middle"
	}
	return "none"
}

// Press is one discrete press event. A zero At means "now".
type Press struct {
	Direction Direction
	At        time.Time
}

// Source delivers presses to a handler on a goroutine of its choosing.
type Source interface {
	Listen(handler func(Press)) error
}

// Target receives the effects of accepted presses.
type Target interface {
	AdjustBPM(delta float64)
	Toggle()
}

// repeatKey groups directions that share a liveness timestamp.
type repeatKey int

const (
	keyUp repeatKey = iota + 1
	keyDown
)

type binding struct {
	step float64
	key  repeatKey
}

var bindings = map[Direction]binding{
	Up:    {step: 1.0, key: keyUp},
	Down:  {step: -1.0, key: keyDown},
	Right: {step: 0.1, key: keyUp},
	Left:  {step: -0.1, key: keyDown},
}

// Timing holds the repeat state machine durations.
type Timing struct {
	Debounce   time.Duration // min gap between accepted presses, any direction
	Guard      time.Duration // delay before the first repeat step
	Release    time.Duration // no press for this long means released
	Step       time.Duration // repeat cadence
	CancelWait time.Duration // bounded wait for a canceled task to exit
}

func DefaultTiming() Timing {
	return Timing{
		Debounce:   100 * time.Millisecond,
		Guard:      300 * time.Millisecond,
		Release:    200 * time.Millisecond,
		Step:       150 * time.Millisecond,
		CancelWait: 100 * time.Millisecond,
	}
}
