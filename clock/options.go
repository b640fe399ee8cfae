package clock

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"midiclock/debug"
	"midiclock/input"
)

// Option configures a Manager, Engine or Refresher.
type Option func(*options)

type options struct {
	log        *logrus.Entry
	bpm        float64
	idle       time.Duration
	deadline   bool
	refresh    time.Duration
	continuous bool
	timing     input.Timing
	closers    []io.Closer

	repeatJoin  time.Duration
	pulseJoin   time.Duration
	displayJoin time.Duration
}

func defaultOptions() options {
	return options{
		log:         debug.For("clock"),
		bpm:         DefaultBPM,
		idle:        10 * time.Millisecond,
		refresh:     50 * time.Millisecond,
		timing:      input.DefaultTiming(),
		repeatJoin:  500 * time.Millisecond,
		pulseJoin:   time.Second,
		displayJoin: time.Second,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger replaces the default "clock" logger.
func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithTempo sets the initial BPM.
func WithTempo(bpm float64) Option {
	return func(o *options) {
		o.bpm = bpm
	}
}

// WithIdle sets how often a stopped pulse loop re-checks the transport.
func WithIdle(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.idle = d
		}
	}
}

// WithDeadline schedules pulses against an absolute next-fire time
// instead of sleeping a fresh interval after each pulse.
func WithDeadline(on bool) Option {
	return func(o *options) {
		o.deadline = on
	}
}

// WithRefresh sets the display poll tick.
func WithRefresh(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.refresh = d
		}
	}
}

// WithContinuous renders on every tick, not only on change.
func WithContinuous(on bool) Option {
	return func(o *options) {
		o.continuous = on
	}
}

// WithTiming overrides the input repeat timings.
func WithTiming(t input.Timing) Option {
	return func(o *options) {
		o.timing = t
	}
}

// WithCloser registers a hardware handle released last on shutdown.
func WithCloser(c io.Closer) Option {
	return func(o *options) {
		if c != nil {
			o.closers = append(o.closers, c)
		}
	}
}

// WithJoinTimeouts bounds how long Shutdown waits for each loop.
func WithJoinTimeouts(repeat, pulse, display time.Duration) Option {
	return func(o *options) {
		o.repeatJoin = repeat
		o.pulseJoin = pulse
		o.displayJoin = display
	}
}
