package clock

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Engine emits MIDI clock to its sinks while the transport runs.
type Engine struct {
	tempo *Tempo
	beat  *BeatTracker
	sinks []Sink
	log   *logrus.Entry

	idle     time.Duration
	deadline bool

	// mu serializes transport transitions with pulses
	mu   sync.Mutex
	wake chan struct{}
}

// NewEngine creates an engine. Run must be called to produce pulses.
func NewEngine(tempo *Tempo, beat *BeatTracker, sinks []Sink, opts ...Option) *Engine {
	o := buildOptions(opts)
	return &Engine{
		tempo:    tempo,
		beat:     beat,
		sinks:    sinks,
		log:      o.log,
		idle:     o.idle,
		deadline: o.deadline,
		wake:     make(chan struct{}, 1),
	}
}

// Start resets the beat, sends START to every sink and sets running.
// It does nothing if the transport already runs.
func (e *Engine) Start() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.start()
}

// Stop sends STOP to every sink and clears running.
// It does nothing if the transport is stopped.
func (e *Engine) Stop() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stop()
}

// Toggle flips the transport and reports the new state.
func (e *Engine) Toggle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tempo.Running() {
		e.stop()
		return false
	}
	e.start()
	return true
}

func (e *Engine) start() bool {
	if e.tempo.Running() {
		return false
	}
	e.beat.Reset()
	failed := broadcast(e.log, e.sinks, MsgStart)
	e.tempo.Start()
	e.interrupt()
	e.log.WithFields(logrus.Fields{"bpm": e.tempo.BPM(), "sinks": len(e.sinks), "failed": failed}).Info("transport start")
	return true
}

func (e *Engine) stop() bool {
	if !e.tempo.Running() {
		return false
	}
	failed := broadcast(e.log, e.sinks, MsgStop)
	e.tempo.Stop()
	e.log.WithFields(logrus.Fields{"bpm": e.tempo.BPM(), "sinks": len(e.sinks), "failed": failed}).Info("transport stop")
	return true
}

// Pulse sends one CLOCK to every sink and advances the beat.
// It returns false without side effects when stopped.
func (e *Engine) Pulse() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.tempo.Running() {
		return false
	}
	broadcast(e.log, e.sinks, MsgClock)
	e.beat.Advance()
	return true
}

// interrupt wakes an idle Run loop
func (e *Engine) interrupt() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// Run is the pulse loop. It returns when ctx is done.
// The interval is recomputed from the current tempo after every pulse,
// so a tempo change applies from the next pulse on.
func (e *Engine) Run(ctx context.Context) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	wait := func(d time.Duration, wake <-chan struct{}) bool {
		timer.Reset(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-wake:
			timer.Stop()
			return true
		case <-timer.C:
			return true
		}
	}

	var next time.Time
	for {
		if ctx.Err() != nil {
			return
		}

		if !e.Pulse() {
			next = time.Time{}
			if !wait(e.idle, e.wake) {
				return
			}
			continue
		}

		interval := e.tempo.Interval()
		d := interval
		if e.deadline {
			now := time.Now()
			if next.IsZero() || now.Sub(next) > interval {
				next = now
			}
			next = next.Add(interval)
			d = next.Sub(now)
		}
		if d <= 0 {
			continue
		}
		if !wait(d, nil) {
			return
		}
	}
}
