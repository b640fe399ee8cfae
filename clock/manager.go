package clock

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"midiclock/input"
)

// Manager owns the clock's background loops and their teardown.
type Manager struct {
	tempo     *Tempo
	beat      *BeatTracker
	engine    *Engine
	refresher *Refresher
	repeater  *input.Repeater

	sinks   []Sink
	closers []io.Closer
	log     *logrus.Entry
	opts    options

	cancel      context.CancelFunc
	pulseDone   chan struct{}
	displayDone chan struct{}

	started      atomic.Bool
	closed       atomic.Bool
	shutdownOnce sync.Once
}

// NewManager wires the tempo, beat tracker, engine, refresher and input repeater.
// display may be nil. At least one sink is required.
func NewManager(sinks []Sink, display Display, opts ...Option) (*Manager, error) {
	if len(sinks) == 0 {
		return nil, ErrNoSinks
	}
	o := buildOptions(opts)

	m := &Manager{
		tempo:   NewTempo(o.bpm),
		beat:    NewBeatTracker(),
		sinks:   sinks,
		closers: o.closers,
		log:     o.log,
		opts:    o,
	}
	m.engine = NewEngine(m.tempo, m.beat, sinks, opts...)
	if display != nil {
		m.refresher = NewRefresher(m.tempo, m.beat, display, opts...)
	}
	m.repeater = input.NewRepeater(m,
		input.WithTiming(o.timing),
		input.WithLogger(o.log.WithField("category", "input")),
	)
	return m, nil
}

// StartRuntime starts the pulse and display loops (called once at startup).
func (m *Manager) StartRuntime(ctx context.Context) {
	if !m.started.CompareAndSwap(false, true) {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)

	m.pulseDone = make(chan struct{})
	go func() {
		defer close(m.pulseDone)
		m.engine.Run(ctx)
	}()

	if m.refresher != nil {
		m.displayDone = make(chan struct{})
		go func() {
			defer close(m.displayDone)
			m.refresher.Run(ctx)
		}()
	}

	m.log.WithFields(logrus.Fields{"bpm": m.tempo.BPM(), "sinks": len(m.sinks)}).Info("clock ready")
}

func (m *Manager) Tempo() *Tempo { return m.tempo }

// HandlePress feeds one input event to the repeater. Safe from any goroutine.
func (m *Manager) HandlePress(p input.Press) {
	if m.closed.Load() {
		return
	}
	m.repeater.HandlePress(p)
}

// AdjustBPM changes the tempo by delta.
func (m *Manager) AdjustBPM(delta float64) {
	bpm := m.tempo.AdjustBPM(delta)
	m.log.WithFields(logrus.Fields{"bpm": bpm, "delta": delta}).Debug("tempo")
}

// SetBPM sets the tempo, clamped. It returns the stored value.
func (m *Manager) SetBPM(v float64) float64 {
	bpm := m.tempo.SetBPM(v)
	m.log.WithField("bpm", bpm).Info("tempo set")
	return bpm
}

// Toggle starts or stops the transport.
func (m *Manager) Toggle() {
	if m.closed.Load() {
		return
	}
	m.engine.Toggle()
}

func (m *Manager) Start() {
	if m.closed.Load() {
		return
	}
	m.engine.Start()
}

// Shutdown stops the transport, cancels every loop, waits for each with a
// bound, then closes sinks and hardware handles. It never blocks
// indefinitely and is safe to call more than once.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.log.Info("shutting down")
		m.closed.Store(true)
		m.engine.Stop()

		if m.cancel != nil {
			m.cancel()
		}
		if !m.repeater.Close(m.opts.repeatJoin) {
			m.timeout("repeat", m.opts.repeatJoin)
		}
		m.join("pulse", m.pulseDone, m.opts.pulseJoin)
		m.join("display", m.displayDone, m.opts.displayJoin)

		closeAll(m.log, m.sinks)
		for _, c := range m.closers {
			if err := c.Close(); err != nil {
				m.log.WithError(err).Warn("close hardware handle failed")
			}
		}
	})
}

func (m *Manager) join(loop string, done <-chan struct{}, bound time.Duration) {
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(bound):
		m.timeout(loop, bound)
	}
}

func (m *Manager) timeout(loop string, bound time.Duration) {
	m.log.WithFields(logrus.Fields{"loop": loop, "bound": bound}).Warn("shutdown timeout")
}
