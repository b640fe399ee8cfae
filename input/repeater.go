package input

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"midiclock/debug"
)

// Repeater turns presses into tempo steps with press-and-hold auto-repeat.
// There is no release event: a held direction is considered released when no
// press for its key arrived within Timing.Release.
type Repeater struct {
	target Target
	timing Timing
	log    *logrus.Entry
	now    func() time.Time

	mu           sync.Mutex
	lastAccepted time.Time
	active       *repeatTask
	closed       bool

	seenMu   sync.Mutex
	lastSeen map[repeatKey]time.Time

	// observe is told when a repeat task starts (true) and exits (false)
	observe func(running bool)
}

type RepeaterOption func(*Repeater)

func WithLogger(l *logrus.Entry) RepeaterOption {
	return func(r *Repeater) {
		if l != nil {
			r.log = l
		}
	}
}

func WithTiming(t Timing) RepeaterOption {
	return func(r *Repeater) {
		r.timing = t
	}
}

func WithClock(now func() time.Time) RepeaterOption {
	return func(r *Repeater) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRepeater(target Target, opts ...RepeaterOption) *Repeater {
	r := &Repeater{
		target:   target,
		timing:   DefaultTiming(),
		log:      debug.For("input"),
		now:      time.Now,
		lastSeen: make(map[repeatKey]time.Time),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// HandlePress applies one press event. Safe to call from any goroutine.
func (r *Repeater) HandlePress(p Press) {
	b, ok := bindings[p.Direction]
	if !ok && p.Direction != Middle {
		return
	}
	at := p.At
	if at.IsZero() {
		at = r.now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if !r.lastAccepted.IsZero() && at.Sub(r.lastAccepted) < r.timing.Debounce {
		return
	}
	r.lastAccepted = at

	if p.Direction == Middle {
		r.cancelActive()
		r.target.Toggle()
		return
	}

	prev := r.seen(b.key)
	r.touch(b.key, at)

	// a press that continues a live hold only keeps it alive; after a gap
	// longer than Release it is a fresh tap and steps again
	if t := r.active; t != nil && t.dir == p.Direction && !t.finished() &&
		!prev.IsZero() && at.Sub(prev) <= r.timing.Release {
		return
	}

	r.cancelActive()
	r.target.AdjustBPM(b.step)
	r.active = r.spawn(p.Direction, b)
	r.log.WithFields(logrus.Fields{"dir": p.Direction, "step": b.step}).Debug("press")
}

// Cancel stops any in-flight repeat.
func (r *Repeater) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelActive()
}

// Close cancels the active repeat and waits up to timeout for it to exit.
// Presses after Close are ignored. It reports whether the task exited in time.
func (r *Repeater) Close(timeout time.Duration) bool {
	r.mu.Lock()
	r.closed = true
	t := r.active
	r.active = nil
	r.mu.Unlock()

	if t == nil {
		return true
	}
	t.cancel()
	select {
	case <-t.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (r *Repeater) touch(k repeatKey, at time.Time) {
	r.seenMu.Lock()
	if at.After(r.lastSeen[k]) {
		r.lastSeen[k] = at
	}
	r.seenMu.Unlock()
}

func (r *Repeater) seen(k repeatKey) time.Time {
	r.seenMu.Lock()
	defer r.seenMu.Unlock()
	return r.lastSeen[k]
}

// cancelActive must be called with r.mu held.
func (r *Repeater) cancelActive() {
	t := r.active
	if t == nil {
		return
	}
	r.active = nil
	t.cancel()
	select {
	case <-t.done:
	case <-time.After(r.timing.CancelWait):
		r.log.WithField("dir", t.dir).Warn("repeat task slow to exit")
	}
}

func (r *Repeater) spawn(dir Direction, b binding) *repeatTask {
	t := &repeatTask{
		dir:  dir,
		key:  b.key,
		step: b.step,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if r.observe != nil {
		r.observe(true)
	}
	go func() {
		defer close(t.done)
		if r.observe != nil {
			defer r.observe(false)
		}
		r.repeat(t)
	}()
	return t
}

func (r *Repeater) repeat(t *repeatTask) {
	if !t.sleep(r.timing.Guard) {
		return
	}
	for {
		if r.now().Sub(r.seen(t.key)) > r.timing.Release {
			return
		}
		if !t.apply(r.target) {
			return
		}
		if !t.sleep(r.timing.Step) {
			return
		}
	}
}

// repeatTask is one auto-repeat. After cancel returns no further step is applied.
type repeatTask struct {
	dir  Direction
	key  repeatKey
	step float64

	mu       sync.Mutex
	canceled bool
	stop     chan struct{}
	done     chan struct{}
}

func (t *repeatTask) cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.canceled {
		return
	}
	t.canceled = true
	close(t.stop)
}

func (t *repeatTask) apply(target Target) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.canceled {
		return false
	}
	target.AdjustBPM(t.step)
	return true
}

func (t *repeatTask) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-t.stop:
		return false
	case <-timer.C:
		return true
	}
}

func (t *repeatTask) finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
