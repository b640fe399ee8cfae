package midi

import (
	"context"
	"time"

	"github.com/samber/lo"
)

// PortEvent is emitted when an output port appears or disappears
type PortEvent struct {
	Type PortEventType
	Name string
}

type PortEventType int

const (
	PortAdded PortEventType = iota
	PortRemoved
)

func (t PortEventType) String() string {
	if t == PortAdded {
		return "added"
	}
	return "removed"
}

// Watcher polls the output port list and reports hot-plug changes.
// Open sinks are not touched; the clock keeps the set it started with.
type Watcher struct {
	pollRate time.Duration
	events   chan PortEvent
	list     func() ([]string, error)
	known    []string
}

// NewWatcher creates a watcher over the driver's output ports
func NewWatcher(pollRate time.Duration) *Watcher {
	return newWatcher(pollRate, func() ([]string, error) {
		outs, err := ListOutPorts(ScanTimeout)
		if err != nil {
			return nil, err
		}
		return PortNames(outs), nil
	})
}

func newWatcher(pollRate time.Duration, list func() ([]string, error)) *Watcher {
	return &Watcher{
		pollRate: pollRate,
		events:   make(chan PortEvent, 16),
		list:     list,
	}
}

// Events returns a channel of port events; it is closed when Run returns
func (w *Watcher) Events() <-chan PortEvent {
	return w.events
}

// Run starts the polling loop (blocking - run in goroutine).
// The first scan only records the current ports.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)

	if names, err := w.list(); err == nil {
		w.known = names
	}

	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.scan(ctx) {
				return
			}
		}
	}
}

// scan compares the current port list with the last one. A hung or
// failed scan is skipped.
func (w *Watcher) scan(ctx context.Context) bool {
	names, err := w.list()
	if err != nil {
		return true
	}

	added, removed := lo.Difference(names, w.known)
	w.known = names

	for _, n := range added {
		if !w.emit(ctx, PortEvent{Type: PortAdded, Name: n}) {
			return false
		}
	}
	for _, n := range removed {
		if !w.emit(ctx, PortEvent{Type: PortRemoved, Name: n}) {
			return false
		}
	}
	return true
}

func (w *Watcher) emit(ctx context.Context, ev PortEvent) bool {
	select {
	case w.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
