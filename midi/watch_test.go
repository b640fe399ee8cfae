package midi

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type portList struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (p *portList) set(names ...string) {
	p.mu.Lock()
	p.names = names
	p.mu.Unlock()
}

func (p *portList) list() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.names...), p.err
}

func next(t *testing.T, w *Watcher) PortEvent {
	t.Helper()
	select {
	case ev, ok := <-w.Events():
		require.True(t, ok, "events closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no port event")
	}
	return PortEvent{}
}

func TestWatcherReportsChanges(t *testing.T) {
	ports := &portList{names: []string{"Midi Through"}}
	w := newWatcher(10*time.Millisecond, ports.list)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)

	time.Sleep(30 * time.Millisecond)
	ports.set("Midi Through", "ESI M4U")
	assert.Equal(t, PortEvent{Type: PortAdded, Name: "ESI M4U"}, next(t, w))

	ports.set("ESI M4U")
	ev := next(t, w)
	assert.Equal(t, PortEvent{Type: PortRemoved, Name: "Midi Through"}, ev)
	assert.Equal(t, "removed", ev.Type.String())

	cancel()
	select {
	case _, ok := <-w.Events():
		for ok {
			_, ok = <-w.Events()
		}
	case <-time.After(time.Second):
		t.Fatal("events not closed")
	}
}
