package clock

import (
	"errors"
	"sync"
)

type fakeSink struct {
	name string
	fail bool

	mu     sync.Mutex
	sent   []byte
	closed bool
}

func (s *fakeSink) Name() string { return s.name }

func (s *fakeSink) Send(msg []byte) error {
	if s.fail {
		return errors.New("port gone")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg...)
	return nil
}

func (s *fakeSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.fail {
		return errors.New("port gone")
	}
	return nil
}

func (s *fakeSink) count(b byte) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, x := range s.sent {
		if x == b {
			n++
		}
	}
	return n
}

func (s *fakeSink) bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.sent...)
}

type render struct {
	bpm     float64
	running bool
	beat    int
}

type fakeDisplay struct {
	continuous bool

	mu      sync.Mutex
	renders []render
}

func (d *fakeDisplay) Render(bpm float64, running bool, beat int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.renders = append(d.renders, render{bpm, running, beat})
}

func (d *fakeDisplay) Continuous() bool { return d.continuous }

func (d *fakeDisplay) all() []render {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]render(nil), d.renders...)
}

type fakeCloser struct {
	mu     sync.Mutex
	closed bool
}

func (c *fakeCloser) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeCloser) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
