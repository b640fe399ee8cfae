package clock

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MIDI real-time messages
const (
	MsgClock byte = 0xF8
	MsgStart byte = 0xFA
	MsgStop  byte = 0xFC
)

// ErrNoSinks is returned at startup when there is nothing to send the clock to.
var ErrNoSinks = errors.New("no MIDI sinks configured")

// Sink is one MIDI output. Errors are per sink and never stop the clock.
type Sink interface {
	Name() string
	Send(msg []byte) error
	Close() error
}

// Display renders the current clock state.
type Display interface {
	Render(bpm float64, running bool, beat int)
}

// broadcast sends msg to every sink and returns how many failed.
func broadcast(log *logrus.Entry, sinks []Sink, msg byte) int {
	failed := 0
	buf := []byte{msg}
	for _, s := range sinks {
		if err := s.Send(buf); err != nil {
			failed++
			log.WithFields(logrus.Fields{"sink": s.Name(), "msg": msgName(msg)}).WithError(err).Warn("send failed")
		}
	}
	return failed
}

// closeAll closes every sink, logging failures.
func closeAll(log *logrus.Entry, sinks []Sink) {
	for _, s := range sinks {
		if err := s.Close(); err != nil {
			log.WithField("sink", s.Name()).WithError(err).Warn("close failed")
		}
	}
}

func msgName(msg byte) string {
	switch msg {
	case MsgClock:
		return "clock"
	case MsgStart:
		return "start"
	case MsgStop:
		return "stop"
	}
	return "unknown"
}
