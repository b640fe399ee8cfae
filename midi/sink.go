package midi

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"midiclock/debug"
)

// PortSink sends clock bytes to a driver output port.
type PortSink struct {
	out  drivers.Out
	name string

	mu   sync.Mutex
	send func(gomidi.Message) error
}

// OpenPortSink opens out (if needed) and returns a sink for it.
func OpenPortSink(out drivers.Out) (*PortSink, error) {
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, errors.Wrapf(err, "open MIDI output %q", out.String())
	}
	return &PortSink{out: out, name: out.String(), send: send}, nil
}

func (s *PortSink) Name() string {
	return s.name
}

func (s *PortSink) Send(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.send == nil {
		return errors.Errorf("%s: closed", s.name)
	}
	return s.send(gomidi.Message(msg))
}

func (s *PortSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = nil
	if !s.out.IsOpen() {
		return nil
	}
	return errors.Wrapf(s.out.Close(), "close MIDI output %q", s.name)
}

// OpenOutputs lists output ports, applies sel and opens the chosen ports.
// Ports that fail to open are logged and skipped; ErrNoPorts is returned
// when nothing could be opened.
func OpenOutputs(sel Selection, log *logrus.Entry) ([]*PortSink, error) {
	if log == nil {
		log = debug.For("midi")
	}
	outs, err := ListOutPorts(ScanTimeout)
	if err != nil {
		return nil, err
	}
	idx, err := SelectOutPorts(PortNames(outs), sel)
	if err != nil {
		return nil, err
	}

	var sinks []*PortSink
	for _, i := range idx {
		s, err := OpenPortSink(outs[i])
		if err != nil {
			log.WithError(err).WithField("port", outs[i].String()).Warn("skip output")
			continue
		}
		log.WithFields(logrus.Fields{"port": s.Name(), "index": i}).Info("output opened")
		sinks = append(sinks, s)
	}
	if len(sinks) == 0 {
		return nil, ErrNoPorts
	}
	return sinks, nil
}
