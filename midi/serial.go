package midi

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// DINBaudRate is the MIDI 1.0 DIN serial rate.
const DINBaudRate = 31250

// SerialSink writes MIDI bytes to a UART (e.g. a DIN MIDI hat on a Pi).
type SerialSink struct {
	device string

	mu   sync.Mutex
	port io.WriteCloser
}

// OpenSerial opens device at baud (0 means DINBaudRate).
func OpenSerial(device string, baud int) (*SerialSink, error) {
	if baud <= 0 {
		baud = DINBaudRate
	}
	p, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial %s at %d baud", device, baud)
	}
	return NewSerialSink(device, p), nil
}

// NewSerialSink wraps an already open port.
func NewSerialSink(device string, port io.WriteCloser) *SerialSink {
	return &SerialSink{device: device, port: port}
}

// SerialPorts lists serial devices known to the OS.
func SerialPorts() ([]string, error) {
	return serial.GetPortsList()
}

func (s *SerialSink) Name() string {
	return "serial:" + s.device
}

func (s *SerialSink) Send(msg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return errors.Errorf("%s: closed", s.Name())
	}
	n, err := s.port.Write(msg)
	if err != nil {
		return errors.Wrap(err, s.Name())
	}
	if n != len(msg) {
		return errors.Wrapf(io.ErrShortWrite, "%s: wrote %d of %d", s.Name(), n, len(msg))
	}
	return nil
}

func (s *SerialSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return errors.Wrap(err, s.Name())
}
