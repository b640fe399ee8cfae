package midi

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var (
	// ErrNoPorts means the driver reports no MIDI output ports at all.
	ErrNoPorts = errors.New("no MIDI output ports")
	// ErrInvalidPort means a configured port index or name does not exist.
	ErrInvalidPort = errors.New("invalid MIDI output port")
	// ErrScanTimeout means port enumeration hung (seen with CoreMIDI).
	ErrScanTimeout = errors.New("MIDI port scan timed out")
)

// ScanTimeout bounds port enumeration.
const ScanTimeout = 3 * time.Second

// Selection decides which output ports receive the clock.
// Indexes win over Names; with neither, every port matching Prefer is used,
// then the first port not matching Exclude, then port 0.
type Selection struct {
	Indexes []int
	Names   []string
	Prefer  []string
	Exclude []string
}

// DefaultSelection prefers MIDI interfaces over software ports.
func DefaultSelection() Selection {
	return Selection{
		Prefer:  []string{"MIDIMATE", "ESI"},
		Exclude: []string{"Midi Through", "Launchpad"},
	}
}

// ListOutPorts enumerates output ports with a timeout (CoreMIDI can hang).
func ListOutPorts(timeout time.Duration) ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()

	select {
	case outs := <-ch:
		return outs, nil
	case <-time.After(timeout):
		// User needs to run: sudo killall coreaudiod midiserver
		return nil, ErrScanTimeout
	}
}

// PortNames returns the display names of outs.
func PortNames(outs []drivers.Out) []string {
	return lo.Map(outs, func(o drivers.Out, _ int) string {
		return o.String()
	})
}

// SelectOutPorts picks port indexes from names according to sel.
func SelectOutPorts(names []string, sel Selection) ([]int, error) {
	if len(names) == 0 {
		return nil, ErrNoPorts
	}

	if len(sel.Indexes) > 0 {
		for _, i := range sel.Indexes {
			if i < 0 || i >= len(names) {
				return nil, errors.Wrapf(ErrInvalidPort, "index %d (have %d ports)", i, len(names))
			}
		}
		return lo.Uniq(sel.Indexes), nil
	}

	if len(sel.Names) > 0 {
		var picked []int
		for _, want := range sel.Names {
			_, i, ok := lo.FindIndexOf(names, func(n string) bool {
				return containsFold(n, want)
			})
			if !ok {
				return nil, errors.Wrapf(ErrInvalidPort, "no port matching %q", want)
			}
			picked = append(picked, i)
		}
		return lo.Uniq(picked), nil
	}

	if preferred := matching(names, sel.Prefer); len(preferred) > 0 {
		return preferred, nil
	}

	for i, n := range names {
		if !matchesAny(n, sel.Exclude) {
			return []int{i}, nil
		}
	}
	return []int{0}, nil
}

func matching(names, patterns []string) []int {
	var out []int
	for i, n := range names {
		if matchesAny(n, patterns) {
			out = append(out, i)
		}
	}
	return out
}

func matchesAny(name string, patterns []string) bool {
	return lo.ContainsBy(patterns, func(p string) bool {
		return containsFold(name, p)
	})
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
