package clock

import (
	"math"
	"sync"
	"time"
)

const (
	// MinBPM and MaxBPM bound every tempo write.
	MinBPM = 20.0
	MaxBPM = 300.0

	// DefaultBPM is used when no tempo is configured.
	DefaultBPM = 120.0

	// PPQN is the MIDI clock resolution (pulses per quarter note).
	PPQN = 24
)

// Tempo is the shared BPM and transport flag.
type Tempo struct {
	mu      sync.RWMutex
	bpm     float64
	running bool
}

// NewTempo returns a stopped Tempo at bpm (clamped). NaN falls back to DefaultBPM.
func NewTempo(bpm float64) *Tempo {
	if math.IsNaN(bpm) {
		bpm = DefaultBPM
	}
	return &Tempo{bpm: ClampBPM(bpm)}
}

// ClampBPM limits v to [MinBPM, MaxBPM].
func ClampBPM(v float64) float64 {
	if v < MinBPM {
		return MinBPM
	}
	if v > MaxBPM {
		return MaxBPM
	}
	return v
}

// BPM returns the current tempo.
func (t *Tempo) BPM() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bpm
}

// SetBPM stores the clamped value and returns it. NaN is ignored.
func (t *Tempo) SetBPM(v float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !math.IsNaN(v) {
		t.bpm = ClampBPM(v)
	}
	return t.bpm
}

// AdjustBPM is SetBPM(BPM()+delta) as one atomic step.
func (t *Tempo) AdjustBPM(delta float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !math.IsNaN(delta) {
		t.bpm = ClampBPM(t.bpm + delta)
	}
	return t.bpm
}

// Running reports the transport flag.
func (t *Tempo) Running() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

// Start sets the transport flag. It only touches the flag; Engine owns the transition.
func (t *Tempo) Start() {
	t.mu.Lock()
	t.running = true
	t.mu.Unlock()
}

// Stop clears the transport flag.
func (t *Tempo) Stop() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

// Snapshot returns bpm and running under one lock.
func (t *Tempo) Snapshot() (bpm float64, running bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bpm, t.running
}

// Interval returns the pulse interval for the current tempo.
func (t *Tempo) Interval() time.Duration {
	return Interval(t.BPM())
}

// Interval returns 60 / (bpm * PPQN) seconds. bpm is clamped first.
func Interval(bpm float64) time.Duration {
	bpm = ClampBPM(bpm)
	return time.Duration(60.0 / (bpm * PPQN) * float64(time.Second))
}
