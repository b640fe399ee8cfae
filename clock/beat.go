package clock

import "sync"

// BeatsPerBar is the length of the visual beat cycle.
const BeatsPerBar = 4

// BeatTracker derives the beat position from counted pulses.
// Only the Engine writes to it.
type BeatTracker struct {
	mu     sync.RWMutex
	pulses int
	beat   int
}

func NewBeatTracker() *BeatTracker {
	return &BeatTracker{}
}

// Advance counts one pulse and reports whether the beat moved.
func (b *BeatTracker) Advance() (beat int, wrapped bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pulses++
	if b.pulses >= PPQN {
		b.pulses = 0
		b.beat = (b.beat + 1) % BeatsPerBar
		wrapped = true
	}
	return b.beat, wrapped
}

// Reset returns to (0, 0). Called on transport start only.
func (b *BeatTracker) Reset() {
	b.mu.Lock()
	b.pulses = 0
	b.beat = 0
	b.mu.Unlock()
}

// Position returns the beat position (0..3).
func (b *BeatTracker) Position() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.beat
}

// Pulses returns the pulses counted since the last beat.
func (b *BeatTracker) Pulses() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.pulses
}
