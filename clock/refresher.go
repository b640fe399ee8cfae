package clock

import (
	"context"
	"time"
)

// continuousDisplay is implemented by displays that animate between state changes.
type continuousDisplay interface {
	Continuous() bool
}

type frameState struct {
	bpm     float64
	running bool
	beat    int
}

// Refresher polls tempo and beat on a fixed tick and renders on change.
type Refresher struct {
	tempo   *Tempo
	beat    *BeatTracker
	display Display
	tick    time.Duration
	always  bool

	prev  frameState
	drawn bool
}

func NewRefresher(tempo *Tempo, beat *BeatTracker, display Display, opts ...Option) *Refresher {
	o := buildOptions(opts)
	always := o.continuous
	if c, ok := display.(continuousDisplay); ok && c.Continuous() {
		always = true
	}
	return &Refresher{
		tempo:   tempo,
		beat:    beat,
		display: display,
		tick:    o.refresh,
		always:  always,
	}
}

// Refresh polls once and renders if anything changed.
// Not safe for concurrent use; Run is its only caller at runtime.
func (r *Refresher) Refresh() bool {
	bpm, running := r.tempo.Snapshot()
	cur := frameState{bpm: bpm, running: running, beat: r.beat.Position()}
	if r.drawn && !r.always && cur == r.prev {
		return false
	}
	r.display.Render(cur.bpm, cur.running, cur.beat)
	r.prev = cur
	r.drawn = true
	return true
}

// Run polls until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	r.Refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Refresh()
		}
	}
}
