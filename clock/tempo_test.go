package clock

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBPMClamps(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{120, 120},
		{20, 20},
		{300, 300},
		{19.99, 20},
		{-5, 20},
		{300.01, 300},
		{1e9, 300},
		{math.Inf(1), 300},
		{math.Inf(-1), 20},
		{87.3, 87.3},
	}
	tp := NewTempo(DefaultBPM)
	for _, c := range cases {
		got := tp.SetBPM(c.in)
		assert.Equal(t, c.want, got, "SetBPM(%v)", c.in)
		assert.Equal(t, c.want, tp.BPM())
	}
}

func TestSetBPMIgnoresNaN(t *testing.T) {
	tp := NewTempo(133)
	tp.SetBPM(math.NaN())
	assert.Equal(t, 133.0, tp.BPM())
	tp.AdjustBPM(math.NaN())
	assert.Equal(t, 133.0, tp.BPM())
	assert.Equal(t, DefaultBPM, NewTempo(math.NaN()).BPM())
}

func TestAdjustBPM(t *testing.T) {
	tp := NewTempo(120)
	assert.Equal(t, 121.0, tp.AdjustBPM(1))
	assert.InDelta(t, 120.9, tp.AdjustBPM(-0.1), 1e-9)
	tp.SetBPM(299.5)
	assert.Equal(t, 300.0, tp.AdjustBPM(1))
	tp.SetBPM(20.05)
	assert.Equal(t, 20.0, tp.AdjustBPM(-0.1))
}

func TestNewTempoClamps(t *testing.T) {
	assert.Equal(t, MaxBPM, NewTempo(999).BPM())
	assert.Equal(t, MinBPM, NewTempo(1).BPM())
	assert.False(t, NewTempo(120).Running())
}

func TestStartStopFlag(t *testing.T) {
	tp := NewTempo(120)
	tp.Start()
	tp.Start()
	assert.True(t, tp.Running())
	tp.Stop()
	tp.Stop()
	bpm, running := tp.Snapshot()
	assert.False(t, running)
	assert.Equal(t, 120.0, bpm)
}

func TestInterval(t *testing.T) {
	assert.InDelta(t, 60.0/(120*24), Interval(120).Seconds(), 1e-9)
	assert.InDelta(t, 0.125, Interval(20).Seconds(), 1e-9)
	assert.InDelta(t, 0.0083333, Interval(300).Seconds(), 1e-6)
	assert.Equal(t, Interval(20), Interval(5))
	assert.Equal(t, Interval(300), Interval(1000))
	assert.Equal(t, 20833333*time.Nanosecond, NewTempo(120).Interval())
}

func TestTempoConcurrentWritersStayInRange(t *testing.T) {
	tp := NewTempo(120)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				if i%2 == 0 {
					tp.AdjustBPM(7)
				} else {
					tp.AdjustBPM(-7)
				}
				v := tp.BPM()
				if v < MinBPM || v > MaxBPM {
					t.Errorf("bpm out of range: %v", v)
				}
			}
		}(i)
	}
	wg.Wait()
	v := tp.BPM()
	require.GreaterOrEqual(t, v, MinBPM)
	require.LessOrEqual(t, v, MaxBPM)
}
