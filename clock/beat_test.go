package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBeatAdvancesEveryPPQN(t *testing.T) {
	b := NewBeatTracker()
	for i := 0; i < PPQN-1; i++ {
		beat, wrapped := b.Advance()
		assert.Equal(t, 0, beat)
		assert.False(t, wrapped)
	}
	assert.Equal(t, PPQN-1, b.Pulses())

	beat, wrapped := b.Advance()
	assert.True(t, wrapped)
	assert.Equal(t, 1, beat)
	assert.Equal(t, 0, b.Pulses())
}

func TestBeatFullCycle(t *testing.T) {
	b := NewBeatTracker()
	for i := 0; i < 5; i++ {
		b.Advance()
	}
	start := b.Position()
	for i := 0; i < PPQN*BeatsPerBar; i++ {
		b.Advance()
	}
	assert.Equal(t, start, b.Position())
	assert.Equal(t, 5, b.Pulses())

	for i := 0; i < PPQN*3; i++ {
		b.Advance()
	}
	assert.Equal(t, 3, b.Position())
	for i := 0; i < PPQN; i++ {
		b.Advance()
	}
	assert.Equal(t, 0, b.Position())
}

func TestBeatReset(t *testing.T) {
	b := NewBeatTracker()
	for i := 0; i < PPQN*2+7; i++ {
		b.Advance()
	}
	assert.Equal(t, 2, b.Position())
	assert.Equal(t, 7, b.Pulses())
	b.Reset()
	assert.Equal(t, 0, b.Position())
	assert.Equal(t, 0, b.Pulses())
}
