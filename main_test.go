package main

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midiclock/config"
)

func TestParsePorts(t *testing.T) {
	idx, names := parsePorts(" 1, ESI ,3,,usb midi")
	assert.Equal(t, []int{1, 3}, idx)
	assert.Equal(t, []string{"ESI", "usb midi"}, names)

	idx, names = parsePorts("")
	assert.Nil(t, idx)
	assert.Nil(t, names)
}

func TestResolveDisplayExplicit(t *testing.T) {
	for _, k := range []config.DisplayKind{config.DisplayNone, config.DisplayTerminal, config.DisplaySenseHat} {
		assert.Equal(t, k, resolveDisplay(k))
	}
}

type fakeTempo struct{ bpm float64 }

func (f *fakeTempo) SetBPM(bpm float64) float64 {
	f.bpm = bpm
	return bpm
}

func TestReloadTempo(t *testing.T) {
	f := &fakeTempo{bpm: 120}
	require.NoError(t, reloadTempo(f, func() (*config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.Clock.Tempo = 97
		return cfg, nil
	}))
	assert.Equal(t, 97.0, f.bpm)

	assert.Error(t, reloadTempo(f, func() (*config.Config, error) {
		return nil, errors.New("unreadable")
	}))
	assert.Error(t, reloadTempo(f, func() (*config.Config, error) {
		cfg := config.DefaultConfig()
		cfg.Clock.Tempo = 60
		cfg.Display.Kind = "hologram"
		return cfg, nil
	}))
	assert.Equal(t, 97.0, f.bpm, "invalid config leaves tempo alone")
}
