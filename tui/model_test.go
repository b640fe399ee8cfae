package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"midiclock/input"
	"midiclock/theme"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func newTestModel() (Model, *[]input.Direction) {
	d := NewDisplay()
	var got []input.Direction
	d.Listen(func(p input.Press) {
		got = append(got, p.Direction)
	})
	return NewModel(d, theme.New(nil)), &got
}

func TestKeysBecomePresses(t *testing.T) {
	m, got := newTestModel()
	keys := []tea.KeyMsg{
		{Type: tea.KeyUp},
		{Type: tea.KeyDown},
		{Type: tea.KeyLeft},
		{Type: tea.KeyRight},
		{Type: tea.KeyEnter},
		{Type: tea.KeySpace, Runes: []rune{' '}},
		{Type: tea.KeyRunes, Runes: []rune("k")},
		{Type: tea.KeyRunes, Runes: []rune("x")},
	}
	for _, k := range keys {
		_, cmd := m.Update(k)
		assert.Nil(t, cmd)
	}
	assert.Equal(t, []input.Direction{
		input.Up, input.Down, input.Left, input.Right, input.Middle, input.Middle, input.Up,
	}, *got)
}

func TestQuit(t *testing.T) {
	m, got := newTestModel()
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, *got)
	assert.Equal(t, "", next.View())
}

func TestRenderNotifies(t *testing.T) {
	m, _ := newTestModel()
	m.Display.Render(128.4, true, 2)
	m.Display.Render(128.4, true, 3)

	msg := make(chan tea.Msg, 1)
	go func() { msg <- m.Init()() }()
	select {
	case got := <-msg:
		assert.Equal(t, UpdateMsg{}, got)
	case <-time.After(time.Second):
		t.Fatal("no update")
	}

	assert.Equal(t, State{BPM: 128.4, Running: true, Beat: 3}, m.Display.State())
	_, cmd := m.Update(UpdateMsg{})
	assert.NotNil(t, cmd)
}

func TestView(t *testing.T) {
	m, _ := newTestModel()
	m.Display.Render(120, true, 0)
	v := m.View()
	assert.Contains(t, v, "PLAY")
	assert.Contains(t, v, "120.0bpm")
	assert.Contains(t, v, "beat:1/4")
	assert.Contains(t, v, "start/stop")

	m.Display.Render(95, false, 0)
	assert.Contains(t, m.View(), "STOP")
}
