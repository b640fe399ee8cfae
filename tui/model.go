package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"midiclock/input"
	"midiclock/matrix"
	"midiclock/theme"
	"midiclock/widgets"
)

type Model struct {
	Display  *Display
	Theme    *theme.Theme
	Title    string
	quitting bool
}

type UpdateMsg struct{}

func NewModel(d *Display, th *theme.Theme) Model {
	return Model{Display: d, Theme: th, Title: "midiclock"}
}

func ListenForUpdates(d *Display) tea.Cmd {
	return func() tea.Msg {
		<-d.UpdateChan
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Display)
}

// keyDirections maps terminal keys to joystick directions.
// The terminal's own key repeat supplies the held presses.
var keyDirections = map[string]input.Direction{
	"up":    input.Up,
	"k":     input.Up,
	"down":  input.Down,
	"j":     input.Down,
	"left":  input.Left,
	"h":     input.Left,
	"right": input.Right,
	"l":     input.Right,
	"enter": input.Middle,
	" ":     input.Middle,
	"space": input.Middle,
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		default:
			if dir, ok := keyDirections[key]; ok {
				m.Display.press(dir)
			}
		}

	case UpdateMsg:
		return m, ListenForUpdates(m.Display)
	}

	return m, nil
}

var help = []widgets.KeySection{{
	Keys: []widgets.KeyBinding{
		{Key: "up/down", Desc: "tempo ±1 (hold to repeat)"},
		{Key: "left/right", Desc: "tempo ±0.1"},
		{Key: "enter/space", Desc: "start/stop"},
		{Key: "q", Desc: "quit"},
	},
}}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.Display.State()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	playState := fmt.Sprintf("%c STOP", m.Theme.Symbols.Stop)
	if s.Running {
		playState = fmt.Sprintf("%c PLAY", m.Theme.Symbols.Play)
	}
	header := headerStyle.Render(fmt.Sprintf("%s  %s  %5.1fbpm  beat:%d/4", m.Title, playState, s.BPM, s.Beat+1))

	grid := widgets.RenderFrame(matrix.Compose(s.BPM, s.Running, s.Beat), m.Theme)

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(grid)
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(help)))
	return out.String()
}
