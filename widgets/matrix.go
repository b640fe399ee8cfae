package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"midiclock/matrix"
	"midiclock/theme"
)

// RenderPad renders a single LED; unlit LEDs use the theme's muted color.
func RenderPad(c matrix.RGB, th *theme.Theme) string {
	if c == matrix.Off {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render(string(th.Symbols.Unlit))
	}
	return lipgloss.NewStyle().Foreground(theme.Hex(c)).Render(string(th.Symbols.Lit))
}

// RenderFrame renders an 8x8 frame, row 0 at the top
func RenderFrame(f matrix.Frame, th *theme.Theme) string {
	lines := make([]string, 0, matrix.Size)
	for y := 0; y < matrix.Size; y++ {
		var line strings.Builder
		for x := 0; x < matrix.Size; x++ {
			if x > 0 {
				line.WriteString(" ")
			}
			line.WriteString(RenderPad(f[y][x], th))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
