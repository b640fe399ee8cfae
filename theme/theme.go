package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"midiclock/matrix"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Lit   rune // ■ LED on
	Unlit rune // · LED off
	Play  rune // ▶ transport running
	Stop  rune // ■ transport stopped
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Lit:   '■',
			Unlit: '·',
			Play:  '▶',
			Stop:  '■',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.2
	RoleFG      = 0.5
	RoleAccent  = 0.7
	RoleSuccess = 1.0
)

func (t *Theme) FG() lipgloss.Color {
	return Hex(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Accent() lipgloss.Color {
	return Hex(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Muted() lipgloss.Color {
	return Hex(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Success() lipgloss.Color {
	return Hex(t.Palette.Lookup(RoleSuccess))
}

// Hex converts an LED color to a lipgloss color.
func Hex(c matrix.RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
