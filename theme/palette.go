package theme

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"midiclock/matrix"
)

type Palette struct {
	Name   string
	Colors []matrix.RGB
}

// DefaultPalette is a plasma-like ramp used when no GPL file is configured.
func DefaultPalette() *Palette {
	return &Palette{
		Name: "plasma",
		Colors: []matrix.RGB{
			{R: 13, G: 8, B: 135},
			{R: 84, G: 2, B: 163},
			{R: 139, G: 10, B: 165},
			{R: 185, G: 50, B: 137},
			{R: 219, G: 92, B: 104},
			{R: 244, G: 136, B: 73},
			{R: 254, G: 188, B: 43},
			{R: 240, G: 249, B: 33},
		},
	}
}

// LoadGPL reads a GIMP palette file.
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open palette")
	}
	defer f.Close()

	p := &Palette{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if name, ok := strings.CutPrefix(line, "Name:"); ok {
			p.Name = strings.TrimSpace(name)
			continue
		}
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		// R G B [name]
		if c, ok := parseRGB(strings.Fields(line)); ok {
			p.Colors = append(p.Colors, c)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read palette %s", path)
	}
	if len(p.Colors) == 0 {
		return nil, errors.Errorf("no colors found in palette %s", path)
	}
	return p, nil
}

func parseRGB(fields []string) (matrix.RGB, bool) {
	if len(fields) < 3 {
		return matrix.RGB{}, false
	}
	var v [3]uint8
	for i := range v {
		n, err := strconv.ParseUint(fields[i], 10, 8)
		if err != nil {
			return matrix.RGB{}, false
		}
		v[i] = uint8(n)
	}
	return matrix.RGB{R: v[0], G: v[1], B: v[2]}, true
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) matrix.RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)
	c0, c1 := p.Colors[i], p.Colors[i+1]

	return matrix.RGB{
		R: lerp(c0.R, c1.R, frac),
		G: lerp(c0.G, c1.G, frac),
		B: lerp(c0.B, c1.B, frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}
