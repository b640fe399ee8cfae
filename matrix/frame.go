package matrix

import (
	"math"
	"strconv"
)

// Size is the edge length of the LED matrix.
const Size = 8

// RGB is one 24-bit pixel.
type RGB struct {
	R, G, B uint8
}

var (
	Off    = RGB{}
	Green  = RGB{0, 255, 0}
	Red    = RGB{255, 0, 0}
	White  = RGB{255, 255, 255}
	Dimmed = RGB{127, 127, 127}
)

// Frame is an 8x8 image indexed [y][x], y=0 at the top.
type Frame [Size][Size]RGB

// Set writes c at (x, y); out of range is ignored.
func (f *Frame) Set(x, y int, c RGB) {
	if x < 0 || x >= Size || y < 0 || y >= Size {
		return
	}
	f[y][x] = c
}

// RGB565 packs c for a 16-bit framebuffer.
func (c RGB) RGB565() uint16 {
	return uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
}

// Compose draws the tempo (rows 0-4) and, while running, the beat ramp (rows 6-7).
// Digits are green while running and red while stopped.
func Compose(bpm float64, running bool, beat int) Frame {
	var f Frame

	color := Red
	if running {
		color = Green
	}
	drawNumber(&f, bpm, color)

	if running {
		drawBeat(&f, beat)
	}
	return f
}

func drawNumber(f *Frame, bpm float64, c RGB) {
	if math.IsNaN(bpm) || bpm < 0 {
		bpm = 0
	}
	digits := strconv.Itoa(int(bpm))
	if len(digits) > 3 {
		digits = digits[len(digits)-3:]
	}

	switch len(digits) {
	case 1:
		drawGlyph(f, font3x5[digits[0]-'0'], 2, c)
	case 2:
		drawGlyph(f, font3x5[digits[0]-'0'], 0, c)
		drawGlyph(f, font3x5[digits[1]-'0'], 4, c)
	case 3:
		for i := 0; i < 3; i++ {
			drawGlyph(f, font2x5[digits[i]-'0'], i*3, c)
		}
	}
}

func drawGlyph(f *Frame, g glyph, x0 int, c RGB) {
	for y, row := range g {
		for x, bit := range row {
			if bit == '1' {
				f.Set(x0+x, y, c)
			}
		}
	}
}

// drawBeat lights a 2x2 box per beat: the current one white, earlier ones dimmed.
func drawBeat(f *Frame, beat int) {
	if beat < 0 || beat > 3 {
		return
	}
	for i := 0; i <= beat; i++ {
		c := Dimmed
		if i == beat {
			c = White
		}
		x := i * 2
		f.Set(x, 6, c)
		f.Set(x+1, 6, c)
		f.Set(x, 7, c)
		f.Set(x+1, 7, c)
	}
}
