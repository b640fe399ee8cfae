package matrix

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// mask renders rows 0-7 of f as '#' (lit) and '.' (off)
func mask(f Frame) string {
	var b strings.Builder
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if f[y][x] == Off {
				b.WriteByte('.')
			} else {
				b.WriteByte('#')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func TestComposeThreeDigits(t *testing.T) {
	f := Compose(120.9, false, 0)
	want := "" +
		".#.##.##\n" +
		"##..#.##\n" +
		".#.##.##\n" +
		".#.#..##\n" +
		"##.##.##\n" +
		"........\n" +
		"........\n" +
		"........\n"
	assert.Equal(t, want, mask(f))
	assert.Equal(t, Red, f[0][1])
}

func TestComposeTwoDigits(t *testing.T) {
	f := Compose(47, true, 0)
	want := "" +
		"#.#.###.\n" +
		"#.#...#.\n" +
		"###...#.\n" +
		"..#...#.\n" +
		"..#...#.\n" +
		"........\n" +
		"##......\n" +
		"##......\n"
	assert.Equal(t, want, mask(f))
	assert.Equal(t, Green, f[0][0])
	assert.Equal(t, White, f[6][0])
}

func TestComposeOneDigit(t *testing.T) {
	f := Compose(7, false, 2)
	want := "" +
		"..###...\n" +
		"....#...\n" +
		"....#...\n" +
		"....#...\n" +
		"....#...\n" +
		"........\n" +
		"........\n" +
		"........\n"
	assert.Equal(t, want, mask(f), "no beat ramp while stopped")
}

func TestBeatRamp(t *testing.T) {
	f := Compose(120, true, 2)
	for _, x := range []int{0, 1, 2, 3} {
		assert.Equal(t, Dimmed, f[6][x])
		assert.Equal(t, Dimmed, f[7][x])
	}
	assert.Equal(t, White, f[6][4])
	assert.Equal(t, White, f[7][5])
	assert.Equal(t, Off, f[6][6])
	assert.Equal(t, Off, f[7][7])

	f = Compose(120, true, 3)
	assert.Equal(t, White, f[7][7])
	assert.Equal(t, Off, f[5][0])
}

func TestSetOutOfRange(t *testing.T) {
	var f Frame
	f.Set(-1, 0, White)
	f.Set(8, 0, White)
	f.Set(0, 8, White)
	assert.Equal(t, Frame{}, f)
}

func TestRGB565(t *testing.T) {
	assert.Equal(t, uint16(0xF800), Red.RGB565())
	assert.Equal(t, uint16(0x07E0), Green.RGB565())
	assert.Equal(t, uint16(0xFFFF), White.RGB565())
	assert.Equal(t, uint16(0), Off.RGB565())
	assert.Equal(t, uint16(0x7BEF), Dimmed.RGB565())
}
