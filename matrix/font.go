package matrix

// glyph rows top to bottom, one string per row, '1' = lit
type glyph []string

// standard 3x5 digits, used for one and two digit tempos
var font3x5 = [10]glyph{
	{"111", "101", "101", "101", "111"},
	{"010", "110", "010", "010", "111"},
	{"111", "001", "111", "100", "111"},
	{"111", "001", "111", "001", "111"},
	{"101", "101", "111", "001", "001"},
	{"111", "100", "111", "001", "111"},
	{"111", "100", "111", "101", "111"},
	{"111", "001", "001", "001", "001"},
	{"111", "101", "111", "101", "111"},
	{"111", "101", "111", "001", "111"},
}

// narrow 2x5 digits, so three fit across 8 columns
var font2x5 = [10]glyph{
	{"11", "11", "11", "11", "11"},
	{"01", "11", "01", "01", "11"},
	{"11", "01", "11", "10", "11"},
	{"11", "01", "11", "01", "11"},
	{"11", "11", "11", "01", "01"},
	{"11", "10", "11", "01", "11"},
	{"11", "10", "11", "11", "11"},
	{"11", "01", "01", "01", "01"},
	{"11", "11", "11", "11", "11"},
	{"11", "11", "11", "01", "11"},
}
