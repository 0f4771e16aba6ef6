package hexgrid

import "fmt"

// Color identifies a bubble color. Only equality matters to the engine.
type Color uint8

const (
	Red Color = iota
	Blue
	Green
	Yellow
	Purple
	Cyan

	colorCount
)

var colorNames = [colorCount]string{"red", "blue", "green", "yellow", "purple", "cyan"}
var colorChars = [colorCount]byte{'R', 'B', 'G', 'Y', 'P', 'C'}

func (c Color) String() string {
	if c >= colorCount {
		return fmt.Sprintf("color(%d)", c)
	}
	return colorNames[c]
}

// Char returns the single-letter code used in level files.
func (c Color) Char() byte {
	if c >= colorCount {
		return '?'
	}
	return colorChars[c]
}

// ParseColor converts a level-file letter (case-insensitive) to a Color.
func ParseColor(ch byte) (Color, bool) {
	if ch >= 'a' && ch <= 'z' {
		ch -= 'a' - 'A'
	}
	for i, c := range colorChars {
		if c == ch {
			return Color(i), true
		}
	}
	return 0, false
}

// Palette returns the first n colors, clamped to the available range.
func Palette(n int) []Color {
	if n < 1 {
		n = 1
	}
	if n > int(colorCount) {
		n = int(colorCount)
	}
	p := make([]Color, n)
	for i := range p {
		p[i] = Color(i)
	}
	return p
}

// MaxColors is the number of distinct colors available.
const MaxColors = int(colorCount)
