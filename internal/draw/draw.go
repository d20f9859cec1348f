package draw

import (
	"strconv"
	"strings"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ColorReset restores the terminal's default colors.
const ColorReset = "\033[0m"

// Color is a 24-bit RGB color packed as 0xRRGGBB.
type Color uint32

// lit marks a set canvas pixel so that black can still be drawn.
const lit Color = 1 << 24

// White is the fallback for colors that fail to parse.
var White = RGB(0xff, 0xff, 0xff)

// RGB packs three channels into a Color.
func RGB(r, g, b uint8) Color {
	return Color(r)<<16 | Color(g)<<8 | Color(b)
}

// RGB unpacks the color channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// Scale multiplies every channel by f, clamped to 0..1.
func (c Color) Scale(f float64) Color {
	f = min(max(f, 0), 1)
	r, g, b := c.RGB()
	return RGB(uint8(float64(r)*f), uint8(float64(g)*f), uint8(float64(b)*f))
}

// ParseHex parses "#rrggbb" or "#rgb". Malformed input yields White.
func ParseHex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return White
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return White
	}
	return Color(v)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
