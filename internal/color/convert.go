// Package color formats parsed colors as CSS color values.
package color

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mazznoer/csscolorparser"
)

// Presentations returns c as hex, rgb(), hsl() and hwb(), in that order.
func Presentations(c csscolorparser.Color) []string {
	return []string{ToHex(c), ToRGB(c), ToHSL(c), ToHWB(c)}
}

// ToHex formats c as #rrggbb, or #rrggbbaa when it is translucent.
func ToHex(c csscolorparser.Color) string {
	return c.HexString()
}

// ToRGB formats c as rgb() or rgba().
func ToRGB(c csscolorparser.Color) string {
	r, g, b := channel(c.R), channel(c.G), channel(c.B)
	if opaque(c) {
		return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
	}
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, number(c.A, 3))
}

// ToHSL formats c as hsl() or hsla().
func ToHSL(c csscolorparser.Color) string {
	h, s, l := hsl(c)
	if opaque(c) {
		return fmt.Sprintf("hsl(%s, %s%%, %s%%)", number(h, 1), number(s*100, 1), number(l*100, 1))
	}
	return fmt.Sprintf("hsla(%s, %s%%, %s%%, %s)", number(h, 1), number(s*100, 1), number(l*100, 1), number(c.A, 3))
}

// ToHWB formats c as hwb() in the space-separated syntax.
func ToHWB(c csscolorparser.Color) string {
	h, _, _ := hsl(c)
	lo := math.Min(unit(c.R), math.Min(unit(c.G), unit(c.B)))
	hi := math.Max(unit(c.R), math.Max(unit(c.G), unit(c.B)))
	body := fmt.Sprintf("%s %s%% %s%%", number(h, 1), number(lo*100, 1), number((1-hi)*100, 1))
	if opaque(c) {
		return "hwb(" + body + ")"
	}
	return "hwb(" + body + " / " + number(c.A, 3) + ")"
}

// hsl returns hue in degrees, saturation and lightness in [0, 1].
func hsl(c csscolorparser.Color) (h, s, l float64) {
	r, g, b := unit(c.R), unit(c.G), unit(c.B)
	hi := math.Max(r, math.Max(g, b))
	lo := math.Min(r, math.Min(g, b))
	l = (hi + lo) / 2
	d := hi - lo
	if d == 0 {
		return 0, 0, l
	}
	s = d / (1 - math.Abs(2*l-1))
	switch hi {
	case r:
		h = math.Mod((g-b)/d, 6)
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, l
}

func opaque(c csscolorparser.Color) bool {
	return c.A >= 0.999
}

func unit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func channel(v float64) int {
	return int(math.Round(unit(v) * 255))
}

// number rounds v to places decimals without trailing zeros.
func number(v float64, places int) string {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
