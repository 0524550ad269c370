package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is one of the named bar palettes.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
	ColorTeal   Color = "teal"
	ColorPink   Color = "pink"
	ColorYellow Color = "yellow"
)

// Colors lists the palette in display order.
var Colors = []Color{ColorBlue, ColorGreen, ColorPurple, ColorOrange, ColorRed, ColorTeal, ColorPink, ColorYellow}

// Fill holds the hex colours used to paint a bar.
type Fill struct {
	Background string
	Progress   string
	Border     string
}

var palette = map[Color]Fill{
	ColorBlue:   {Background: "#dbeafe", Progress: "#3b82f6", Border: "#2563eb"},
	ColorGreen:  {Background: "#dcfce7", Progress: "#22c55e", Border: "#16a34a"},
	ColorPurple: {Background: "#ede9fe", Progress: "#8b5cf6", Border: "#7c3aed"},
	ColorOrange: {Background: "#ffedd5", Progress: "#f97316", Border: "#ea580c"},
	ColorRed:    {Background: "#fee2e2", Progress: "#ef4444", Border: "#dc2626"},
	ColorTeal:   {Background: "#ccfbf1", Progress: "#14b8a6", Border: "#0d9488"},
	ColorPink:   {Background: "#fce7f3", Progress: "#ec4899", Border: "#db2777"},
	ColorYellow: {Background: "#fef9c3", Progress: "#eab308", Border: "#ca8a04"},
}

// ParseColor validates a palette name.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := palette[c]; !ok {
		return "", fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

// ValidHex reports whether s is a #rrggbb colour.
func ValidHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}

// Fill resolves the bar colours. A custom colour wins over the palette and is
// lightened for the background.
func (t Task) Fill() Fill {
	if ValidHex(t.CustomColor) {
		return Fill{
			Background: lighten(t.CustomColor, 0.85),
			Progress:   t.CustomColor,
			Border:     t.CustomColor,
		}
	}
	if f, ok := palette[t.Color]; ok {
		return f
	}
	return palette[ColorBlue]
}

// ColorKey is the grouping key used by statistics.
func (t Task) ColorKey() string {
	if t.CustomColor != "" {
		return t.CustomColor
	}
	return string(t.Color)
}

func lighten(hex string, percent float64) string {
	n, _ := strconv.ParseUint(hex[1:], 16, 32)
	channel := func(v uint64) uint64 {
		out := v + uint64(float64(255-v)*percent)
		if out > 255 {
			out = 255
		}
		return out
	}
	r := channel(n >> 16 & 0xff)
	g := channel(n >> 8 & 0xff)
	b := channel(n & 0xff)
	return fmt.Sprintf("#%06x", r<<16|g<<8|b)
}
