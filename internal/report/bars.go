package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	minBarWidth         = 10
	terminalWidthBackup = 80
	colorReset          = "\x1b[0m"
	fullBlock           = '█'
)

// Partial blocks in eighths, index 1 is one eighth.
var partialBlocks = []rune{0, '▏', '▎', '▍', '▌', '▋', '▊', '▉'}

type rgb struct {
	r, g, b uint8
}

// Sequential reds, light to dark.
var redStops = []rgb{
	{0xff, 0xf5, 0xf0},
	{0xfe, 0xe0, 0xd2},
	{0xfc, 0xbb, 0xa1},
	{0xfc, 0x92, 0x72},
	{0xfb, 0x6a, 0x4a},
	{0xef, 0x3b, 0x2c},
	{0xcb, 0x18, 0x1d},
	{0xa5, 0x0f, 0x15},
	{0x67, 0x00, 0x0d},
}

// Categorical palette for race shares.
var categoryPalette = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
	"\x1b[34m",
	"\x1b[31m",
	"\x1b[37m",
}

// bar renders value on a scale of [0, scaleMax] using width cells.
func bar(value, scaleMax, width int) string {
	if value <= 0 || scaleMax <= 0 || width <= 0 {
		return ""
	}
	if value > scaleMax {
		value = scaleMax
	}
	eighths := int(math.Round(float64(value) / float64(scaleMax) * float64(width*8)))
	if eighths == 0 {
		eighths = 1
	}
	full := eighths / 8
	rest := eighths % 8
	var b strings.Builder
	b.WriteString(strings.Repeat(string(fullBlock), full))
	if rest > 0 {
		b.WriteRune(partialBlocks[rest])
	}
	return b.String()
}

// upperLimit rounds max up to the next multiple of 100.
func upperLimit(maxVal int) int {
	if maxVal <= 0 {
		return 100
	}
	return int(math.Ceil(float64(maxVal)/100)) * 100
}

// redShade returns the reds scale color for value on [0, maxVal].
func redShade(value, maxVal int) rgb {
	if maxVal <= 0 || value <= 0 {
		return redStops[0]
	}
	pos := float64(value) / float64(maxVal)
	if pos > 1 {
		pos = 1
	}
	scaled := pos * float64(len(redStops)-1)
	idx := int(math.Floor(scaled))
	if idx >= len(redStops)-1 {
		return redStops[len(redStops)-1]
	}
	frac := scaled - float64(idx)
	lo, hi := redStops[idx], redStops[idx+1]
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-frac) + float64(b)*frac))
	}
	return rgb{mix(lo.r, hi.r), mix(lo.g, hi.g), mix(lo.b, hi.b)}
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

func (c rgb) colorize(s string) string {
	return fmt.Sprintf("\x1b[38;2;%d;%d;%dm%s%s", c.r, c.g, c.b, s, colorReset)
}

func colorizeCategory(idx int, s string) string {
	return categoryPalette[idx%len(categoryPalette)] + s + colorReset
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth()
}

func barWidthFor(totalWidth, reserved int) int {
	w := totalWidth - reserved
	if w < minBarWidth {
		w = minBarWidth
	}
	return w
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
