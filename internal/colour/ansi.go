package colour

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// SupportsANSIColours reports whether stdout is a terminal and NO_COLOR is unset.
func SupportsANSIColours() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColourPreviewWithText returns a colour block with centred text drawn in
// black or white, whichever has more APCA contrast on the block. Width
// counts runes.
func ColourPreviewWithText(o OKLCH, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	c := o.RGB()
	var fg RGB
	if !IsLight(o, ModelAPCA, GamutSRGB) {
		fg = RGB{R: 255, G: 255, B: 255}
	}

	display := text
	n := utf8.RuneCountInString(text)
	if n > width {
		display = string([]rune(text)[:width])
	} else if n < width {
		padding := (width - n) / 2
		display = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-n-padding)
	}

	bg := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	fgs := fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, fg.R, fg.G, fg.B, ansiSuffix)
	return bg + fgs + display + ansiReset
}
