package render

import "storymap/canvas"

// Style defines the characters used to draw a chart.
type Style struct {
	Box      canvas.BoxStyle
	Line     canvas.LineStyle
	Attached rune // endpoint on a character
	Free     rune // endpoint on the canvas
	Ellipsis string
}

// Predefined styles
var (
	UnicodeStyle = Style{
		Box:      canvas.DefaultBoxStyle,
		Line:     canvas.DefaultLineStyle,
		Attached: '●',
		Free:     '○',
		Ellipsis: "…",
	}

	ASCIIStyle = Style{
		Box:      canvas.SimpleBoxStyle,
		Line:     canvas.SimpleLineStyle,
		Attached: '*',
		Free:     'o',
		Ellipsis: ".",
	}
)

// StyleFor picks the style a terminal can display.
func StyleFor(caps TerminalCapabilities) Style {
	if caps.Unicode {
		return UnicodeStyle
	}
	return ASCIIStyle
}
