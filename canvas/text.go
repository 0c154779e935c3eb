package canvas

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// StringWidth returns the display width of a string in terminal cells.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// FitText truncates text to fit within maxWidth, adding ellipsis if needed.
func FitText(text string, maxWidth int, ellipsis string) string {
	if maxWidth <= 0 {
		return ""
	}
	if StringWidth(text) <= maxWidth {
		return text
	}
	if maxWidth <= StringWidth(ellipsis) {
		return runewidth.Truncate(text, maxWidth, "")
	}
	return runewidth.Truncate(text, maxWidth, ellipsis)
}

// WrapText wraps text at word boundaries to fit within maxWidth. Words longer
// than a line are cut.
func WrapText(text string, maxWidth int) []string {
	if maxWidth <= 0 {
		return nil
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0

	flush := func() {
		if lineWidth > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
	}

	for _, word := range strings.Fields(text) {
		w := StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > maxWidth {
			flush()
		}
		for w > maxWidth {
			head := runewidth.Truncate(word, maxWidth, "")
			if head == "" {
				// a single rune wider than the line
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = StringWidth(word)
		}
		if word == "" {
			continue
		}
		if lineWidth > 0 {
			line.WriteByte(' ')
			lineWidth++
		}
		line.WriteString(word)
		lineWidth += w
	}
	flush()
	return lines
}

// CenterOffset returns the column offset that centers text of the given
// width in a span.
func CenterOffset(span, width int) int {
	if width >= span {
		return 0
	}
	return (span - width) / 2
}
