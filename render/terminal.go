package render

import (
	"os"
	"strings"
)

// TerminalCapabilities describes what the output terminal can display.
type TerminalCapabilities struct {
	Name    string
	Unicode bool // box-drawing and geometric shapes render correctly
}

// DetectCapabilities inspects the environment. STORYMAP_TERMINAL_MODE set to
// "ascii" or "unicode" overrides detection.
func DetectCapabilities() TerminalCapabilities {
	switch os.Getenv("STORYMAP_TERMINAL_MODE") {
	case "ascii":
		return ForceASCII()
	case "unicode":
		return ForceUnicode()
	}

	term := os.Getenv("TERM")
	caps := TerminalCapabilities{Name: term, Unicode: detectUTF8Locale()}
	if term == "linux" || term == "dumb" {
		caps.Unicode = false
	}
	if os.Getenv("WT_SESSION") != "" {
		caps.Name, caps.Unicode = "windows-terminal", true
	}
	return caps
}

// detectUTF8Locale checks if the locale supports UTF-8.
func detectUTF8Locale() bool {
	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		value := os.Getenv(env)
		if value == "" {
			continue
		}
		upper := strings.ToUpper(value)
		// the first locale variable that is set decides
		return strings.Contains(upper, "UTF-8") || strings.Contains(upper, "UTF8")
	}
	return false
}

// ForceASCII returns capabilities configured for ASCII-only output.
func ForceASCII() TerminalCapabilities {
	return TerminalCapabilities{Name: "ascii"}
}

// ForceUnicode returns capabilities configured for Unicode output.
func ForceUnicode() TerminalCapabilities {
	return TerminalCapabilities{Name: "unicode", Unicode: true}
}
