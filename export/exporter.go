// Package export converts story map projects to text-based formats.
package export

import (
	"errors"
	"fmt"

	"storymap/diagram"
	"storymap/render"
	"storymap/uid"
)

// ErrNilProject is returned when an exporter is given no project.
var ErrNilProject = errors.New("project is nil")

// Format represents an export format
type Format string

const (
	// FormatASCII renders the chart as text art
	FormatASCII Format = "ascii"
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
	// FormatGraphviz exports to Graphviz DOT syntax
	FormatGraphviz Format = "dot"
	// FormatJSON exports the project document
	FormatJSON Format = "json"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a project to the target format
	Export(p *diagram.Project) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// Options holds the chart geometry used by layout-aware exporters.
type Options struct {
	NodeWidth  float64
	NodeHeight float64
	ScaleX     float64 // chart units per text column
	ScaleY     float64 // chart units per text row
	Style      render.Style
}

// DefaultOptions returns the geometry of the default chart, in ASCII.
func DefaultOptions() Options {
	return Options{
		NodeWidth:  80,
		NodeHeight: 50,
		ScaleX:     5,
		ScaleY:     10,
		Style:      render.ASCIIStyle,
	}
}

// NewExporter creates an exporter for the given format
func NewExporter(format Format, opts Options) (Exporter, error) {
	switch format {
	case FormatASCII:
		return NewASCIIExporter(opts), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatGraphviz:
		return NewGraphvizExporter(), nil
	case FormatJSON:
		return NewJSONExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "ascii", "text", "txt":
		return FormatASCII, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "dot", "graphviz", "gv":
		return FormatGraphviz, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatASCII,
		FormatMermaid,
		FormatGraphviz,
		FormatJSON,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatASCII:    "Text art of the chart as laid out in the editor",
		FormatMermaid:  "Mermaid flowchart syntax (for Markdown)",
		FormatGraphviz: "Graphviz DOT syntax, with node positions for neato",
		FormatJSON:     "The project document",
	}
}

// pointID names the stand-in node for a detached endpoint in graph formats.
func pointID(assoc uid.UID, isEnd bool) string {
	if isEnd {
		return fmt.Sprintf("P%d_end", assoc)
	}
	return fmt.Sprintf("P%d_start", assoc)
}

func characterID(id uid.UID) string {
	return fmt.Sprintf("C%d", id)
}

// endpointID returns the graph node an endpoint connects to and whether it
// is a stand-in point.
func endpointID(a diagram.Association, isEnd bool) (string, bool) {
	ep := a.Endpoint(isEnd)
	if ep.Attached() {
		return characterID(ep.Character), false
	}
	return pointID(a.ID, isEnd), true
}
