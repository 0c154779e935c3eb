package export

import (
	"fmt"
	"strings"

	"storymap/diagram"
)

// pointsPerUnit converts chart units to DOT points for the pos attribute.
const pointsPerUnit = 1.0

// GraphvizExporter exports the relationship map to Graphviz DOT syntax
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the project to DOT. Every node carries a pinned pos so
// `neato -n` reproduces the chart layout; dot ignores it.
func (e *GraphvizExporter) Export(p *diagram.Project) (string, error) {
	if p == nil {
		return "", ErrNilProject
	}
	if len(p.Characters) == 0 {
		return "", fmt.Errorf("project has no characters")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %s {\n", e.graphName(p)))
	sb.WriteString("  node [shape=box];\n\n")

	for _, ch := range p.Characters {
		sb.WriteString(fmt.Sprintf("  %s [label=\"%s\", pos=\"%s\"];\n",
			characterID(ch.ID), e.escapeLabel(ch.Name), e.pos(ch.X, ch.Y)))
	}

	if len(p.Associations) > 0 {
		sb.WriteString("\n")
	}

	for _, a := range p.Associations {
		from, fromPoint := endpointID(a, false)
		to, toPoint := endpointID(a, true)
		if fromPoint {
			sb.WriteString(fmt.Sprintf("  %s [shape=point, pos=\"%s\"];\n", from, e.pos(a.Start.X, a.Start.Y)))
		}
		if toPoint {
			sb.WriteString(fmt.Sprintf("  %s [shape=point, pos=\"%s\"];\n", to, e.pos(a.End.X, a.End.Y)))
		}

		if a.Label != "" {
			sb.WriteString(fmt.Sprintf("  %s -> %s [label=\"%s\"];\n", from, to, e.escapeLabel(a.Label)))
		} else {
			sb.WriteString(fmt.Sprintf("  %s -> %s;\n", from, to))
		}
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func (e *GraphvizExporter) graphName(p *diagram.Project) string {
	if p.Metadata.Name == "" {
		return "G"
	}
	return "\"" + e.escapeLabel(p.Metadata.Name) + "\""
}

// pos formats a chart point for DOT, whose y axis points up.
func (e *GraphvizExporter) pos(x, y float64) string {
	// 0 - y, so that y == 0 prints as 0 and not -0
	return fmt.Sprintf("%g,%g!", x*pointsPerUnit, 0-y*pointsPerUnit)
}

// escapeLabel escapes special characters in labels
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	label = strings.ReplaceAll(label, "\n", `\n`)
	return label
}

// GetFileExtension returns the file extension for DOT files
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz DOT"
}
