package export

import (
	"fmt"
	"strings"

	"storymap/diagram"
)

// MermaidExporter exports the relationship map as a Mermaid flowchart
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the project to Mermaid syntax. Detached endpoints become
// small unlabeled circles.
func (e *MermaidExporter) Export(p *diagram.Project) (string, error) {
	if p == nil {
		return "", ErrNilProject
	}
	if len(p.Characters) == 0 {
		return "", fmt.Errorf("project has no characters")
	}

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, ch := range p.Characters {
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", characterID(ch.ID), e.escapeLabel(e.getName(ch))))
	}

	if len(p.Associations) > 0 {
		sb.WriteString("\n")
	}

	for _, a := range p.Associations {
		from, fromPoint := endpointID(a, false)
		to, toPoint := endpointID(a, true)
		if fromPoint {
			sb.WriteString(fmt.Sprintf("    %s((\" \"))\n", from))
		}
		if toPoint {
			sb.WriteString(fmt.Sprintf("    %s((\" \"))\n", to))
		}

		if a.Label != "" {
			sb.WriteString(fmt.Sprintf("    %s -->|\"%s\"| %s\n", from, e.escapeLabel(a.Label), to))
		} else {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
		}
	}

	return sb.String(), nil
}

func (e *MermaidExporter) getName(ch diagram.Character) string {
	if ch.Name == "" {
		return fmt.Sprintf("Character %d", ch.ID)
	}
	return ch.Name
}

// escapeLabel replaces characters that end a quoted Mermaid string
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, "\n", "<br/>")
	return label
}

// GetFileExtension returns the file extension for Mermaid files
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
