package importer

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// ID[text], ID(text), ID{text}, ID{{text}}, ID[[text]], ID[(text)], ID([text]), ID>text], ID((text))
	mermaidNodePattern = regexp.MustCompile(`([A-Za-z0-9_]+)(\(\(("[^"]*"|[^\)]*)\)\)|\{\{("[^"]*"|[^\}]*)\}\}|\[\[("[^"]*"|[^\]]*)\]\]|\[\(("[^"]*"|[^\)]*)\)\]|\(\[("[^"]*"|[^\]]*)\]\)|\[("[^"]*"|[^\]]*)\]|\(("[^"]*"|[^\)]*)\)|\{("[^"]*"|[^\}]*)\}|>("[^"]*"|[^\]]*)\])`)

	// A --> B, A -->|label| B, A -- label --> B, A --- B, A -.-> B, A ==> B, A <--> B
	mermaidEdgePattern = regexp.MustCompile(`([A-Za-z0-9_]+)\s*(<-->|-\.->|==>|---|--[^>|]*>|o--o|x--x)\s*(?:\|([^|]*)\|)?\s*([A-Za-z0-9_]+)`)

	mermaidSkipPrefixes = []string{"subgraph", "classDef", "class ", "style ", "linkStyle", "click "}
)

// MermaidImporter imports Mermaid flowcharts
type MermaidImporter struct{}

// NewMermaidImporter creates a new Mermaid importer
func NewMermaidImporter() *MermaidImporter {
	return &MermaidImporter{}
}

// CanImport checks if the content is a Mermaid flowchart
func (m *MermaidImporter) CanImport(content string) bool {
	header, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	// "graph G {" opens an undirected DOT graph
	if strings.Contains(header, "{") {
		return false
	}
	return strings.HasPrefix(header, "graph") ||
		strings.HasPrefix(header, "flowchart")
}

// Import converts a Mermaid flowchart to a graph
func (m *MermaidImporter) Import(content string) (*Graph, error) {
	if !m.CanImport(content) {
		return nil, fmt.Errorf("unsupported Mermaid diagram type")
	}

	g := &Graph{}
	lines := strings.Split(strings.TrimSpace(content), "\n")
	for _, line := range lines[1:] { // Skip the graph/flowchart declaration
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ";"))
		if line == "" || strings.HasPrefix(line, "%%") || m.skip(line) {
			continue
		}

		// Node declarations may appear on their own or inline in an edge
		for _, match := range mermaidNodePattern.FindAllStringSubmatch(line, -1) {
			m.declare(g, match[1], match[2])
		}
		m.edges(g, mermaidNodePattern.ReplaceAllString(line, "$1"))
	}

	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("mermaid: %w", ErrNoNodes)
	}
	return g, nil
}

func (m *MermaidImporter) skip(line string) bool {
	if line == "end" {
		return true
	}
	for _, prefix := range mermaidSkipPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// declare records a node shape. A blank circle is a detached endpoint.
func (m *MermaidImporter) declare(g *Graph, key, shape string) {
	text := m.unescape(strings.Trim(shapeText(shape), `"`))

	n := g.node(key)
	if strings.HasPrefix(shape, "((") && strings.TrimSpace(text) == "" {
		n.Point = true
		n.Label = ""
		return
	}
	n.Label = text
}

// shapeText strips the delimiters around a node shape.
func shapeText(shape string) string {
	n := 1
	for _, open := range []string{"((", "{{", "[[", "[(", "(["} {
		if strings.HasPrefix(shape, open) {
			n = 2
			break
		}
	}
	if len(shape) < 2*n {
		return ""
	}
	return shape[n : len(shape)-n]
}

// edges adds every edge on a line, following chains like A --> B --> C.
func (m *MermaidImporter) edges(g *Graph, line string) {
	for {
		loc := mermaidEdgePattern.FindStringSubmatchIndex(line)
		if loc == nil {
			return
		}
		from := line[loc[2]:loc[3]]
		arrow := line[loc[4]:loc[5]]
		to := line[loc[8]:loc[9]]

		label := ""
		if loc[6] >= 0 {
			label = line[loc[6]:loc[7]]
		} else if strings.HasPrefix(arrow, "-- ") {
			// A -- label --> B
			label = strings.TrimSuffix(arrow[2:], "-->")
		}
		label = m.unescape(strings.Trim(strings.TrimSpace(label), `"`))

		g.addEdge(from, to, label)
		line = line[loc[8]:]
	}
}

// unescape reverses the entity escaping Mermaid labels use
func (m *MermaidImporter) unescape(label string) string {
	label = strings.ReplaceAll(label, "#quot;", `"`)
	label = strings.ReplaceAll(label, "<br/>", "\n")
	return label
}

// GetFormatName returns the format name
func (m *MermaidImporter) GetFormatName() string {
	return "Mermaid"
}

// GetFileExtensions returns common file extensions
func (m *MermaidImporter) GetFileExtensions() []string {
	return []string{".mmd", ".mermaid"}
}
