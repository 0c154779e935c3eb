package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"storymap/geometry"
)

var (
	// "A" -> "B" [attr1=val1, attr2="val2"];  (-- in undirected graphs)
	dotEdgePattern = regexp.MustCompile(`^\s*("(?:[^"\\]|\\.)*"|[^\s"\[-]+)\s*(?:->|--)\s*("(?:[^"\\]|\\.)*"|[^\s"\[;]+)\s*(?:\[(.*)\])?\s*;?$`)
	// "A" [attr1=val1, attr2="val2"];
	dotNodePattern = regexp.MustCompile(`^\s*("(?:[^"\\]|\\.)*"|[^\s"\[]+)\s*\[(.*)\]\s*;?$`)
	// key=value and key="value"
	dotAttrPattern = regexp.MustCompile(`(\w+)\s*=\s*("((?:[^"\\]|\\.)*)"|([^,\s]+))`)
	// digraph "name" {
	dotGraphPattern = regexp.MustCompile(`^\s*(?:strict\s+)?(?:di)?graph\s*("(?:[^"\\]|\\.)*"|[^\s{]*)\s*\{?`)
)

// GraphvizImporter imports Graphviz DOT format
type GraphvizImporter struct{}

// NewGraphvizImporter creates a new Graphviz importer
func NewGraphvizImporter() *GraphvizImporter {
	return &GraphvizImporter{}
}

// CanImport checks if the content is a Graphviz DOT diagram
func (g *GraphvizImporter) CanImport(content string) bool {
	content = strings.TrimSpace(content)
	return strings.HasPrefix(content, "digraph") ||
		strings.HasPrefix(content, "strict") ||
		strings.HasPrefix(content, "graph ") && strings.Contains(content, "{")
}

// Import converts Graphviz DOT content to a graph. Node pos attributes, in
// points with y pointing up, become chart positions.
func (g *GraphvizImporter) Import(content string) (*Graph, error) {
	graph := &Graph{}
	header := false

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}

		if !header {
			if m := dotGraphPattern.FindStringSubmatch(line); m != nil {
				header = true
				graph.Name = g.unquote(m[1])
				continue
			}
		}

		// Skip global attributes, subgraph braces and rank settings
		if strings.HasPrefix(line, "node ") || strings.HasPrefix(line, "node[") ||
			strings.HasPrefix(line, "edge ") || strings.HasPrefix(line, "edge[") ||
			strings.HasPrefix(line, "rankdir") || strings.HasPrefix(line, "subgraph") ||
			line == "{" || line == "}" {
			continue
		}

		if m := dotEdgePattern.FindStringSubmatch(line); m != nil {
			attrs := g.parseAttributes(m[3])
			graph.addEdge(g.unquote(m[1]), g.unquote(m[2]), attrs["label"])
			continue
		}

		if m := dotNodePattern.FindStringSubmatch(line); m != nil {
			n := graph.node(g.unquote(m[1]))
			attrs := g.parseAttributes(m[2])
			if label, ok := attrs["label"]; ok {
				n.Label = label
			}
			if attrs["shape"] == "point" {
				n.Point = true
				n.Label = ""
			}
			if pos, ok := attrs["pos"]; ok {
				p, err := g.parsePos(pos)
				if err != nil {
					return nil, fmt.Errorf("dot: line %d: %w", i+1, err)
				}
				n.Pos = &p
			}
		}
	}

	if len(graph.Nodes) == 0 {
		return nil, fmt.Errorf("dot: %w", ErrNoNodes)
	}
	return graph, nil
}

// parseAttributes parses DOT attribute string into a map
func (g *GraphvizImporter) parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, match := range dotAttrPattern.FindAllStringSubmatch(attrStr, -1) {
		key := match[1]
		value := g.unescape(match[3]) // Quoted value
		if match[2] != "" && match[2][0] != '"' {
			value = match[4] // Unquoted value
		}
		attrs[key] = value
	}

	return attrs
}

// parsePos reads "x,y" or "x,y!" and flips y into chart orientation.
func (g *GraphvizImporter) parsePos(pos string) (geometry.Point, error) {
	parts := strings.Split(strings.TrimSuffix(pos, "!"), ",")
	if len(parts) != 2 {
		return geometry.Point{}, fmt.Errorf("bad pos %q", pos)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("bad pos %q: %w", pos, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("bad pos %q: %w", pos, err)
	}
	return geometry.Point{X: x, Y: 0 - y}, nil
}

func (g *GraphvizImporter) unquote(id string) string {
	if len(id) >= 2 && id[0] == '"' && id[len(id)-1] == '"' {
		return g.unescape(id[1 : len(id)-1])
	}
	return id
}

// unescape reverses the escaping of quoted DOT strings
func (g *GraphvizImporter) unescape(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			sb.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// GetFormatName returns the format name
func (g *GraphvizImporter) GetFormatName() string {
	return "Graphviz"
}

// GetFileExtensions returns common file extensions
func (g *GraphvizImporter) GetFileExtensions() []string {
	return []string{".dot", ".gv"}
}
