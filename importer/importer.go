// Package importer reads graphs written in other tools' text formats and
// turns them into story map projects: nodes become characters and edges
// become associations between them.
package importer

import (
	"errors"
	"fmt"
	"strings"

	"storymap/geometry"
)

// ErrNoNodes is returned for input that parses but declares no nodes.
var ErrNoNodes = errors.New("no nodes found")

// Node is a parsed graph node. Key is the identifier used by edges.
type Node struct {
	Key   string
	Label string
	Pos   *geometry.Point // chart position, when the source carries one
	Point bool            // a bare point standing in for a detached endpoint
}

// Edge is a parsed edge between two node keys.
type Edge struct {
	From, To string
	Label    string
}

// Graph is the format-neutral result of parsing.
type Graph struct {
	Name  string
	Nodes []Node
	Edges []Edge

	index map[string]int
}

// node returns the node for key, adding it with the key as label if needed.
func (g *Graph) node(key string) *Node {
	if g.index == nil {
		g.index = make(map[string]int)
	}
	if i, ok := g.index[key]; ok {
		return &g.Nodes[i]
	}
	g.Nodes = append(g.Nodes, Node{Key: key, Label: key})
	g.index[key] = len(g.Nodes) - 1
	return &g.Nodes[len(g.Nodes)-1]
}

// Lookup returns the node with the given key.
func (g *Graph) Lookup(key string) (Node, bool) {
	i, ok := g.index[key]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

func (g *Graph) addEdge(from, to, label string) {
	g.node(from)
	g.node(to)
	g.Edges = append(g.Edges, Edge{From: from, To: to, Label: label})
}

// Importer interface defines methods for importing graphs from various formats
type Importer interface {
	// CanImport checks if the given content can be imported by this importer
	CanImport(content string) bool

	// Import parses the content into a graph
	Import(content string) (*Graph, error)

	// GetFormatName returns the human-readable name of the format
	GetFormatName() string

	// GetFileExtensions returns common file extensions for this format
	GetFileExtensions() []string
}

// ImporterRegistry manages available importers
type ImporterRegistry struct {
	importers []Importer
}

// NewImporterRegistry creates a new importer registry
func NewImporterRegistry() *ImporterRegistry {
	return &ImporterRegistry{
		importers: []Importer{
			NewMermaidImporter(),
			NewGraphvizImporter(),
		},
	}
}

// Register adds a new importer to the registry
func (r *ImporterRegistry) Register(importer Importer) {
	r.importers = append(r.importers, importer)
}

// DetectFormat attempts to detect the format of the given content
func (r *ImporterRegistry) DetectFormat(content string) (Importer, error) {
	for _, imp := range r.importers {
		if imp.CanImport(content) {
			return imp, nil
		}
	}
	return nil, fmt.Errorf("unable to detect format")
}

// Import attempts to import content using auto-detection
func (r *ImporterRegistry) Import(content string) (*Graph, error) {
	importer, err := r.DetectFormat(content)
	if err != nil {
		return nil, err
	}
	return importer.Import(content)
}

// ImportWithFormat imports content using a specific format. The format is
// matched against format names and file extensions.
func (r *ImporterRegistry) ImportWithFormat(content, format string) (*Graph, error) {
	format = strings.ToLower(format)

	for _, imp := range r.importers {
		if strings.ToLower(imp.GetFormatName()) == format {
			return imp.Import(content)
		}
		for _, ext := range imp.GetFileExtensions() {
			if strings.TrimPrefix(ext, ".") == format {
				return imp.Import(content)
			}
		}
	}

	return nil, fmt.Errorf("unknown format: %s", format)
}

// GetAvailableFormats returns a list of available import formats
func (r *ImporterRegistry) GetAvailableFormats() []string {
	formats := make([]string, len(r.importers))
	for i, imp := range r.importers {
		formats[i] = imp.GetFormatName()
	}
	return formats
}
