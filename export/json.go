package export

import (
	"strings"

	"storymap/diagram"
	"storymap/projectfile"
)

// JSONExporter exports the project document
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export writes the project exactly as it would be saved
func (e *JSONExporter) Export(p *diagram.Project) (string, error) {
	if p == nil {
		return "", ErrNilProject
	}
	var sb strings.Builder
	if err := projectfile.Encode(&sb, p); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
