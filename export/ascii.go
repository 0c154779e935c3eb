package export

import (
	"storymap/diagram"
	"storymap/render"
)

// ASCIIExporter renders the chart as text art
type ASCIIExporter struct {
	renderer *render.Renderer
	opts     Options
}

// NewASCIIExporter creates a new ASCII exporter
func NewASCIIExporter(opts Options) *ASCIIExporter {
	return &ASCIIExporter{
		renderer: render.NewRenderer(opts.Style),
		opts:     opts,
	}
}

// Export draws every character and association at its chart position
func (e *ASCIIExporter) Export(p *diagram.Project) (string, error) {
	if p == nil {
		return "", ErrNilProject
	}

	scene := render.SceneFromProject(p, e.opts.NodeWidth, e.opts.NodeHeight)
	out := e.renderer.Render(scene, e.opts.ScaleX, e.opts.ScaleY)
	if out != "" {
		out += "\n"
	}
	return out, nil
}

// GetFileExtension returns the recommended file extension
func (e *ASCIIExporter) GetFileExtension() string {
	return ".txt"
}

// GetFormatName returns the format name
func (e *ASCIIExporter) GetFormatName() string {
	return "ASCII/Unicode Art"
}
