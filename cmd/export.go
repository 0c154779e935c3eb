package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"storymap/diagram"
	"storymap/export"
	"storymap/model"
	"storymap/projectfile"
	"storymap/render"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	var (
		format  string
		output  string
		unicode bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a project to another format",
		Long:  "Export a project to another format.\n\nFormats:\n" + formatList(),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			doc, err := loadChecked(args[0])
			if err != nil {
				return err
			}

			opts := export.Options{
				NodeWidth:  cfg.Chart.NodeWidth,
				NodeHeight: cfg.Chart.NodeHeight,
				ScaleX:     cfg.Terminal.ScaleX,
				ScaleY:     cfg.Terminal.ScaleY,
				Style:      render.ASCIIStyle,
			}
			if unicode {
				opts.Style = render.UnicodeStyle
			}
			exp, err := export.NewExporter(f, opts)
			if err != nil {
				return err
			}
			out, err := exp.Export(doc)
			if err != nil {
				return fmt.Errorf("export %s: %w", exp.GetFormatName(), err)
			}

			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			}
			if err := os.WriteFile(output, []byte(out), 0644); err != nil {
				return err
			}
			Good.Fprintf(cmd.ErrOrStderr(), "Exported %s to %s\n", exp.GetFormatName(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "ascii", "Output format")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVar(&unicode, "unicode", false, "Use box-drawing characters for ascii output")
	return cmd
}

func formatList() string {
	descriptions := export.GetFormatDescriptions()
	formats := export.GetAvailableFormats()
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })

	var sb strings.Builder
	for _, f := range formats {
		sb.WriteString(fmt.Sprintf("  %-8s %s\n", f, descriptions[f]))
	}
	return sb.String()
}

// loadChecked reads a project file and checks its references by loading it
// into a scratch model, which it returns alongside the document.
func loadChecked(path string) (*diagram.Project, error) {
	doc, err := projectfile.Load(path)
	if err != nil {
		return nil, err
	}
	if err := model.NewProject(nil, zerolog.Nop()).Load(doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
