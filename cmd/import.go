package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storymap/importer"
	"storymap/projectfile"

	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	var (
		format string
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a project from a Mermaid flowchart or a Graphviz graph",
		Long: "Create a project from a Mermaid flowchart or a Graphviz graph. Nodes\n" +
			"become characters and edges become associations. Graphviz node\n" +
			"positions are kept; other nodes are laid out on a grid.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			content, err := os.ReadFile(src)
			if err != nil {
				return err
			}

			registry := importer.NewImporterRegistry()
			var graph *importer.Graph
			if format != "" {
				graph, err = registry.ImportWithFormat(string(content), format)
			} else {
				graph, err = registry.Import(string(content))
			}
			if err != nil {
				return fmt.Errorf("%s: %w", src, err)
			}

			logData, err := newLogger(cmd, false)
			if err != nil {
				return err
			}
			defer logData.Close()

			doc, err := importer.Build(graph, importer.Options{
				NodeWidth:  cfg.Chart.NodeWidth,
				NodeHeight: cfg.Chart.NodeHeight,
				Grid:       cfg.Chart.Grid,
			}, logData.Logger)
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(src, filepath.Ext(src)) + projectfile.Extension
			}
			if _, err := os.Stat(output); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", output)
			}
			if err := projectfile.Save(output, doc); err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "Imported %d characters and %d associations into %s\n",
				len(doc.Characters), len(doc.Associations), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: mermaid or graphviz (auto-detect if not specified)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Project file (default: input name with "+projectfile.Extension+")")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing project file")
	return cmd
}
