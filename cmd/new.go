package cmd

import (
	"fmt"
	"os"
	"time"

	"storymap/diagram"
	"storymap/projectfile"

	"github.com/spf13/cobra"
)

func newCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			doc := &diagram.Project{
				Version: diagram.CurrentVersion,
				Metadata: diagram.Metadata{
					Name:    name,
					Created: time.Now().UTC().Format(time.RFC3339),
				},
				Characters:   []diagram.Character{},
				Associations: []diagram.Association{},
			}
			if err := projectfile.Save(path, doc); err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Story name")
	return cmd
}
