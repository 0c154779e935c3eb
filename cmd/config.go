package cmd

import (
	"fmt"

	"storymap/config"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), Subtle.Sprintf("# %s", configPath))
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write a config file with the default settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				written, err := config.EnsureExists(configPath)
				if err != nil {
					return err
				}
				if !written {
					Warn.Fprintf(cmd.OutOrStdout(), "%s already exists\n", configPath)
					return nil
				}
				Good.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintln(cmd.OutOrStdout(), configPath)
			},
		},
	)
	return cmd
}
