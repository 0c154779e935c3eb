package cmd

import (
	"storymap/config"
	"storymap/controller"
	"storymap/editor"
	"storymap/logger"
	"storymap/model"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "0.3.0"

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "storymap [file]",
		Short: "storymap: chart the relationships between your characters",
		Long: Brand.Sprint("storymap") + " maps who is who in a story\n" +
			Subtle.Sprint("Drag characters around a chart, link them, and keep a timeline of plot events"),
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				c.Log.Level = logLevel
			}
			cfg = c
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args, false)
		},
	}

	rootCmd.SetVersionTemplate("storymap {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "Config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level, overrides the config file")

	rootCmd.AddCommand(
		editCmd(),
		newCmd(),
		exportCmd(),
		importCmd(),
		listCmd(),
		configCmd(),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// newLogger builds the logger for a command. The editor owns the terminal, so
// it only logs when a log file is configured.
func newLogger(cmd *cobra.Command, tui bool) (*logger.LogData, error) {
	build, err := logger.New().LevelString(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	switch {
	case cfg.Log.File != "":
		build.FromPath(cfg.Log.File)
	case !tui:
		build.FromWriter(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	}
	return build.Make()
}

func chartOptions() editor.Options {
	return editor.Options{
		GridInterval: cfg.Chart.Grid,
		NodeWidth:    cfg.Chart.NodeWidth,
		NodeHeight:   cfg.Chart.NodeHeight,
	}
}

func newController(log zerolog.Logger) *controller.Controller {
	project := model.NewProject(nil, log)
	chart := editor.NewChart(project.IDs, chartOptions(), log)
	return controller.New(project, chart, log)
}
