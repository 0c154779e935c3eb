package cmd

import (
	"errors"
	"fmt"
	"os"

	"storymap/render"
	"storymap/terminal"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

func editCmd() *cobra.Command {
	var ascii bool

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the interactive chart editor",
		Long: "Open the interactive chart editor. A file that does not exist yet\n" +
			"is created on the first save.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, args, ascii)
		},
	}

	cmd.Flags().BoolVar(&ascii, "ascii", false, "Draw with ASCII characters only")
	return cmd
}

func runEdit(cmd *cobra.Command, args []string, ascii bool) error {
	logData, err := newLogger(cmd, true)
	if err != nil {
		return err
	}
	defer logData.Close()
	log := logData.Logger

	ctl := newController(log)
	if len(args) == 1 {
		path := args[0]
		if err := ctl.Open(path); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			ctl.SetPath(path)
		}
	}

	caps := render.DetectCapabilities()
	if ascii {
		caps = render.ForceASCII()
	}
	log.Info().Str("terminal", caps.Name).Bool("unicode", caps.Unicode).Msg("starting editor")

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	app := terminal.New(screen, ctl, terminal.Options{
		ScaleX: cfg.Terminal.ScaleX,
		ScaleY: cfg.Terminal.ScaleY,
		Style:  render.StyleFor(caps),
	}, log)
	return app.Run()
}
