package cmd

import (
	"github.com/spf13/cobra"

	"github.com/arlab/arlab/internal/app"
	"github.com/arlab/arlab/internal/dispatch"
	"github.com/arlab/arlab/internal/screen"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the interactive lesson browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		skip, _ := cmd.Flags().GetBool("skip-welcome")
		return runTUI(cmd, skip)
	},
}

func init() {
	playCmd.Flags().Bool("skip-welcome", false, "Start on the lesson list")
}

// runTUI builds dependencies and runs the terminal app until it exits.
func runTUI(cmd *cobra.Command, skipWelcome bool) error {
	d, err := setup(cmd, logFile)
	if err != nil {
		return err
	}
	defer d.Close()

	// Screens flush their last writes when the app closes them, so the
	// queue must outlive app.Run.
	queue := dispatch.New(cmd.Context(), d.logger)
	defer queue.Close()

	env := screen.Env{
		Catalog: d.catalog,
		Tracker: d.tracker,
		Queue:   queue,
		Tutor:   d.tutor(cmd, true),
		UserID:  d.cfg.UserID,
		Logger:  d.logger,
	}
	d.logger.Info("starting tui", "user", env.UserID, "lessons", d.catalog.Len())
	return app.Run(env, app.Options{SkipWelcome: skipWelcome})
}
