package root

import (
	"context"

	"github.com/spf13/cobra"

	"pomodoro/internal/engine"
	"pomodoro/internal/tui"
)

func newTimerCmd() *cobra.Command {
	var taskID int64
	var focusM int
	var shortM int
	var longM int
	var everyN int

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Open the interactive Pomodoro timer",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, dbPath, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			cfg := engine.ConfigFromMinutes(focusM, shortM, longM, everyN)
			eng := engine.NewPomodoro(cfg, svc.TaskRepo(), svc.StudyStore(), tui.BellNotifier{})
			if taskID > 0 {
				eng.AttachTask(taskID)
			}

			return tui.RunTimer(ctx, svc, eng, cfg, dbPath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int64Var(&taskID, "task", 0, "Task id to attach for pomodoro counting")
	cmd.Flags().IntVar(&focusM, "focus", 25, "Focus duration in minutes")
	cmd.Flags().IntVar(&shortM, "short", 5, "Short break duration in minutes")
	cmd.Flags().IntVar(&longM, "long", 15, "Long break duration in minutes")
	cmd.Flags().IntVar(&everyN, "every", 4, "Focus phases per long break")

	return cmd
}
