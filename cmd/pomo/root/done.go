package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"pomodoro/internal/ui"
)

func newDoneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("id is required")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return errors.New("id must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			id, _ := strconv.ParseInt(args[0], 10, 64)
			res, err := svc.CompleteTask(ctx, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("%s Completed task %d", ui.IconDone, res.TaskID)))
			if res.SpawnErr != nil {
				fmt.Fprintln(out, ui.Warn.Render(fmt.Sprintf("%s %v", ui.IconWarn, res.SpawnErr)))
			}
			if res.SpawnedID != 0 {
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("%s Recurring — next occurrence is task %d", ui.IconLoop, res.SpawnedID)))
			}
			return nil
		},
	}

	return cmd
}
