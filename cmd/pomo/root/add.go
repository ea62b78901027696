package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"pomodoro/internal/engine"
	"pomodoro/internal/ui"
)

func newAddCmd() *cobra.Command {
	var category string
	var due string
	var subtasks string
	var priority string
	var tags string
	var recurring string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
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

			var dueDate *time.Time
			if due != "" {
				t, err := parseDue(due)
				if err != nil {
					return err
				}
				dueDate = &t
			}

			id, err := svc.AddTask(ctx, engine.AddTaskInput{
				Title:     args[0],
				Category:  category,
				DueDate:   dueDate,
				Subtasks:  subtasks,
				Priority:  priority,
				Tags:      tags,
				Recurring: recurring,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconPlus+" Added task "+fmt.Sprint(id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (e.g. Study, Work, Personal)")
	cmd.Flags().StringVarP(&due, "due", "d", "", "Due date (2006-01-02 or RFC3339)")
	cmd.Flags().StringVar(&subtasks, "subtasks", "", "Comma-joined subtask list")
	cmd.Flags().StringVarP(&priority, "priority", "p", "Medium", "Priority (high|medium|low)")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Comma-joined tags")
	cmd.Flags().StringVarP(&recurring, "recurring", "r", "None", "Recurrence (none|daily|weekly)")

	return cmd
}

func parseDue(input string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, input); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date: %q", input)
}
