package root

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pomodoro/internal/storage"
	"pomodoro/internal/ui"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List tasks (pending first, newest first)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			tasks, err := svc.SearchTasks(ctx, query)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no tasks)"))
				return nil
			}

			now := time.Now()
			for _, t := range tasks {
				fmt.Fprintln(cmd.OutOrStdout(), renderTaskLine(t, now))
			}
			return nil
		},
	}

	return cmd
}

func renderTaskLine(t storage.Task, now time.Time) string {
	mark := "[ ]"
	title := t.Title
	if t.Completed {
		mark = "[x]"
		title = ui.Muted.Render(title)
	}
	parts := []string{fmt.Sprintf("%s %3d %s", mark, t.ID, title)}
	if t.Category != "" {
		parts = append(parts, ui.Muted.Render(t.Category))
	}
	parts = append(parts, ui.PriorityText(t.Priority))
	if due := ui.DueText(t.DueDate, now); due != "" {
		parts = append(parts, due)
	}
	if t.Tags != "" {
		parts = append(parts, ui.Muted.Render("#"+strings.ReplaceAll(t.Tags, ",", " #")))
	}
	if t.Recurring != "" && t.Recurring != "None" {
		parts = append(parts, ui.Muted.Render(ui.IconLoop+" "+t.Recurring))
	}
	if t.Pomodoros > 0 {
		parts = append(parts, ui.Muted.Render(fmt.Sprintf("%s ×%d", ui.IconTomato, t.Pomodoros)))
	}
	return strings.Join(parts, "  ")
}
