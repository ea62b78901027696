package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"pomodoro/internal/ui"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show total study time and per-task pomodoro counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconBook, "Study Stats"))
			fmt.Fprintln(out, ui.LabelValue("Total study time", svc.StudyTotal()))
			fmt.Fprintln(out, "")

			tasks, err := svc.Tasks(ctx)
			if err != nil {
				return err
			}
			totalPomodoros := 0
			var withPomodoros int
			for _, t := range tasks {
				totalPomodoros += t.Pomodoros
				if t.Pomodoros > 0 {
					withPomodoros++
				}
			}
			fmt.Fprintln(out, ui.LabelValue("Completed pomodoros", totalPomodoros))
			if withPomodoros == 0 {
				return nil
			}

			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render(ui.IconTomato+" Per task"))
			for _, t := range tasks {
				if t.Pomodoros == 0 {
					continue
				}
				line := fmt.Sprintf("- %s ×%d", t.Title, t.Pomodoros)
				if t.LastPomodoroAt != nil {
					line += " " + ui.Muted.Render("(last "+t.LastPomodoroAt.Format("2006-01-02 15:04")+")")
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	return cmd
}
