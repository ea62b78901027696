package root

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pomodoro/internal/csvio"
	"pomodoro/internal/ui"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import tasks from a CSV file (upserts by id)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("input file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			db, _, cleanup, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			res, err := csvio.Import(ctx, db, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Good.Render(fmt.Sprintf("Imported %d task(s)", res.Imported)))
			if res.Skipped > 0 {
				fmt.Fprintln(out, ui.Warn.Render(fmt.Sprintf("%s Skipped %d malformed row(s)", ui.IconWarn, res.Skipped)))
			}
			return nil
		},
	}

	return cmd
}
