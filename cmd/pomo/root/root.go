package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pomodoro/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "pomo",
	Short:         "Pomodoro — local-first task list with a focus timer",
	Long:          "Pomodoro is a local-first CLI/TUI task tracker with a Pomodoro focus timer and a durable study-time counter.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newAddCmd(),
		newListCmd(),
		newDoneCmd(),
		newRmCmd(),
		newTimerCmd(),
		newStatsCmd(),
		newExportCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
