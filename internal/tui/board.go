package tui

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pomodoro/internal/engine"
)

// BellNotifier rings the terminal bell when a phase ends.
type BellNotifier struct{}

func (BellNotifier) PhaseEnded(engine.Phase) {
	_, _ = os.Stdout.WriteString("\a")
}

// RunTimer runs the interactive timer board until the user quits.
func RunTimer(ctx context.Context, svc *engine.Service, eng *engine.Pomodoro, cfg engine.Config, dbPath string, out io.Writer) error {
	m := newTimerModel(ctx, svc, eng, cfg, dbPath)
	p := tea.NewProgram(m, tea.WithOutput(out))
	_, err := p.Run()
	return err
}
