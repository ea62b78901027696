package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pomodoro/internal/engine"
	"pomodoro/internal/storage"
	"pomodoro/internal/studytime"
	"pomodoro/internal/ui"
)

type timerModel struct {
	ctx    context.Context
	svc    *engine.Service
	eng    *engine.Pomodoro
	cfg    engine.Config
	dbPath string

	width  int
	height int

	tasks    []storage.Task
	selected int

	studySeconds int
	lastLog      string
	loading      bool
	ticking      bool
	err          error
}

type loadedMsg struct {
	tasks        []storage.Task
	studySeconds int
	err          error
}

type completedMsg struct {
	id  int64
	res *engine.CompleteResult
	err error
}

type tickMsg time.Time

func newTimerModel(ctx context.Context, svc *engine.Service, eng *engine.Pomodoro, cfg engine.Config, dbPath string) timerModel {
	return timerModel{
		ctx:     ctx,
		svc:     svc,
		eng:     eng,
		cfg:     cfg.Normalize(),
		dbPath:  dbPath,
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m timerModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m timerModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.svc.Tasks(m.ctx)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{tasks: tasks, studySeconds: m.svc.StudyStore().Load()}
	}
}

func (m timerModel) completeCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, id)
		return completedMsg{id: id, res: res, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.tasks = msg.tasks
		m.studySeconds = msg.studySeconds
		if m.selected >= len(m.tasks) {
			m.selected = len(m.tasks) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil

	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		switch {
		case msg.res.SpawnErr != nil:
			m.lastLog = fmt.Sprintf("%s Completed %d, but the next occurrence failed: %v", ui.IconWarn, msg.id, msg.res.SpawnErr)
		case msg.res.SpawnedID != 0:
			m.lastLog = fmt.Sprintf("Completed %d, next occurrence is task %d.", msg.id, msg.res.SpawnedID)
		default:
			m.lastLog = fmt.Sprintf("Completed %d.", msg.id)
		}
		return m, m.loadCmd()

	case tickMsg:
		snap := m.eng.Snapshot()
		if !snap.Running {
			m.ticking = false
			return m, nil
		}
		before := snap.Phase
		m.eng.Tick(m.ctx)
		if err := m.eng.LastError(); err != nil {
			m.lastLog = ui.IconWarn + " " + err.Error()
		}
		after := m.eng.Snapshot()
		if after.Phase != before {
			m.lastLog = fmt.Sprintf("%s %s finished — %s begins.", ui.IconBell, before, after.Phase)
			// Pomodoro counts and study time may have moved.
			return m, tea.Batch(tickCmd(), m.loadCmd())
		}
		return m, tickCmd()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m timerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		// Flush the open accrual window and back up the db before leaving.
		m.eng.Pause()
		if m.dbPath != "" {
			_ = storage.Backup(m.dbPath)
		}
		return m, tea.Quit

	case " ":
		snap := m.eng.Snapshot()
		if snap.Running {
			m.eng.Pause()
			m.lastLog = "Paused."
			return m, m.loadCmd()
		}
		m.eng.Start()
		m.lastLog = "Running."
		if m.ticking {
			return m, nil
		}
		m.ticking = true
		return m, tickCmd()

	case "r":
		m.eng.Reset()
		m.lastLog = "Reset to a fresh focus phase."
		return m, m.loadCmd()

	case "1":
		m.eng.SwitchPhase(engine.PhaseFocus)
		m.lastLog = "Switched to Focus."
		return m, nil
	case "2":
		m.eng.SwitchPhase(engine.PhaseShortBreak)
		m.lastLog = "Switched to Short Break."
		return m, nil
	case "3":
		m.eng.SwitchPhase(engine.PhaseLongBreak)
		m.lastLog = "Switched to Long Break."
		return m, nil

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case "down", "j":
		if m.selected < len(m.tasks)-1 {
			m.selected++
		}
		return m, nil

	case "enter":
		t := m.selectedTask()
		if t == nil {
			return m, nil
		}
		if t.Completed {
			m.lastLog = "Pick a pending task to attach."
			return m, nil
		}
		m.eng.AttachTask(t.ID)
		m.lastLog = fmt.Sprintf("Attached %q — its pomodoro count grows on each finished focus.", t.Title)
		return m, nil

	case "c":
		t := m.selectedTask()
		if t == nil {
			return m, nil
		}
		if t.Completed {
			m.lastLog = "Already done."
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Completing %d…", t.ID)
		return m, m.completeCmd(t.ID)

	case "R":
		m.loading = true
		m.lastLog = "Refreshing…"
		return m, m.loadCmd()
	}
	return m, nil
}

func (m timerModel) selectedTask() *storage.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.selected]
}

func (m timerModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}

	var b strings.Builder
	b.WriteString(m.renderTimer())
	b.WriteString("\n")
	b.WriteString(m.renderTasks())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m timerModel) renderTimer() string {
	snap := m.eng.Snapshot()
	total := m.cfg.DurationFor(snap.Phase)

	state := "paused"
	if snap.Running {
		state = "running"
	}
	var lines []string
	lines = append(lines, ui.Heading(ui.IconTomato, "Pomodoro"))
	lines = append(lines, fmt.Sprintf("%s  %s  %s",
		ui.PhaseStyle(string(snap.Phase)).Render(string(snap.Phase)),
		ui.Clock.Render(engine.FormatClock(snap.Remaining)),
		ui.Muted.Render(state)))
	lines = append(lines, progressBar(total-snap.Remaining, total, 34))
	lines = append(lines, ui.LabelValue("Focus phases done", snap.CompletedFocus))
	if snap.AttachedTask != 0 {
		if t := findTask(m.tasks, snap.AttachedTask); t != nil {
			lines = append(lines, ui.LabelValue("Attached", t.Title))
		} else {
			lines = append(lines, ui.LabelValue("Attached", fmt.Sprintf("task %d (deleted)", snap.AttachedTask)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m timerModel) renderTasks() string {
	if m.loading {
		return "Loading…"
	}
	now := time.Now()
	var out []string
	out = append(out, ui.H2.Render("Tasks"))
	if len(m.tasks) == 0 {
		out = append(out, ui.Muted.Render("(no tasks — add one with `pomo add`)"))
		return strings.Join(out, "\n")
	}
	attached := m.eng.Snapshot().AttachedTask
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		pin := "  "
		if t.ID == attached {
			pin = ui.IconTimer + " "
		}
		title := t.Title
		if t.Completed {
			title = ui.Muted.Render(title)
		}
		parts := []string{fmt.Sprintf("%s%s %s%s", cursor, mark, pin, title)}
		if t.Category != "" {
			parts = append(parts, ui.Muted.Render(t.Category))
		}
		parts = append(parts, ui.PriorityText(t.Priority))
		if due := ui.DueText(t.DueDate, now); due != "" {
			parts = append(parts, due)
		}
		if t.Pomodoros > 0 {
			parts = append(parts, ui.Muted.Render(fmt.Sprintf("%s ×%d", ui.IconTomato, t.Pomodoros)))
		}
		if t.Recurring != "" && t.Recurring != "None" {
			parts = append(parts, ui.Muted.Render(ui.IconLoop+" "+t.Recurring))
		}
		out = append(out, strings.Join(parts, "  "))
	}
	return strings.Join(out, "\n")
}

func (m timerModel) renderFooter() string {
	lines := []string{
		ui.LabelValue("Total study time", studytime.Format(m.studySeconds)),
		ui.Muted.Render("space start/pause · r reset · 1/2/3 phase · j/k move · enter attach · c complete · q quit"),
		m.lastLog,
	}
	return strings.Join(lines, "\n")
}

func progressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := int(float64(value) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func findTask(tasks []storage.Task, id int64) *storage.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}
