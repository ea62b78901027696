package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Pomodoro theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconTimer  = "⏱️"
	IconTomato = "🍅"
	IconDone   = "✅"
	IconPlus   = "➕"
	IconBook   = "📚"
	IconLoop   = "🔁"
	IconWarn   = "⚠️"
	IconError  = "🧨"
	IconBell   = "🔔"
	IconCoffee = "☕"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cFocus   = lipgloss.Color("203") // tomato red
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Focus = lipgloss.NewStyle().Bold(true).Foreground(cFocus)

	Clock = lipgloss.NewStyle().Bold(true).Foreground(cFocus)
	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// PhaseStyle picks the accent for a cycle phase name.
func PhaseStyle(phase string) lipgloss.Style {
	switch strings.ToLower(phase) {
	case "focus":
		return Focus
	case "short break":
		return Good
	case "long break":
		return H2
	default:
		return Muted
	}
}

// PriorityText renders a task priority with its color.
func PriorityText(priority string) string {
	switch priority {
	case "High":
		return Bad.Render("High")
	case "Low":
		return Muted.Render("Low")
	default:
		return Warn.Render("Medium")
	}
}

// DueText renders a due date, recoloring overdue entries with the error
// style and entries due within 24 hours with the warning style.
func DueText(due *time.Time, now time.Time) string {
	if due == nil {
		return ""
	}
	s := due.Format("2006-01-02 15:04")
	switch {
	case due.Before(now):
		return Bad.Render("overdue " + s)
	case due.Before(now.Add(24 * time.Hour)):
		return Warn.Render("due " + s)
	default:
		return Muted.Render("due " + s)
	}
}
