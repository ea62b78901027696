package engine

import "strings"

// Phase is one step of the pomodoro cycle.
type Phase string

const (
	PhaseFocus      Phase = "Focus"
	PhaseShortBreak Phase = "Short Break"
	PhaseLongBreak  Phase = "Long Break"
)

func (p Phase) IsValid() bool {
	switch p {
	case PhaseFocus, PhaseShortBreak, PhaseLongBreak:
		return true
	default:
		return false
	}
}

// Priority levels for tasks.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is used when user input is missing/invalid.
const DefaultPriority = PriorityMedium

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// ParsePriority parses user input to a Priority, falling back to the default.
func ParsePriority(input string) Priority {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "high", "h":
		return PriorityHigh
	case "low", "l":
		return PriorityLow
	case "medium", "m":
		return PriorityMedium
	default:
		return DefaultPriority
	}
}
