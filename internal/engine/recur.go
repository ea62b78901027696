package engine

import (
	"strings"
	"time"
)

// Recurrence describes how a task respawns after completion.
type Recurrence string

const (
	RecurNone   Recurrence = "None"
	RecurDaily  Recurrence = "Daily"
	RecurWeekly Recurrence = "Weekly"
)

func (r Recurrence) IsValid() bool {
	switch r {
	case RecurNone, RecurDaily, RecurWeekly:
		return true
	default:
		return false
	}
}

// ParseRecurrence parses user input to a Recurrence. Empty or unrecognized
// input means non-recurring.
func ParseRecurrence(input string) Recurrence {
	switch strings.TrimSpace(strings.ToLower(input)) {
	case "daily", "day":
		return RecurDaily
	case "weekly", "week":
		return RecurWeekly
	default:
		return RecurNone
	}
}

// NextDue computes the successor due date: one day or seven days past the
// base. The base is the completed task's due date when it has one, otherwise
// the completion time. ok is false for non-recurring tasks.
func (r Recurrence) NextDue(due *time.Time, now time.Time) (next time.Time, ok bool) {
	base := now
	if due != nil {
		base = *due
	}
	switch r {
	case RecurDaily:
		return base.Add(24 * time.Hour), true
	case RecurWeekly:
		return base.Add(7 * 24 * time.Hour), true
	default:
		return time.Time{}, false
	}
}
