package storage

import "time"

type Task struct {
	ID             int64
	Title          string
	Category       string
	Completed      bool
	DueDate        *time.Time
	Subtasks       string
	StartedAt      *time.Time
	CompletedAt    *time.Time
	Priority       string
	Tags           string
	Recurring      string
	Pomodoros      int
	LastPomodoroAt *time.Time
}
