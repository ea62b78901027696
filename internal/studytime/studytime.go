// Package studytime keeps the durable count of total focused seconds across
// all sessions. The value lives in a small JSON file so it survives restarts
// independently of the task database.
package studytime

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EnvStudyFile overrides the default counter location when set.
const EnvStudyFile = "POMODORO_STUDY_FILE"

// Store reads and writes the accumulated study time at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns the default counter location (~/.pomodoro/study_time.json).
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".pomodoro", "study_time.json"), nil
}

// ResolvePath picks the counter path from the environment or the default,
// creating the parent directory if needed.
func ResolvePath() (string, error) {
	path := os.Getenv(EnvStudyFile)
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create study dir: %w", err)
	}
	return path, nil
}

type record struct {
	TotalSeconds *int64 `json:"total_seconds,omitempty"`
	TotalMinutes *int64 `json:"total_minutes,omitempty"`
}

// Load returns the accumulated study time in seconds. A file still holding
// the legacy minutes key is converted to seconds and written back once, so
// later loads only see the new form; if both keys are present the seconds
// key wins. A missing, corrupt, or unreadable file reads as 0.
func (s *Store) Load() int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return 0
	}
	if rec.TotalSeconds != nil {
		return clamp(*rec.TotalSeconds)
	}
	if rec.TotalMinutes != nil {
		secs := clamp(*rec.TotalMinutes) * 60
		_ = s.Save(secs)
		return secs
	}
	return 0
}

// Save persists the total, clamped to be non-negative.
func (s *Store) Save(seconds int) error {
	n := int64(clamp(int64(seconds)))
	data, err := json.Marshal(record{TotalSeconds: &n})
	if err != nil {
		return fmt.Errorf("marshal study time: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write study time: %w", err)
	}
	return nil
}

// Add flushes seconds into the counter and returns the new total.
func (s *Store) Add(seconds int) (int, error) {
	total := s.Load() + seconds
	if err := s.Save(total); err != nil {
		return 0, err
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}

func clamp(n int64) int {
	if n < 0 {
		return 0
	}
	return int(n)
}

// Format renders a study-time total for display with fixed breakpoints.
// Years use a flat 365-day approximation; leap days are not adjusted for.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
	case seconds < 86400:
		return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
	case seconds < 31536000:
		return fmt.Sprintf("%dd %dh", seconds/86400, (seconds%86400)/3600)
	default:
		return fmt.Sprintf("%dy %dd", seconds/31536000, (seconds%31536000)/86400)
	}
}
