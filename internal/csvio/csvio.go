// Package csvio moves tasks in and out of CSV files. The column order is
// fixed and shared by export and import: id, task, category, completed,
// duedate, subtasks, started_at, completed_at, priority, tags, recurring,
// pomodoros, last_pomodoro_at.
package csvio

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"pomodoro/internal/storage"
)

var header = []string{
	"id", "task", "category", "completed", "duedate", "subtasks",
	"started_at", "completed_at", "priority", "tags", "recurring",
	"pomodoros", "last_pomodoro_at",
}

const numColumns = 13

// Export writes all tasks to w, one row per task, header first.
func Export(ctx context.Context, db *sql.DB, w io.Writer) error {
	tasks, err := storage.NewTaskRepo(db).ListAll(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Category,
			formatBool(t.Completed),
			formatTime(t.DueDate),
			t.Subtasks,
			formatTime(t.StartedAt),
			formatTime(t.CompletedAt),
			t.Priority,
			t.Tags,
			t.Recurring,
			strconv.Itoa(t.Pomodoros),
			formatTime(t.LastPomodoroAt),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
}

// Import reads tasks from r and upserts them by id: a row whose id matches
// an existing task replaces it, never duplicates it. Missing trailing
// columns fall back to defaults; a malformed row is skipped on its own
// without aborting the batch. The whole batch commits in one transaction.
func Import(ctx context.Context, db *sql.DB, r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // rows may omit trailing columns

	var res Result
	err := storage.WithTx(ctx, db, func(tx *sql.Tx) error {
		first := true
		for {
			rec, err := cr.Read()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				// A syntactically broken record is skipped on its own.
				res.Skipped++
				continue
			}
			if first {
				first = false
				if isHeader(rec) {
					continue
				}
			}
			task, ok := parseRow(rec)
			if !ok {
				res.Skipped++
				continue
			}
			if err := storage.Upsert(ctx, tx, task); err != nil {
				res.Skipped++
				continue
			}
			res.Imported++
		}
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

func parseRow(rec []string) (storage.Task, bool) {
	if len(rec) == 0 {
		return storage.Task{}, false
	}
	// Pad missing trailing columns; they read as null/default.
	row := make([]string, numColumns)
	copy(row, rec)

	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil || id <= 0 {
		return storage.Task{}, false
	}

	pomodoros := 0
	if row[11] != "" {
		n, err := strconv.Atoi(row[11])
		if err != nil || n < 0 {
			return storage.Task{}, false
		}
		pomodoros = n
	}

	t := storage.Task{
		ID:        id,
		Title:     row[1],
		Category:  row[2],
		Completed: row[3] == "1" || row[3] == "true",
		Subtasks:  row[5],
		Priority:  row[8],
		Tags:      row[9],
		Recurring: row[10],
		Pomodoros: pomodoros,
	}
	if t.Title == "" {
		return storage.Task{}, false
	}
	if t.Priority == "" {
		t.Priority = "Medium"
	}
	if t.Recurring == "" {
		t.Recurring = "None"
	}

	var ok bool
	if t.DueDate, ok = parseTime(row[4]); !ok {
		return storage.Task{}, false
	}
	if t.StartedAt, ok = parseTime(row[6]); !ok {
		return storage.Task{}, false
	}
	if t.CompletedAt, ok = parseTime(row[7]); !ok {
		return storage.Task{}, false
	}
	if t.LastPomodoroAt, ok = parseTime(row[12]); !ok {
		return storage.Task{}, false
	}
	return t, true
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && rec[0] == "id"
}

func formatBool(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func parseTime(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, true
		}
	}
	return nil, false
}
