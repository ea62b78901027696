package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

type TaskInsert struct {
	Title     string
	Category  string
	DueDate   *time.Time
	Subtasks  string
	StartedAt time.Time
	Priority  string
	Tags      string
	Recurring string
}

const taskColumns = `id, task, category, completed, duedate, subtasks,
	started_at, completed_at, priority, tags, recurring, pomodoros, last_pomodoro_at`

func (r *TaskRepo) Insert(ctx context.Context, in TaskInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (task, category, completed, duedate, subtasks, started_at,
			completed_at, priority, tags, recurring, pomodoros, last_pomodoro_at)
		VALUES (?, ?, 0, ?, ?, ?, NULL, ?, ?, ?, 0, NULL)
	`, in.Title, in.Category, in.DueDate, in.Subtasks, in.StartedAt, in.Priority, in.Tags, in.Recurring)
	if err != nil {
		return 0, fmt.Errorf("task insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task last insert id: %w", err)
	}
	return id, nil
}

func (r *TaskRepo) Get(ctx context.Context, id int64) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = ?
	`, id)
	return scanTaskRow(row)
}

// ListAll returns pending tasks first, newest-created first inside each group.
func (r *TaskRepo) ListAll(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		ORDER BY completed ASC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

// Search matches the query case-insensitively against title and tags.
func (r *TaskRepo) Search(ctx context.Context, query string) ([]Task, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE task LIKE ? OR tags LIKE ?
		ORDER BY completed ASC, id DESC
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("task search: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task search rows: %w", err)
	}
	return out, nil
}

func (r *TaskRepo) MarkDone(ctx context.Context, id int64, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET completed = 1, completed_at = ? WHERE id = ?
	`, completedAt, id)
	if err != nil {
		return fmt.Errorf("task mark done: %w", err)
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return nil
}

// IncrementPomodoro bumps the pomodoro count and stamps last_pomodoro_at.
// A non-positive or unknown id is a silent no-op: the attached task may have
// been deleted between attachment and the focus phase ending.
func (r *TaskRepo) IncrementPomodoro(ctx context.Context, id int64, at time.Time) error {
	if id <= 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET pomodoros = IFNULL(pomodoros, 0) + 1, last_pomodoro_at = ?
		WHERE id = ?
	`, at, id)
	if err != nil {
		return fmt.Errorf("task increment pomodoro: %w", err)
	}
	return nil
}

// Upsert writes a full task row keyed by its id, replacing any existing row.
// Used by CSV import; runs against the given tx so a batch commits atomically.
func Upsert(ctx context.Context, tx *sql.Tx, t Task) error {
	_, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO tasks
			(id, task, category, completed, duedate, subtasks, started_at,
			 completed_at, priority, tags, recurring, pomodoros, last_pomodoro_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Category, boolToInt(t.Completed), t.DueDate, t.Subtasks,
		t.StartedAt, t.CompletedAt, t.Priority, t.Tags, t.Recurring, t.Pomodoros, t.LastPomodoroAt)
	if err != nil {
		return fmt.Errorf("task upsert: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		id          int64
		title       string
		category    sql.NullString
		completed   int
		dueDate     sql.NullTime
		subtasks    sql.NullString
		startedAt   sql.NullTime
		completedAt sql.NullTime
		priority    sql.NullString
		tags        sql.NullString
		recurring   sql.NullString
		pomodoros   sql.NullInt64
		lastPomo    sql.NullTime
	)

	if err := row.Scan(
		&id, &title, &category, &completed, &dueDate, &subtasks,
		&startedAt, &completedAt, &priority, &tags, &recurring, &pomodoros, &lastPomo,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	t := Task{
		ID:        id,
		Title:     title,
		Category:  category.String,
		Completed: completed != 0,
		Subtasks:  subtasks.String,
		Priority:  priority.String,
		Tags:      tags.String,
		Recurring: recurring.String,
		Pomodoros: int(pomodoros.Int64),
	}
	if t.Priority == "" {
		t.Priority = "Medium"
	}
	if t.Recurring == "" {
		t.Recurring = "None"
	}
	if dueDate.Valid {
		v := dueDate.Time
		t.DueDate = &v
	}
	if startedAt.Valid {
		v := startedAt.Time
		t.StartedAt = &v
	}
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	if lastPomo.Valid {
		v := lastPomo.Time
		t.LastPomodoroAt = &v
	}
	return &t, nil
}
