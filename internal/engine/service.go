package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pomodoro/internal/storage"
	"pomodoro/internal/studytime"
)

// Service bundles the task store and the study-time counter behind the
// operations the presentation layer calls.
type Service struct {
	db    *sql.DB
	tasks *storage.TaskRepo
	study *studytime.Store
	now   func() time.Time
}

func NewService(db *sql.DB, study *studytime.Store) *Service {
	return &Service{
		db:    db,
		tasks: storage.NewTaskRepo(db),
		study: study,
		now:   time.Now,
	}
}

func (s *Service) DB() *sql.DB                 { return s.db }
func (s *Service) TaskRepo() *storage.TaskRepo { return s.tasks }
func (s *Service) StudyStore() *studytime.Store {
	return s.study
}

// StudyTotal returns the formatted all-time focus total.
func (s *Service) StudyTotal() string {
	return studytime.Format(s.study.Load())
}

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", errors.New("title is required")
	}
	return t, nil
}

type AddTaskInput struct {
	Title     string
	Category  string
	DueDate   *time.Time
	Subtasks  string
	Priority  string
	Tags      string
	Recurring string
}

func (s *Service) AddTask(ctx context.Context, in AddTaskInput) (int64, error) {
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return 0, err
	}
	return s.tasks.Insert(ctx, storage.TaskInsert{
		Title:     title,
		Category:  in.Category,
		DueDate:   in.DueDate,
		Subtasks:  in.Subtasks,
		StartedAt: s.now(),
		Priority:  string(ParsePriority(in.Priority)),
		Tags:      in.Tags,
		Recurring: string(ParseRecurrence(in.Recurring)),
	})
}

// Tasks returns all tasks, pending first, newest first inside each group.
func (s *Service) Tasks(ctx context.Context) ([]storage.Task, error) {
	return s.tasks.ListAll(ctx)
}

func (s *Service) SearchTasks(ctx context.Context, query string) ([]storage.Task, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.tasks.ListAll(ctx)
	}
	return s.tasks.Search(ctx, query)
}

type CompleteResult struct {
	TaskID int64
	// SpawnedID is the successor created for a recurring task, 0 otherwise.
	SpawnedID int64
	// SpawnErr reports a failed successor insert. Completion itself still
	// succeeded; callers show this as a warning.
	SpawnErr error
}

// CompleteTask marks the task done, stamping completed_at exactly once, then
// spawns the next occurrence if the task recurs. The completed row keeps its
// due date; only the clone moves forward. A failed expansion never fails the
// completion, it comes back in CompleteResult.SpawnErr instead.
func (s *Service) CompleteTask(ctx context.Context, id int64) (*CompleteResult, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %d not found", id)
	}
	if task.Completed {
		return nil, fmt.Errorf("task %d is already done", id)
	}

	now := s.now()
	if err := s.tasks.MarkDone(ctx, id, now); err != nil {
		return nil, err
	}

	res := &CompleteResult{TaskID: id}
	spawned, err := s.expandRecurrence(ctx, task, now)
	if err != nil {
		res.SpawnErr = fmt.Errorf("spawn next occurrence of task %d: %w", id, err)
	} else {
		res.SpawnedID = spawned
	}
	return res, nil
}

// expandRecurrence clones a recurring task into a fresh pending occurrence
// with the advanced due date. Completion/pomodoro fields start from zero.
func (s *Service) expandRecurrence(ctx context.Context, task *storage.Task, now time.Time) (int64, error) {
	rec := ParseRecurrence(task.Recurring)
	next, ok := rec.NextDue(task.DueDate, now)
	if !ok {
		return 0, nil
	}
	return s.tasks.Insert(ctx, storage.TaskInsert{
		Title:     task.Title,
		Category:  task.Category,
		DueDate:   &next,
		Subtasks:  task.Subtasks,
		StartedAt: now,
		Priority:  task.Priority,
		Tags:      task.Tags,
		Recurring: string(rec),
	})
}

func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	return s.tasks.Delete(ctx, id)
}
