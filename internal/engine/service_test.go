package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"pomodoro/internal/storage"
	"pomodoro/internal/studytime"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	db, err := storage.Open(ctx, filepath.Join(dir, "tasks.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	study := studytime.NewStore(filepath.Join(dir, "study_time.json"))
	return NewService(db, study)
}

func TestAddTaskDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddTask(ctx, AddTaskInput{Title: "  Read chapter 4  ", Category: "Study"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	task, err := svc.TaskRepo().Get(ctx, id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if task.Title != "Read chapter 4" {
		t.Fatalf("title = %q, want trimmed", task.Title)
	}
	if task.Priority != string(PriorityMedium) {
		t.Fatalf("priority = %q, want Medium", task.Priority)
	}
	if task.Recurring != string(RecurNone) {
		t.Fatalf("recurring = %q, want None", task.Recurring)
	}
	if task.Completed || task.CompletedAt != nil {
		t.Fatalf("new task should be pending")
	}
	if task.StartedAt == nil {
		t.Fatalf("started_at should be set on creation")
	}
	if task.Pomodoros != 0 {
		t.Fatalf("pomodoros = %d, want 0", task.Pomodoros)
	}
}

func TestAddTaskRequiresTitle(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.AddTask(context.Background(), AddTaskInput{Title: "   "}); err == nil {
		t.Fatalf("expected error for blank title")
	}
}

func TestListOrdering(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, _ := svc.AddTask(ctx, AddTaskInput{Title: "first"})
	b, _ := svc.AddTask(ctx, AddTaskInput{Title: "second"})
	c, _ := svc.AddTask(ctx, AddTaskInput{Title: "third"})

	if _, err := svc.CompleteTask(ctx, b); err != nil {
		t.Fatalf("complete: %v", err)
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	// Pending first (newest first), then completed.
	wantOrder := []int64{c, a, b}
	if len(tasks) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(tasks))
	}
	for i, want := range wantOrder {
		if tasks[i].ID != want {
			t.Fatalf("tasks[%d].ID = %d, want %d", i, tasks[i].ID, want)
		}
	}
}

func TestCompleteTaskStampsOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.AddTask(ctx, AddTaskInput{Title: "one-shot"})
	if _, err := svc.CompleteTask(ctx, id); err != nil {
		t.Fatalf("complete: %v", err)
	}
	task, _ := svc.TaskRepo().Get(ctx, id)
	if !task.Completed || task.CompletedAt == nil {
		t.Fatalf("task not completed: %+v", task)
	}

	if _, err := svc.CompleteTask(ctx, id); err == nil {
		t.Fatalf("expected error completing an already-done task")
	}
	if _, err := svc.CompleteTask(ctx, 9999); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}

func TestDailyRecurrenceExpansion(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	due := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	id, err := svc.AddTask(ctx, AddTaskInput{
		Title:     "Morning review",
		Category:  "Work",
		DueDate:   &due,
		Priority:  "High",
		Tags:      "routine,am",
		Recurring: "Daily",
	})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	res, err := svc.CompleteTask(ctx, id)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.SpawnedID == 0 {
		t.Fatalf("expected a spawned successor")
	}

	orig, _ := svc.TaskRepo().Get(ctx, id)
	if !orig.Completed {
		t.Fatalf("original should stay completed")
	}
	if orig.DueDate == nil || !orig.DueDate.Equal(due) {
		t.Fatalf("original due date changed: %v", orig.DueDate)
	}

	clone, _ := svc.TaskRepo().Get(ctx, res.SpawnedID)
	wantDue := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	if clone.DueDate == nil || !clone.DueDate.Equal(wantDue) {
		t.Fatalf("clone due = %v, want %v", clone.DueDate, wantDue)
	}
	if clone.Title != orig.Title || clone.Category != orig.Category ||
		clone.Priority != orig.Priority || clone.Tags != orig.Tags ||
		clone.Recurring != orig.Recurring {
		t.Fatalf("clone fields differ from original: %+v", clone)
	}
	if clone.Completed || clone.Pomodoros != 0 || clone.CompletedAt != nil {
		t.Fatalf("clone should start fresh: %+v", clone)
	}
}

func TestWeeklyRecurrenceWithoutDueDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	id, _ := svc.AddTask(ctx, AddTaskInput{Title: "Weekly report", Recurring: "Weekly"})
	res, err := svc.CompleteTask(ctx, id)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	clone, _ := svc.TaskRepo().Get(ctx, res.SpawnedID)
	want := now.Add(7 * 24 * time.Hour)
	if clone.DueDate == nil || !clone.DueDate.Equal(want) {
		t.Fatalf("clone due = %v, want %v (completion time + 7d)", clone.DueDate, want)
	}
}

func TestNonRecurringTaskSpawnsNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.AddTask(ctx, AddTaskInput{Title: "once"})
	res, err := svc.CompleteTask(ctx, id)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.SpawnedID != 0 {
		t.Fatalf("unexpected successor %d", res.SpawnedID)
	}
	tasks, _ := svc.Tasks(ctx)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
}

func TestFailedExpansionReportedNotFatal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.AddTask(ctx, AddTaskInput{Title: "daily standup", Recurring: "Daily"})
	if err != nil {
		t.Fatalf("AddTask: %v", err)
	}

	// Block the successor insert without touching the completion update.
	_, err = svc.DB().ExecContext(ctx, `
		CREATE TRIGGER block_clones BEFORE INSERT ON tasks
		BEGIN SELECT RAISE(ABORT, 'clones blocked'); END;`)
	if err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	res, err := svc.CompleteTask(ctx, id)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if res.SpawnErr == nil {
		t.Fatalf("SpawnErr not set for failed successor insert")
	}
	if res.SpawnedID != 0 {
		t.Fatalf("SpawnedID = %d, want 0", res.SpawnedID)
	}

	task, err := svc.TaskRepo().Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !task.Completed || task.CompletedAt == nil {
		t.Fatalf("completion must stick even when the successor fails: %+v", task)
	}
	tasks, _ := svc.Tasks(ctx)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1 (no partial clone)", len(tasks))
	}
}

func TestIncrementPomodoro(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.AddTask(ctx, AddTaskInput{Title: "focus target"})
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := svc.TaskRepo().IncrementPomodoro(ctx, id, at); err != nil {
		t.Fatalf("IncrementPomodoro: %v", err)
	}
	if err := svc.TaskRepo().IncrementPomodoro(ctx, id, at.Add(30*time.Minute)); err != nil {
		t.Fatalf("IncrementPomodoro: %v", err)
	}

	task, _ := svc.TaskRepo().Get(ctx, id)
	if task.Pomodoros != 2 {
		t.Fatalf("pomodoros = %d, want 2", task.Pomodoros)
	}
	if task.LastPomodoroAt == nil {
		t.Fatalf("last_pomodoro_at not stamped")
	}

	// Missing and zero ids are silent no-ops.
	if err := svc.TaskRepo().IncrementPomodoro(ctx, 9999, at); err != nil {
		t.Fatalf("increment on missing id: %v", err)
	}
	if err := svc.TaskRepo().IncrementPomodoro(ctx, 0, at); err != nil {
		t.Fatalf("increment on zero id: %v", err)
	}
}

func TestSearchTasks(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	svc.AddTask(ctx, AddTaskInput{Title: "Write essay", Tags: "school"})
	svc.AddTask(ctx, AddTaskInput{Title: "Buy groceries", Tags: "errand"})

	hits, err := svc.SearchTasks(ctx, "essay")
	if err != nil {
		t.Fatalf("SearchTasks: %v", err)
	}
	if len(hits) != 1 || hits[0].Title != "Write essay" {
		t.Fatalf("search hits = %+v", hits)
	}

	byTag, err := svc.SearchTasks(ctx, "errand")
	if err != nil {
		t.Fatalf("SearchTasks: %v", err)
	}
	if len(byTag) != 1 || byTag[0].Title != "Buy groceries" {
		t.Fatalf("tag search hits = %+v", byTag)
	}

	all, err := svc.SearchTasks(ctx, "  ")
	if err != nil {
		t.Fatalf("SearchTasks: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("blank query should list everything, got %d", len(all))
	}
}

func TestDeleteTask(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.AddTask(ctx, AddTaskInput{Title: "ephemeral"})
	if err := svc.DeleteTask(ctx, id); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	task, err := svc.TaskRepo().Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if task != nil {
		t.Fatalf("task still present after delete")
	}
}

func TestEngineAgainstRealStore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id, _ := svc.AddTask(ctx, AddTaskInput{Title: "deep work"})

	clock := newFakeClock()
	cfg := Config{FocusSeconds: 2, ShortBreakSeconds: 1, LongBreakSeconds: 1, LongBreakEvery: 4}
	p := NewPomodoro(cfg, svc.TaskRepo(), svc.StudyStore(), nil)
	p.now = clock.Now

	p.AttachTask(id)
	p.Start()
	ticks(p, clock, 3) // finish one focus phase

	task, _ := svc.TaskRepo().Get(ctx, id)
	if task.Pomodoros != 1 {
		t.Fatalf("pomodoros = %d, want 1", task.Pomodoros)
	}
	if got := svc.StudyStore().Load(); got != 3 {
		t.Fatalf("study total = %d, want 3", got)
	}

	// Deleting the attached task turns later increments into no-ops.
	if err := svc.DeleteTask(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ticks(p, clock, 2) // break ends
	ticks(p, clock, 3) // second focus phase ends
	if err := p.LastError(); err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
}
