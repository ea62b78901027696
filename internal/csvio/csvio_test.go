package csvio

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pomodoro/internal/storage"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestExportImportRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := storage.NewTaskRepo(db)

	due := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	started := time.Date(2024, 5, 20, 8, 30, 0, 0, time.UTC)
	id, err := repo.Insert(ctx, storage.TaskInsert{
		Title:     "Prepare slides",
		Category:  "Work",
		DueDate:   &due,
		Subtasks:  "outline,draft",
		StartedAt: started,
		Priority:  "High",
		Tags:      "talk",
		Recurring: "None",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	var buf bytes.Buffer
	if err := Export(ctx, db, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "id,task,category,completed,") {
		t.Fatalf("missing header: %q", buf.String())
	}

	// Import into a fresh database.
	db2 := newTestDB(t)
	res, err := Import(ctx, db2, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 0 {
		t.Fatalf("result = %+v, want 1 imported", res)
	}

	got, err := storage.NewTaskRepo(db2).Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("imported task missing")
	}
	if got.Title != "Prepare slides" || got.Category != "Work" ||
		got.Priority != "High" || got.Tags != "talk" || got.Subtasks != "outline,draft" {
		t.Fatalf("imported task fields: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("imported due = %v, want %v", got.DueDate, due)
	}
}

func TestImportUpsertsById(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := storage.NewTaskRepo(db)

	id, err := repo.Insert(ctx, storage.TaskInsert{
		Title:     "Old title",
		StartedAt: time.Now(),
		Priority:  "Medium",
		Recurring: "None",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	csvData := "id,task,category,completed,duedate,subtasks,started_at,completed_at,priority,tags,recurring,pomodoros,last_pomodoro_at\n" +
		"1,New title,Study,0,,,,,Low,,None,3,\n"
	res, err := Import(ctx, db, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("result = %+v", res)
	}

	tasks, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1 (replace, not duplicate)", len(tasks))
	}
	got := tasks[0]
	if got.ID != id || got.Title != "New title" || got.Priority != "Low" || got.Pomodoros != 3 {
		t.Fatalf("upserted task: %+v", got)
	}
}

func TestImportSkipsMalformedRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	csvData := strings.Join([]string{
		"id,task,category,completed,duedate,subtasks,started_at,completed_at,priority,tags,recurring,pomodoros,last_pomodoro_at",
		"not-a-number,Bad id,,0,,,,,,,,,",
		"2,Good row,Study,0,,,,,High,,Daily,0,",
		"3,,empty title means malformed,0,,,,,,,,,",
		"4,Bad due date,,0,garbage,,,,,,,,",
		"5,Bad pomodoro count,,0,,,,,,,,-1,",
	}, "\n")

	res, err := Import(ctx, db, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 || res.Skipped != 4 {
		t.Fatalf("result = %+v, want 1 imported / 4 skipped", res)
	}

	tasks, err := storage.NewTaskRepo(db).ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}
	if tasks[0].Title != "Good row" {
		t.Fatalf("surviving task = %+v", tasks[0])
	}
}

func TestImportMissingTrailingColumnsDefault(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	// Only the first six columns present.
	csvData := "7,Sparse task,Personal,0,,milk\n"
	res, err := Import(ctx, db, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if res.Imported != 1 {
		t.Fatalf("result = %+v", res)
	}

	got, err := storage.NewTaskRepo(db).Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatalf("sparse task missing")
	}
	if got.Priority != "Medium" || got.Recurring != "None" || got.Pomodoros != 0 {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if got.Subtasks != "milk" {
		t.Fatalf("subtasks = %q", got.Subtasks)
	}
}
