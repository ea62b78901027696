package root

import (
	"context"
	"database/sql"

	"pomodoro/internal/engine"
	"pomodoro/internal/storage"
	"pomodoro/internal/studytime"
)

func openDB(ctx context.Context) (*sql.DB, string, func(), error) {
	path, err := storage.ResolveDBPath()
	if err != nil {
		return nil, "", nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, "", nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, path, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, string, func(), error) {
	db, path, cleanup, err := openDB(ctx)
	if err != nil {
		return nil, "", nil, err
	}
	studyPath, err := studytime.ResolvePath()
	if err != nil {
		cleanup()
		return nil, "", nil, err
	}
	return engine.NewService(db, studytime.NewStore(studyPath)), path, cleanup, nil
}
