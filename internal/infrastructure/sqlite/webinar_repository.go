// Package sqlite provides a single-file WebinarRepository for local runs
// without a Postgres server.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

//go:embed schema.sql
var schema string

// WebinarRepository persists webinars in SQLite. Timestamps are stored as
// UTC unix milliseconds.
type WebinarRepository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*WebinarRepository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer keeps the version check and the write in the same serial order
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &WebinarRepository{db: db}, nil
}

func (r *WebinarRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

func (r *WebinarRepository) Create(ctx context.Context, w *entity.Webinar) error {
	p := w.Props()
	if p.Version < 1 {
		p.Version = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO webinars (id, organizer_id, title, start_date, end_date, seats, version, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.OrganizerID, p.Title, toMillis(p.StartDate), toMillis(p.EndDate), p.Seats, p.Version,
		toMillis(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrWebinarAlreadyExists
		}
		return fmt.Errorf("insert webinar: %w", err)
	}
	w.SetVersion(p.Version)
	return nil
}

func (r *WebinarRepository) FindByID(ctx context.Context, id string) (*entity.Webinar, error) {
	var (
		p          entity.WebinarProps
		start, end int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, organizer_id, title, start_date, end_date, seats, version
		  FROM webinars
		 WHERE id = ?`, id,
	).Scan(&p.ID, &p.OrganizerID, &p.Title, &start, &end, &p.Seats, &p.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select webinar: %w", err)
	}
	p.StartDate = fromMillis(start)
	p.EndDate = fromMillis(end)
	return entity.NewWebinar(p), nil
}

func (r *WebinarRepository) Update(ctx context.Context, w *entity.Webinar) error {
	p := w.Props()
	res, err := r.db.ExecContext(ctx, `
		UPDATE webinars
		   SET title = ?, start_date = ?, end_date = ?, seats = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		p.Title, toMillis(p.StartDate), toMillis(p.EndDate), p.Seats, toMillis(time.Now()), p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("update webinar: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update webinar: %w", err)
	}
	if n == 1 {
		w.SetVersion(p.Version + 1)
		return nil
	}

	var exists int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM webinars WHERE id = ?`, p.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check webinar: %w", err)
	}
	if exists == 0 {
		return entity.ErrWebinarNotFound
	}
	return entity.ErrWebinarConcurrentUpdate
}

func (r *WebinarRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM webinars WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete webinar: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ repository.WebinarRepository = (*WebinarRepository)(nil)
