package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

type WebinarRepository struct {
	pool *pgxpool.Pool
}

func NewWebinarRepository(pool *pgxpool.Pool) *WebinarRepository {
	return &WebinarRepository{pool: pool}
}

func (r *WebinarRepository) Create(ctx context.Context, w *entity.Webinar) error {
	p := w.Props()
	if p.Version < 1 {
		p.Version = 1
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO webinars (id, organizer_id, title, start_date, end_date, seats, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, p.ID, p.OrganizerID, p.Title, p.StartDate.UTC(), p.EndDate.UTC(), p.Seats, p.Version)
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
	var p entity.WebinarProps
	row := r.pool.QueryRow(ctx, `
		SELECT id, organizer_id, title, start_date, end_date, seats, version
		FROM webinars
		WHERE id = $1
	`, id)
	if err := row.Scan(&p.ID, &p.OrganizerID, &p.Title, &p.StartDate, &p.EndDate, &p.Seats, &p.Version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select webinar: %w", err)
	}
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	return entity.NewWebinar(p), nil
}

// Update writes the full mutable state if the stored version still matches.
func (r *WebinarRepository) Update(ctx context.Context, w *entity.Webinar) error {
	p := w.Props()
	var next int
	err := r.pool.QueryRow(ctx, `
		UPDATE webinars
		SET title = $1, start_date = $2, end_date = $3, seats = $4,
		    version = version + 1, updated_at = now()
		WHERE id = $5 AND version = $6
		RETURNING version
	`, p.Title, p.StartDate.UTC(), p.EndDate.UTC(), p.Seats, p.ID, p.Version).Scan(&next)
	if err == nil {
		w.SetVersion(next)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update webinar: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM webinars WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check webinar: %w", err)
	}
	if !exists {
		return entity.ErrWebinarNotFound
	}
	return entity.ErrWebinarConcurrentUpdate
}

func (r *WebinarRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM webinars WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete webinar: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ repository.WebinarRepository = (*WebinarRepository)(nil)
