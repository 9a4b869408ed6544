// Package testutil holds fixtures and the shared WebinarRepository contract
// exercised by every storage adapter's tests.
package testutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

// Users seeded across tests.
var (
	Alice = entity.User{ID: "alice-id", Email: "alice@example.com"}
	Bob   = entity.User{ID: "bob-id", Email: "bob@example.com"}
)

// NewWebinar builds a webinar owned by organizerID with 100 seats.
func NewWebinar(id, organizerID string) *entity.Webinar {
	return entity.NewWebinar(entity.WebinarProps{
		ID:          id,
		OrganizerID: organizerID,
		Title:       "Webinar title",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
		Seats:       100,
	})
}

// RunWebinarRepositoryContract checks the behavior every adapter must share.
// newRepo must return an empty repository.
func RunWebinarRepositoryContract(t *testing.T, newRepo func(t *testing.T) repository.WebinarRepository) {
	t.Helper()

	t.Run("create then find returns all fields", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		w := NewWebinar("webinar-id", "organizer-id")
		if err := repo.Create(ctx, w); err != nil {
			t.Fatalf("create: %v", err)
		}
		if w.Version() != 1 {
			t.Fatalf("version after create = %d, want 1", w.Version())
		}

		got, err := repo.FindByID(ctx, "webinar-id")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got == nil {
			t.Fatal("expected webinar, got nil")
		}
		assertProps(t, got.Props(), w.Props())
	})

	t.Run("find missing returns nil without error", func(t *testing.T) {
		repo := newRepo(t)
		got, err := repo.FindByID(context.Background(), "non-existent-id")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if got != nil {
			t.Fatalf("expected nil, got %+v", got.Props())
		}
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if err := repo.Create(ctx, NewWebinar("webinar-id", "organizer-id")); err != nil {
			t.Fatalf("create: %v", err)
		}
		err := repo.Create(ctx, NewWebinar("webinar-id", "someone-else"))
		if !errors.Is(err, entity.ErrWebinarAlreadyExists) {
			t.Fatalf("expected ErrWebinarAlreadyExists, got %v", err)
		}
	})

	t.Run("update persists merged fields and keeps organizer", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		w := NewWebinar("webinar-id", "organizer-id")
		if err := repo.Create(ctx, w); err != nil {
			t.Fatalf("create: %v", err)
		}

		seats, title := 300, "Updated title"
		w.Update(entity.WebinarPatch{Seats: &seats, Title: &title})
		if err := repo.Update(ctx, w); err != nil {
			t.Fatalf("update: %v", err)
		}
		if w.Version() != 2 {
			t.Fatalf("version after update = %d, want 2", w.Version())
		}

		got, err := repo.FindByID(ctx, "webinar-id")
		if err != nil || got == nil {
			t.Fatalf("find: %v, %v", got, err)
		}
		if got.Seats() != 300 {
			t.Fatalf("seats = %d, want 300", got.Seats())
		}
		if got.Title() != "Updated title" {
			t.Fatalf("title = %q, want %q", got.Title(), "Updated title")
		}
		if got.OrganizerID() != "organizer-id" {
			t.Fatalf("organizer = %q, want organizer-id", got.OrganizerID())
		}
		if got.Version() != 2 {
			t.Fatalf("stored version = %d, want 2", got.Version())
		}
	})

	t.Run("update missing returns not found", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Update(context.Background(), NewWebinar("ghost", "organizer-id"))
		if !errors.Is(err, entity.ErrWebinarNotFound) {
			t.Fatalf("expected ErrWebinarNotFound, got %v", err)
		}
	})

	t.Run("stale update is rejected", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if err := repo.Create(ctx, NewWebinar("webinar-id", "organizer-id")); err != nil {
			t.Fatalf("create: %v", err)
		}
		first, _ := repo.FindByID(ctx, "webinar-id")
		second, _ := repo.FindByID(ctx, "webinar-id")

		s1, s2 := 200, 250
		first.Update(entity.WebinarPatch{Seats: &s1})
		if err := repo.Update(ctx, first); err != nil {
			t.Fatalf("first update: %v", err)
		}
		second.Update(entity.WebinarPatch{Seats: &s2})
		if err := repo.Update(ctx, second); !errors.Is(err, entity.ErrWebinarConcurrentUpdate) {
			t.Fatalf("expected ErrWebinarConcurrentUpdate, got %v", err)
		}

		got, _ := repo.FindByID(ctx, "webinar-id")
		if got.Seats() != 200 {
			t.Fatalf("seats = %d, want 200", got.Seats())
		}
	})

	t.Run("find is idempotent and returns snapshots", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if err := repo.Create(ctx, NewWebinar("webinar-id", "organizer-id")); err != nil {
			t.Fatalf("create: %v", err)
		}
		a, _ := repo.FindByID(ctx, "webinar-id")
		b, _ := repo.FindByID(ctx, "webinar-id")
		assertProps(t, a.Props(), b.Props())

		seats := 999
		a.Update(entity.WebinarPatch{Seats: &seats})
		c, _ := repo.FindByID(ctx, "webinar-id")
		if c.Seats() != 100 {
			t.Fatalf("unsaved mutation leaked into store: seats = %d", c.Seats())
		}
	})

	t.Run("delete removes the webinar", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		if err := repo.Create(ctx, NewWebinar("webinar-id", "organizer-id")); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := repo.Delete(ctx, "webinar-id"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		got, err := repo.FindByID(ctx, "webinar-id")
		if err != nil || got != nil {
			t.Fatalf("expected nil after delete, got %v, %v", got, err)
		}
	})
}

func assertProps(t *testing.T, got, want entity.WebinarProps) {
	t.Helper()
	if got.ID != want.ID || got.OrganizerID != want.OrganizerID || got.Title != want.Title ||
		got.Seats != want.Seats || got.Version != want.Version {
		t.Fatalf("props = %+v, want %+v", got, want)
	}
	if !got.StartDate.Equal(want.StartDate) || !got.EndDate.Equal(want.EndDate) {
		t.Fatalf("dates = %v..%v, want %v..%v", got.StartDate, got.EndDate, want.StartDate, want.EndDate)
	}
}
