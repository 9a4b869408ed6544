package entity

import (
	"testing"
	"time"
)

func newTestWebinar() *Webinar {
	return NewWebinar(WebinarProps{
		ID:          "webinar-id",
		OrganizerID: "organizer-id",
		Title:       "Webinar title",
		StartDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
		Seats:       100,
		Version:     1,
	})
}

func TestWebinarUpdateMergesOnlySetFields(t *testing.T) {
	w := newTestWebinar()
	before := w.Props()

	seats := 200
	w.Update(WebinarPatch{Seats: &seats})

	after := w.Props()
	if after.Seats != 200 {
		t.Fatalf("seats = %d, want 200", after.Seats)
	}
	after.Seats = before.Seats
	if after != before {
		t.Fatalf("unexpected changes: got %+v, want %+v", after, before)
	}
}

func TestWebinarUpdateAllMutableFields(t *testing.T) {
	w := newTestWebinar()
	title := "New title"
	start := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	seats := 500

	w.Update(WebinarPatch{Title: &title, StartDate: &start, EndDate: &end, Seats: &seats})

	if w.Title() != title || !w.StartDate().Equal(start) || !w.EndDate().Equal(end) || w.Seats() != seats {
		t.Fatalf("update not applied: %+v", w.Props())
	}
	if w.ID() != "webinar-id" || w.OrganizerID() != "organizer-id" {
		t.Fatalf("identity changed: %+v", w.Props())
	}
}

func TestWebinarPropsIsACopy(t *testing.T) {
	w := newTestWebinar()
	p := w.Props()
	p.Seats = 1
	if w.Seats() != 100 {
		t.Fatalf("mutating the snapshot changed the entity")
	}
}

func TestWebinarCloneIsIndependent(t *testing.T) {
	w := newTestWebinar()
	c := w.Clone()
	seats := 300
	c.Update(WebinarPatch{Seats: &seats})
	if w.Seats() != 100 {
		t.Fatalf("clone shares state with original")
	}
	var nilWebinar *Webinar
	if nilWebinar.Clone() != nil {
		t.Fatalf("clone of nil should be nil")
	}
}

func TestWebinarIsOrganizer(t *testing.T) {
	w := newTestWebinar()
	if !w.IsOrganizer(User{ID: "organizer-id"}) {
		t.Fatalf("expected organizer match")
	}
	if w.IsOrganizer(User{ID: "someone-else"}) {
		t.Fatalf("expected mismatch")
	}
}
