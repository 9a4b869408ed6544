package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
)

const (
	EventWebinarOrganized    = "webinar.organized"
	EventWebinarSeatsChanged = "webinar.seats_changed"
)

// WebinarEvent is the message emitted after a webinar write is persisted.
type WebinarEvent struct {
	Type        string    `json:"type"`
	WebinarID   string    `json:"webinar_id"`
	OrganizerID string    `json:"organizer_id"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Seats       int       `json:"seats"`
	Version     int       `json:"version"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// NewWebinarEvent snapshots w into an event of the given type.
func NewWebinarEvent(typ string, w *entity.Webinar, at time.Time) WebinarEvent {
	p := w.Props()
	return WebinarEvent{
		Type:        typ,
		WebinarID:   p.ID,
		OrganizerID: p.OrganizerID,
		Title:       p.Title,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Seats:       p.Seats,
		Version:     p.Version,
		OccurredAt:  at,
	}
}

// EventPublisher delivers webinar events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, ev WebinarEvent) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, WebinarEvent) error { return nil }
