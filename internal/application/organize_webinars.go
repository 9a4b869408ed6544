package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/generator"
	repo "github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

type OrganizeWebinarsCommand struct {
	UserID    string
	Title     string
	Seats     int
	StartDate time.Time
	EndDate   time.Time
}

type OrganizeWebinarsResult struct {
	ID string `json:"id"`
}

// OrganizeWebinars validates and persists a new webinar.
type OrganizeWebinars struct {
	Repo      repo.WebinarRepository
	IDs       generator.IDGenerator
	Clock     generator.DateGenerator
	Publisher repo.EventPublisher
	Logger    *logrus.Logger
}

func NewOrganizeWebinars(r repo.WebinarRepository, ids generator.IDGenerator, clock generator.DateGenerator, pub repo.EventPublisher, logger *logrus.Logger) *OrganizeWebinars {
	if pub == nil {
		pub = repo.NopPublisher{}
	}
	return &OrganizeWebinars{Repo: r, IDs: ids, Clock: clock, Publisher: pub, Logger: logger}
}

// Execute checks advance notice, then the seat bounds, before anything is written.
func (uc *OrganizeWebinars) Execute(ctx context.Context, cmd OrganizeWebinarsCommand) (OrganizeWebinarsResult, error) {
	now := uc.Clock.Now()
	if isTooSoon(now, cmd.StartDate) {
		return OrganizeWebinarsResult{}, reject(metricOrganize, entity.ErrWebinarDatesTooSoon)
	}
	if cmd.Seats > entity.MaxSeats {
		return OrganizeWebinarsResult{}, reject(metricOrganize, entity.ErrWebinarTooManySeats)
	}
	if cmd.Seats < entity.MinSeats {
		return OrganizeWebinarsResult{}, reject(metricOrganize, entity.ErrWebinarNotEnoughSeats)
	}

	w := entity.NewWebinar(entity.WebinarProps{
		ID:          uc.IDs.Generate(),
		OrganizerID: cmd.UserID,
		Title:       cmd.Title,
		StartDate:   cmd.StartDate.UTC(),
		EndDate:     cmd.EndDate.UTC(),
		Seats:       cmd.Seats,
	})
	if err := uc.Repo.Create(ctx, w); err != nil {
		return OrganizeWebinarsResult{}, fail(metricOrganize, err)
	}
	succeed(metricOrganize)

	if uc.Logger != nil {
		uc.Logger.WithFields(logrus.Fields{
			"webinar_id":   w.ID(),
			"organizer_id": w.OrganizerID(),
			"seats":        w.Seats(),
		}).Info("webinar organized")
	}
	publish(ctx, uc.Publisher, uc.Logger, repo.NewWebinarEvent(repo.EventWebinarOrganized, w, now))

	return OrganizeWebinarsResult{ID: w.ID()}, nil
}

func isTooSoon(now, start time.Time) bool {
	return start.Before(now.Add(entity.MinAdvanceNotice))
}
