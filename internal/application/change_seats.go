package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/generator"
	repo "github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

type ChangeSeatsCommand struct {
	User      entity.User
	WebinarID string
	Seats     int
}

// ChangeSeats raises the seat count of a webinar on behalf of its organizer.
type ChangeSeats struct {
	Repo      repo.WebinarRepository
	Clock     generator.DateGenerator
	Publisher repo.EventPublisher
	Logger    *logrus.Logger
}

func NewChangeSeats(r repo.WebinarRepository, clock generator.DateGenerator, pub repo.EventPublisher, logger *logrus.Logger) *ChangeSeats {
	if pub == nil {
		pub = repo.NopPublisher{}
	}
	return &ChangeSeats{Repo: r, Clock: clock, Publisher: pub, Logger: logger}
}

// Execute checks existence, ownership, monotonicity and the upper bound, in
// that order, and only then writes.
func (uc *ChangeSeats) Execute(ctx context.Context, cmd ChangeSeatsCommand) error {
	w, err := uc.Repo.FindByID(ctx, cmd.WebinarID)
	if err != nil {
		return fail(metricChangeSeats, err)
	}
	if w == nil {
		return reject(metricChangeSeats, entity.ErrWebinarNotFound)
	}
	if !w.IsOrganizer(cmd.User) {
		return reject(metricChangeSeats, entity.ErrWebinarNotOrganizer)
	}
	if cmd.Seats < w.Seats() {
		return reject(metricChangeSeats, entity.ErrWebinarReduceSeats)
	}
	if cmd.Seats > entity.MaxSeats {
		return reject(metricChangeSeats, entity.ErrWebinarTooManySeats)
	}
	// Unreachable while seats only grow from a valid state; kept in case the
	// reduction rule is relaxed.
	if cmd.Seats < entity.MinSeats {
		return reject(metricChangeSeats, entity.ErrWebinarNotEnoughSeats)
	}

	seats := cmd.Seats
	w.Update(entity.WebinarPatch{Seats: &seats})
	if err := uc.Repo.Update(ctx, w); err != nil {
		return fail(metricChangeSeats, err)
	}
	succeed(metricChangeSeats)

	if uc.Logger != nil {
		uc.Logger.WithFields(logrus.Fields{
			"webinar_id": w.ID(),
			"seats":      w.Seats(),
			"version":    w.Version(),
		}).Info("webinar seats changed")
	}
	publish(ctx, uc.Publisher, uc.Logger, repo.NewWebinarEvent(repo.EventWebinarSeatsChanged, w, uc.Clock.Now()))
	return nil
}
