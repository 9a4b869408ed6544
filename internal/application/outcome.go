package application

import (
	"context"
	"expvar"
	"time"

	"github.com/sirupsen/logrus"

	repo "github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

const (
	metricOrganize    = "organize_webinars"
	metricChangeSeats = "change_seats"
)

// Outcome counters, served on /debug/vars.
var (
	useCaseSucceeded = expvar.NewMap("webinar_use_case_succeeded")
	useCaseRejected  = expvar.NewMap("webinar_use_case_rejected")
	useCaseFailed    = expvar.NewMap("webinar_use_case_failed")
	publishFailed    = expvar.NewInt("webinar_event_publish_failed")
)

func succeed(name string) { useCaseSucceeded.Add(name, 1) }

// reject counts a business-rule failure and returns it unchanged.
func reject(name string, err error) error {
	useCaseRejected.Add(name, 1)
	return err
}

// fail counts an infrastructure failure and returns it unchanged.
func fail(name string, err error) error {
	useCaseFailed.Add(name, 1)
	return err
}

// publish delivers ev after the write has been committed. A lost event does
// not undo the write, so errors are only logged.
func publish(ctx context.Context, pub repo.EventPublisher, logger *logrus.Logger, ev repo.WebinarEvent) {
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pub.Publish(c, ev); err != nil {
		publishFailed.Add(1)
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"event":      ev.Type,
				"webinar_id": ev.WebinarID,
			}).Warn("publish webinar event failed")
		}
	}
}
