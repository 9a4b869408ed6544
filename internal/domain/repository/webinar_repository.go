package repository

import (
	"context"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
)

// WebinarRepository defines the persistence contract for webinars.
//
// FindByID returns (nil, nil) when the webinar does not exist. Update is a
// compare-and-set on the entity's Version: it fails with
// entity.ErrWebinarConcurrentUpdate when the stored revision moved, and bumps
// the entity's Version on success.
type WebinarRepository interface {
	Create(ctx context.Context, w *entity.Webinar) error
	FindByID(ctx context.Context, id string) (*entity.Webinar, error)
	Update(ctx context.Context, w *entity.Webinar) error
	Delete(ctx context.Context, id string) error
}
