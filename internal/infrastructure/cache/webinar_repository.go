// Package cache wraps a WebinarRepository with a Redis read-through cache.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-webinar-scheduler/pkg/helpers"
)

type cachedWebinar struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizer_id"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Seats       int       `json:"seats"`
	Version     int       `json:"version"`
}

func webinarKey(id string) string {
	return "webinar:" + id
}

// WebinarRepository serves FindByID from Redis. Update writes the new state
// through; Create and Delete drop the key. Redis failures fall through to the
// wrapped store.
type WebinarRepository struct {
	next   repository.WebinarRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewWebinarRepository(next repository.WebinarRepository, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *WebinarRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &WebinarRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (r *WebinarRepository) Create(ctx context.Context, w *entity.Webinar) error {
	if err := r.next.Create(ctx, w); err != nil {
		return err
	}
	r.evict(ctx, w.ID())
	return nil
}

func (r *WebinarRepository) FindByID(ctx context.Context, id string) (*entity.Webinar, error) {
	var c cachedWebinar
	found, err := helpers.RedisGetJSON(ctx, r.rdb, webinarKey(id), &c)
	if err != nil {
		r.warn(err, id, "redis get failed")
	}
	if found {
		return entity.NewWebinar(entity.WebinarProps(c)), nil
	}

	w, err := r.next.FindByID(ctx, id)
	if err != nil || w == nil {
		return w, err
	}
	if err := helpers.RedisSetJSON(ctx, r.rdb, webinarKey(id), cachedWebinar(w.Props()), r.ttl); err != nil {
		r.warn(err, id, "redis set failed")
	}
	return w, nil
}

func (r *WebinarRepository) Update(ctx context.Context, w *entity.Webinar) error {
	// evict first so a failed write never leaves a cached row newer than the store
	r.evict(ctx, w.ID())
	if err := r.next.Update(ctx, w); err != nil {
		return err
	}
	// overwrite with the new version; a failed set falls back to eviction
	if err := helpers.RedisSetJSON(ctx, r.rdb, webinarKey(w.ID()), cachedWebinar(w.Props()), r.ttl); err != nil {
		r.warn(err, w.ID(), "redis set failed")
		r.evict(ctx, w.ID())
	}
	return nil
}

func (r *WebinarRepository) Delete(ctx context.Context, id string) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *WebinarRepository) evict(ctx context.Context, id string) {
	if err := helpers.RedisDel(ctx, r.rdb, webinarKey(id)); err != nil {
		r.warn(err, id, "redis del failed")
	}
}

func (r *WebinarRepository) warn(err error, id, msg string) {
	if r.logger != nil {
		r.logger.WithError(err).WithField("webinar_id", id).Warn(msg)
	}
}

var _ repository.WebinarRepository = (*WebinarRepository)(nil)
