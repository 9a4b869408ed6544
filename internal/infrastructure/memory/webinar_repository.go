// Package memory provides an in-process WebinarRepository used by tests and
// the STORE_DRIVER=memory mode.
package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

type WebinarRepository struct {
	mu       sync.RWMutex
	webinars map[string]entity.WebinarProps
}

// NewWebinarRepository returns a store pre-populated with seed.
func NewWebinarRepository(seed ...*entity.Webinar) *WebinarRepository {
	r := &WebinarRepository{webinars: make(map[string]entity.WebinarProps, len(seed))}
	for _, w := range seed {
		p := w.Props()
		if p.Version < 1 {
			p.Version = 1
		}
		r.webinars[p.ID] = p
	}
	return r
}

func (r *WebinarRepository) Create(ctx context.Context, w *entity.Webinar) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.webinars[w.ID()]; ok {
		return entity.ErrWebinarAlreadyExists
	}
	if w.Version() < 1 {
		w.SetVersion(1)
	}
	r.webinars[w.ID()] = w.Props()
	return nil
}

func (r *WebinarRepository) FindByID(ctx context.Context, id string) (*entity.Webinar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.webinars[id]
	if !ok {
		return nil, nil
	}
	return entity.NewWebinar(p), nil
}

func (r *WebinarRepository) Update(ctx context.Context, w *entity.Webinar) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.webinars[w.ID()]
	if !ok {
		return entity.ErrWebinarNotFound
	}
	if stored.Version != w.Version() {
		return entity.ErrWebinarConcurrentUpdate
	}
	next := w.Props()
	next.OrganizerID = stored.OrganizerID
	next.Version = stored.Version + 1
	r.webinars[w.ID()] = next
	w.SetVersion(next.Version)
	return nil
}

func (r *WebinarRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.webinars, id)
	return nil
}

// Len reports the number of stored webinars.
func (r *WebinarRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.webinars)
}

var _ repository.WebinarRepository = (*WebinarRepository)(nil)
