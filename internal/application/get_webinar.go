package application

import (
	"context"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

// GetWebinar loads a single webinar by id.
type GetWebinar struct {
	Repo repo.WebinarRepository
}

func NewGetWebinar(r repo.WebinarRepository) *GetWebinar {
	return &GetWebinar{Repo: r}
}

func (uc *GetWebinar) Execute(ctx context.Context, id string) (entity.WebinarProps, error) {
	w, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return entity.WebinarProps{}, err
	}
	if w == nil {
		return entity.WebinarProps{}, entity.ErrWebinarNotFound
	}
	return w.Props(), nil
}
