package application

import (
	"context"
	"errors"
	"sync"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/memory"
)

// spyRepo counts writes on top of the in-memory store.
type spyRepo struct {
	*memory.WebinarRepository
	creates int
	updates int

	findErr   error
	createErr error
	updateErr error
}

func newSpyRepo(seed ...*entity.Webinar) *spyRepo {
	return &spyRepo{WebinarRepository: memory.NewWebinarRepository(seed...)}
}

func (s *spyRepo) FindByID(ctx context.Context, id string) (*entity.Webinar, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.WebinarRepository.FindByID(ctx, id)
}

func (s *spyRepo) Create(ctx context.Context, w *entity.Webinar) error {
	s.creates++
	if s.createErr != nil {
		return s.createErr
	}
	return s.WebinarRepository.Create(ctx, w)
}

func (s *spyRepo) Update(ctx context.Context, w *entity.Webinar) error {
	s.updates++
	if s.updateErr != nil {
		return s.updateErr
	}
	return s.WebinarRepository.Update(ctx, w)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []repo.WebinarEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev repo.WebinarEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

var errStoreDown = errors.New("store unavailable")
