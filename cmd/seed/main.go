package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/oksasatya/go-webinar-scheduler/config"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/store"
	"github.com/oksasatya/go-webinar-scheduler/pkg/helpers"
)

const demoWebinarID = "demo-webinar"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	ctx := context.Background()

	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	start := time.Now().UTC().Add(7 * 24 * time.Hour).Truncate(time.Hour)
	w := entity.NewWebinar(entity.WebinarProps{
		ID:          demoWebinarID,
		OrganizerID: cfg.DefaultUserID,
		Title:       "Demo webinar",
		StartDate:   start,
		EndDate:     start.Add(time.Hour),
		Seats:       100,
	})
	err = st.Repo.Create(ctx, w)
	switch {
	case entity.IsKind(err, entity.KindConflict):
		fmt.Printf("webinar %s already seeded\n", demoWebinarID)
	case err != nil:
		log.Fatalf("failed to seed webinar: %v", err)
	default:
		fmt.Printf("seeded webinar: id=%s organizer=%s seats=%d start=%s\n", w.ID(), w.OrganizerID(), w.Seats(), w.StartDate().Format(time.RFC3339))
	}
}
