package router

import (
	"context"

	"github.com/oksasatya/go-webinar-scheduler/internal/application"
	"github.com/oksasatya/go-webinar-scheduler/internal/container"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-webinar-scheduler/internal/interface/http"
	"github.com/oksasatya/go-webinar-scheduler/internal/router/modules"
)

type WebinarModuleDeps struct {
	Organize    *application.OrganizeWebinars
	ChangeSeats *application.ChangeSeats
	Get         *application.GetWebinar
	Handler     *handlers.WebinarHandler
}

func buildWebinarDeps() WebinarModuleDeps {
	repo := container.GetWebinarRepo()
	logger := container.GetLogger()
	clock := container.GetDateGenerator()
	pub := container.GetEventPublisher()

	organize := application.NewOrganizeWebinars(repo, container.GetIDGenerator(), clock, pub, logger)
	changeSeats := application.NewChangeSeats(repo, clock, pub, logger)
	get := application.NewGetWebinar(repo)

	index := search.NewWebinarIndex(container.GetES(), esIndexName(), logger)

	return WebinarModuleDeps{
		Organize:    organize,
		ChangeSeats: changeSeats,
		Get:         get,
		Handler:     handlers.NewWebinarHandler(organize, changeSeats, get, index, logger),
	}
}

func buildHealthChecks() map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

func esIndexName() string {
	if cfg := container.GetConfig(); cfg != nil {
		return cfg.ESWebinarsIndex
	}
	return ""
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	rdb := container.GetRedis()

	webinarDeps := buildWebinarDeps()
	r.Add(modules.NewWebinarModule(webinarDeps.Handler, rdb, cfg.DefaultUserID))
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(cfg.StoreDriver, buildHealthChecks())))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
