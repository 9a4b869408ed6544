package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-webinar-scheduler/internal/interface/http"
	"github.com/oksasatya/go-webinar-scheduler/internal/interface/middleware"
)

// WebinarModule wires webinar HTTP handlers into routes:
// POST /api/webinars, POST /api/webinars/:id/seats,
// GET /api/webinars/:id, GET /api/webinars/search.
type WebinarModule struct {
	Handler       *handlers.WebinarHandler
	Redis         *redis.Client
	DefaultUserID string
}

func NewWebinarModule(h *handlers.WebinarHandler, rdb *redis.Client, defaultUserID string) *WebinarModule {
	return &WebinarModule{Handler: h, Redis: rdb, DefaultUserID: defaultUserID}
}

func (m *WebinarModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/webinars")
	g.Use(
		middleware.Actor(m.DefaultUserID),
		middleware.RateLimit(m.Redis, 300, time.Minute, middleware.KeyByIP(), nil),
	)
	writeLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil)
	searchLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIPAndPath(), nil)

	g.POST("", writeLimiter, m.Handler.OrganizeWebinar)
	g.POST("/:id/seats", writeLimiter, m.Handler.ChangeWebinarSeats)
	g.GET("/search", searchLimiter, m.Handler.Search)
	g.GET("/:id", m.Handler.GetWebinar)
}
