package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-webinar-scheduler/pkg/response"
)

// Pinger checks one backing service.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	Store  string
	Checks map[string]Pinger
}

func NewHealthHandler(store string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{Store: store, Checks: checks}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.Checks))
	for name := range h.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.Checks[name](ctx); err != nil {
			deps[name] = err.Error()
			healthy = false
			continue
		}
		deps[name] = "ok"
	}
	data := gin.H{"store": h.Store, "dependencies": deps}
	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "unhealthy", data)
		return
	}
	response.Success(c, http.StatusOK, data, "ok", nil)
}
