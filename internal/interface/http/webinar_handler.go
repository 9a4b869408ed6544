package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/internal/application"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/search"
	"github.com/oksasatya/go-webinar-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-webinar-scheduler/pkg/response"
	"github.com/oksasatya/go-webinar-scheduler/pkg/validation"
)

type WebinarHandler struct {
	Organize    *application.OrganizeWebinars
	ChangeSeats *application.ChangeSeats
	Get         *application.GetWebinar
	Index       *search.WebinarIndex
	Logger      *logrus.Logger
}

func NewWebinarHandler(organize *application.OrganizeWebinars, changeSeats *application.ChangeSeats, get *application.GetWebinar, index *search.WebinarIndex, logger *logrus.Logger) *WebinarHandler {
	return &WebinarHandler{Organize: organize, ChangeSeats: changeSeats, Get: get, Index: index, Logger: logger}
}

// SeatCount accepts either a JSON number or a numeric string.
type SeatCount int

func (s *SeatCount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return &validation.FieldError{Field: "seats", Message: "must be an integer"}
		}
		b = []byte(str)
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return &validation.FieldError{Field: "seats", Message: "must be an integer"}
	}
	*s = SeatCount(n)
	return nil
}

type organizeWebinarRequest struct {
	Title     string     `json:"title" binding:"title"`
	Seats     *SeatCount `json:"seats" binding:"required"`
	StartDate *time.Time `json:"startDate" binding:"required"`
	EndDate   *time.Time `json:"endDate" binding:"required"`
}

type changeSeatsRequest struct {
	Seats *SeatCount `json:"seats" binding:"required"`
}

type webinarResponse struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizerId"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Seats       int       `json:"seats"`
	Version     int       `json:"version"`
}

func (h *WebinarHandler) OrganizeWebinar(c *gin.Context) {
	var req organizeWebinarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Organize.Execute(c.Request.Context(), application.OrganizeWebinarsCommand{
		UserID:    middleware.CurrentUser(c).ID,
		Title:     req.Title,
		Seats:     int(*req.Seats),
		StartDate: req.StartDate.UTC(),
		EndDate:   req.EndDate.UTC(),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, "Webinar created", nil)
}

func (h *WebinarHandler) ChangeWebinarSeats(c *gin.Context) {
	var req changeSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.ChangeSeats.Execute(c.Request.Context(), application.ChangeSeatsCommand{
		User:      middleware.CurrentUser(c),
		WebinarID: c.Param("id"),
		Seats:     int(*req.Seats),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Seats updated", nil)
}

func (h *WebinarHandler) GetWebinar(c *gin.Context) {
	p, err := h.Get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, webinarResponse{
		ID:          p.ID,
		OrganizerID: p.OrganizerID,
		Title:       p.Title,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		Seats:       p.Seats,
		Version:     p.Version,
	}, "ok", nil)
}

// Search queries the webinar search index by title.
func (h *WebinarHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Index.Search(c.Request.Context(), q, size)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("q", q).Warn("webinar search failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "ok", map[string]any{"count": len(hits)})
}

// fail maps use case errors onto status codes.
func (h *WebinarHandler) fail(c *gin.Context, err error) {
	var de *entity.Error
	if !errors.As(err, &de) {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("path", c.FullPath()).Error("webinar request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "An error occurred", nil)
		return
	}
	response.Error[any](c, statusFor(de.Kind), de.Message, map[string]string{"code": de.Code})
}

func statusFor(kind entity.ErrorKind) int {
	switch kind {
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindNotOrganizer:
		return http.StatusUnauthorized
	case entity.KindValidation:
		return http.StatusBadRequest
	case entity.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
