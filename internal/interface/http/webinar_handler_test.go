package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-webinar-scheduler/internal/application"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/entity"
	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/generator"
	"github.com/oksasatya/go-webinar-scheduler/internal/infrastructure/memory"
	"github.com/oksasatya/go-webinar-scheduler/internal/interface/middleware"
	"github.com/oksasatya/go-webinar-scheduler/internal/testutil"
	"github.com/oksasatya/go-webinar-scheduler/pkg/helpers"
	"github.com/oksasatya/go-webinar-scheduler/pkg/validation"
)

var now = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
	Meta    struct {
		Count int `json:"count"`
	} `json:"meta"`
}

func newTestRouter(repo repository.WebinarRepository) *gin.Engine {
	logger := helpers.NewDiscardLogger()
	clock := generator.NewFixedDateGenerator(now)
	h := NewWebinarHandler(
		application.NewOrganizeWebinars(repo, generator.NewFixedIDGenerator(), clock, repository.NopPublisher{}, logger),
		application.NewChangeSeats(repo, clock, repository.NopPublisher{}, logger),
		application.NewGetWebinar(repo),
		nil,
		logger,
	)
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.Actor("test-user"))
	r.POST("/api/webinars", h.OrganizeWebinar)
	r.POST("/api/webinars/:id/seats", h.ChangeWebinarSeats)
	r.GET("/api/webinars/search", h.Search)
	r.GET("/api/webinars/:id", h.GetWebinar)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, userID, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(middleware.UserIDHeader, userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func TestOrganizeWebinar(t *testing.T) {
	repo := memory.NewWebinarRepository()
	r := newTestRouter(repo)

	code, env := do(t, r, http.MethodPost, "/api/webinars", "alice-id",
		`{"title":"Intro to Go","seats":"100","startDate":"2024-01-05T10:00:00Z","endDate":"2024-01-05T11:00:00Z"}`)
	if code != http.StatusCreated {
		t.Fatalf("status = %d, body %+v", code, env)
	}
	if env.Message != "Webinar created" {
		t.Fatalf("message = %q", env.Message)
	}
	var data struct{ ID string }
	_ = json.Unmarshal(env.Data, &data)
	if data.ID != "id-1" {
		t.Fatalf("id = %q", data.ID)
	}

	w, err := repo.FindByID(context.Background(), "id-1")
	if err != nil || w == nil {
		t.Fatalf("expected persisted webinar, err %v", err)
	}
	if w.OrganizerID() != "alice-id" || w.Seats() != 100 || w.Title() != "Intro to Go" {
		t.Fatalf("unexpected webinar %+v", w.Props())
	}
}

func TestOrganizeWebinarDefaultUser(t *testing.T) {
	repo := memory.NewWebinarRepository()
	r := newTestRouter(repo)

	code, _ := do(t, r, http.MethodPost, "/api/webinars", "",
		`{"title":"Intro to Go","seats":10,"startDate":"2024-01-05T10:00:00Z","endDate":"2024-01-05T11:00:00Z"}`)
	if code != http.StatusCreated {
		t.Fatalf("status = %d", code)
	}
	w, _ := repo.FindByID(context.Background(), "id-1")
	if w.OrganizerID() != "test-user" {
		t.Fatalf("organizer = %q", w.OrganizerID())
	}
}

func TestOrganizeWebinarRejections(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"too soon", `{"title":"t","seats":10,"startDate":"2024-01-02T00:00:00Z","endDate":"2024-01-02T01:00:00Z"}`, "Webinar must be scheduled at least 3 days in advance"},
		{"too many seats", `{"title":"t","seats":1001,"startDate":"2024-01-05T00:00:00Z","endDate":"2024-01-05T01:00:00Z"}`, "Webinar must have at most 1000 seats"},
		{"no seats", `{"title":"t","seats":0,"startDate":"2024-01-05T00:00:00Z","endDate":"2024-01-05T01:00:00Z"}`, "Webinar must have at least 1 seat"},
		{"missing seats", `{"title":"t","startDate":"2024-01-05T00:00:00Z","endDate":"2024-01-05T01:00:00Z"}`, "invalid payload"},
		{"non numeric seats", `{"title":"t","seats":"lots","startDate":"2024-01-05T00:00:00Z","endDate":"2024-01-05T01:00:00Z"}`, "invalid payload"},
		{"bad date", `{"title":"t","seats":10,"startDate":"tomorrow","endDate":"2024-01-05T01:00:00Z"}`, "invalid payload"},
		{"missing title", `{"seats":10,"startDate":"2024-01-05T00:00:00Z","endDate":"2024-01-05T01:00:00Z"}`, "invalid payload"},
		{"broken json", `{"title":`, "invalid payload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewWebinarRepository()
			code, env := do(t, newTestRouter(repo), http.MethodPost, "/api/webinars", "alice-id", tt.body)
			if code != http.StatusBadRequest {
				t.Fatalf("status = %d", code)
			}
			if env.Message != tt.message {
				t.Fatalf("message = %q, want %q", env.Message, tt.message)
			}
			if repo.Len() != 0 {
				t.Fatal("nothing should be persisted")
			}
		})
	}
}

func TestOrganizeWebinarSeatDetail(t *testing.T) {
	_, env := do(t, newTestRouter(memory.NewWebinarRepository()), http.MethodPost, "/api/webinars", "alice-id",
		`{"title":"t","seats":"lots","startDate":"2024-01-05T00:00:00Z","endDate":"2024-01-05T01:00:00Z"}`)
	var details map[string]string
	_ = json.Unmarshal(env.Error, &details)
	if details["seats"] != "must be an integer" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestChangeSeatsEndToEnd(t *testing.T) {
	repo := memory.NewWebinarRepository(testutil.NewWebinar("webinar-1", testutil.Alice.ID))
	r := newTestRouter(repo)

	code, env := do(t, r, http.MethodPost, "/api/webinars/webinar-1/seats", "alice-id", `{"seats":200}`)
	if code != http.StatusOK || env.Message != "Seats updated" {
		t.Fatalf("alice raise: %d %q", code, env.Message)
	}

	code, env = do(t, r, http.MethodPost, "/api/webinars/webinar-1/seats", "bob-id", `{"seats":250}`)
	if code != http.StatusUnauthorized || env.Message != "User is not allowed to update this webinar" {
		t.Fatalf("bob raise: %d %q", code, env.Message)
	}

	code, env = do(t, r, http.MethodPost, "/api/webinars/webinar-1/seats", "alice-id", `{"seats":"150"}`)
	if code != http.StatusBadRequest || env.Message != "Webinar seats cannot be reduced" {
		t.Fatalf("alice reduce: %d %q", code, env.Message)
	}

	code, env = do(t, r, http.MethodGet, "/api/webinars/webinar-1", "", "")
	if code != http.StatusOK {
		t.Fatalf("get: %d", code)
	}
	var got webinarResponse
	_ = json.Unmarshal(env.Data, &got)
	if got.Seats != 200 || got.OrganizerID != "alice-id" {
		t.Fatalf("unexpected webinar %+v", got)
	}
}

func TestChangeSeatsNotFound(t *testing.T) {
	code, env := do(t, newTestRouter(memory.NewWebinarRepository()), http.MethodPost, "/api/webinars/missing/seats", "alice-id", `{"seats":200}`)
	if code != http.StatusNotFound || env.Message != "Webinar not found" {
		t.Fatalf("got %d %q", code, env.Message)
	}
	var details map[string]string
	_ = json.Unmarshal(env.Error, &details)
	if details["code"] != "webinar_not_found" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestChangeSeatsTooMany(t *testing.T) {
	repo := memory.NewWebinarRepository(testutil.NewWebinar("webinar-1", testutil.Alice.ID))
	code, env := do(t, newTestRouter(repo), http.MethodPost, "/api/webinars/webinar-1/seats", "alice-id", `{"seats":1001}`)
	if code != http.StatusBadRequest || env.Message != "Webinar must have at most 1000 seats" {
		t.Fatalf("got %d %q", code, env.Message)
	}
}

func TestGetWebinarNotFound(t *testing.T) {
	code, _ := do(t, newTestRouter(memory.NewWebinarRepository()), http.MethodGet, "/api/webinars/missing", "", "")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d", code)
	}
}

type brokenRepo struct {
	*memory.WebinarRepository
}

func (brokenRepo) FindByID(context.Context, string) (*entity.Webinar, error) {
	return nil, errors.New("connection refused")
}

func TestUnexpectedErrorIsHidden(t *testing.T) {
	r := newTestRouter(brokenRepo{memory.NewWebinarRepository()})
	code, env := do(t, r, http.MethodPost, "/api/webinars/webinar-1/seats", "alice-id", `{"seats":200}`)
	if code != http.StatusInternalServerError || env.Message != "An error occurred" {
		t.Fatalf("got %d %q", code, env.Message)
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[entity.ErrorKind]int{
		entity.KindNotFound:     http.StatusNotFound,
		entity.KindNotOrganizer: http.StatusUnauthorized,
		entity.KindValidation:   http.StatusBadRequest,
		entity.KindConflict:     http.StatusConflict,
		"":                      http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := statusFor(kind); got != want {
			t.Fatalf("statusFor(%q) = %d, want %d", kind, got, want)
		}
	}
}

func TestSearchWithoutIndex(t *testing.T) {
	r := newTestRouter(memory.NewWebinarRepository())
	code, env := do(t, r, http.MethodGet, "/api/webinars/search?q=go", "", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if env.Meta.Count != 0 {
		t.Fatalf("expected no hits, got %d", env.Meta.Count)
	}

	code, _ = do(t, r, http.MethodGet, "/api/webinars/search", "", "")
	if code != http.StatusBadRequest {
		t.Fatalf("missing q: status = %d", code)
	}
}

func TestHealth(t *testing.T) {
	ok := NewHealthHandler("memory", map[string]Pinger{"redis": func(context.Context) error { return nil }})
	r := gin.New()
	r.GET("/health", ok.Health)
	code, env := do(t, r, http.MethodGet, "/health", "", "")
	if code != http.StatusOK || !env.Success {
		t.Fatalf("healthy: %d %+v", code, env)
	}

	bad := NewHealthHandler("postgres", map[string]Pinger{"postgres": func(context.Context) error { return errors.New("down") }})
	r = gin.New()
	r.GET("/health", bad.Health)
	code, _ = do(t, r, http.MethodGet, "/health", "", "")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("unhealthy: %d", code)
	}
}
