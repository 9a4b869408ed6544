package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

type capturedRequest struct {
	method string
	path   string
	query  string
	body   string
}

// newFakeES serves canned responses and records every request it sees.
func newFakeES(t *testing.T, status int, body string) (*elasticsearch.Client, *[]capturedRequest) {
	t.Helper()
	var seen []capturedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = append(seen, capturedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery, body: string(b)})
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return es, &seen
}

func TestWebinarIndexDisabledIsNoop(t *testing.T) {
	var idx *WebinarIndex
	if err := idx.Put(context.Background(), repository.WebinarEvent{WebinarID: "id-1"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := NewWebinarIndex(nil, "webinars", nil).Search(context.Background(), "go", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}

func TestWebinarIndexPutSendsVersionedDocument(t *testing.T) {
	es, seen := newFakeES(t, http.StatusCreated, `{"result":"created"}`)
	idx := NewWebinarIndex(es, "webinars", nil)

	start := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	ev := repository.WebinarEvent{
		Type:        repository.EventWebinarOrganized,
		WebinarID:   "id-1",
		OrganizerID: "alice-id",
		Title:       "Intro to Go",
		StartDate:   start,
		EndDate:     start.Add(time.Hour),
		Seats:       100,
		Version:     3,
	}
	if err := idx.Put(context.Background(), ev); err != nil {
		t.Fatalf("put: %v", err)
	}
	if len(*seen) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*seen))
	}
	req := (*seen)[0]
	if req.method != http.MethodPut || req.path != "/webinars/_doc/id-1" {
		t.Fatalf("unexpected request %s %s", req.method, req.path)
	}
	if !strings.Contains(req.query, "version=3") || !strings.Contains(req.query, "version_type=external_gte") {
		t.Fatalf("missing version params: %s", req.query)
	}
	var doc WebinarDocument
	if err := json.Unmarshal([]byte(req.body), &doc); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if doc.Title != "Intro to Go" || doc.Seats != 100 || doc.OrganizerID != "alice-id" {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestWebinarIndexPutIgnoresStaleVersion(t *testing.T) {
	es, _ := newFakeES(t, http.StatusConflict, `{"error":{"type":"version_conflict_engine_exception"}}`)
	idx := NewWebinarIndex(es, "webinars", nil)
	if err := idx.Put(context.Background(), repository.WebinarEvent{WebinarID: "id-1", Version: 1}); err != nil {
		t.Fatalf("expected stale version to be ignored, got %v", err)
	}
}

func TestWebinarIndexPutReportsServerError(t *testing.T) {
	es, _ := newFakeES(t, http.StatusInternalServerError, `{}`)
	idx := NewWebinarIndex(es, "webinars", nil)
	if err := idx.Put(context.Background(), repository.WebinarEvent{WebinarID: "id-1", Version: 1}); err == nil {
		t.Fatal("expected error")
	}
}

func TestWebinarIndexSearch(t *testing.T) {
	es, seen := newFakeES(t, http.StatusOK, `{"hits":{"hits":[
		{"_id":"id-1","_source":{"id":"id-1","title":"Intro to Go","seats":100}},
		{"_id":"id-2","_source":{"title":"Advanced Go","seats":40}}
	]}}`)
	idx := NewWebinarIndex(es, "webinars", nil)

	got, err := idx.Search(context.Background(), "go", 500)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(got))
	}
	if got[1].ID != "id-2" {
		t.Fatalf("expected id from _id fallback, got %q", got[1].ID)
	}

	var q struct {
		Size  int `json:"size"`
		Query struct {
			MultiMatch struct {
				Query  string   `json:"query"`
				Fields []string `json:"fields"`
			} `json:"multi_match"`
		} `json:"query"`
	}
	if err := json.Unmarshal([]byte((*seen)[0].body), &q); err != nil {
		t.Fatalf("decode query: %v", err)
	}
	if q.Size != maxSize {
		t.Fatalf("expected oversized request clamped to %d, got %d", maxSize, q.Size)
	}
	if q.Query.MultiMatch.Query != "go" || len(q.Query.MultiMatch.Fields) != 1 || q.Query.MultiMatch.Fields[0] != "title" {
		t.Fatalf("unexpected query %+v", q)
	}
}

func TestWebinarIndexSearchSizeDefaults(t *testing.T) {
	for _, tt := range []struct{ in, want int }{{0, defaultSize}, {-3, defaultSize}, {1, 1}, {50, 50}, {51, maxSize}} {
		es, seen := newFakeES(t, http.StatusOK, `{"hits":{"hits":[]}}`)
		if _, err := NewWebinarIndex(es, "webinars", nil).Search(context.Background(), "go", tt.in); err != nil {
			t.Fatalf("search(%d): %v", tt.in, err)
		}
		var q struct {
			Size int `json:"size"`
		}
		if err := json.Unmarshal([]byte((*seen)[0].body), &q); err != nil {
			t.Fatalf("decode query: %v", err)
		}
		if q.Size != tt.want {
			t.Fatalf("size(%d) = %d, want %d", tt.in, q.Size, tt.want)
		}
	}
}

func TestWebinarIndexSearchMissingIndex(t *testing.T) {
	es, _ := newFakeES(t, http.StatusNotFound, `{"error":{"type":"index_not_found_exception"}}`)
	got, err := NewWebinarIndex(es, "webinars", nil).Search(context.Background(), "go", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no hits, got %d", len(got))
	}
}
