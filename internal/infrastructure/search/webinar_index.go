// Package search projects webinar events into Elasticsearch.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/repository"
)

const (
	defaultSize = 10
	maxSize     = 50
)

// WebinarDocument is the indexed shape of a webinar.
type WebinarDocument struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizer_id"`
	Title       string    `json:"title"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Seats       int       `json:"seats"`
	Version     int       `json:"version"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WebinarIndex reads and writes the webinars index. A nil client or empty
// index name turns every call into a no-op.
type WebinarIndex struct {
	ES      *elasticsearch.Client
	Index   string
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewWebinarIndex(es *elasticsearch.Client, index string, logger *logrus.Logger) *WebinarIndex {
	return &WebinarIndex{ES: es, Index: index, Logger: logger, Timeout: 3 * time.Second}
}

func (x *WebinarIndex) enabled() bool {
	return x != nil && x.ES != nil && x.Index != ""
}

// Put indexes ev as the current state of its webinar. Older versions than
// the one already indexed are ignored by Elasticsearch external versioning.
func (x *WebinarIndex) Put(ctx context.Context, ev repository.WebinarEvent) error {
	if !x.enabled() {
		return nil
	}
	doc := WebinarDocument{
		ID:          ev.WebinarID,
		OrganizerID: ev.OrganizerID,
		Title:       ev.Title,
		StartDate:   ev.StartDate,
		EndDate:     ev.EndDate,
		Seats:       ev.Seats,
		Version:     ev.Version,
		UpdatedAt:   ev.OccurredAt,
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:       x.Index,
		DocumentID:  ev.WebinarID,
		Body:        bytes.NewReader(b),
		Refresh:     "false",
		Version:     esapi.IntPtr(ev.Version),
		VersionType: "external_gte",
	}
	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()
	res, err := req.Do(c, x.ES)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	// 409 means a newer version is already indexed
	if res.StatusCode == 409 {
		if x.Logger != nil {
			x.Logger.WithField("webinar_id", ev.WebinarID).WithField("version", ev.Version).Debug("es index skipped stale version")
		}
		return nil
	}
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search runs a multi_match query on the title.
func (x *WebinarIndex) Search(ctx context.Context, q string, size int) ([]WebinarDocument, error) {
	if !x.enabled() {
		return []WebinarDocument{}, nil
	}
	switch {
	case size <= 0:
		size = defaultSize
	case size > maxSize:
		size = maxSize
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title"},
			},
		},
		"size": size,
	}
	b, err := json.Marshal(query)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, x.Timeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(c),
		x.ES.Search.WithIndex(x.Index),
		x.ES.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == 404 {
		// index not created yet
		return []WebinarDocument{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string          `json:"_id"`
				Source WebinarDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es search decode: %w", err)
	}

	out := make([]WebinarDocument, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		doc := h.Source
		if doc.ID == "" {
			doc.ID = h.ID
		}
		out = append(out, doc)
	}
	return out, nil
}
