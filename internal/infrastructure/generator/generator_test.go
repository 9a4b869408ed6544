package generator

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestFixedIDGeneratorSequence(t *testing.T) {
	g := NewFixedIDGenerator()
	for i, want := range []string{"id-1", "id-2", "id-3"} {
		if got := g.Generate(); got != want {
			t.Fatalf("call %d: got %q, want %q", i, got, want)
		}
	}
}

func TestFixedIDGeneratorConcurrentCallsAreUnique(t *testing.T) {
	g := NewFixedIDGenerator()
	const n = 64
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- g.Generate()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestUUIDGeneratorProducesValidUUIDs(t *testing.T) {
	g := NewUUIDGenerator()
	a, b := g.Generate(), g.Generate()
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("parse %q: %v", a, err)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
}

func TestFixedDateGeneratorNormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2024, 1, 1, 2, 0, 0, 0, loc)
	g := NewFixedDateGenerator(in)

	got := g.Now()
	if !got.Equal(in) {
		t.Fatalf("got %v, want instant %v", got, in)
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
	if !g.Now().Equal(got) {
		t.Fatalf("expected stable instant")
	}
}

func TestSystemDateGeneratorIsUTC(t *testing.T) {
	if loc := NewSystemDateGenerator().Now().Location(); loc != time.UTC {
		t.Fatalf("expected UTC, got %v", loc)
	}
}
