package generator

import (
	"time"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/generator"
)

// SystemDateGenerator is backed by the wall clock, in UTC.
type SystemDateGenerator struct{}

func NewSystemDateGenerator() SystemDateGenerator { return SystemDateGenerator{} }

func (SystemDateGenerator) Now() time.Time { return time.Now().UTC() }

// FixedDateGenerator always returns the same instant.
type FixedDateGenerator struct {
	now time.Time
}

func NewFixedDateGenerator(t time.Time) FixedDateGenerator {
	return FixedDateGenerator{now: t.UTC()}
}

func (f FixedDateGenerator) Now() time.Time { return f.now }

var (
	_ generator.DateGenerator = SystemDateGenerator{}
	_ generator.DateGenerator = FixedDateGenerator{}
)
