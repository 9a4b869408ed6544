package generator

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/oksasatya/go-webinar-scheduler/internal/domain/generator"
)

// UUIDGenerator issues random v4 UUIDs.
type UUIDGenerator struct{}

func NewUUIDGenerator() UUIDGenerator { return UUIDGenerator{} }

func (UUIDGenerator) Generate() string { return uuid.NewString() }

// FixedIDGenerator yields id-1, id-2, ... in call order.
type FixedIDGenerator struct {
	n atomic.Int64
}

func NewFixedIDGenerator() *FixedIDGenerator { return &FixedIDGenerator{} }

func (g *FixedIDGenerator) Generate() string {
	return fmt.Sprintf("id-%d", g.n.Add(1))
}

var (
	_ generator.IDGenerator = UUIDGenerator{}
	_ generator.IDGenerator = (*FixedIDGenerator)(nil)
)
