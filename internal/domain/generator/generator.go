// Package generator holds the identity and time ports used by the use cases.
package generator

import "time"

// IDGenerator produces a fresh unique identifier.
type IDGenerator interface {
	Generate() string
}

// DateGenerator returns the current instant.
type DateGenerator interface {
	Now() time.Time
}
