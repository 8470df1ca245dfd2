package ledger

import (
	"math/rand/v2"
	"time"
)

// Clock supplies the current time. Engine operations read it exactly once
// per call so a whole operation sees a single instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Rand supplies the draw for the lucky-glitter bonus. It is injected so
// the draw can be pinned in tests; scoring itself stays deterministic.
type Rand interface {
	Float64() float64
}

type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }

// SystemRand returns the production random source.
func SystemRand() Rand { return systemRand{} }
