package selector

import (
	crand "crypto/rand"
	"math/rand/v2"
)

// Source yields uniform draws from [0, 1). Implementations need not be safe
// for concurrent use.
type Source interface {
	Float64() float64
}

// NewSeeded returns a reproducible source.
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewEntropy returns a source seeded from the operating system's CSPRNG.
func NewEntropy() Source {
	var seed [32]byte
	_, _ = crand.Read(seed[:]) // never fails since go1.24
	return rand.New(rand.NewChaCha8(seed))
}
