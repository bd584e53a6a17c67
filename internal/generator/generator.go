// Package generator supplies random numbers and random key sequences.
package generator

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Generator is a seeded random source safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Between returns an integer in [min, max] drawn uniformly. Callers reject
// min > max before asking.
func (g *Generator) Between(min, max float64) float64 {
	g.mu.Lock()
	r := g.rnd.Float64()
	g.mu.Unlock()
	return math.Floor(r*(max-min+1)) + min
}

// Sequence selects count tokens uniformly from keys.
func (g *Generator) Sequence(keys []string, count int) []string {
	if len(keys) == 0 || count <= 0 {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, keys[g.rnd.Intn(len(keys))])
	}
	return result
}
