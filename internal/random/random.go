package random

import (
	"math/rand"
	"time"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/ganzorig/lastplayer/internal/random Generator

// Generator produces integers in a closed range. Time limits are drawn from
// it so tests can pin the value.
type Generator interface {
	// IntBetween returns a uniformly distributed integer in [min, max]
	IntBetween(min, max int) int
}

// Config for the default generator
type Config struct {
	// Optional seed for testing
	Seed int64
}

// defaultGenerator implements Generator using math/rand
type defaultGenerator struct {
	random *rand.Rand
}

// New creates a new seedable generator
func New(cfg *Config) *defaultGenerator {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}

	source := rand.NewSource(seed)

	return &defaultGenerator{
		random: rand.New(source),
	}
}

// IntBetween returns a uniformly distributed integer in [min, max]
func (g *defaultGenerator) IntBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + g.random.Intn(max-min+1)
}
