package service

import (
	"math/rand"
	"time"
)

// RandomSource is the only source of randomness of the study engine.
// *rand.Rand satisfies it; tests supply a scripted implementation.
type RandomSource interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// NewRandomSource returns a time-seeded RandomSource.
func NewRandomSource() RandomSource {
	return NewSeededRandomSource(time.Now().UnixNano())
}

// NewSeededRandomSource returns a RandomSource that replays the same
// sequence for the same seed.
func NewSeededRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// coinFlip returns true with probability 0.5.
func coinFlip(rng RandomSource) bool {
	return rng.Intn(2) == 0
}
