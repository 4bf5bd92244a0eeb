package model

import "math/rand"

// newTestRand returns a seeded rand for tests.
func newTestRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
