// Package sampling produces per-execution run states: it derives independent
// random streams for each (persona, execution) pair and perturbs latent
// traits with scenario-shaped noise. Everything here is pure and
// deterministic given the inputs.
package sampling

import "math/rand"

// streamSeed mixes (seed, personaIndex, executionIndex) into a single 64-bit
// value using the splitmix64 finalizer. Each pair gets a well-separated seed,
// so trial streams are independent of execution order and of each other.
func streamSeed(seed int64, personaIndex, executionIndex int) int64 {
	x := uint64(seed)
	x ^= uint64(personaIndex)*0x9e3779b97f4a7c15 + 0x2545f4914f6cdd1d
	x ^= uint64(executionIndex) * 0xbf58476d1ce4e5b9
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// NewStream returns the random stream for one (persona, execution) trial.
// Identical arguments always yield an identical stream, regardless of how
// many other streams were created before it. This is what makes the engine
// safely parallelizable.
func NewStream(seed int64, personaIndex, executionIndex int) *rand.Rand {
	return rand.New(rand.NewSource(streamSeed(seed, personaIndex, executionIndex)))
}
