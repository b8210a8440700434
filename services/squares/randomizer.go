package squares

import (
	game_constants "Squares/constants/game"
	"fmt"
	"math/rand/v2"
	"sync"
)

// Randomizer assigns the digits 0-9 to the squares of a game
type Randomizer interface {
	Permutation() ([]int, error)
}

// ShuffleRandomizer runs a Fisher-Yates shuffle (rand.Shuffle) over a PCG
// source. Fairness between players is the goal, not unpredictability against
// an attacker, so a non-cryptographic source is enough.
type ShuffleRandomizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomizer seeds the PCG source from the runtime generator, which the Go
// runtime seeds from the operating system at startup.
func NewRandomizer() *ShuffleRandomizer {
	return NewSeededRandomizer(rand.Uint64(), rand.Uint64())
}

// NewSeededRandomizer gives a reproducible sequence of permutations
func NewSeededRandomizer(seed1, seed2 uint64) *ShuffleRandomizer {
	return &ShuffleRandomizer{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (r *ShuffleRandomizer) Permutation() ([]int, error) {
	digits := make([]int, game_constants.SquareCount)
	for i := range digits {
		digits[i] = i
	}
	r.mu.Lock()
	r.rng.Shuffle(len(digits), func(i, j int) {
		digits[i], digits[j] = digits[j], digits[i]
	})
	r.mu.Unlock()
	return digits, nil
}

// checkPermutation rejects anything that isn't each digit exactly once
func checkPermutation(digits []int) error {
	if len(digits) != game_constants.SquareCount {
		return fmt.Errorf("got %d digits, want %d", len(digits), game_constants.SquareCount)
	}
	var seen [game_constants.SquareCount]bool
	for _, d := range digits {
		if d < 0 || d >= game_constants.SquareCount {
			return fmt.Errorf("digit %d out of range", d)
		}
		if seen[d] {
			return fmt.Errorf("digit %d repeated", d)
		}
		seen[d] = true
	}
	return nil
}
