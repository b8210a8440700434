package squares

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermutationIsValid(t *testing.T) {
	r := NewRandomizer()
	for i := 0; i < 500; i++ {
		digits, err := r.Permutation()
		require.NoError(t, err)
		require.NoError(t, checkPermutation(digits))
	}
}

func TestSeededRandomizerIsReproducible(t *testing.T) {
	a, err := NewSeededRandomizer(1, 2).Permutation()
	require.NoError(t, err)
	b, err := NewSeededRandomizer(1, 2).Permutation()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// Every digit should land on every square over enough draws
func TestPermutationCoversAllPositions(t *testing.T) {
	r := NewSeededRandomizer(42, 99)
	var hits [10][10]int
	for i := 0; i < 5000; i++ {
		digits, err := r.Permutation()
		require.NoError(t, err)
		for square, d := range digits {
			hits[square][d]++
		}
	}
	for square := range hits {
		for d := range hits[square] {
			assert.Greater(t, hits[square][d], 300, "square %d digit %d", square, d)
		}
	}
}

func TestCheckPermutation(t *testing.T) {
	tests := []struct {
		name   string
		digits []int
		ok     bool
	}{
		{"identity", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, true},
		{"reversed", []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, true},
		{"repeat", []int{0, 0, 2, 3, 4, 5, 6, 7, 8, 9}, false},
		{"out of range", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, false},
		{"negative", []int{-1, 1, 2, 3, 4, 5, 6, 7, 8, 9}, false},
		{"short", []int{0, 1, 2}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPermutation(tt.digits)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
