package quiz

import (
	"math/rand/v2"
	"slices"
)

// Shuffle returns a Fisher-Yates shuffled copy of items drawn from rng.
// The input slice is left untouched.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	out := slices.Clone(items)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// ShuffleBase returns the catalog's base questions in random order.
func (c *Catalog) ShuffleBase(rng *rand.Rand) []Question {
	return Shuffle(rng, c.base)
}
