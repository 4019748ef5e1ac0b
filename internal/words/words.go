// Package words supplies the guessable word pool.
package words

import "math/rand"

// List is a drawable word pool.
type List struct {
	words []string
}

// Default returns the stock pool.
func Default() *List {
	return &List{words: []string{
		"apple", "banana", "car", "dog", "elephant",
		"flower", "guitar", "house", "island", "jacket",
		"kite", "lion", "mountain", "notebook", "ocean",
		"piano", "queen", "rainbow", "sun", "tree",
		"umbrella", "violin", "whale", "xylophone", "yacht",
		"zebra", "bridge", "castle", "dragon", "forest",
	}}
}

// NewList wraps a custom pool. Tests use it to pin the candidate set.
func NewList(words []string) *List {
	return &List{words: append([]string(nil), words...)}
}

// Pick returns n distinct random words, or the whole pool shuffled when the
// pool is smaller than n.
func (l *List) Pick(n int) []string {
	idx := rand.Perm(len(l.words))
	if n > len(idx) {
		n = len(idx)
	}
	out := make([]string, 0, n)
	for _, i := range idx[:n] {
		out = append(out, l.words[i])
	}
	return out
}
