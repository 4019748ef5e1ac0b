package words

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPickReturnsDistinctWords(t *testing.T) {
	l := NewList([]string{"a", "b", "c", "d", "e"})

	got := l.Pick(3)
	assert.Len(t, got, 3)

	seen := map[string]bool{}
	for _, w := range got {
		assert.False(t, seen[w], "duplicate word %q", w)
		seen[w] = true
	}
}

func TestPickCapsAtPoolSize(t *testing.T) {
	l := NewList([]string{"a", "b"})
	assert.Len(t, l.Pick(5), 2)
}

func TestDefaultPoolCoversSelection(t *testing.T) {
	assert.GreaterOrEqual(t, len(Default().Pick(3)), 3)
}
