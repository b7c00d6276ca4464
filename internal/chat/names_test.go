package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomNameIsAdjectivePlusNoun(t *testing.T) {
	valid := make(map[string]struct{}, len(adjectives)*len(nouns))
	for _, adj := range adjectives {
		for _, noun := range nouns {
			valid[adj+noun] = struct{}{}
		}
	}

	// The allocator is random, not deterministic: assert membership in the
	// product of the word lists, never a fixed value.
	for i := 0; i < 200; i++ {
		name := RandomName()
		assert.NotEmpty(t, name)
		assert.Contains(t, valid, name)
	}
}
