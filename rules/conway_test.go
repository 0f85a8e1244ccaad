package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyConwayRules(t *testing.T) {
	for neighbors := 0; neighbors <= 8; neighbors++ {
		t.Run("alive", func(t *testing.T) {
			want := neighbors == 2 || neighbors == 3
			assert.Equal(t, want, ApplyConwayRules(neighbors, true), "neighbors=%d", neighbors)
		})
		t.Run("dead", func(t *testing.T) {
			want := neighbors == 3
			assert.Equal(t, want, ApplyConwayRules(neighbors, false), "neighbors=%d", neighbors)
		})
	}
}
