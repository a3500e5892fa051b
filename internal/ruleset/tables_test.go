package ruleset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/ruleset"
)

func TestScalarAt(t *testing.T) {
	table := map[int]int{2: 4, 6: 6, 10: 8}

	assert.Equal(t, -1, ruleset.ScalarAt(table, 1, -1))
	assert.Equal(t, 4, ruleset.ScalarAt(table, 2, -1))
	assert.Equal(t, 4, ruleset.ScalarAt(table, 5, -1))
	assert.Equal(t, 6, ruleset.ScalarAt(table, 9, -1))
	assert.Equal(t, 8, ruleset.ScalarAt(table, 20, -1))
	assert.Equal(t, 0, ruleset.ScalarAt(nil, 20, 0))
}

func TestSpellSlotsAt(t *testing.T) {
	table := map[int]map[int]int{
		1: {1: 2},
		3: {1: 3},
		5: {1: 4, 2: 2},
	}

	assert.Empty(t, ruleset.SpellSlotsAt(nil, 5))
	assert.Equal(t, map[int]int{1: 2}, ruleset.SpellSlotsAt(table, 2))
	assert.Equal(t, map[int]int{1: 3}, ruleset.SpellSlotsAt(table, 4))
	assert.Equal(t, map[int]int{1: 4, 2: 2}, ruleset.SpellSlotsAt(table, 12))
}

func TestLevels(t *testing.T) {
	class := &entities.ClassDef{
		Progression: map[int]*entities.ProgressionNode{
			3: {},
			1: {},
			2: nil,
		},
	}

	assert.Equal(t, []int{1, 3}, ruleset.Levels(class))
	assert.Nil(t, ruleset.Levels(nil))
}
