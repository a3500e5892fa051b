package rpgtoolkit

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// fixedRoller returns queued RollN results in order
type fixedRoller struct {
	rolls [][]int
	err   error
}

func (r *fixedRoller) Roll(_ int) (int, error) { return 1, r.err }

func (r *fixedRoller) RollN(_, _ int) ([]int, error) {
	if r.err != nil {
		return nil, r.err
	}
	next := r.rolls[0]
	r.rolls = r.rolls[1:]
	return next, nil
}

func TestRollAbilityScoreDropsLowest(t *testing.T) {
	roll, err := RollAbilityScore(&fixedRoller{rolls: [][]int{{3, 6, 1, 5}}})
	require.NoError(t, err)

	assert.Equal(t, 1, roll.Dropped)
	assert.Equal(t, []int{3, 5, 6}, roll.Kept)
	assert.Equal(t, 14, roll.Total)
}

func TestRollAbilityScores(t *testing.T) {
	roller := &fixedRoller{rolls: [][]int{
		{6, 6, 6, 1}, {2, 2, 2, 2}, {4, 3, 2, 1}, {5, 5, 5, 5}, {1, 1, 1, 6}, {3, 4, 5, 6},
	}}

	scores, err := RollAbilityScores(roller)
	require.NoError(t, err)

	assert.Equal(t, map[entities.Ability]int{
		entities.AbilityStrength:     18,
		entities.AbilityDexterity:    6,
		entities.AbilityConstitution: 9,
		entities.AbilityIntelligence: 15,
		entities.AbilityWisdom:       8,
		entities.AbilityCharisma:     15,
	}, scores)
}

func TestRollAbilityScoreErrors(t *testing.T) {
	_, err := RollAbilityScore(nil)
	assert.Error(t, err)

	_, err = RollAbilityScore(&fixedRoller{err: stderrors.New("no dice")})
	assert.Error(t, err)

	_, err = RollAbilityScore(&fixedRoller{rolls: [][]int{{6, 6}}})
	assert.Error(t, err)
}
