package rpgtoolkit

import (
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

const (
	abilityDice     = 4
	abilityDieSides = 6
)

// AbilityRoll is one 4d6-drop-lowest roll
type AbilityRoll struct {
	Kept    []int
	Dropped int
	Total   int
}

// RollAbilityScore rolls 4d6 and keeps the highest three
func RollAbilityScore(roller dice.Roller) (*AbilityRoll, error) {
	if roller == nil {
		return nil, errors.InvalidArgument("dice roller is required")
	}

	rolls, err := roller.RollN(abilityDice, abilityDieSides)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to roll %dd%d", abilityDice, abilityDieSides)
	}
	if len(rolls) != abilityDice {
		return nil, errors.Internalf("roller returned %d dice, want %d", len(rolls), abilityDice)
	}

	sorted := slices.Clone(rolls)
	slices.Sort(sorted)

	roll := &AbilityRoll{Dropped: sorted[0], Kept: sorted[1:]}
	for _, d := range roll.Kept {
		roll.Total += d
	}
	return roll, nil
}

// RollAbilityScores rolls a score for every ability in sheet order
func RollAbilityScores(roller dice.Roller) (map[entities.Ability]int, error) {
	scores := make(map[entities.Ability]int, len(entities.Abilities))
	for _, ability := range entities.Abilities {
		roll, err := RollAbilityScore(roller)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to roll %s", ability)
		}
		scores[ability] = roll.Total
	}
	return scores, nil
}
