package engine

import (
	"slices"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// BuildLevelUpPlan resolves the grants and choice options of one level. A
// class with no node at the level yields an empty plan marked Missing rather
// than an error so callers can show what the class does define.
func (e *engine) BuildLevelUpPlan(input *BuildLevelUpPlanInput) (*entities.LevelUpPlan, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.Level < entities.MinLevel || input.Level > entities.MaxLevel {
		return nil, errors.OutOfRangef("level %d is outside %d..%d", input.Level, entities.MinLevel, entities.MaxLevel)
	}

	char := input.Character
	rs := input.Ruleset
	plan := &entities.LevelUpPlan{
		ClassID: char.ClassID,
		Level:   input.Level,
		Applied: IsApplied(char, input.Level),
	}

	node := rs.Class(char.ClassID).Node(input.Level)
	if node == nil {
		plan.Missing = true
		return plan, nil
	}

	for _, featureID := range node.Grants {
		plan.Grants = append(plan.Grants, &entities.PlannedGrant{
			ID:          featureID,
			Name:        rs.FeatureName(featureID),
			Description: rs.FeatureDescription(featureID),
		})
	}

	previous := char.Advancement[levelKey(input.Level)]
	for _, choice := range node.Choices {
		plan.Choices = append(plan.Choices, &entities.PlannedChoice{
			Choice:   choice,
			Options:  OptionsForCharacter(rs, char, choice, input.Level),
			Previous: slices.Clone(previous[choice.ID]),
		})
	}

	return plan, nil
}
