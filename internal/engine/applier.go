package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/ruleset"
)

func (e *engine) ApplyLevel(input *ApplyLevelInput) (*ApplyLevelOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Character == nil {
		return nil, errors.InvalidArgument("character is required")
	}
	if input.Ruleset == nil {
		return nil, errors.InvalidArgument("ruleset is required")
	}
	if input.Level < entities.MinLevel || input.Level > entities.MaxLevel {
		return nil, errors.OutOfRangef("level %d is outside %d..%d", input.Level, entities.MinLevel, entities.MaxLevel)
	}

	applied := IsApplied(input.Character, input.Level)
	if applied && !input.Force {
		return &ApplyLevelOutput{Character: input.Character.Clone()}, nil
	}

	node, err := progressionNode(input.Ruleset, input.Character.ClassID, input.Level)
	if err != nil {
		return nil, err
	}

	if err := validateSelections(input.Ruleset, input.Character, input.Level, node, input.Selections); err != nil {
		return nil, err
	}

	char := input.Character.Clone()
	out := &ApplyLevelOutput{Character: char, Applied: true}
	slot := -1
	if applied {
		slot = revert(char, input.Level)
		out.Reverted = true
	}

	from := len(char.Features)
	out.Granted = applyGrants(char, input.Ruleset, input.Level, node.Grants)
	record := applyChoices(char, input.Ruleset, input.Level, node.Choices, input.Selections)
	restoreSlot(char, from, slot)
	if len(node.Choices) == 0 {
		record[entities.GrantedMarker] = slices.Clone(node.Grants)
		if record[entities.GrantedMarker] == nil {
			record[entities.GrantedMarker] = []string{}
		}
	}
	recordApplied(char, input.Level, record)

	if char.Level < input.Level {
		char.Level = input.Level
	}
	char.UpdatedAt = e.clock.Now()

	return out, nil
}

func (e *engine) ValidateSelections(input *ValidateSelectionsInput) error {
	if input == nil {
		return errors.InvalidArgument("input is required")
	}
	if input.Character == nil {
		return errors.InvalidArgument("character is required")
	}
	node, err := progressionNode(input.Ruleset, input.Character.ClassID, input.Level)
	if err != nil {
		return err
	}
	return validateSelections(input.Ruleset, input.Character, input.Level, node, input.Selections)
}

// progressionNode looks up the node a class defines at level
func progressionNode(rs *entities.Ruleset, classID string, level int) (*entities.ProgressionNode, error) {
	class := rs.Class(classID)
	node := class.Node(level)
	if node == nil {
		available := ruleset.Levels(class)
		if available == nil {
			available = []int{}
		}
		return nil, errors.ProgressionMissing(classID, level, available)
	}
	return node, nil
}

// validateSelections requires exactly Count distinct picks for every choice
// and nothing else. When the ruleset offers options for a choice, every pick
// must be one of them; a choice whose pool resolves empty accepts any ids.
func validateSelections(
	rs *entities.Ruleset,
	char *entities.Character,
	level int,
	node *entities.ProgressionNode,
	selections Selections,
) error {
	known := make(map[string]bool, len(node.Choices))
	for _, choice := range node.Choices {
		known[choice.ID] = true
		picks := selections[choice.ID]
		unique := dedupe(picks)
		if len(unique) != len(picks) {
			return errors.ChoiceCountMismatch(choice.ID, choice.Required(), len(unique)).
				WithMeta("duplicates", true)
		}
		if len(picks) != choice.Required() {
			return errors.ChoiceCountMismatch(choice.ID, choice.Required(), len(picks))
		}

		options := OptionsForCharacter(rs, char, choice, level)
		if len(options) == 0 {
			continue
		}
		eligible := make(map[string]bool, len(options))
		for _, opt := range options {
			eligible[opt.ID] = true
		}
		for _, id := range picks {
			if !eligible[id] {
				return errors.InvalidArgumentf("option %q is not available for choice %q", id, choice.ID).
					WithMeta("choice_id", choice.ID).
					WithMeta("option_id", id)
			}
		}
	}

	for choiceID, picks := range selections {
		if !known[choiceID] {
			return errors.ChoiceCountMismatch(choiceID, 0, len(picks))
		}
	}
	return nil
}

// applyGrants appends one grant entry per feature, skipping any entry that
// already exists with the same name at the same level.
func applyGrants(char *entities.Character, rs *entities.Ruleset, level int, grants []string) []string {
	var added []string
	for _, featureID := range grants {
		name := rs.FeatureName(featureID)
		if hasFeature(char, name, level, entities.FeatureTagGrant) {
			continue
		}
		char.Features = append(char.Features, &entities.FeatureEntry{
			ID:    fmt.Sprintf("grant:%d:%s", level, featureID),
			Name:  name,
			Level: level,
			Text:  rs.FeatureDescription(featureID),
			Tags:  []string{entities.FeatureTagGrant},
		})
		added = append(added, featureID)
	}
	return added
}

// applyChoices records the picks of every choice in declaration order, folds
// spell and infusion picks into the character's sets and writes one summary
// entry for the level.
func applyChoices(
	char *entities.Character,
	rs *entities.Ruleset,
	level int,
	choices []*entities.ChoiceSpec,
	selections Selections,
) entities.AdvancementRecord {
	record := entities.AdvancementRecord{}
	var summary []string

	for _, choice := range choices {
		picks := slices.Clone(selections[choice.ID])
		record[choice.ID] = picks

		pool := strings.ToLower(choice.From)
		switch {
		case strings.Contains(pool, "cantrip") || strings.Contains(pool, "spell"):
			for _, id := range picks {
				if isCantrip(rs, choice.From, id) {
					char.Spells.Cantrips = addToSet(char.Spells.Cantrips, id)
				} else {
					char.Spells.Known = addToSet(char.Spells.Known, id)
				}
			}
		case strings.Contains(pool, "infusion"):
			char.Infusions.Learned = addToSet(char.Infusions.Learned, picks...)
		}

		names := make([]string, len(picks))
		for i, id := range picks {
			names[i] = id
			if opt := findOption(rs, choice.From, id); opt != nil {
				names[i] = opt.DisplayName()
			}
		}
		title := choice.Title
		if title == "" {
			title = choice.ID
		}
		summary = append(summary, fmt.Sprintf("%s: %s", title, strings.Join(names, ", ")))
	}

	if len(summary) > 0 {
		name := fmt.Sprintf("Level %d choices", level)
		char.Features = slices.DeleteFunc(char.Features, func(f *entities.FeatureEntry) bool {
			return f != nil && f.Name == name && f.Level == level && f.HasTag(entities.FeatureTagChoice)
		})
		char.Features = append(char.Features, &entities.FeatureEntry{
			ID:    fmt.Sprintf("choice:%d", level),
			Name:  name,
			Level: level,
			Text:  strings.Join(summary, "; "),
			Tags:  []string{entities.FeatureTagChoice},
		})
	}

	return record
}

// isCantrip decides where a spell pick goes: by the option's spell level when
// the ruleset knows it, otherwise by whether the pool key names cantrips.
func isCantrip(rs *entities.Ruleset, poolKey, id string) bool {
	if opt := findOption(rs, poolKey, id); opt != nil && opt.Level != nil {
		return *opt.Level == 0
	}
	return strings.Contains(strings.ToLower(poolKey), "cantrip")
}

func hasFeature(char *entities.Character, name string, level int, tag string) bool {
	for _, f := range char.Features {
		if f != nil && f.Name == name && f.Level == level && f.HasTag(tag) {
			return true
		}
	}
	return false
}
