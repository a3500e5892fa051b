package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// Selections maps a choice id to the option ids picked for it
type Selections map[string][]string

// OptionsForInput selects the options for one choice
type OptionsForInput struct {
	Ruleset *entities.Ruleset
	ClassID string
	// SubclassID, when set, excludes options requiring another subclass
	SubclassID string
	Choice     *entities.ChoiceSpec
	AtLevel    int
}

// BuildLevelUpPlanInput identifies the level step to plan
type BuildLevelUpPlanInput struct {
	Ruleset   *entities.Ruleset
	Character *entities.Character
	Level     int
}

// ValidateSelectionsInput carries picks to check before applying
type ValidateSelectionsInput struct {
	Ruleset    *entities.Ruleset
	Character  *entities.Character
	Level      int
	Selections Selections
}

// ApplyLevelInput requests one level step
type ApplyLevelInput struct {
	Ruleset    *entities.Ruleset
	Character  *entities.Character
	Level      int
	Selections Selections
	// Force reverts an already applied level and applies it again
	Force bool
}

// ApplyLevelOutput is the result of a level step
type ApplyLevelOutput struct {
	Character *entities.Character
	// Applied is false when the level was already recorded and not forced
	Applied bool
	// Reverted is set when a forced step undid a previous record first
	Reverted bool
	// Granted lists feature ids added by the step
	Granted []string
}
