// Package engine is the advancement engine: stat derivation, choice
// resolution, the advancement ledger and the per-level progression applier.
//
// Everything here is synchronous and free of I/O. Functions that change a
// character work on a copy and return it; the caller's record is never
// mutated.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/rpg-sheet/internal/engine Engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// Engine provides character advancement against a ruleset
type Engine interface {
	// Derive computes the read-only stat view. It never fails; missing data
	// falls back to defaults.
	Derive(char *entities.Character, rs *entities.Ruleset) *entities.DerivedStats

	// OptionsFor returns the options a choice offers at a level. An unknown
	// pool yields an empty list, never an error.
	OptionsFor(input *OptionsForInput) []*entities.Option

	// BuildLevelUpPlan lists the grants and choices of one level step
	BuildLevelUpPlan(input *BuildLevelUpPlanInput) (*entities.LevelUpPlan, error)

	// ValidateSelections checks player picks against a level's choices
	// Returns errors.ChoiceCountMismatch for wrong, missing or unknown picks
	// Returns errors.ProgressionMissing when the level has no node
	ValidateSelections(input *ValidateSelectionsInput) error

	// ApplyLevel folds one progression node into a copy of the character
	// Returns errors.ProgressionMissing when the level has no node
	// Returns errors.ChoiceCountMismatch when selections do not fit the node
	ApplyLevel(input *ApplyLevelInput) (*ApplyLevelOutput, error)

	// Revert undoes a level's recorded advancement on a copy of the character
	Revert(char *entities.Character, level int) *entities.Character

	// IsApplied reports whether the level's advancement is recorded
	IsApplied(char *entities.Character, level int) bool

	// PendingLevels lists the levels in [from, to] still to be applied
	PendingLevels(char *entities.Character, from, to int) []int

	// NormalizeCharacter fills defaults and canonicalises a loaded record
	NormalizeCharacter(char *entities.Character) *entities.Character
}
