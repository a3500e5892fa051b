package advancement

import (
	"context"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// Chooser collects the player's picks for one level step. Returning an
// error stops the advancement after the levels already committed.
type Chooser interface {
	Choose(ctx context.Context, plan *entities.LevelUpPlan) (engine.Selections, error)
}

// ChooserFunc adapts a function to the Chooser interface
type ChooserFunc func(ctx context.Context, plan *entities.LevelUpPlan) (engine.Selections, error)

// Choose calls f(ctx, plan)
func (f ChooserFunc) Choose(ctx context.Context, plan *entities.LevelUpPlan) (engine.Selections, error) {
	return f(ctx, plan)
}

// PlanInput defines the request for planning a level step
type PlanInput struct {
	CharacterID string
	// Level defaults to the level after the character's current one
	Level int
}

// PlanOutput defines the response for planning a level step
type PlanOutput struct {
	Plan      *entities.LevelUpPlan
	Character *entities.Character
}

// ApplyLevelInput defines the request for committing one level step
type ApplyLevelInput struct {
	CharacterID string
	// Level defaults to the level after the character's current one
	Level      int
	Selections engine.Selections
	Force      bool
}

// ApplyLevelOutput defines the response for committing one level step
type ApplyLevelOutput struct {
	Character *entities.Character
	Derived   *entities.DerivedStats
	Applied   bool
	Reverted  bool
	Granted   []string
}

// AdvanceToInput defines the request for advancing several levels
type AdvanceToInput struct {
	CharacterID string
	TargetLevel int
	// Chooser may be nil when no pending level offers choices
	Chooser Chooser
}

// AdvanceToOutput defines the response for advancing several levels
type AdvanceToOutput struct {
	Character *entities.Character
	// Applied lists the levels committed by this call, in order
	Applied []int
}

// SetLevelInput defines the request for setting the level directly
type SetLevelInput struct {
	CharacterID string
	Level       int
}

// SetLevelOutput defines the response for setting the level directly
type SetLevelOutput struct {
	Character *entities.Character
	// Pending lists levels up to the new level that have no record
	Pending []int
}

// RevertInput defines the request for undoing a level's advancement
type RevertInput struct {
	CharacterID string
	Level       int
}

// RevertOutput defines the response for undoing a level's advancement
type RevertOutput struct {
	Character *entities.Character
	Reverted  bool
}
