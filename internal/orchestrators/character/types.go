package character

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// CreateInput defines the request for creating a character
type CreateInput struct {
	Name string
	// RulesetID defaults to the active ruleset
	RulesetID  string
	ClassID    string
	SubclassID string
	Level      int
	// Abilities overrides individual scores; unset abilities default to 10
	Abilities map[entities.Ability]int
	// RollAbilities rolls 4d6 drop lowest for every ability not given
	RollAbilities bool
}

// CreateOutput defines the response for creating a character
type CreateOutput struct {
	Character *entities.Character
}

// GetInput defines the request for getting a character
type GetInput struct {
	CharacterID string
}

// GetOutput defines the response for getting a character
type GetOutput struct {
	Character *entities.Character
	Derived   *entities.DerivedStats
	// Ruleset is nil when the character's ruleset is not stored
	Ruleset *entities.Ruleset
}

// ListInput defines the request for listing characters
type ListInput struct {
	// RulesetID optionally restricts the list to one ruleset
	RulesetID string
}

// ListOutput defines the response for listing characters
type ListOutput struct {
	Characters []*entities.Character
}

// DeleteInput defines the request for deleting a character
type DeleteInput struct {
	CharacterID string
}

// DeleteOutput defines the response for deleting a character
type DeleteOutput struct{}

// UpdateInput defines the request for editing sheet fields. Nil fields are
// left unchanged.
type UpdateInput struct {
	CharacterID string
	Name        *string
	Notes       *string
	AC          *int
	Speed       *int
	MaxHP       *int
	Abilities   map[entities.Ability]int
	// SkillProfs merges ranks into the sheet; rank 0 removes a skill
	SkillProfs map[entities.Skill]int
	SaveProfs  []entities.Ability
	Inventory  []*entities.Item
}

// UpdateOutput defines the response for editing sheet fields
type UpdateOutput struct {
	Character *entities.Character
}

// DamageInput defines the request for taking damage
type DamageInput struct {
	CharacterID string
	Amount      int
}

// HealInput defines the request for healing
type HealInput struct {
	CharacterID string
	Amount      int
}

// SetTempHPInput defines the request for setting temporary hit points
type SetTempHPInput struct {
	CharacterID string
	Temp        int
}

// HitPointsOutput defines the response for hit point changes
type HitPointsOutput struct {
	Character *entities.Character
	// Absorbed is the damage taken by temporary hit points
	Absorbed int
}

// AddFeatureInput defines the request for adding a manual feature
type AddFeatureInput struct {
	CharacterID string
	Name        string
	Text        string
	// Level defaults to the character's level
	Level int
	Tags  []string
}

// AddFeatureOutput defines the response for adding a manual feature
type AddFeatureOutput struct {
	Character *entities.Character
	Feature   *entities.FeatureEntry
}

// RemoveFeatureInput defines the request for removing a manual feature
type RemoveFeatureInput struct {
	CharacterID string
	FeatureID   string
}

// RemoveFeatureOutput defines the response for removing a manual feature
type RemoveFeatureOutput struct {
	Character *entities.Character
}

// SetActiveInput defines the request for selecting the active character
type SetActiveInput struct {
	// CharacterID clears the selection when empty
	CharacterID string
}

// SetActiveOutput defines the response for selecting the active character
type SetActiveOutput struct {
	Character *entities.Character
}

// GetActiveInput defines the request for reading the active character
type GetActiveInput struct{}

// GetActiveOutput defines the response for reading the active character
type GetActiveOutput struct {
	Character *entities.Character
}
