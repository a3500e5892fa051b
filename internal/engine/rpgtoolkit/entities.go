package rpgtoolkit

import "github.com/KirkDiggler/rpg-sheet/internal/entities"

// Entity types reported to rpg-toolkit
const (
	EntityTypeCharacter = "character"
	EntityTypeRuleset   = "ruleset"
)

// CharacterEntity wraps entities.Character to implement core.Entity interface
type CharacterEntity struct {
	*entities.Character
}

// GetID returns the character's ID
func (c *CharacterEntity) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *CharacterEntity) GetType() string {
	return EntityTypeCharacter
}

// RulesetEntity wraps entities.Ruleset to implement core.Entity interface
type RulesetEntity struct {
	*entities.Ruleset
}

// GetID returns the ruleset's ID
func (r *RulesetEntity) GetID() string {
	return r.Meta.ID
}

// GetType returns the entity type for rpg-toolkit
func (r *RulesetEntity) GetType() string {
	return EntityTypeRuleset
}

// WrapCharacter converts a character to a CharacterEntity
func WrapCharacter(char *entities.Character) *CharacterEntity {
	return &CharacterEntity{Character: char}
}

// WrapRuleset converts a ruleset to a RulesetEntity
func WrapRuleset(rs *entities.Ruleset) *RulesetEntity {
	return &RulesetEntity{Ruleset: rs}
}
