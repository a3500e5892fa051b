// Package builders provides test data builders for creating test fixtures
package builders

import (
	"time"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// CharacterBuilder provides a fluent interface for building test characters
type CharacterBuilder struct {
	char *entities.Character
}

// NewCharacterBuilder creates a level 1 artificer with every set field
// initialised, matching what NormalizeCharacter produces
func NewCharacterBuilder() *CharacterBuilder {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &CharacterBuilder{
		char: &entities.Character{
			ID:        "char_test_001",
			Name:      "Vex Ironquill",
			RulesetID: "test",
			ClassID:   "artificer",
			Level:     1,
			Abilities: map[entities.Ability]int{
				entities.AbilityStrength:     10,
				entities.AbilityDexterity:    14,
				entities.AbilityConstitution: 12,
				entities.AbilityIntelligence: 16,
				entities.AbilityWisdom:       10,
				entities.AbilityCharisma:     8,
			},
			HP:          entities.HitPoints{Current: 9, Max: 9},
			AC:          14,
			Speed:       30,
			SkillProfs:  map[entities.Skill]int{},
			Inventory:   []*entities.Item{},
			Spells:      entities.SpellBook{Cantrips: []string{}, Known: []string{}},
			Infusions:   entities.InfusionSet{Learned: []string{}},
			Features:    []*entities.FeatureEntry{},
			Advancement: map[string]entities.AdvancementRecord{},
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.char.ID = id
	return b
}

// WithName sets the character name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.char.Name = name
	return b
}

// WithRuleset sets the ruleset and class
func (b *CharacterBuilder) WithRuleset(rulesetID, classID string) *CharacterBuilder {
	b.char.RulesetID = rulesetID
	b.char.ClassID = classID
	return b
}

// WithLevel sets the level without touching the ledger
func (b *CharacterBuilder) WithLevel(level int) *CharacterBuilder {
	b.char.Level = level
	return b
}

// WithHP sets current, max and temporary hit points
func (b *CharacterBuilder) WithHP(current, maxHP, temp int) *CharacterBuilder {
	b.char.HP = entities.HitPoints{Current: current, Max: maxHP, Temp: temp}
	return b
}

// WithApplied marks levels as applied with the given record
func (b *CharacterBuilder) WithApplied(level string, record entities.AdvancementRecord) *CharacterBuilder {
	b.char.Advancement[level] = record
	return b
}

// WithFeature appends a feature entry
func (b *CharacterBuilder) WithFeature(f *entities.FeatureEntry) *CharacterBuilder {
	b.char.Features = append(b.char.Features, f)
	return b
}

// Build returns a copy of the built character
func (b *CharacterBuilder) Build() *entities.Character {
	return b.char.Clone()
}
