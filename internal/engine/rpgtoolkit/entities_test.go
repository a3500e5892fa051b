package rpgtoolkit

import (
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

func TestCharacterEntity(t *testing.T) {
	char := &entities.Character{
		ID:      "char-123",
		Name:    "Vex",
		ClassID: "artificer",
		Level:   3,
	}

	entity := WrapCharacter(char)

	assert.Equal(t, "char-123", entity.GetID())
	assert.Equal(t, EntityTypeCharacter, entity.GetType())
	assert.Equal(t, "artificer", entity.ClassID)
	assert.Same(t, char, entity.Character)
}

func TestRulesetEntity(t *testing.T) {
	rs := &entities.Ruleset{Meta: entities.RulesetMeta{ID: "homebrew", Name: "Homebrew"}}

	entity := WrapRuleset(rs)

	assert.Equal(t, "homebrew", entity.GetID())
	assert.Equal(t, EntityTypeRuleset, entity.GetType())
}

func TestWrappersAreCoreEntities(t *testing.T) {
	var _ core.Entity = WrapCharacter(&entities.Character{})
	var _ core.Entity = WrapRuleset(&entities.Ruleset{})
}
