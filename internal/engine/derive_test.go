package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

func TestProficiencyBonus(t *testing.T) {
	testCases := []struct {
		level    int
		expected int
	}{
		{level: 0, expected: 2},
		{level: 1, expected: 2},
		{level: 4, expected: 2},
		{level: 5, expected: 3},
		{level: 9, expected: 4},
		{level: 13, expected: 5},
		{level: 17, expected: 6},
		{level: 20, expected: 6},
		{level: 25, expected: 6},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, engine.ProficiencyBonus(tc.level), "level %d", tc.level)
	}
}

func TestAbilityModifier(t *testing.T) {
	testCases := []struct {
		score    int
		expected int
	}{
		{score: 10, expected: 0},
		{score: 11, expected: 0},
		{score: 8, expected: -1},
		{score: 9, expected: -1},
		{score: 20, expected: 5},
		{score: 1, expected: -5},
		{score: 0, expected: -5},
		{score: 30, expected: 10},
		{score: 35, expected: 10},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, engine.AbilityModifier(tc.score), "score %d", tc.score)
	}
}

func TestDerive(t *testing.T) {
	rs := testRuleset()
	char := &entities.Character{
		ClassID: "artificer",
		Level:   5,
		Abilities: map[entities.Ability]int{
			entities.AbilityDexterity:    14,
			entities.AbilityIntelligence: 17,
			entities.AbilityWisdom:       12,
		},
		SaveProfs: []entities.Ability{entities.AbilityConstitution, entities.AbilityIntelligence},
		SkillProfs: map[entities.Skill]int{
			entities.SkillArcana:     entities.RankExpertise,
			entities.SkillPerception: entities.RankProficient,
		},
	}

	stats := engine.Derive(char, rs)

	assert.Equal(t, 3, stats.ProficiencyBonus)
	assert.Equal(t, 3, stats.AbilityModifiers[entities.AbilityIntelligence])
	assert.Equal(t, 0, stats.AbilityModifiers[entities.AbilityStrength], "missing scores default to 10")
	assert.Equal(t, 3, stats.SaveTotals[entities.AbilityConstitution])
	assert.Equal(t, 6, stats.SaveTotals[entities.AbilityIntelligence])
	assert.Equal(t, 2, stats.SaveTotals[entities.AbilityDexterity])
	assert.Equal(t, 9, stats.SkillTotals[entities.SkillArcana])
	assert.Equal(t, 4, stats.SkillTotals[entities.SkillPerception])
	assert.Equal(t, 2, stats.SkillTotals[entities.SkillStealth])
	assert.Equal(t, 14, stats.PassivePerception)
	assert.Equal(t, entities.AbilityIntelligence, stats.SpellcastingAbility)
	assert.Equal(t, 14, stats.SpellDC)
	assert.Equal(t, 6, stats.SpellAttack)
	assert.Equal(t, 2, stats.Initiative)
	assert.Equal(t, map[int]int{1: 4, 2: 2}, stats.SpellSlots)
}

func TestDeriveSpellcastingAbilityFromClass(t *testing.T) {
	rs := testRuleset()
	rs.Classes["wizard"].Spellcasting = &entities.Spellcasting{Ability: entities.AbilityWisdom}
	char := &entities.Character{
		ClassID:   "wizard",
		Level:     1,
		Abilities: map[entities.Ability]int{entities.AbilityWisdom: 16, entities.AbilityIntelligence: 8},
	}

	stats := engine.Derive(char, rs)

	assert.Equal(t, entities.AbilityWisdom, stats.SpellcastingAbility)
	assert.Equal(t, 13, stats.SpellDC)
	assert.Empty(t, stats.SpellSlots)
}

func TestDeriveDefaults(t *testing.T) {
	stats := engine.Derive(nil, nil)

	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.ProficiencyBonus)
	assert.Len(t, stats.AbilityModifiers, 6)
	assert.Len(t, stats.SkillTotals, 18)
	assert.Equal(t, 10, stats.SpellDC)
	assert.Equal(t, 10, stats.PassivePerception)
}

func TestDeriveIsPure(t *testing.T) {
	rs := testRuleset()
	char := &entities.Character{
		ClassID:    "artificer",
		Level:      3,
		Abilities:  map[entities.Ability]int{entities.AbilityIntelligence: 15},
		SkillProfs: map[entities.Skill]int{entities.SkillArcana: 7},
	}
	before := char.Clone()

	first := engine.Derive(char, rs)
	second := engine.Derive(char, rs)

	assert.Equal(t, first, second)
	assert.Equal(t, before, char)
	assert.Equal(t, 2+2*2, first.SkillTotals[entities.SkillArcana], "rank is clamped to expertise")
}

func TestDeriveScalars(t *testing.T) {
	rs := testRuleset()
	rs.Classes["artificer"].Scalars = map[string]map[int]int{"infusionsKnown": {2: 4, 6: 6}}

	assert.Equal(t, 4, engine.Derive(&entities.Character{ClassID: "artificer", Level: 5}, rs).Scalars["infusionsKnown"])
	assert.Equal(t, 6, engine.Derive(&entities.Character{ClassID: "artificer", Level: 6}, rs).Scalars["infusionsKnown"])
}
