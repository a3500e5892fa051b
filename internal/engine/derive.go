package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/ruleset"
)

const defaultSpellcastingAbility = entities.AbilityIntelligence

// ProficiencyBonus returns +2 at levels 1-4, rising by one every four levels
// to +6 at 17-20. Levels outside 1..20 are clamped.
func ProficiencyBonus(level int) int {
	return 2 + (clamp(level, entities.MinLevel, entities.MaxLevel)-1)/4
}

// AbilityModifier returns floor((score-10)/2) with score clamped to 1..30
func AbilityModifier(score int) int {
	diff := clamp(score, entities.MinAbilityScore, entities.MaxAbilityScore) - 10
	mod := diff / 2
	// Go division truncates toward zero, floor for negative odd values
	if diff < 0 && diff%2 != 0 {
		mod--
	}
	return mod
}

// Derive computes the stat view for a character. A nil ruleset is allowed;
// spellcasting then falls back to intelligence with no slots.
func Derive(char *entities.Character, rs *entities.Ruleset) *entities.DerivedStats {
	level := entities.MinLevel
	if char != nil && char.Level > 0 {
		level = char.Level
	}
	pb := ProficiencyBonus(level)

	out := &entities.DerivedStats{
		ProficiencyBonus: pb,
		AbilityModifiers: make(map[entities.Ability]int, len(entities.Abilities)),
		SaveTotals:       make(map[entities.Ability]int, len(entities.Abilities)),
		SkillTotals:      make(map[entities.Skill]int, len(entities.SkillAbilities)),
	}

	for _, ability := range entities.Abilities {
		mod := AbilityModifier(char.Score(ability))
		out.AbilityModifiers[ability] = mod

		save := mod
		if char.SaveProficient(ability) {
			save += pb
		}
		out.SaveTotals[ability] = save
	}

	for skill, ability := range entities.SkillAbilities {
		rank := 0
		if char != nil {
			rank = clamp(char.SkillProfs[skill], entities.RankNone, entities.RankExpertise)
		}
		out.SkillTotals[skill] = out.AbilityModifiers[ability] + pb*rank
	}

	var class *entities.ClassDef
	if char != nil {
		class = rs.Class(char.ClassID)
	}

	casting := defaultSpellcastingAbility
	if class != nil && class.Spellcasting != nil && class.Spellcasting.Ability.Valid() {
		casting = class.Spellcasting.Ability
	}
	out.SpellcastingAbility = casting
	out.SpellDC = 8 + pb + out.AbilityModifiers[casting]
	out.SpellAttack = pb + out.AbilityModifiers[casting]
	out.PassivePerception = 10 + out.SkillTotals[entities.SkillPerception]
	out.Initiative = out.AbilityModifiers[entities.AbilityDexterity]

	if class != nil {
		if class.Spellcasting != nil && len(class.Spellcasting.Slots) > 0 {
			out.SpellSlots = ruleset.SpellSlotsAt(class.Spellcasting.Slots, level)
		}
		if len(class.Scalars) > 0 {
			out.Scalars = make(map[string]int, len(class.Scalars))
			for name, table := range class.Scalars {
				out.Scalars[name] = ruleset.ScalarAt(table, level, 0)
			}
		}
	}

	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
