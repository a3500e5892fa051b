package engine

import (
	"slices"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// Character defaults
const (
	DefaultCharacterName = "Unnamed Character"
	DefaultHP            = 10
	DefaultAC            = 10
	DefaultSpeed         = 30
)

// NormalizeCharacter returns a copy of char that satisfies the record
// invariants: defaults for missing fields, scores and levels in range, sets
// sorted and unique, and a level keyed ledger. A flat legacy ledger is filed
// under the character's current level unless that level already has a record.
func (e *engine) NormalizeCharacter(char *entities.Character) *entities.Character {
	c := char.Clone()
	if c == nil {
		c = &entities.Character{}
	}

	now := e.clock.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}

	if c.Name == "" {
		c.Name = DefaultCharacterName
	}
	c.Level = clamp(c.Level, entities.MinLevel, entities.MaxLevel)

	if c.Abilities == nil {
		c.Abilities = make(map[entities.Ability]int, len(entities.Abilities))
	}
	for _, ability := range entities.Abilities {
		score, ok := c.Abilities[ability]
		if !ok {
			score = entities.DefaultAbilityScore
		}
		c.Abilities[ability] = clamp(score, entities.MinAbilityScore, entities.MaxAbilityScore)
	}

	if c.HP.Max <= 0 {
		c.HP.Max = DefaultHP
		if c.HP.Current <= 0 {
			c.HP.Current = DefaultHP
		}
	}
	c.HP.Current = clamp(c.HP.Current, 0, c.HP.Max)
	c.HP.Temp = max(c.HP.Temp, 0)

	if c.AC <= 0 {
		c.AC = DefaultAC
	}
	if c.Speed <= 0 {
		c.Speed = DefaultSpeed
	}

	for skill, rank := range c.SkillProfs {
		if _, known := entities.SkillAbilities[skill]; !known || rank <= entities.RankNone {
			delete(c.SkillProfs, skill)
			continue
		}
		c.SkillProfs[skill] = min(rank, entities.RankExpertise)
	}

	saves := slices.DeleteFunc(c.SaveProfs, func(a entities.Ability) bool { return !a.Valid() })
	slices.Sort(saves)
	c.SaveProfs = slices.Compact(saves)

	c.Spells.Cantrips = addToSet(c.Spells.Cantrips)
	c.Spells.Known = addToSet(c.Spells.Known)
	c.Infusions.Learned = addToSet(c.Infusions.Learned)

	if c.Inventory == nil {
		c.Inventory = []*entities.Item{}
	}
	c.Inventory = slices.DeleteFunc(c.Inventory, func(it *entities.Item) bool { return it == nil })

	if c.Features == nil {
		c.Features = []*entities.FeatureEntry{}
	}
	c.Features = slices.DeleteFunc(c.Features, func(f *entities.FeatureEntry) bool { return f == nil })
	for _, f := range c.Features {
		if f.ID == "" {
			f.ID = e.idGen.Generate()
		}
		if f.Level <= 0 {
			f.Level = c.Level
		}
	}

	if c.Advancement == nil {
		c.Advancement = map[string]entities.AdvancementRecord{}
	}
	if len(c.LegacyAdvancement) > 0 {
		key := levelKey(c.Level)
		if len(c.Advancement[key]) == 0 {
			c.Advancement[key] = c.LegacyAdvancement.Clone()
		}
	}
	c.LegacyAdvancement = nil

	return c
}
