package entities

import (
	"maps"
	"slices"
	"time"
)

// Character is the persisted character record. Set-valued fields are kept
// sorted and duplicate free so the JSON document round-trips unchanged.
//
// NOTE: This is a data-only struct. Derived numbers (modifiers, totals, spell
// DC) come from engine.Derive and are never stored here.
type Character struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	RulesetID   string                       `json:"rulesetId,omitempty"`
	ClassID     string                       `json:"classId,omitempty"`
	SubclassID  string                       `json:"subclassId,omitempty"`
	Level       int                          `json:"level"`
	Abilities   map[Ability]int              `json:"abilities"`
	HP          HitPoints                    `json:"hp"`
	AC          int                          `json:"ac"`
	Speed       int                          `json:"speed"`
	SkillProfs  map[Skill]int                `json:"skillProfs,omitempty"`
	SaveProfs   []Ability                    `json:"saveProfs,omitempty"`
	Inventory   []*Item                      `json:"inventory"`
	Spells      SpellBook                    `json:"spells"`
	Infusions   InfusionSet                  `json:"infusions"`
	Features    []*FeatureEntry              `json:"features"`
	Advancement map[string]AdvancementRecord `json:"advancement"`
	Notes       string                       `json:"notes"`
	PortraitRef string                       `json:"portraitRef,omitempty"`
	CreatedAt   time.Time                    `json:"createdAt"`
	UpdatedAt   time.Time                    `json:"updatedAt"`

	// LegacyAdvancement holds picks read from an old flat ledger that was not
	// keyed by level. engine.NormalizeCharacter files them under a level.
	LegacyAdvancement AdvancementRecord `json:"-"`
}

// HitPoints tracks current, maximum and temporary hit points
type HitPoints struct {
	Current int `json:"current"`
	Max     int `json:"max"`
	Temp    int `json:"temp"`
}

// Item is an inventory line
type Item struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
	Note string `json:"note,omitempty"`
}

// SpellBook holds the character's spell ids
type SpellBook struct {
	Cantrips []string `json:"cantrips"`
	Known    []string `json:"known"`
}

// InfusionSet holds learned infusion ids
type InfusionSet struct {
	Learned []string `json:"learned"`
}

// FeatureEntry is one line of the feature list
type FeatureEntry struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Level int      `json:"level"`
	Text  string   `json:"text,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// HasTag reports whether the entry carries tag
func (f *FeatureEntry) HasTag(tag string) bool {
	return slices.Contains(f.Tags, tag)
}

// AdvancementRecord maps a choice id to the option ids picked for it.
// A non-empty record for a level means that level is applied.
type AdvancementRecord map[string][]string

// Clone returns a deep copy of the record
func (r AdvancementRecord) Clone() AdvancementRecord {
	if r == nil {
		return nil
	}
	out := make(AdvancementRecord, len(r))
	for k, v := range r {
		out[k] = slices.Clone(v)
	}
	return out
}

// Score returns the ability score, defaulting missing entries to 10
func (c *Character) Score(a Ability) int {
	if c == nil {
		return DefaultAbilityScore
	}
	if v, ok := c.Abilities[a]; ok {
		return v
	}
	return DefaultAbilityScore
}

// SaveProficient reports whether the character is proficient in a's save
func (c *Character) SaveProficient(a Ability) bool {
	return c != nil && slices.Contains(c.SaveProfs, a)
}

// Clone returns a deep copy so callers can mutate the result freely
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}

	out := *c
	out.Abilities = maps.Clone(c.Abilities)
	out.SkillProfs = maps.Clone(c.SkillProfs)
	out.SaveProfs = slices.Clone(c.SaveProfs)
	out.Spells = SpellBook{
		Cantrips: slices.Clone(c.Spells.Cantrips),
		Known:    slices.Clone(c.Spells.Known),
	}
	out.Infusions = InfusionSet{Learned: slices.Clone(c.Infusions.Learned)}
	out.LegacyAdvancement = c.LegacyAdvancement.Clone()

	if c.Inventory != nil {
		out.Inventory = make([]*Item, len(c.Inventory))
		for i, item := range c.Inventory {
			if item != nil {
				cp := *item
				out.Inventory[i] = &cp
			}
		}
	}

	if c.Features != nil {
		out.Features = make([]*FeatureEntry, len(c.Features))
		for i, f := range c.Features {
			if f != nil {
				cp := *f
				cp.Tags = slices.Clone(f.Tags)
				out.Features[i] = &cp
			}
		}
	}

	if c.Advancement != nil {
		out.Advancement = make(map[string]AdvancementRecord, len(c.Advancement))
		for k, v := range c.Advancement {
			out.Advancement[k] = v.Clone()
		}
	}

	return &out
}
