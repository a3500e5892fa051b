package testutils

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// Fixture identifiers
const (
	TestRulesetID   = "test"
	TestClassID     = "artificer"
	TestCharacterID = "char_test_001"

	// TestCharacterName is the default character name for test fixtures
	TestCharacterName = "Vex Ironquill"
)

func intPtr(v int) *int { return &v }

// TestRuleset returns a small artificer ruleset:
// level 1 grants tinkering, 2 grants firebolt, 3 picks two cantrips,
// 4 picks two infusions, 5 grants extra attack and picks a spell.
// Levels 6 and up have no node.
func TestRuleset() *entities.Ruleset {
	return &entities.Ruleset{
		Meta: entities.RulesetMeta{ID: TestRulesetID, Name: "Test Rules", Version: "1.0"},
		Classes: map[string]*entities.ClassDef{
			TestClassID: {
				ID:     TestClassID,
				Name:   "Artificer",
				HitDie: 8,
				Spellcasting: &entities.Spellcasting{
					Ability: entities.AbilityIntelligence,
					Slots:   map[int]map[int]int{1: {1: 2}, 5: {1: 4, 2: 2}},
				},
				Progression: map[int]*entities.ProgressionNode{
					1: {Grants: []string{"tinkering"}},
					2: {Grants: []string{"firebolt"}},
					3: {Choices: []*entities.ChoiceSpec{
						{ID: "c1", Title: "Cantrips", From: "spells.cantrip", Count: 2},
					}},
					4: {Choices: []*entities.ChoiceSpec{
						{ID: "inf", Title: "Infusions", From: "infusions", Count: 2},
					}},
					5: {
						Grants: []string{"extra_attack"},
						Choices: []*entities.ChoiceSpec{
							{ID: "sp", Title: "Spell", From: "spells.1", Count: 1},
						},
					},
				},
			},
		},
		Pools: entities.Pools{
			Spells: []*entities.Option{
				{ID: "s1", Name: "Spark"},
				{ID: "s2", Name: "Frost"},
				{ID: "s3", Name: "Mending"},
				{ID: "shield", Name: "Shield", Level: intPtr(1), Lists: []string{TestClassID}},
			},
			Infusions: []*entities.Option{
				{ID: "enhanced_weapon", Name: "Enhanced Weapon", Requires: &entities.Requires{Class: TestClassID}},
				{ID: "bag_of_holding", Name: "Replicate Bag", Requires: &entities.Requires{Class: TestClassID}},
				{ID: "boots", Name: "Boots of the Winding Path", Requires: &entities.Requires{Class: TestClassID, MinLevel: 6}},
			},
		},
		FeaturesDictionary: map[string]*entities.FeatureDef{
			"tinkering":    {Name: "Magical Tinkering"},
			"firebolt":     {Name: "Fire Bolt", Description: "A mote of fire."},
			"extra_attack": {Name: "Extra Attack"},
		},
	}
}

// TestRulesetJSON is TestRuleset as an importable source document using the
// loose shape authors write: top-level pools and a features dictionary.
const TestRulesetJSON = `{
  "meta": {"id": "test", "name": "Test Rules"},
  "classes": {
    "artificer": {
      "name": "Artificer",
      "hitDie": 8,
      "progression": {
        "1": {"grants": ["tinkering"]},
        "2": {"grants": ["firebolt"]},
        "3": {"choices": [{"id": "c1", "title": "Cantrips", "from": "spells.cantrip", "count": 2}]}
      }
    }
  },
  "spells": [
    {"id": "s1", "name": "Spark"},
    {"id": "s2", "name": "Frost"}
  ],
  "features": {
    "firebolt": {"name": "Fire Bolt"}
  }
}`
