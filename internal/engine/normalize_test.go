package engine_test

import (
	"encoding/json"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

func (s *EngineTestSuite) TestNormalizeDefaults() {
	char := s.engine.NormalizeCharacter(&entities.Character{})

	s.Equal(engine.DefaultCharacterName, char.Name)
	s.Equal(1, char.Level)
	s.Equal(entities.HitPoints{Current: 10, Max: 10}, char.HP)
	s.Equal(10, char.AC)
	s.Equal(30, char.Speed)
	for _, ability := range entities.Abilities {
		s.Equal(10, char.Abilities[ability])
	}
	s.NotNil(char.Inventory)
	s.NotNil(char.Features)
	s.NotNil(char.Advancement)
	s.NotNil(char.Spells.Cantrips)
	s.Equal(s.now, char.CreatedAt)
	s.Equal(s.now, char.UpdatedAt)
}

func (s *EngineTestSuite) TestNormalizeClampsAndCanonicalises() {
	char := s.engine.NormalizeCharacter(&entities.Character{
		Name:      "Vex",
		Level:     27,
		Abilities: map[entities.Ability]int{entities.AbilityStrength: 40, entities.AbilityCharisma: -3},
		HP:        entities.HitPoints{Current: 50, Max: 30, Temp: -2},
		SkillProfs: map[entities.Skill]int{
			entities.SkillArcana:  5,
			entities.SkillStealth: 0,
			"juggling":            1,
		},
		SaveProfs: []entities.Ability{entities.AbilityWisdom, "LUCK", entities.AbilityDexterity, entities.AbilityWisdom},
		Spells:    entities.SpellBook{Cantrips: []string{"s2", "s1", "s2"}},
		Features:  []*entities.FeatureEntry{{Name: "Old Trick"}, nil},
	})

	s.Equal(20, char.Level)
	s.Equal(30, char.Abilities[entities.AbilityStrength])
	s.Equal(1, char.Abilities[entities.AbilityCharisma])
	s.Equal(entities.HitPoints{Current: 30, Max: 30, Temp: 0}, char.HP)
	s.Equal(map[entities.Skill]int{entities.SkillArcana: 2}, char.SkillProfs)
	s.Equal([]entities.Ability{entities.AbilityDexterity, entities.AbilityWisdom}, char.SaveProfs)
	s.Equal([]string{"s1", "s2"}, char.Spells.Cantrips)
	s.Require().Len(char.Features, 1)
	s.Equal("feature_1", char.Features[0].ID)
	s.Equal(20, char.Features[0].Level)
}

func (s *EngineTestSuite) TestNormalizeMigratesFlatLedger() {
	raw := `{
		"id": "legacy",
		"name": "Old Sheet",
		"classId": "artificer",
		"level": 3,
		"advancement": {"c1": ["s1", "s2"], "feat": "alert", "2": {"_granted": ["firebolt"]}}
	}`
	var loaded entities.Character
	s.Require().NoError(json.Unmarshal([]byte(raw), &loaded))

	char := s.engine.NormalizeCharacter(&loaded)

	s.Equal(entities.AdvancementRecord{"c1": {"s1", "s2"}, "feat": {"alert"}}, char.Advancement["3"])
	s.Equal(entities.AdvancementRecord{entities.GrantedMarker: {"firebolt"}}, char.Advancement["2"])
	s.Nil(char.LegacyAdvancement)
	s.True(s.engine.IsApplied(char, 3))
}

func (s *EngineTestSuite) TestNormalizeKeepsExistingRecordOverLegacy() {
	loaded := &entities.Character{
		Level:             3,
		Advancement:       map[string]entities.AdvancementRecord{"3": {"c1": {"s3"}}},
		LegacyAdvancement: entities.AdvancementRecord{"c1": {"s1"}},
	}

	char := s.engine.NormalizeCharacter(loaded)

	s.Equal([]string{"s3"}, char.Advancement["3"]["c1"])
}
