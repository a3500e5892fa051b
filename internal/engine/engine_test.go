package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	mockclock "github.com/KirkDiggler/rpg-sheet/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
)

func intPtr(v int) *int { return &v }

// testRuleset builds a small artificer-flavoured ruleset:
// level 2 grants firebolt, level 3 picks two cantrips, level 4 picks two
// infusions, level 5 grants and picks a spell, level 6 picks a feat.
func testRuleset() *entities.Ruleset {
	return &entities.Ruleset{
		Meta: entities.RulesetMeta{ID: "test", Name: "Test Rules", Version: "1.0"},
		Classes: map[string]*entities.ClassDef{
			"artificer": {
				ID:     "artificer",
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
					6: {Choices: []*entities.ChoiceSpec{
						{ID: "feat", From: "feats", Filter: &entities.ChoiceFilter{Tag: "combat"}},
					}},
				},
			},
			"wizard": {ID: "wizard", Name: "Wizard"},
		},
		Pools: entities.Pools{
			Spells: []*entities.Option{
				{ID: "s1", Name: "Spark"},
				{ID: "s2", Name: "Frost"},
				{ID: "s3", Name: "Mending"},
				{ID: "shield", Name: "Shield", Level: intPtr(1), Lists: []string{"artificer", "wizard"}},
				{ID: "magic_missile", Name: "Magic Missile", Level: intPtr(1), Lists: []string{"wizard"}},
			},
			Infusions: []*entities.Option{
				{ID: "enhanced_weapon", Name: "Enhanced Weapon", Requires: &entities.Requires{Class: "artificer"}},
				{ID: "bag_of_holding", Name: "Replicate Bag", Requires: &entities.Requires{Class: "artificer"}},
				{ID: "boots", Name: "Boots of the Winding Path", Requires: &entities.Requires{Class: "artificer", MinLevel: 6}},
			},
			Feats: []*entities.Option{
				{ID: "alert", Name: "Alert", Tags: []string{"combat"}},
				{ID: "lucky", Name: "Lucky", Tags: []string{"luck"}},
			},
		},
		FeaturesDictionary: map[string]*entities.FeatureDef{
			"firebolt":     {Name: "Fire Bolt", Description: "A mote of fire."},
			"tinkering":    {Name: "Magical Tinkering"},
			"extra_attack": {Name: "Extra Attack"},
		},
	}
}

type EngineTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockClock *mockclock.MockClock
	engine    engine.Engine
	rs        *entities.Ruleset
	now       time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockClock = mockclock.NewMockClock(s.ctrl)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.now).AnyTimes()

	eng, err := engine.New(&engine.Config{
		Clock:       s.mockClock,
		IDGenerator: idgen.NewSequential("feature"),
	})
	s.Require().NoError(err)
	s.engine = eng
	s.rs = testRuleset()
}

func (s *EngineTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EngineTestSuite) newCharacter(level int) *entities.Character {
	return s.engine.NormalizeCharacter(&entities.Character{
		ID:        "char_1",
		Name:      "Vex",
		RulesetID: "test",
		ClassID:   "artificer",
		Level:     level,
	})
}

func (s *EngineTestSuite) apply(char *entities.Character, level int, sel engine.Selections, force bool) *engine.ApplyLevelOutput {
	out, err := s.engine.ApplyLevel(&engine.ApplyLevelInput{
		Ruleset:    s.rs,
		Character:  char,
		Level:      level,
		Selections: sel,
		Force:      force,
	})
	s.Require().NoError(err)
	return out
}

func (s *EngineTestSuite) TestFreshGrant() {
	char := s.newCharacter(1)

	out := s.apply(char, 2, engine.Selections{}, false)

	var grants []*entities.FeatureEntry
	for _, f := range out.Character.Features {
		if f.HasTag(entities.FeatureTagGrant) {
			grants = append(grants, f)
		}
	}
	s.Require().Len(grants, 1)
	s.Equal("Fire Bolt", grants[0].Name)
	s.Equal(2, grants[0].Level)
	s.Equal("A mote of fire.", grants[0].Text)
	s.True(s.engine.IsApplied(out.Character, 2))
	s.Equal([]string{"firebolt"}, out.Character.Advancement["2"][entities.GrantedMarker])
	s.Equal([]string{"firebolt"}, out.Granted)
	s.Equal(2, out.Character.Level)
	s.Equal(s.now, out.Character.UpdatedAt)

	s.False(s.engine.IsApplied(char, 2), "input character is not mutated")
	s.Empty(char.Features)
}

func (s *EngineTestSuite) TestCantripChoice() {
	char := s.newCharacter(2)

	out := s.apply(char, 3, engine.Selections{"c1": {"s1", "s2"}}, false)

	s.Equal([]string{"s1", "s2"}, out.Character.Spells.Cantrips)
	s.Empty(out.Character.Spells.Known)
	s.Equal([]string{"s1", "s2"}, out.Character.Advancement["3"]["c1"])

	var summaries []*entities.FeatureEntry
	for _, f := range out.Character.Features {
		if f.HasTag(entities.FeatureTagChoice) {
			summaries = append(summaries, f)
		}
	}
	s.Require().Len(summaries, 1)
	s.Equal("Cantrips: Spark, Frost", summaries[0].Text)
}

func (s *EngineTestSuite) TestSpellPicksFoldByLevel() {
	char := s.newCharacter(4)

	out := s.apply(char, 5, engine.Selections{"sp": {"shield"}}, false)

	s.Equal([]string{"shield"}, out.Character.Spells.Known)
	s.Empty(out.Character.Spells.Cantrips)
	s.NotContains(out.Character.Advancement["5"], entities.GrantedMarker)
}

func (s *EngineTestSuite) TestInfusionChoice() {
	char := s.newCharacter(3)

	out := s.apply(char, 4, engine.Selections{"inf": {"enhanced_weapon", "bag_of_holding"}}, false)

	s.Equal([]string{"bag_of_holding", "enhanced_weapon"}, out.Character.Infusions.Learned)
}

func (s *EngineTestSuite) TestMissingNode() {
	char := s.newCharacter(6)

	out, err := s.engine.ApplyLevel(&engine.ApplyLevelInput{
		Ruleset:   s.rs,
		Character: char,
		Level:     7,
	})

	s.Nil(out)
	s.Require().Error(err)
	s.True(errors.HasReason(err, errors.ReasonProgressionMissing))
	s.True(errors.IsFailedPrecondition(err))
	s.Equal([]int{1, 2, 3, 4, 5, 6}, errors.GetMeta(err)["available_levels"])
	s.Empty(char.Advancement)
}

func (s *EngineTestSuite) TestUnknownClassIsProgressionMissing() {
	char := s.newCharacter(1)
	char.ClassID = "bard"

	_, err := s.engine.ApplyLevel(&engine.ApplyLevelInput{Ruleset: s.rs, Character: char, Level: 2})

	s.True(errors.HasReason(err, errors.ReasonProgressionMissing))
	s.Equal([]int{}, errors.GetMeta(err)["available_levels"])
}

func (s *EngineTestSuite) TestIdempotence() {
	char := s.newCharacter(2)
	sel := engine.Selections{"c1": {"s1", "s2"}}

	once := s.apply(char, 3, sel, false)
	twice := s.apply(once.Character, 3, sel, false)

	s.False(twice.Applied)
	s.Equal(once.Character, twice.Character)
}

func (s *EngineTestSuite) TestRevertReapplyIdentity() {
	char := s.newCharacter(2)
	sel := engine.Selections{"c1": {"s1", "s2"}}

	first := s.apply(char, 3, sel, false)
	forced := s.apply(first.Character, 3, sel, true)

	s.True(forced.Reverted)
	s.Equal(first.Character.Features, forced.Character.Features)
	s.Equal(first.Character.Spells, forced.Character.Spells)
	s.Equal(first.Character.Infusions, forced.Character.Infusions)
	s.Equal(first.Character.Advancement, forced.Character.Advancement)
}

func (s *EngineTestSuite) TestForcedLowerLevelKeepsFeatureOrder() {
	char := s.newCharacter(1)
	sel := engine.Selections{"c1": {"s1", "s2"}}

	l2 := s.apply(char, 2, nil, false)
	l3 := s.apply(l2.Character, 3, sel, false)
	forced := s.apply(l3.Character, 2, nil, true)

	s.True(forced.Reverted)
	s.Require().Len(forced.Character.Features, 2)
	s.Equal("grant:2:firebolt", forced.Character.Features[0].ID)
	s.Equal("choice:3", forced.Character.Features[1].ID)
	s.Equal(l3.Character.Features, forced.Character.Features)
	s.Equal(l3.Character.Spells, forced.Character.Spells)
	s.Equal(l3.Character.Advancement, forced.Character.Advancement)
}

func (s *EngineTestSuite) TestForcedRepick() {
	rs := s.rs
	rs.Classes["artificer"].Progression[3].Choices[0].Count = 1
	char := s.newCharacter(2)

	first := s.apply(char, 3, engine.Selections{"c1": {"s1"}}, false)
	second := s.apply(first.Character, 3, engine.Selections{"c1": {"s2"}}, true)

	s.Contains(second.Character.Spells.Cantrips, "s2")
	s.NotContains(second.Character.Spells.Cantrips, "s1")
	s.Equal([]string{"s2"}, second.Character.Advancement["3"]["c1"])
}

func (s *EngineTestSuite) TestForcedMissingNodeLeavesRecord() {
	char := s.newCharacter(2)
	applied := s.apply(char, 3, engine.Selections{"c1": {"s1", "s2"}}, false)
	delete(s.rs.Classes["artificer"].Progression, 3)

	_, err := s.engine.ApplyLevel(&engine.ApplyLevelInput{
		Ruleset:   s.rs,
		Character: applied.Character,
		Level:     3,
		Force:     true,
	})

	s.True(errors.HasReason(err, errors.ReasonProgressionMissing))
	s.True(s.engine.IsApplied(applied.Character, 3))
}

func (s *EngineTestSuite) TestRevertKeepsManualFeatures() {
	char := s.newCharacter(2)
	char.Features = append(char.Features, &entities.FeatureEntry{
		ID: "m1", Name: "Lucky Charm", Level: 3, Tags: []string{entities.FeatureTagManual},
	})
	applied := s.apply(char, 3, engine.Selections{"c1": {"s1", "s3"}}, false)

	reverted := s.engine.Revert(applied.Character, 3)

	s.False(s.engine.IsApplied(reverted, 3))
	s.Empty(reverted.Spells.Cantrips)
	s.Require().Len(reverted.Features, 1)
	s.Equal("m1", reverted.Features[0].ID)
	s.True(s.engine.IsApplied(applied.Character, 3), "revert works on a copy")
}

func (s *EngineTestSuite) TestRevertWithoutRecordIsNoop() {
	char := s.newCharacter(2)
	s.Equal(char, s.engine.Revert(char, 9))
}

func (s *EngineTestSuite) TestRevertEmptyRecordKeepsFeatures() {
	char := s.newCharacter(2)
	char.Features = append(char.Features, &entities.FeatureEntry{
		ID: "grant:2:firebolt", Name: "Fire Bolt", Level: 2, Tags: []string{entities.FeatureTagGrant},
	})
	char.Advancement = map[string]entities.AdvancementRecord{"2": {}}

	reverted := s.engine.Revert(char, 2)

	s.Require().Len(reverted.Features, 1)
	s.Equal("grant:2:firebolt", reverted.Features[0].ID)
	s.Contains(reverted.Advancement, "2")
}

func (s *EngineTestSuite) TestApplyValidatesBeforeMutating() {
	char := s.newCharacter(2)

	testCases := []struct {
		name string
		sel  engine.Selections
	}{
		{name: "too few picks", sel: engine.Selections{"c1": {"s1"}}},
		{name: "missing choice", sel: engine.Selections{}},
		{name: "duplicate picks", sel: engine.Selections{"c1": {"s1", "s1"}}},
		{name: "unknown choice", sel: engine.Selections{"c1": {"s1", "s2"}, "bogus": {"x"}}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.engine.ApplyLevel(&engine.ApplyLevelInput{
				Ruleset:    s.rs,
				Character:  char,
				Level:      3,
				Selections: tc.sel,
			})
			s.Nil(out)
			s.True(errors.HasReason(err, errors.ReasonChoiceCountMismatch), "got %v", err)
			s.False(s.engine.IsApplied(char, 3))
		})
	}
}

func (s *EngineTestSuite) TestValidateSelectionsRejectsIneligibleOption() {
	char := s.newCharacter(3)

	err := s.engine.ValidateSelections(&engine.ValidateSelectionsInput{
		Ruleset:    s.rs,
		Character:  char,
		Level:      4,
		Selections: engine.Selections{"inf": {"enhanced_weapon", "boots"}},
	})

	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("boots", errors.GetMeta(err)["option_id"])
}

func (s *EngineTestSuite) TestBuildLevelUpPlan() {
	char := s.newCharacter(4)

	plan, err := s.engine.BuildLevelUpPlan(&engine.BuildLevelUpPlanInput{
		Ruleset:   s.rs,
		Character: char,
		Level:     5,
	})
	s.Require().NoError(err)

	s.False(plan.Missing)
	s.False(plan.Applied)
	s.Require().Len(plan.Grants, 1)
	s.Equal("Extra Attack", plan.Grants[0].Name)
	s.Require().Len(plan.Choices, 1)
	s.Require().Len(plan.Choices[0].Options, 1)
	s.Equal("shield", plan.Choices[0].Options[0].ID)
}

func (s *EngineTestSuite) TestBuildLevelUpPlanShowsPreviousPicks() {
	char := s.newCharacter(2)
	applied := s.apply(char, 3, engine.Selections{"c1": {"s2", "s3"}}, false)

	plan, err := s.engine.BuildLevelUpPlan(&engine.BuildLevelUpPlanInput{
		Ruleset:   s.rs,
		Character: applied.Character,
		Level:     3,
	})
	s.Require().NoError(err)

	s.True(plan.Applied)
	s.Equal([]string{"s2", "s3"}, plan.Choices[0].Previous)
}

func (s *EngineTestSuite) TestBuildLevelUpPlanMissing() {
	plan, err := s.engine.BuildLevelUpPlan(&engine.BuildLevelUpPlanInput{
		Ruleset:   s.rs,
		Character: s.newCharacter(6),
		Level:     12,
	})
	s.Require().NoError(err)
	s.True(plan.Missing)
	s.Empty(plan.Grants)
	s.Empty(plan.Choices)
}

func (s *EngineTestSuite) TestPendingLevels() {
	char := s.newCharacter(1)
	char = s.apply(char, 2, nil, false).Character
	char = s.apply(char, 3, engine.Selections{"c1": {"s1", "s2"}}, false).Character

	s.Equal([]int{1, 4, 5}, s.engine.PendingLevels(char, 1, 5))
	s.Equal([]int{2, 3}, engine.AppliedLevels(char))
	s.Equal([]int{20}, s.engine.PendingLevels(char, 20, 25))
}

func (s *EngineTestSuite) TestRecordApplied() {
	char := s.newCharacter(1)
	record := entities.AdvancementRecord{"feat": {"alert"}}

	out := engine.RecordApplied(char, 6, record)
	record["feat"][0] = "changed"

	s.True(engine.IsApplied(out, 6))
	s.Equal([]string{"alert"}, out.Advancement["6"]["feat"])
	s.False(engine.IsApplied(char, 6))
}
