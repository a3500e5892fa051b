package character_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/character"
	mockclock "github.com/KirkDiggler/rpg-sheet/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	charactermock "github.com/KirkDiggler/rpg-sheet/internal/repositories/character/mock"
	rulesetmock "github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/settings"
	settingsmock "github.com/KirkDiggler/rpg-sheet/internal/repositories/settings/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/retry"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-sheet/internal/testutils/mocks"
)

// stubRoller always rolls the same four dice
type stubRoller struct{}

func (r *stubRoller) Roll(_ int) (int, error)       { return 4, nil }
func (r *stubRoller) RollN(_, _ int) ([]int, error) { return []int{6, 1, 5, 4}, nil }

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockCharRepo     *charactermock.MockRepository
	mockRulesetRepo  *rulesetmock.MockRepository
	mockSettingsRepo *settingsmock.MockRepository
	mockClock        *mockclock.MockClock
	orchestrator     character.Service
	ctx              context.Context
	now              time.Time
	stored           []*entities.Character
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockCharRepo = charactermock.NewMockRepository(s.ctrl)
	s.mockRulesetRepo = rulesetmock.NewMockRepository(s.ctrl)
	s.mockSettingsRepo = settingsmock.NewMockRepository(s.ctrl)
	s.mockClock = mockclock.NewMockClock(s.ctrl)
	s.ctx = context.Background()
	s.now = time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	s.mockClock.EXPECT().Now().Return(s.now).AnyTimes()
	s.stored = nil

	eng, err := engine.New(&engine.Config{
		Clock:       s.mockClock,
		IDGenerator: idgen.NewSequential("feature"),
	})
	s.Require().NoError(err)

	s.orchestrator, err = character.NewOrchestrator(&character.Config{
		CharacterRepo: s.mockCharRepo,
		RulesetRepo:   s.mockRulesetRepo,
		SettingsRepo:  s.mockSettingsRepo,
		Engine:        eng,
		IDGenerator:   idgen.NewSequential("char"),
		DiceRoller:    &stubRoller{},
		Clock:         s.mockClock,
		Retry:         retry.Policy{Attempts: 2, Backoff: time.Millisecond},
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *OrchestratorTestSuite) expectGet(char *entities.Character) {
	mocks.ExpectCharacterGet(s.mockCharRepo, char)
}

func (s *OrchestratorTestSuite) expectRuleset() {
	mocks.ExpectRulesetGet(s.mockRulesetRepo, testutils.TestRuleset())
}

func (s *OrchestratorTestSuite) expectPut() {
	mocks.ExpectCharacterPut(s.mockCharRepo, &s.stored)
}

func (s *OrchestratorTestSuite) TestNewOrchestratorValidation() {
	_, err := character.NewOrchestrator(&character.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreate() {
	s.expectRuleset()
	s.expectPut()

	out, err := s.orchestrator.Create(s.ctx, &character.CreateInput{
		Name:      "  Vex  ",
		RulesetID: testutils.TestRulesetID,
		ClassID:   testutils.TestClassID,
		Level:     3,
		Abilities: map[entities.Ability]int{entities.AbilityConstitution: 14},
	})
	s.Require().NoError(err)

	char := out.Character
	s.Equal("char_1", char.ID)
	s.Equal("Vex", char.Name)
	s.Equal(3, char.Level)
	s.Equal(10, char.Abilities[entities.AbilityStrength])
	s.Equal(entities.HitPoints{Current: 24, Max: 24}, char.HP)
	s.Equal(s.now, char.CreatedAt)
	s.Empty(char.Advancement)
	s.Require().Len(s.stored, 1)
	s.Equal(char, s.stored[0])
}

func (s *OrchestratorTestSuite) TestCreateUsesActiveRuleset() {
	s.mockSettingsRepo.EXPECT().
		Get(gomock.Any(), settings.GetInput{Key: settings.KeyActiveRuleset}).
		Return(&settings.GetOutput{Value: testutils.TestRulesetID}, nil)
	s.expectRuleset()
	s.expectPut()

	out, err := s.orchestrator.Create(s.ctx, &character.CreateInput{ClassID: testutils.TestClassID})
	s.Require().NoError(err)

	s.Equal(testutils.TestRulesetID, out.Character.RulesetID)
	s.Equal(engine.DefaultCharacterName, out.Character.Name)
	s.Equal(1, out.Character.Level)
	s.Equal(8, out.Character.HP.Max)
}

func (s *OrchestratorTestSuite) TestCreateWithoutRuleset() {
	s.mockSettingsRepo.EXPECT().
		Get(gomock.Any(), settings.GetInput{Key: settings.KeyActiveRuleset}).
		Return(nil, errors.NotFound("setting active_ruleset_id is not set"))
	s.expectPut()

	out, err := s.orchestrator.Create(s.ctx, &character.CreateInput{Name: "Drifter"})
	s.Require().NoError(err)

	s.Empty(out.Character.RulesetID)
	s.Equal(entities.HitPoints{Current: engine.DefaultHP, Max: engine.DefaultHP}, out.Character.HP)
}

func (s *OrchestratorTestSuite) TestCreateUnknownClass() {
	s.expectRuleset()

	_, err := s.orchestrator.Create(s.ctx, &character.CreateInput{
		RulesetID: testutils.TestRulesetID,
		ClassID:   "bard",
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal([]string{testutils.TestClassID}, errors.GetMeta(err)["classes"])
}

func (s *OrchestratorTestSuite) TestCreateRollsAbilities() {
	s.expectRuleset()
	s.expectPut()

	out, err := s.orchestrator.Create(s.ctx, &character.CreateInput{
		RulesetID:     testutils.TestRulesetID,
		ClassID:       testutils.TestClassID,
		Abilities:     map[entities.Ability]int{entities.AbilityIntelligence: 17},
		RollAbilities: true,
	})
	s.Require().NoError(err)

	s.Equal(17, out.Character.Abilities[entities.AbilityIntelligence])
	s.Equal(15, out.Character.Abilities[entities.AbilityStrength])
	s.Equal(15, out.Character.Abilities[entities.AbilityCharisma])
}

func (s *OrchestratorTestSuite) TestCreateValidation() {
	_, err := s.orchestrator.Create(s.ctx, &character.CreateInput{Level: 21})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Create(s.ctx, &character.CreateInput{Abilities: map[entities.Ability]int{"LUCK": 3}})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestGetDerives() {
	char := builders.NewCharacterBuilder().WithLevel(5).Build()
	s.expectGet(char)
	s.expectRuleset()

	out, err := s.orchestrator.Get(s.ctx, &character.GetInput{CharacterID: char.ID})
	s.Require().NoError(err)

	s.Equal(3, out.Derived.ProficiencyBonus)
	s.Equal(entities.AbilityIntelligence, out.Derived.SpellcastingAbility)
	s.Equal(14, out.Derived.SpellDC)
	s.NotNil(out.Ruleset)
}

func (s *OrchestratorTestSuite) TestGetWithMissingRuleset() {
	char := builders.NewCharacterBuilder().Build()
	s.expectGet(char)
	s.mockRulesetRepo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(nil, errors.NotFound("ruleset with ID test not found"))

	out, err := s.orchestrator.Get(s.ctx, &character.GetInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.Nil(out.Ruleset)
	s.Equal(2, out.Derived.ProficiencyBonus)
}

func (s *OrchestratorTestSuite) TestGetNotFound() {
	s.mockCharRepo.EXPECT().
		Get(gomock.Any(), characterrepo.GetInput{ID: "ghost"}).
		Return(nil, errors.NotFound("character with ID ghost not found"))

	_, err := s.orchestrator.Get(s.ctx, &character.GetInput{CharacterID: "ghost"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestList() {
	s.mockCharRepo.EXPECT().
		ListAll(gomock.Any(), characterrepo.ListAllInput{RulesetID: testutils.TestRulesetID}).
		Return(&characterrepo.ListAllOutput{Characters: []*entities.Character{
			{ID: "a", Name: "Alpha", Level: 40},
			builders.NewCharacterBuilder().Build(),
		}}, nil)

	out, err := s.orchestrator.List(s.ctx, &character.ListInput{RulesetID: testutils.TestRulesetID})
	s.Require().NoError(err)

	s.Require().Len(out.Characters, 2)
	s.Equal(20, out.Characters[0].Level)
}

func (s *OrchestratorTestSuite) TestDamageSpendsTempFirst() {
	char := builders.NewCharacterBuilder().WithHP(9, 9, 5).Build()
	s.expectGet(char)
	s.expectPut()

	out, err := s.orchestrator.Damage(s.ctx, &character.DamageInput{CharacterID: char.ID, Amount: 7})
	s.Require().NoError(err)

	s.Equal(5, out.Absorbed)
	s.Equal(entities.HitPoints{Current: 7, Max: 9, Temp: 0}, out.Character.HP)
	s.Equal(s.now, s.stored[0].UpdatedAt)
}

func (s *OrchestratorTestSuite) TestDamageFloorsAtZero() {
	char := builders.NewCharacterBuilder().WithHP(4, 9, 0).Build()
	s.expectGet(char)
	s.expectPut()

	out, err := s.orchestrator.Damage(s.ctx, &character.DamageInput{CharacterID: char.ID, Amount: 30})
	s.Require().NoError(err)
	s.Equal(0, out.Character.HP.Current)
}

func (s *OrchestratorTestSuite) TestHealCapsAtMax() {
	char := builders.NewCharacterBuilder().WithHP(3, 9, 2).Build()
	s.expectGet(char)
	s.expectPut()

	out, err := s.orchestrator.Heal(s.ctx, &character.HealInput{CharacterID: char.ID, Amount: 50})
	s.Require().NoError(err)
	s.Equal(entities.HitPoints{Current: 9, Max: 9, Temp: 2}, out.Character.HP)
}

func (s *OrchestratorTestSuite) TestNegativeAmounts() {
	_, err := s.orchestrator.Damage(s.ctx, &character.DamageInput{CharacterID: "c", Amount: -1})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.Heal(s.ctx, &character.HealInput{CharacterID: "c", Amount: -1})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.orchestrator.SetTempHP(s.ctx, &character.SetTempHPInput{CharacterID: "c", Temp: -1})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestSetTempHP() {
	char := builders.NewCharacterBuilder().Build()
	s.expectGet(char)
	s.expectPut()

	out, err := s.orchestrator.SetTempHP(s.ctx, &character.SetTempHPInput{CharacterID: char.ID, Temp: 6})
	s.Require().NoError(err)
	s.Equal(6, out.Character.HP.Temp)
}

func (s *OrchestratorTestSuite) TestUpdate() {
	char := builders.NewCharacterBuilder().
		WithHP(9, 9, 0).
		Build()
	char.SkillProfs = map[entities.Skill]int{entities.SkillArcana: entities.RankProficient}
	s.expectGet(char)
	s.expectPut()

	name := "Vex the Bold"
	maxHP := 6
	ac := 16
	out, err := s.orchestrator.Update(s.ctx, &character.UpdateInput{
		CharacterID: char.ID,
		Name:        &name,
		AC:          &ac,
		MaxHP:       &maxHP,
		Abilities:   map[entities.Ability]int{entities.AbilityStrength: 12},
		SkillProfs: map[entities.Skill]int{
			entities.SkillArcana:  entities.RankNone,
			entities.SkillStealth: entities.RankExpertise,
		},
		SaveProfs: []entities.Ability{entities.AbilityIntelligence, entities.AbilityConstitution},
	})
	s.Require().NoError(err)

	updated := out.Character
	s.Equal("Vex the Bold", updated.Name)
	s.Equal(16, updated.AC)
	s.Equal(entities.HitPoints{Current: 6, Max: 6}, updated.HP)
	s.Equal(12, updated.Abilities[entities.AbilityStrength])
	s.Equal(16, updated.Abilities[entities.AbilityIntelligence])
	s.Equal(map[entities.Skill]int{entities.SkillStealth: entities.RankExpertise}, updated.SkillProfs)
	s.Equal([]entities.Ability{entities.AbilityConstitution, entities.AbilityIntelligence}, updated.SaveProfs)
}

func (s *OrchestratorTestSuite) TestUpdateValidation() {
	ac := 0
	_, err := s.orchestrator.Update(s.ctx, &character.UpdateInput{
		CharacterID: "c",
		AC:          &ac,
		Abilities:   map[entities.Ability]int{entities.AbilityWisdom: 31},
		SkillProfs:  map[entities.Skill]int{"juggling": 1},
	})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestAddFeature() {
	char := builders.NewCharacterBuilder().WithLevel(4).Build()
	s.expectGet(char)
	s.expectPut()

	out, err := s.orchestrator.AddFeature(s.ctx, &character.AddFeatureInput{
		CharacterID: char.ID,
		Name:        "Lucky Coin",
		Text:        "Reroll once per day",
		Tags:        []string{entities.FeatureTagGrant, "item"},
	})
	s.Require().NoError(err)

	s.Equal("char_1", out.Feature.ID)
	s.Equal(4, out.Feature.Level)
	s.Equal([]string{entities.FeatureTagManual, "item"}, out.Feature.Tags)
	s.Require().Len(out.Character.Features, 1)
	s.Equal("Lucky Coin", out.Character.Features[0].Name)
}

func (s *OrchestratorTestSuite) TestAddFeatureRequiresName() {
	_, err := s.orchestrator.AddFeature(s.ctx, &character.AddFeatureInput{CharacterID: "c", Name: "  "})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestRemoveFeature() {
	char := builders.NewCharacterBuilder().
		WithFeature(&entities.FeatureEntry{ID: "m1", Name: "Lucky Coin", Level: 1, Tags: []string{entities.FeatureTagManual}}).
		WithFeature(&entities.FeatureEntry{ID: "grant:1:tinkering", Name: "Magical Tinkering", Level: 1, Tags: []string{entities.FeatureTagGrant}}).
		Build()
	s.expectGet(char)
	s.expectPut()

	out, err := s.orchestrator.RemoveFeature(s.ctx, &character.RemoveFeatureInput{CharacterID: char.ID, FeatureID: "m1"})
	s.Require().NoError(err)

	s.Require().Len(out.Character.Features, 1)
	s.Equal("grant:1:tinkering", out.Character.Features[0].ID)
}

func (s *OrchestratorTestSuite) TestRemoveFeatureRefusesEngineEntries() {
	char := builders.NewCharacterBuilder().
		WithFeature(&entities.FeatureEntry{ID: "grant:1:tinkering", Name: "Magical Tinkering", Level: 1, Tags: []string{entities.FeatureTagGrant}}).
		Build()
	s.expectGet(char)

	_, err := s.orchestrator.RemoveFeature(s.ctx, &character.RemoveFeatureInput{CharacterID: char.ID, FeatureID: "grant:1:tinkering"})
	s.True(errors.IsFailedPrecondition(err))
}

func (s *OrchestratorTestSuite) TestRemoveFeatureUnknown() {
	char := builders.NewCharacterBuilder().Build()
	s.expectGet(char)

	_, err := s.orchestrator.RemoveFeature(s.ctx, &character.RemoveFeatureInput{CharacterID: char.ID, FeatureID: "nope"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestDeleteClearsActiveCharacter() {
	s.mockCharRepo.EXPECT().
		Delete(gomock.Any(), characterrepo.DeleteInput{ID: testutils.TestCharacterID}).
		Return(&characterrepo.DeleteOutput{}, nil)
	mocks.ExpectSetting(s.mockSettingsRepo, settings.KeyActiveCharacter, testutils.TestCharacterID, nil)
	mocks.ExpectSettingWrite(s.mockSettingsRepo, settings.KeyActiveCharacter, "")

	_, err := s.orchestrator.Delete(s.ctx, &character.DeleteInput{CharacterID: testutils.TestCharacterID})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestDeleteKeepsOtherActiveCharacter() {
	s.mockCharRepo.EXPECT().
		Delete(gomock.Any(), characterrepo.DeleteInput{ID: testutils.TestCharacterID}).
		Return(&characterrepo.DeleteOutput{}, nil)
	s.mockSettingsRepo.EXPECT().
		Get(gomock.Any(), settings.GetInput{Key: settings.KeyActiveCharacter}).
		Return(&settings.GetOutput{Value: "someone_else"}, nil)

	_, err := s.orchestrator.Delete(s.ctx, &character.DeleteInput{CharacterID: testutils.TestCharacterID})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TestDeleteNotFound() {
	s.mockCharRepo.EXPECT().
		Delete(gomock.Any(), characterrepo.DeleteInput{ID: "ghost"}).
		Return(nil, errors.NotFound("character with ID ghost not found"))

	_, err := s.orchestrator.Delete(s.ctx, &character.DeleteInput{CharacterID: "ghost"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestSetAndGetActive() {
	char := builders.NewCharacterBuilder().Build()
	s.expectGet(char)
	mocks.ExpectSettingWrite(s.mockSettingsRepo, settings.KeyActiveCharacter, char.ID)

	set, err := s.orchestrator.SetActive(s.ctx, &character.SetActiveInput{CharacterID: char.ID})
	s.Require().NoError(err)
	s.Equal(char.ID, set.Character.ID)

	s.mockSettingsRepo.EXPECT().
		Get(gomock.Any(), settings.GetInput{Key: settings.KeyActiveCharacter}).
		Return(&settings.GetOutput{Value: char.ID}, nil)
	s.expectGet(char)

	got, err := s.orchestrator.GetActive(s.ctx, &character.GetActiveInput{})
	s.Require().NoError(err)
	s.Equal(char.Name, got.Character.Name)
}

func (s *OrchestratorTestSuite) TestGetActiveUnset() {
	mocks.ExpectSetting(s.mockSettingsRepo, settings.KeyActiveCharacter, "",
		errors.NotFound("setting active_character_id is not set"))

	_, err := s.orchestrator.GetActive(s.ctx, &character.GetActiveInput{})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestSetActiveUnknownCharacter() {
	s.mockCharRepo.EXPECT().
		Get(gomock.Any(), characterrepo.GetInput{ID: "ghost"}).
		Return(nil, errors.NotFound("character with ID ghost not found"))

	_, err := s.orchestrator.SetActive(s.ctx, &character.SetActiveInput{CharacterID: "ghost"})
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestStoreFailureSurfaces() {
	char := builders.NewCharacterBuilder().Build()
	s.expectGet(char)
	s.mockCharRepo.EXPECT().
		Put(gomock.Any(), gomock.Any()).
		Return(nil, errors.New(errors.CodeUnavailable, "store offline")).
		Times(2)

	_, err := s.orchestrator.Heal(s.ctx, &character.HealInput{CharacterID: char.ID, Amount: 1})
	s.Require().Error(err)
	s.True(errors.HasReason(err, errors.ReasonStoreWriteFailure))
}
