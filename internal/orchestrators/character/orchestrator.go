// Package character implements the character orchestrator: sheet lifecycle,
// hit point bookkeeping, manual features and the active character slot.
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/KirkDiggler/rpg-sheet/internal/orchestrators/character Service

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	rulesetrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/settings"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/retry"
)

// Service defines the character sheet operations
type Service interface {
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
	Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error)

	// Hit points
	Damage(ctx context.Context, input *DamageInput) (*HitPointsOutput, error)
	Heal(ctx context.Context, input *HealInput) (*HitPointsOutput, error)
	SetTempHP(ctx context.Context, input *SetTempHPInput) (*HitPointsOutput, error)

	// Manual features; entries owned by the advancement engine are refused
	AddFeature(ctx context.Context, input *AddFeatureInput) (*AddFeatureOutput, error)
	RemoveFeature(ctx context.Context, input *RemoveFeatureInput) (*RemoveFeatureOutput, error)

	// Active character slot
	SetActive(ctx context.Context, input *SetActiveInput) (*SetActiveOutput, error)
	GetActive(ctx context.Context, input *GetActiveInput) (*GetActiveOutput, error)
}

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	RulesetRepo   rulesetrepo.Repository
	SettingsRepo  settings.Repository
	Engine        engine.Engine
	IDGenerator   idgen.Generator
	DiceRoller    dice.Roller
	Clock         clock.Clock
	Retry         retry.Policy
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.RulesetRepo == nil {
		vb.RequiredField("RulesetRepo")
	}
	if c.SettingsRepo == nil {
		vb.RequiredField("SettingsRepo")
	}
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo characterrepo.Repository
	rulesetRepo   rulesetrepo.Repository
	settingsRepo  settings.Repository
	engine        engine.Engine
	idGen         idgen.Generator
	roller        dice.Roller
	clock         clock.Clock
	retry         retry.Policy
}

// NewOrchestrator creates a new character orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	roller := cfg.DiceRoller
	if roller == nil {
		roller = dice.DefaultRoller
	}
	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		rulesetRepo:   cfg.RulesetRepo,
		settingsRepo:  cfg.SettingsRepo,
		engine:        cfg.Engine,
		idGen:         cfg.IDGenerator,
		roller:        roller,
		clock:         c,
		retry:         cfg.Retry,
	}, nil
}

func (o *orchestrator) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	if input.Level != 0 {
		errors.ValidateRange("level", input.Level, entities.MinLevel, entities.MaxLevel, vb)
	}
	for ability := range input.Abilities {
		if !ability.Valid() {
			vb.InvalidField("abilities", "unknown ability "+string(ability))
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	rulesetID := input.RulesetID
	if rulesetID == "" {
		active, err := o.activeSetting(ctx, settings.KeyActiveRuleset)
		if err != nil {
			return nil, err
		}
		rulesetID = active
	}

	var rs *entities.Ruleset
	if rulesetID != "" {
		out, err := o.rulesetRepo.Get(ctx, rulesetrepo.GetInput{ID: rulesetID})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get ruleset").
				WithMeta("ruleset_id", rulesetID)
		}
		rs = out.Ruleset
		if input.ClassID != "" && rs.Class(input.ClassID) == nil {
			return nil, errors.InvalidArgumentf("ruleset %s has no class %q", rulesetID, input.ClassID).
				WithMeta("classes", slices.Sorted(maps.Keys(rs.Classes)))
		}
	}

	abilities := maps.Clone(input.Abilities)
	if input.RollAbilities {
		rolled, err := rpgtoolkit.RollAbilityScores(o.roller)
		if err != nil {
			return nil, errors.Wrap(err, "failed to roll ability scores")
		}
		if abilities == nil {
			abilities = make(map[entities.Ability]int, len(rolled))
		}
		for ability, score := range rolled {
			if _, set := abilities[ability]; !set {
				abilities[ability] = score
			}
		}
	}

	now := o.clock.Now()
	char := o.engine.NormalizeCharacter(&entities.Character{
		ID:         o.idGen.Generate(),
		Name:       strings.TrimSpace(input.Name),
		RulesetID:  rulesetID,
		ClassID:    input.ClassID,
		SubclassID: input.SubclassID,
		Level:      input.Level,
		Abilities:  abilities,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if hp := startingHP(rs.Class(char.ClassID), char); hp > 0 {
		char.HP = entities.HitPoints{Current: hp, Max: hp}
	}

	if err := o.persist(ctx, char); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "created character",
		"character_id", char.ID,
		"ruleset_id", char.RulesetID,
		"class_id", char.ClassID,
		"level", char.Level)

	return &CreateOutput{Character: char}, nil
}

func (o *orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	var rs *entities.Ruleset
	if char.RulesetID != "" {
		out, err := o.rulesetRepo.Get(ctx, rulesetrepo.GetInput{ID: char.RulesetID})
		switch {
		case err == nil:
			rs = out.Ruleset
		case errors.IsNotFound(err):
			slog.WarnContext(ctx, "character ruleset missing, deriving with defaults",
				"character_id", char.ID,
				"ruleset_id", char.RulesetID)
		default:
			return nil, errors.Wrapf(err, "failed to get ruleset").
				WithMeta("ruleset_id", char.RulesetID)
		}
	}

	return &GetOutput{
		Character: char,
		Derived:   o.engine.Derive(char, rs),
		Ruleset:   rs,
	}, nil
}

func (o *orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		input = &ListInput{}
	}

	out, err := o.characterRepo.ListAll(ctx, characterrepo.ListAllInput{RulesetID: input.RulesetID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list characters")
	}

	chars := make([]*entities.Character, len(out.Characters))
	for i, c := range out.Characters {
		chars[i] = o.engine.NormalizeCharacter(c)
	}

	return &ListOutput{Characters: chars}, nil
}

func (o *orchestrator) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := o.characterRepo.Delete(ctx, characterrepo.DeleteInput{ID: input.CharacterID}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character").
			WithMeta("character_id", input.CharacterID)
	}

	active, err := o.activeSetting(ctx, settings.KeyActiveCharacter)
	if err != nil {
		return nil, err
	}
	if active == input.CharacterID {
		if _, err := o.settingsRepo.Set(ctx, settings.SetInput{Key: settings.KeyActiveCharacter}); err != nil {
			return nil, errors.Wrap(err, "failed to clear active character")
		}
	}

	slog.InfoContext(ctx, "deleted character", "character_id", input.CharacterID)

	return &DeleteOutput{}, nil
}

func (o *orchestrator) Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	if input.AC != nil && *input.AC < 1 {
		vb.InvalidField("ac", "must be positive")
	}
	if input.Speed != nil && *input.Speed < 0 {
		vb.InvalidField("speed", "cannot be negative")
	}
	if input.MaxHP != nil && *input.MaxHP < 1 {
		vb.InvalidField("maxHP", "must be positive")
	}
	for ability, score := range input.Abilities {
		if !ability.Valid() {
			vb.InvalidField("abilities", "unknown ability "+string(ability))
			continue
		}
		errors.ValidateRange("abilities."+string(ability), score, entities.MinAbilityScore, entities.MaxAbilityScore, vb)
	}
	for skill := range input.SkillProfs {
		if _, ok := entities.SkillAbilities[skill]; !ok {
			vb.InvalidField("skillProfs", "unknown skill "+string(skill))
		}
	}
	for _, ability := range input.SaveProfs {
		if !ability.Valid() {
			vb.InvalidField("saveProfs", "unknown ability "+string(ability))
		}
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		char.Name = strings.TrimSpace(*input.Name)
	}
	if input.Notes != nil {
		char.Notes = *input.Notes
	}
	if input.AC != nil {
		char.AC = *input.AC
	}
	if input.Speed != nil {
		char.Speed = *input.Speed
	}
	if input.MaxHP != nil {
		char.HP.Max = *input.MaxHP
		char.HP.Current = min(char.HP.Current, char.HP.Max)
	}
	maps.Copy(char.Abilities, input.Abilities)
	if len(input.SkillProfs) > 0 {
		if char.SkillProfs == nil {
			char.SkillProfs = map[entities.Skill]int{}
		}
		maps.Copy(char.SkillProfs, input.SkillProfs)
	}
	if input.SaveProfs != nil {
		char.SaveProfs = slices.Clone(input.SaveProfs)
	}
	if input.Inventory != nil {
		char.Inventory = input.Inventory
	}

	char, err = o.save(ctx, char)
	if err != nil {
		return nil, err
	}

	return &UpdateOutput{Character: char}, nil
}

func (o *orchestrator) Damage(ctx context.Context, input *DamageInput) (*HitPointsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Amount < 0 {
		return nil, errors.InvalidArgumentf("damage amount %d cannot be negative", input.Amount)
	}

	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	var absorbed int
	char.HP, absorbed = applyDamage(char.HP, input.Amount)

	char, err = o.save(ctx, char)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "character took damage",
		"character_id", char.ID,
		"amount", input.Amount,
		"absorbed", absorbed,
		"hp", char.HP.Current)

	return &HitPointsOutput{Character: char, Absorbed: absorbed}, nil
}

func (o *orchestrator) Heal(ctx context.Context, input *HealInput) (*HitPointsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Amount < 0 {
		return nil, errors.InvalidArgumentf("heal amount %d cannot be negative", input.Amount)
	}

	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	char.HP = applyHeal(char.HP, input.Amount)

	char, err = o.save(ctx, char)
	if err != nil {
		return nil, err
	}

	return &HitPointsOutput{Character: char}, nil
}

func (o *orchestrator) SetTempHP(ctx context.Context, input *SetTempHPInput) (*HitPointsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRange("temp", input.Temp, 0, maxTempHP, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	char.HP.Temp = input.Temp

	char, err = o.save(ctx, char)
	if err != nil {
		return nil, err
	}

	return &HitPointsOutput{Character: char}, nil
}

func (o *orchestrator) AddFeature(ctx context.Context, input *AddFeatureInput) (*AddFeatureOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("name", strings.TrimSpace(input.Name), vb)
	if input.Level != 0 {
		errors.ValidateRange("level", input.Level, entities.MinLevel, entities.MaxLevel, vb)
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	level := input.Level
	if level == 0 {
		level = char.Level
	}

	tags := []string{entities.FeatureTagManual}
	for _, tag := range input.Tags {
		if tag != "" && tag != entities.FeatureTagGrant && tag != entities.FeatureTagChoice && !slices.Contains(tags, tag) {
			tags = append(tags, tag)
		}
	}

	feature := &entities.FeatureEntry{
		ID:    o.idGen.Generate(),
		Name:  strings.TrimSpace(input.Name),
		Level: level,
		Text:  input.Text,
		Tags:  tags,
	}
	char.Features = append(char.Features, feature)

	char, err = o.save(ctx, char)
	if err != nil {
		return nil, err
	}

	return &AddFeatureOutput{Character: char, Feature: feature}, nil
}

func (o *orchestrator) RemoveFeature(ctx context.Context, input *RemoveFeatureInput) (*RemoveFeatureOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("featureID", input.FeatureID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	idx := slices.IndexFunc(char.Features, func(f *entities.FeatureEntry) bool {
		return f != nil && f.ID == input.FeatureID
	})
	if idx < 0 {
		return nil, errors.NotFoundf("feature %s not found on character %s", input.FeatureID, char.ID)
	}
	if !char.Features[idx].HasTag(entities.FeatureTagManual) {
		return nil, errors.FailedPreconditionf("feature %s comes from advancement; revert its level instead", input.FeatureID).
			WithMeta("level", char.Features[idx].Level)
	}
	char.Features = slices.Delete(char.Features, idx, idx+1)

	char, err = o.save(ctx, char)
	if err != nil {
		return nil, err
	}

	return &RemoveFeatureOutput{Character: char}, nil
}

func (o *orchestrator) SetActive(ctx context.Context, input *SetActiveInput) (*SetActiveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &SetActiveOutput{}
	if input.CharacterID != "" {
		char, err := o.load(ctx, input.CharacterID)
		if err != nil {
			return nil, err
		}
		out.Character = char
	}

	if _, err := o.settingsRepo.Set(ctx, settings.SetInput{
		Key:   settings.KeyActiveCharacter,
		Value: input.CharacterID,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to store active character")
	}

	return out, nil
}

func (o *orchestrator) GetActive(ctx context.Context, _ *GetActiveInput) (*GetActiveOutput, error) {
	id, err := o.activeSetting(ctx, settings.KeyActiveCharacter)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.NotFound("no active character")
	}

	char, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GetActiveOutput{Character: char}, nil
}

// load reads and normalises a character
func (o *orchestrator) load(ctx context.Context, characterID string) (*entities.Character, error) {
	if characterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: characterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character").
			WithMeta("character_id", characterID)
	}
	return o.engine.NormalizeCharacter(out.Character), nil
}

// save stamps, normalises and persists an edited character
func (o *orchestrator) save(ctx context.Context, char *entities.Character) (*entities.Character, error) {
	char.UpdatedAt = o.clock.Now()
	char = o.engine.NormalizeCharacter(char)
	if err := o.persist(ctx, char); err != nil {
		return nil, err
	}
	return char, nil
}

func (o *orchestrator) persist(ctx context.Context, char *entities.Character) error {
	return o.retry.Do(ctx, func(ctx context.Context) error {
		_, err := o.characterRepo.Put(ctx, characterrepo.PutInput{Character: char})
		return err
	})
}

// activeSetting returns the stored value, or empty when unset
func (o *orchestrator) activeSetting(ctx context.Context, key string) (string, error) {
	out, err := o.settingsRepo.Get(ctx, settings.GetInput{Key: key})
	if err != nil {
		if errors.IsNotFound(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "failed to read setting %s", key)
	}
	return out.Value, nil
}

// startingHP takes the full hit die at first level and the rounded-up
// average for every level after, plus the constitution modifier per level.
// It returns 0 when the class does not define a hit die.
func startingHP(class *entities.ClassDef, char *entities.Character) int {
	if class == nil || class.HitDie <= 0 {
		return 0
	}
	con := engine.AbilityModifier(char.Score(entities.AbilityConstitution))
	hp := max(class.HitDie+con, 1)
	for level := 2; level <= char.Level; level++ {
		hp += max(class.HitDie/2+1+con, 1)
	}
	return hp
}
