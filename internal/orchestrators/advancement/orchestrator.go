// Package advancement runs level-up flows: it loads a character and its
// ruleset, drives the engine one level at a time and commits every level
// before moving to the next.
package advancement

//go:generate mockgen -destination=mock/mock_service.go -package=advancementmock github.com/KirkDiggler/rpg-sheet/internal/orchestrators/advancement Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	rulesetrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/retry"
)

// Service defines the level-up operations
type Service interface {
	// Plan lists the grants and choice options of one level step
	Plan(ctx context.Context, input *PlanInput) (*PlanOutput, error)

	// ApplyLevel validates and commits one level step.
	// When the store write fails the output still carries the computed
	// character together with an errors.StoreWriteFailure.
	ApplyLevel(ctx context.Context, input *ApplyLevelInput) (*ApplyLevelOutput, error)

	// AdvanceTo commits every pending level up to the target, asking the
	// chooser for picks. Levels committed before a failure stay committed
	// and are reported in the output alongside the error.
	AdvanceTo(ctx context.Context, input *AdvanceToInput) (*AdvanceToOutput, error)

	// SetLevel changes the level without touching the ledger
	SetLevel(ctx context.Context, input *SetLevelInput) (*SetLevelOutput, error)

	// Revert undoes one level's recorded advancement
	Revert(ctx context.Context, input *RevertInput) (*RevertOutput, error)
}

// Config holds the dependencies for the advancement orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	RulesetRepo   rulesetrepo.Repository
	Engine        engine.Engine
	EventBus      events.EventBus
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
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo characterrepo.Repository
	rulesetRepo   rulesetrepo.Repository
	engine        engine.Engine
	publisher     *rpgtoolkit.Publisher
	clock         clock.Clock
	retry         retry.Policy
}

// NewOrchestrator creates a new advancement orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	publisher, err := rpgtoolkit.NewPublisher(&rpgtoolkit.PublisherConfig{EventBus: cfg.EventBus})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create event publisher")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		rulesetRepo:   cfg.RulesetRepo,
		engine:        cfg.Engine,
		publisher:     publisher,
		clock:         c,
		retry:         cfg.Retry,
	}, nil
}

func (o *orchestrator) Plan(ctx context.Context, input *PlanInput) (*PlanOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, rs, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	level := nextLevel(char, input.Level)
	plan, err := o.engine.BuildLevelUpPlan(&engine.BuildLevelUpPlanInput{
		Ruleset:   rs,
		Character: char,
		Level:     level,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to plan level %d", level)
	}

	return &PlanOutput{
		Plan:      plan,
		Character: char,
	}, nil
}

func (o *orchestrator) ApplyLevel(ctx context.Context, input *ApplyLevelInput) (*ApplyLevelOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, rs, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	return o.applyOne(ctx, char, rs, nextLevel(char, input.Level), input.Selections, input.Force)
}

func (o *orchestrator) AdvanceTo(ctx context.Context, input *AdvanceToInput) (*AdvanceToOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	errors.ValidateRange("targetLevel", input.TargetLevel, entities.MinLevel, entities.MaxLevel, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, rs, err := o.load(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	out := &AdvanceToOutput{Character: char, Applied: []int{}}
	pending := o.engine.PendingLevels(char, char.Level+1, input.TargetLevel)

	slog.DebugContext(ctx, "advancing character",
		"character_id", char.ID,
		"from_level", char.Level,
		"target_level", input.TargetLevel,
		"pending", pending)

	for _, level := range pending {
		if err := ctx.Err(); err != nil {
			return out, errors.WrapWithCode(err, errors.CodeCanceled, "advancement canceled").
				WithMeta("level", level)
		}

		selections, err := o.choose(ctx, input.Chooser, char, rs, level)
		if err != nil {
			return out, err
		}

		res, err := o.applyOne(ctx, char, rs, level, selections, false)
		if res != nil {
			char = res.Character
			out.Character = char
		}
		if err != nil {
			return out, err
		}
		out.Applied = append(out.Applied, level)
	}

	// levels already on record above the current level only need the level raised
	if char.Level < input.TargetLevel {
		raised := char.Clone()
		raised.Level = input.TargetLevel
		raised.UpdatedAt = o.clock.Now()
		out.Character = raised
		if err := o.persist(ctx, raised); err != nil {
			return out, err
		}
	}

	return out, nil
}

func (o *orchestrator) SetLevel(ctx context.Context, input *SetLevelInput) (*SetLevelOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	errors.ValidateRange("level", input.Level, entities.MinLevel, entities.MaxLevel, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, err := o.loadCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	updated := char.Clone()
	updated.Level = input.Level
	updated.UpdatedAt = o.clock.Now()

	out := &SetLevelOutput{
		Character: updated,
		Pending:   o.engine.PendingLevels(updated, entities.MinLevel, input.Level),
	}
	if err := o.persist(ctx, updated); err != nil {
		return out, err
	}

	slog.InfoContext(ctx, "set character level",
		"character_id", updated.ID,
		"from_level", char.Level,
		"level", updated.Level)

	return out, nil
}

func (o *orchestrator) Revert(ctx context.Context, input *RevertInput) (*RevertOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("characterID", input.CharacterID, vb)
	errors.ValidateRange("level", input.Level, entities.MinLevel, entities.MaxLevel, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char, err := o.loadCharacter(ctx, input.CharacterID)
	if err != nil {
		return nil, err
	}

	if !o.engine.IsApplied(char, input.Level) {
		return &RevertOutput{Character: char}, nil
	}

	reverted := o.engine.Revert(char, input.Level)
	reverted.UpdatedAt = o.clock.Now()

	out := &RevertOutput{Character: reverted, Reverted: true}
	if err := o.persist(ctx, reverted); err != nil {
		return out, err
	}

	o.publishReverted(ctx, reverted, nil, input.Level)

	return out, nil
}

// applyOne runs a single engine step and commits it. A no-op step on an
// already applied level is not written.
func (o *orchestrator) applyOne(
	ctx context.Context,
	char *entities.Character,
	rs *entities.Ruleset,
	level int,
	selections engine.Selections,
	force bool,
) (*ApplyLevelOutput, error) {
	res, err := o.engine.ApplyLevel(&engine.ApplyLevelInput{
		Ruleset:    rs,
		Character:  char,
		Level:      level,
		Selections: selections,
		Force:      force,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to apply level %d", level).
			WithMeta("character_id", char.ID)
	}

	out := &ApplyLevelOutput{
		Character: res.Character,
		Derived:   o.engine.Derive(res.Character, rs),
		Applied:   res.Applied,
		Reverted:  res.Reverted,
		Granted:   res.Granted,
	}
	if !res.Applied {
		slog.DebugContext(ctx, "level already applied",
			"character_id", char.ID,
			"level", level)
		return out, nil
	}

	if err := o.persist(ctx, res.Character); err != nil {
		return out, err
	}

	slog.InfoContext(ctx, "applied level",
		"character_id", res.Character.ID,
		"class_id", res.Character.ClassID,
		"level", level,
		"reverted", res.Reverted)

	if res.Reverted {
		o.publishReverted(ctx, res.Character, rs, level)
	}
	if err := o.publisher.LevelApplied(ctx, res.Character, rs, level, res.Granted); err != nil {
		slog.WarnContext(ctx, "failed to publish level applied",
			"character_id", res.Character.ID,
			"level", level,
			"error", err.Error())
	}

	return out, nil
}

// choose asks the chooser for picks when the level offers choices
func (o *orchestrator) choose(
	ctx context.Context,
	chooser Chooser,
	char *entities.Character,
	rs *entities.Ruleset,
	level int,
) (engine.Selections, error) {
	plan, err := o.engine.BuildLevelUpPlan(&engine.BuildLevelUpPlanInput{
		Ruleset:   rs,
		Character: char,
		Level:     level,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to plan level %d", level)
	}
	if len(plan.Choices) == 0 {
		return engine.Selections{}, nil
	}
	if chooser == nil {
		return nil, errors.FailedPreconditionf("level %d needs %d choices and no chooser was given", level, len(plan.Choices))
	}

	selections, err := chooser.Choose(ctx, plan)
	if err != nil {
		return nil, errors.Wrapf(err, "choosing for level %d", level).
			WithMeta("level", level)
	}
	return selections, nil
}

func (o *orchestrator) persist(ctx context.Context, char *entities.Character) error {
	return o.retry.Do(ctx, func(ctx context.Context) error {
		_, err := o.characterRepo.Put(ctx, characterrepo.PutInput{Character: char})
		return err
	})
}

func (o *orchestrator) publishReverted(ctx context.Context, char *entities.Character, rs *entities.Ruleset, level int) {
	if err := o.publisher.LevelReverted(ctx, char, rs, level); err != nil {
		slog.WarnContext(ctx, "failed to publish level reverted",
			"character_id", char.ID,
			"level", level,
			"error", err.Error())
	}
}

func (o *orchestrator) loadCharacter(ctx context.Context, characterID string) (*entities.Character, error) {
	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: characterID})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get character").
			WithMeta("character_id", characterID)
	}
	return o.engine.NormalizeCharacter(out.Character), nil
}

func (o *orchestrator) load(ctx context.Context, characterID string) (*entities.Character, *entities.Ruleset, error) {
	char, err := o.loadCharacter(ctx, characterID)
	if err != nil {
		return nil, nil, err
	}
	if char.RulesetID == "" {
		return nil, nil, errors.FailedPreconditionf("character %s has no ruleset", char.ID)
	}

	out, err := o.rulesetRepo.Get(ctx, rulesetrepo.GetInput{ID: char.RulesetID})
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to get ruleset for character %s", char.ID).
			WithMeta("ruleset_id", char.RulesetID)
	}
	return char, out.Ruleset, nil
}

func nextLevel(char *entities.Character, requested int) int {
	if requested != 0 {
		return requested
	}
	return min(char.Level+1, entities.MaxLevel)
}
