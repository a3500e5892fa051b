// Package ruleset implements the ruleset orchestrator: importing rules
// documents, the active ruleset slot and exporting documents back out.
package ruleset

//go:generate mockgen -destination=mock/mock_service.go -package=rulesetmock github.com/KirkDiggler/rpg-sheet/internal/orchestrators/ruleset Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-sheet/internal/clients/srd"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	rulesetrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/settings"
	rulesetparse "github.com/KirkDiggler/rpg-sheet/internal/ruleset"
	"github.com/KirkDiggler/rpg-sheet/internal/storage/retry"
)

// Service defines the ruleset operations
type Service interface {
	// Import parses, validates and stores a rules document, replacing any
	// ruleset with the same id
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)
	// ImportSRD builds a document from the SRD API and imports it
	ImportSRD(ctx context.Context, input *ImportSRDInput) (*ImportOutput, error)

	Get(ctx context.Context, input *GetInput) (*GetOutput, error)
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)

	SetActive(ctx context.Context, input *SetActiveInput) (*SetActiveOutput, error)
	GetActive(ctx context.Context, input *GetActiveInput) (*GetActiveOutput, error)
}

// Config holds the dependencies for the ruleset orchestrator
type Config struct {
	RulesetRepo  rulesetrepo.Repository
	SettingsRepo settings.Repository
	// SRDClient is optional; ImportSRD fails without it
	SRDClient srd.Client
	Clock     clock.Clock
	Retry     retry.Policy
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()

	if c.RulesetRepo == nil {
		vb.RequiredField("RulesetRepo")
	}
	if c.SettingsRepo == nil {
		vb.RequiredField("SettingsRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	rulesetRepo  rulesetrepo.Repository
	settingsRepo settings.Repository
	srdClient    srd.Client
	clock        clock.Clock
	retry        retry.Policy
}

// NewOrchestrator creates a new ruleset orchestrator with the provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &orchestrator{
		rulesetRepo:  cfg.RulesetRepo,
		settingsRepo: cfg.SettingsRepo,
		srdClient:    cfg.SRDClient,
		clock:        c,
		retry:        cfg.Retry,
	}, nil
}

func (o *orchestrator) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	parsed, err := rulesetparse.Parse(input.Data)
	if err != nil {
		return nil, err
	}
	rs := parsed.Ruleset
	rs.ImportedAt = o.clock.Now()

	replaced := true
	if _, err := o.rulesetRepo.Get(ctx, rulesetrepo.GetInput{ID: rs.Meta.ID}); err != nil {
		if !errors.IsNotFound(err) {
			return nil, errors.Wrapf(err, "failed to check for existing ruleset").
				WithMeta("ruleset_id", rs.Meta.ID)
		}
		replaced = false
	}

	if err := o.retry.Do(ctx, func(ctx context.Context) error {
		_, err := o.rulesetRepo.Put(ctx, rulesetrepo.PutInput{Ruleset: rs})
		return err
	}); err != nil {
		return nil, err
	}

	for _, w := range parsed.Warnings {
		slog.DebugContext(ctx, "ruleset warning",
			"ruleset_id", rs.Meta.ID,
			"path", w.Path,
			"message", w.Message)
	}
	slog.InfoContext(ctx, "imported ruleset",
		"ruleset_id", rs.Meta.ID,
		"classes", len(rs.Classes),
		"warnings", len(parsed.Warnings),
		"replaced", replaced)

	if input.Activate {
		if err := o.setActive(ctx, rs.Meta.ID); err != nil {
			return nil, err
		}
	}

	return &ImportOutput{
		Ruleset:  rs,
		Warnings: parsed.Warnings,
		Replaced: replaced,
	}, nil
}

func (o *orchestrator) ImportSRD(ctx context.Context, input *ImportSRDInput) (*ImportOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if o.srdClient == nil {
		return nil, errors.FailedPrecondition("SRD import is not configured")
	}

	built, err := o.srdClient.BuildRuleset(ctx, &srd.BuildRulesetInput{
		ClassIDs: input.ClassIDs,
		MaxLevel: input.MaxLevel,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build SRD ruleset")
	}

	return o.Import(ctx, &ImportInput{Data: built.Document, Activate: input.Activate})
}

func (o *orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		input = &GetInput{}
	}

	id := input.RulesetID
	if id == "" {
		active, err := o.activeID(ctx)
		if err != nil {
			return nil, err
		}
		if active == "" {
			return nil, errors.NotFound("no ruleset given and no active ruleset")
		}
		id = active
	}

	rs, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Ruleset: rs}, nil
}

func (o *orchestrator) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	out, err := o.rulesetRepo.ListAll(ctx, rulesetrepo.ListAllInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list rulesets")
	}

	active, err := o.activeID(ctx)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Rulesets: out.Rulesets, ActiveID: active}, nil
}

func (o *orchestrator) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("rulesetID", input.RulesetID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	if _, err := o.rulesetRepo.Delete(ctx, rulesetrepo.DeleteInput{ID: input.RulesetID}); err != nil {
		return nil, errors.Wrapf(err, "failed to delete ruleset").
			WithMeta("ruleset_id", input.RulesetID)
	}

	active, err := o.activeID(ctx)
	if err != nil {
		return nil, err
	}
	if active == input.RulesetID {
		if err := o.setActive(ctx, ""); err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "deleted ruleset", "ruleset_id", input.RulesetID)

	return &DeleteOutput{}, nil
}

func (o *orchestrator) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	got, err := o.Get(ctx, &GetInput{RulesetID: exportID(input)})
	if err != nil {
		return nil, err
	}

	data, err := rulesetparse.Encode(got.Ruleset)
	if err != nil {
		return nil, err
	}
	return &ExportOutput{Data: data}, nil
}

func (o *orchestrator) SetActive(ctx context.Context, input *SetActiveInput) (*SetActiveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	out := &SetActiveOutput{}
	if input.RulesetID != "" {
		rs, err := o.load(ctx, input.RulesetID)
		if err != nil {
			return nil, err
		}
		out.Ruleset = rs
	}

	if err := o.setActive(ctx, input.RulesetID); err != nil {
		return nil, err
	}
	return out, nil
}

func (o *orchestrator) GetActive(ctx context.Context, _ *GetActiveInput) (*GetActiveOutput, error) {
	id, err := o.activeID(ctx)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.NotFound("no active ruleset")
	}

	rs, err := o.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &GetActiveOutput{Ruleset: rs}, nil
}

func (o *orchestrator) load(ctx context.Context, id string) (*entities.Ruleset, error) {
	out, err := o.rulesetRepo.Get(ctx, rulesetrepo.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get ruleset").
			WithMeta("ruleset_id", id)
	}
	return out.Ruleset, nil
}

func (o *orchestrator) activeID(ctx context.Context) (string, error) {
	out, err := o.settingsRepo.Get(ctx, settings.GetInput{Key: settings.KeyActiveRuleset})
	if err != nil {
		if errors.IsNotFound(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read active ruleset")
	}
	return out.Value, nil
}

func (o *orchestrator) setActive(ctx context.Context, id string) error {
	if _, err := o.settingsRepo.Set(ctx, settings.SetInput{
		Key:   settings.KeyActiveRuleset,
		Value: id,
	}); err != nil {
		return errors.Wrap(err, "failed to store active ruleset")
	}
	return nil
}

func exportID(input *ExportInput) string {
	if input == nil {
		return ""
	}
	return input.RulesetID
}
