package engine

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-sheet/internal/pkg/idgen"
)

type engine struct {
	clock clock.Clock
	idGen idgen.Generator
}

// Config contains the collaborators the engine stamps records with
type Config struct {
	Clock       clock.Clock
	IDGenerator idgen.Generator
}

// Validate validates the config
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	return nil
}

// New creates an engine. A nil clock uses the system clock and a nil
// generator uses UUIDs.
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	gen := cfg.IDGenerator
	if gen == nil {
		gen = idgen.NewUUID("feat")
	}

	return &engine{
		clock: c,
		idGen: gen,
	}, nil
}

func (e *engine) Derive(char *entities.Character, rs *entities.Ruleset) *entities.DerivedStats {
	return Derive(char, rs)
}

func (e *engine) OptionsFor(input *OptionsForInput) []*entities.Option {
	if input == nil {
		return nil
	}
	return optionsFor(input.Ruleset, input.ClassID, input.SubclassID, input.Choice, input.AtLevel)
}

func (e *engine) Revert(char *entities.Character, level int) *entities.Character {
	return Revert(char, level)
}

func (e *engine) IsApplied(char *entities.Character, level int) bool {
	return IsApplied(char, level)
}

func (e *engine) PendingLevels(char *entities.Character, from, to int) []int {
	return PendingLevels(char, from, to)
}
