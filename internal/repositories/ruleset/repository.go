// Package ruleset provides persistence for imported rulesets
package ruleset

//go:generate mockgen -destination=mock/mock_repository.go -package=rulesetmock github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset Repository

import (
	"cmp"
	"context"
	"slices"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Repository stores normalised rulesets keyed by meta id. A re-import
// replaces the stored document wholesale.
type Repository interface {
	// Get retrieves a ruleset by ID
	// Returns errors.NotFound if the ruleset doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put creates or replaces a ruleset
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Delete removes a ruleset by ID
	// Returns errors.NotFound if the ruleset doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListAll returns every stored ruleset ordered by name then ID
	ListAll(ctx context.Context, input ListAllInput) (*ListAllOutput, error)
}

// GetInput defines the input for getting a ruleset
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a ruleset
type GetOutput struct {
	Ruleset *entities.Ruleset
}

// PutInput defines the input for storing a ruleset
type PutInput struct {
	Ruleset *entities.Ruleset
}

// PutOutput defines the output for storing a ruleset
type PutOutput struct {
	Ruleset *entities.Ruleset
}

// DeleteInput defines the input for deleting a ruleset
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a ruleset
type DeleteOutput struct{}

// ListAllInput defines the input for listing rulesets
type ListAllInput struct{}

// ListAllOutput defines the output for listing rulesets
type ListAllOutput struct {
	Rulesets []*entities.Ruleset
}

const (
	errRulesetNil     = "ruleset cannot be nil"
	errRulesetIDEmpty = "ruleset ID cannot be empty"
)

func validatePut(input PutInput) error {
	if input.Ruleset == nil {
		return errors.InvalidArgument(errRulesetNil)
	}
	if input.Ruleset.Meta.ID == "" {
		return errors.InvalidArgument(errRulesetIDEmpty)
	}
	return nil
}

func sortRulesets(rulesets []*entities.Ruleset) {
	slices.SortFunc(rulesets, func(a, b *entities.Ruleset) int {
		if c := cmp.Compare(a.Meta.Name, b.Meta.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.Meta.ID, b.Meta.ID)
	})
}
