// Package character provides persistence for character records
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/KirkDiggler/rpg-sheet/internal/repositories/character Repository

import (
	"cmp"
	"context"
	"slices"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Repository stores whole character documents. Put is a full overwrite and
// is atomic per record.
type Repository interface {
	// Get retrieves a character by ID
	// Returns errors.InvalidArgument for an empty ID
	// Returns errors.NotFound if the character doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put creates or replaces a character
	// Returns errors.InvalidArgument for a nil character or empty ID
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Delete removes a character by ID
	// Returns errors.NotFound if the character doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListAll returns every stored character ordered by name then ID,
	// optionally restricted to one ruleset
	ListAll(ctx context.Context, input ListAllInput) (*ListAllOutput, error)
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// PutInput defines the input for storing a character
type PutInput struct {
	Character *entities.Character
}

// PutOutput defines the output for storing a character
type PutOutput struct {
	Character *entities.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct{}

// ListAllInput defines the input for listing characters
type ListAllInput struct {
	// RulesetID restricts the listing when set
	RulesetID string
}

// ListAllOutput defines the output for listing characters
type ListAllOutput struct {
	Characters []*entities.Character
}

const (
	errCharacterNil     = "character cannot be nil"
	errCharacterIDEmpty = "character ID cannot be empty"
)

func validatePut(input PutInput) error {
	if input.Character == nil {
		return errors.InvalidArgument(errCharacterNil)
	}
	if input.Character.ID == "" {
		return errors.InvalidArgument(errCharacterIDEmpty)
	}
	return nil
}

func sortCharacters(chars []*entities.Character) {
	slices.SortFunc(chars, func(a, b *entities.Character) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
