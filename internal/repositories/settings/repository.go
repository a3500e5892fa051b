// Package settings stores the small set of process wide selections such as
// the active ruleset and the active character
package settings

//go:generate mockgen -destination=mock/mock_repository.go -package=settingsmock github.com/KirkDiggler/rpg-sheet/internal/repositories/settings Repository

import (
	"context"
	"slices"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Known setting keys
const (
	KeyActiveRuleset   = "active_ruleset_id"
	KeyActiveCharacter = "active_character_id"
)

// Keys lists every supported setting
var Keys = []string{KeyActiveRuleset, KeyActiveCharacter}

// Repository reads and writes single setting values
type Repository interface {
	// Get returns the value of a setting
	// Returns errors.NotFound when the setting is unset
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Set stores a value; an empty value clears the setting
	Set(ctx context.Context, input SetInput) (*SetOutput, error)
}

// GetInput defines the input for reading a setting
type GetInput struct {
	Key string
}

// GetOutput defines the output for reading a setting
type GetOutput struct {
	Value string
}

// SetInput defines the input for writing a setting
type SetInput struct {
	Key   string
	Value string
}

// SetOutput defines the output for writing a setting
type SetOutput struct{}

func validateKey(key string) error {
	if key == "" {
		return errors.InvalidArgument("setting key cannot be empty")
	}
	if !slices.Contains(Keys, key) {
		return errors.InvalidArgumentf("unknown setting %q", key)
	}
	return nil
}
