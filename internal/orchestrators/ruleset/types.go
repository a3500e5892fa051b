package ruleset

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	rulesetparse "github.com/KirkDiggler/rpg-sheet/internal/ruleset"
)

// ImportInput defines the request for importing a rules document
type ImportInput struct {
	// Data is a JSON or YAML source document
	Data []byte
	// Activate makes the imported ruleset the active one
	Activate bool
}

// ImportOutput defines the response for an import
type ImportOutput struct {
	Ruleset  *entities.Ruleset
	Warnings rulesetparse.Problems
	// Replaced is true when a ruleset with the same id already existed
	Replaced bool
}

// ImportSRDInput defines the request for importing SRD classes
type ImportSRDInput struct {
	ClassIDs []string
	MaxLevel int
	Activate bool
}

// GetInput defines the request for reading a ruleset
type GetInput struct {
	// RulesetID defaults to the active ruleset
	RulesetID string
}

// GetOutput defines the response for reading a ruleset
type GetOutput struct {
	Ruleset *entities.Ruleset
}

// ListInput defines the request for listing rulesets
type ListInput struct{}

// ListOutput defines the response for listing rulesets
type ListOutput struct {
	Rulesets []*entities.Ruleset
	ActiveID string
}

// DeleteInput defines the request for deleting a ruleset
type DeleteInput struct {
	RulesetID string
}

// DeleteOutput defines the response for deleting a ruleset
type DeleteOutput struct{}

// SetActiveInput defines the request for choosing the active ruleset.
// An empty id clears the slot.
type SetActiveInput struct {
	RulesetID string
}

// SetActiveOutput defines the response for choosing the active ruleset
type SetActiveOutput struct {
	Ruleset *entities.Ruleset
}

// GetActiveInput defines the request for reading the active ruleset
type GetActiveInput struct{}

// GetActiveOutput defines the response for reading the active ruleset
type GetActiveOutput struct {
	Ruleset *entities.Ruleset
}

// ExportInput defines the request for exporting a ruleset document
type ExportInput struct {
	RulesetID string
}

// ExportOutput carries a document Import accepts unchanged
type ExportOutput struct {
	Data []byte
}
