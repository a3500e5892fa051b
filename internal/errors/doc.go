// Package errors provides structured errors for the rpg-sheet engine and CLI.
//
// Every error carries a Code, a message, an optional cause and free-form
// metadata. Domain failures additionally carry a reason so callers can tell a
// missing progression node apart from any other failed precondition.
//
// # Basic Usage
//
//	err := errors.NotFoundf("character %s not found", id)
//
//	if err := repo.Update(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to save character")
//	}
//
// # Domain Reasons
//
//	err := errors.ProgressionMissing("wizard", 4, []int{1, 2, 3})
//	if errors.HasReason(err, errors.ReasonProgressionMissing) {
//	    levels := errors.GetMeta(err)["available_levels"]
//	}
//
// # Exit Codes
//
// The CLI maps codes to process exit statuses through Code.ExitCode.
//
// # Validation
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("name", input.Name, vb)
//	errors.ValidateRange("level", input.Level, 1, 20, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
