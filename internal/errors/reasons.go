package errors

import (
	"fmt"
	"strings"
)

const metaReason = "reason"

// Reasons narrow a Code down to a specific domain failure. Callers match on
// them with HasReason instead of parsing messages.
const (
	ReasonRulesetInvalid      = "ruleset_invalid"
	ReasonProgressionMissing  = "progression_missing"
	ReasonChoiceCountMismatch = "choice_count_mismatch"
	ReasonStoreWriteFailure   = "store_write_failure"
)

// WithReason tags the error with a domain reason
func (e *Error) WithReason(reason string) *Error {
	return e.WithMeta(metaReason, reason)
}

// GetReason returns the domain reason attached to err, if any
func GetReason(err error) string {
	reason, _ := GetMeta(err)[metaReason].(string)
	return reason
}

// HasReason reports whether err carries the given domain reason
func HasReason(err error, reason string) bool {
	return err != nil && GetReason(err) == reason
}

// RulesetInvalid reports a ruleset document that failed validation.
// problems holds the human readable error-level findings.
func RulesetInvalid(problems []string) *Error {
	msg := "ruleset failed validation"
	if len(problems) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(problems, "; "))
	}
	return New(CodeInvalidArgument, msg).
		WithReason(ReasonRulesetInvalid).
		WithMeta("problems", problems)
}

// ProgressionMissing reports that a class has no progression node at level.
func ProgressionMissing(classID string, level int, available []int) *Error {
	return newf(CodeFailedPrecondition, "class %q has no progression entry for level %d", classID, level).
		WithReason(ReasonProgressionMissing).
		WithMeta("class_id", classID).
		WithMeta("level", level).
		WithMeta("available_levels", available)
}

// ChoiceCountMismatch reports a selection whose size differs from the choice count.
func ChoiceCountMismatch(choiceID string, expected, got int) *Error {
	return newf(CodeInvalidArgument, "choice %q: pick exactly %d, got %d", choiceID, expected, got).
		WithReason(ReasonChoiceCountMismatch).
		WithMeta("choice_id", choiceID).
		WithMeta("expected", expected).
		WithMeta("got", got)
}

// StoreWriteFailure wraps a persistence error that survived all retry attempts.
func StoreWriteFailure(err error, attempts int) *Error {
	return WrapWithCode(err, CodeUnavailable, "failed to persist record").
		WithReason(ReasonStoreWriteFailure).
		WithMeta("attempts", attempts)
}
