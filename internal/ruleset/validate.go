package ruleset

import (
	"fmt"
)

// Severity grades a validation problem
type Severity string

// Severities
const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warn"
)

// Problem is one validation finding
type Problem struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

// String renders the problem for logs and CLI output
func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Path, p.Message)
}

// Problems is a list of validation findings
type Problems []Problem

// Errors returns only the error-level problems
func (ps Problems) Errors() Problems {
	return ps.filter(SeverityError)
}

// Warnings returns only the warn-level problems
func (ps Problems) Warnings() Problems {
	return ps.filter(SeverityWarn)
}

// HasErrors reports whether any problem rejects the document
func (ps Problems) HasErrors() bool {
	return len(ps.Errors()) > 0
}

// Strings renders each problem
func (ps Problems) Strings() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func (ps Problems) filter(sev Severity) Problems {
	var out Problems
	for _, p := range ps {
		if p.Severity == sev {
			out = append(out, p)
		}
	}
	return out
}

func (ps *Problems) errorf(path, format string, args ...any) {
	*ps = append(*ps, Problem{Severity: SeverityError, Path: path, Message: fmt.Sprintf(format, args...)})
}

func (ps *Problems) warnf(path, format string, args ...any) {
	*ps = append(*ps, Problem{Severity: SeverityWarn, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a decoded document for the structure the engine needs.
// A missing id or classes map rejects the document. Anything else is reported
// as a warning and the offending part is left out of the parsed ruleset.
func Validate(doc map[string]any) Problems {
	var problems Problems

	if doc == nil {
		problems.errorf("", "ruleset is not an object")
		return problems
	}

	meta, _ := doc["meta"].(map[string]any)
	if stringField(meta, "id") == "" && stringField(doc, "id") == "" {
		problems.errorf("meta.id", "is required")
	}
	if stringField(meta, "name") == "" && stringField(doc, "name") == "" {
		problems.warnf("meta.name", "is missing")
	}

	rawClasses, present := doc["classes"]
	classes, isObject := rawClasses.(map[string]any)
	switch {
	case !present || rawClasses == nil:
		problems.errorf("classes", "is required")
	case !isObject:
		problems.errorf("classes", "must be an object keyed by class id")
	default:
		for _, classID := range sortedKeys(classes) {
			validateClass(&problems, classID, classes[classID])
		}
	}

	if !hasAnyPool(doc) {
		problems.warnf("pools", "no option pools defined, every choice will offer nothing")
	}

	return problems
}

func validateClass(problems *Problems, classID string, raw any) {
	path := "classes." + classID
	class, ok := raw.(map[string]any)
	if !ok {
		problems.warnf(path, "ignored: must be an object")
		return
	}

	rawProgression, present := class["progression"]
	if !present || rawProgression == nil {
		problems.warnf(path+".progression", "is missing, the class grants nothing on level up")
		return
	}
	progression, ok := rawProgression.(map[string]any)
	if !ok {
		problems.warnf(path+".progression", "ignored: must be an object keyed by level")
		return
	}

	for _, key := range sortedKeys(progression) {
		levelPath := path + ".progression." + key
		if _, err := parseLevel(key); err != nil {
			problems.warnf(levelPath, "ignored: %v", err)
			continue
		}
		node, ok := progression[key].(map[string]any)
		if !ok {
			if progression[key] != nil {
				problems.warnf(levelPath, "ignored: must be an object")
			}
			continue
		}
		validateChoices(problems, levelPath, node["choices"])
	}
}

func validateChoices(problems *Problems, path string, raw any) {
	if raw == nil {
		return
	}
	choices, ok := raw.([]any)
	if !ok {
		problems.warnf(path+".choices", "ignored: must be a list")
		return
	}

	seen := make(map[string]bool, len(choices))
	for i, rc := range choices {
		choicePath := fmt.Sprintf("%s.choices[%d]", path, i)
		choice, ok := rc.(map[string]any)
		if !ok {
			problems.warnf(choicePath, "ignored: must be an object")
			continue
		}
		id := stringField(choice, "id")
		if id == "" {
			problems.warnf(choicePath+".id", "is missing, a positional id will be assigned")
		} else if seen[id] {
			problems.warnf(choicePath+".id", "ignored: duplicate choice id %q", id)
			continue
		}
		seen[id] = true
		if stringField(choice, "from") == "" {
			problems.warnf(choicePath+".from", "is missing, the choice will offer nothing")
		}
		if n, ok := toInt(choice["count"]); ok && n < 0 {
			problems.warnf(choicePath+".count", "must not be negative, one pick is required")
		}
	}
}

func hasAnyPool(doc map[string]any) bool {
	if pools, ok := doc["pools"].(map[string]any); ok && len(pools) > 0 {
		return true
	}
	for _, key := range []string{"spells", "infusions", "feats"} {
		if _, ok := doc[key].([]any); ok {
			return true
		}
	}
	_, ok := doc["features"].([]any)
	return ok
}

func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
