// Package ruleset turns user supplied rules documents into validated,
// normalised entities.Ruleset values.
//
// Documents may be JSON or YAML. Validation is deliberately lenient: only a
// missing id or a missing classes map rejects a document, everything else is
// reported as a warning and the engine degrades to empty option sets.
package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

const (
	defaultName    = "Unnamed Ruleset"
	defaultVersion = "1.0"
)

// ParseOutput is a normalised ruleset plus the warnings found while reading it
type ParseOutput struct {
	Ruleset  *entities.Ruleset
	Warnings Problems
}

// Parse decodes, validates and normalises a rules document.
// Returns errors.RulesetInvalid when the document cannot be used.
func Parse(data []byte) (*ParseOutput, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, errors.RulesetInvalid([]string{err.Error()})
	}

	problems := Validate(doc)
	if problems.HasErrors() {
		return nil, errors.RulesetInvalid(problems.Errors().Strings())
	}

	rs := build(normalize(doc), &problems)
	finish(rs)

	return &ParseOutput{
		Ruleset:  rs,
		Warnings: problems.Warnings(),
	}, nil
}

// Encode renders a ruleset as an indented JSON document that Parse accepts
func Encode(rs *entities.Ruleset) ([]byte, error) {
	if rs == nil {
		return nil, errors.InvalidArgument("ruleset cannot be nil")
	}
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode ruleset")
	}
	return data, nil
}

func decode(data []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	var raw any
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("document is not valid JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("document is not valid YAML: %w", err)
		}
		raw = stringKeys(raw)
	}

	doc, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("ruleset is not an object")
	}
	return doc, nil
}

// stringKeys converts YAML mappings with non-string keys (such as bare level
// numbers) into string keyed maps so the document matches its JSON form.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = stringKeys(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = stringKeys(item)
		}
		return t
	default:
		return v
	}
}

// normalize builds the canonical document shape: meta block, classes keyed by
// id with level keyed progression, pools under one key and the features
// dictionary under its own key.
func normalize(doc map[string]any) map[string]any {
	meta, _ := doc["meta"].(map[string]any)
	id := firstNonEmpty(stringField(meta, "id"), stringField(doc, "id"))
	name := firstNonEmpty(stringField(meta, "name"), stringField(doc, "name"), defaultName)
	version := firstNonEmpty(stringField(meta, "version"), stringField(doc, "version"), defaultVersion)

	out := map[string]any{
		"meta": map[string]any{
			"id":      id,
			"name":    name,
			"version": version,
		},
		"classes": normalizeClasses(doc["classes"].(map[string]any)),
		"pools":   normalizePools(doc),
	}

	if dict, ok := doc["featuresDictionary"].(map[string]any); ok {
		out["featuresDictionary"] = dict
	} else if dict, ok := doc["features"].(map[string]any); ok {
		out["featuresDictionary"] = dict
	}

	return out
}

func normalizeClasses(classes map[string]any) map[string]any {
	out := make(map[string]any, len(classes))
	for classID, raw := range classes {
		class, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		copied := make(map[string]any, len(class))
		for k, v := range class {
			copied[k] = v
		}
		copied["id"] = classID

		if progression, ok := class["progression"].(map[string]any); ok {
			nodes := make(map[string]any, len(progression))
			for key, node := range progression {
				level, err := parseLevel(key)
				if err != nil {
					continue
				}
				n, ok := node.(map[string]any)
				if !ok {
					continue
				}
				nodes[strconv.Itoa(level)] = normalizeNode(n)
			}
			copied["progression"] = nodes
		} else {
			delete(copied, "progression")
		}
		out[classID] = copied
	}
	return out
}

func normalizeNode(node map[string]any) map[string]any {
	out := make(map[string]any, len(node))
	for k, v := range node {
		out[k] = v
	}
	delete(out, "choices")
	choices, ok := node["choices"].([]any)
	if !ok {
		return out
	}

	kept := make([]any, 0, len(choices))
	seen := make(map[string]bool, len(choices))
	for i, rc := range choices {
		choice, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		id := stringField(choice, "id")
		if id == "" {
			id = fmt.Sprintf("choice_%d", i+1)
			choice["id"] = id
		} else if seen[id] {
			continue
		}
		seen[id] = true
		kept = append(kept, choice)
	}
	out["choices"] = kept
	return out
}

func normalizePools(doc map[string]any) map[string]any {
	out := map[string]any{}
	if pools, ok := doc["pools"].(map[string]any); ok {
		for k, v := range pools {
			out[k] = v
		}
	}
	for _, key := range []string{entities.PoolSpells, entities.PoolInfusions, entities.PoolFeatures, entities.PoolFeats} {
		if _, exists := out[key]; exists {
			continue
		}
		if list, ok := doc[key].([]any); ok {
			out[key] = list
		}
	}
	return out
}

// finish applies defaults that are easier on typed values
func finish(rs *entities.Ruleset) {
	for _, class := range rs.Classes {
		if class == nil {
			continue
		}
		for _, node := range class.Progression {
			if node == nil {
				continue
			}
			for _, choice := range node.Choices {
				if choice != nil && choice.Count < 1 {
					choice.Count = 1
				}
			}
		}
	}
}

func parseLevel(key string) (int, error) {
	level, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("level key %q is not a number", key)
	}
	if level < entities.MinLevel || level > entities.MaxLevel {
		return 0, fmt.Errorf("level %d is outside %d..%d", level, entities.MinLevel, entities.MaxLevel)
	}
	return level, nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
