package ruleset

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// build turns a normalised document into typed values. Parts that do not fit
// their type are converted when they read as numbers or dropped otherwise,
// with a warning either way.
func build(doc map[string]any, problems *Problems) *entities.Ruleset {
	meta, _ := doc["meta"].(map[string]any)
	rs := &entities.Ruleset{
		Meta: entities.RulesetMeta{
			ID:      stringField(meta, "id"),
			Name:    stringField(meta, "name"),
			Version: stringField(meta, "version"),
		},
		Classes: map[string]*entities.ClassDef{},
	}

	classes, _ := doc["classes"].(map[string]any)
	for _, classID := range sortedKeys(classes) {
		class, ok := classes[classID].(map[string]any)
		if !ok {
			continue
		}
		rs.Classes[classID] = buildClass(problems, "classes."+classID, class)
	}

	pools, _ := doc["pools"].(map[string]any)
	rs.Pools.Spells = buildOptions(problems, "pools."+entities.PoolSpells, pools[entities.PoolSpells])
	rs.Pools.Infusions = buildOptions(problems, "pools."+entities.PoolInfusions, pools[entities.PoolInfusions])
	rs.Pools.Features = buildOptions(problems, "pools."+entities.PoolFeatures, pools[entities.PoolFeatures])
	rs.Pools.Feats = buildOptions(problems, "pools."+entities.PoolFeats, pools[entities.PoolFeats])

	if dict, ok := doc["featuresDictionary"].(map[string]any); ok {
		rs.FeaturesDictionary = make(map[string]*entities.FeatureDef, len(dict))
		for _, id := range sortedKeys(dict) {
			path := "featuresDictionary." + id
			def, ok := dict[id].(map[string]any)
			if !ok {
				problems.warnf(path, "ignored: must be an object")
				continue
			}
			rs.FeaturesDictionary[id] = decodeLenient[entities.FeatureDef](problems, path, def)
		}
	}

	return rs
}

func buildClass(problems *Problems, path string, class map[string]any) *entities.ClassDef {
	fields := withoutKey(class, "progression")
	def := decodeLenient[entities.ClassDef](problems, path, fields)

	progression, ok := class["progression"].(map[string]any)
	if !ok {
		return def
	}
	def.Progression = make(map[int]*entities.ProgressionNode, len(progression))
	for _, key := range sortedKeys(progression) {
		level, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		node, _ := progression[key].(map[string]any)
		def.Progression[level] = buildNode(problems, path+".progression."+key, node)
	}
	return def
}

func buildNode(problems *Problems, path string, node map[string]any) *entities.ProgressionNode {
	out := decodeLenient[entities.ProgressionNode](problems, path, withoutKey(node, "choices"))

	choices, _ := node["choices"].([]any)
	for i, rc := range choices {
		choice, ok := rc.(map[string]any)
		if !ok {
			continue
		}
		out.Choices = append(out.Choices, decodeLenient[entities.ChoiceSpec](problems, fmt.Sprintf("%s.choices[%d]", path, i), choice))
	}
	return out
}

func buildOptions(problems *Problems, path string, raw any) []*entities.Option {
	if raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		problems.warnf(path, "ignored: must be a list")
		return nil
	}

	out := make([]*entities.Option, 0, len(list))
	for i, item := range list {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			problems.warnf(itemPath, "ignored: must be an object")
			continue
		}
		out = append(out, decodeLenient[entities.Option](problems, itemPath, m))
	}
	return out
}

// decodeLenient decodes m into a T. When the object as a whole does not fit,
// each field is tried on its own: a field that fits once its numbers are read
// from strings (or its number is read as a string) is converted, any other
// misfit is left out.
func decodeLenient[T any](problems *Problems, path string, m map[string]any) *T {
	out := new(T)
	if fitsAs[T](m) {
		_ = remarshal(m, out)
		return out
	}

	kept := make(map[string]any, len(m))
	for _, key := range sortedKeys(m) {
		value := m[key]
		field := map[string]any{key: value}
		if fitsAs[T](field) {
			kept[key] = value
			continue
		}
		if converted, ok := convertField[T](key, value); ok {
			problems.warnf(path+"."+key, "converted %s to the expected type", describe(value))
			kept[key] = converted
			continue
		}
		problems.warnf(path+"."+key, "ignored: unexpected %s", describe(value))
	}
	_ = remarshal(kept, out)
	return out
}

// convertField tries numbers read from strings first, then strings read from
// numbers.
func convertField[T any](key string, value any) (any, bool) {
	for _, toNumbers := range []bool{true, false} {
		converted, changed := convertScalars(value, toNumbers)
		if changed && fitsAs[T](map[string]any{key: converted}) {
			return converted, true
		}
	}
	return nil, false
}

func fitsAs[T any](m map[string]any) bool {
	var scratch T
	return remarshal(m, &scratch) == nil
}

func remarshal(in any, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// convertScalars rewrites numeric strings such as "2" or "d10" as numbers, or
// numbers as strings, recursing into objects and lists. It reports whether
// anything changed.
func convertScalars(v any, toNumbers bool) (any, bool) {
	switch t := v.(type) {
	case string:
		if n, ok := numericString(t); ok && toNumbers {
			return n, true
		}
		return t, false
	case float64, int, int64:
		if toNumbers {
			return t, false
		}
		return fmt.Sprint(t), true
	case map[string]any:
		out := make(map[string]any, len(t))
		changed := false
		for k, item := range t {
			c, ok := convertScalars(item, toNumbers)
			out[k] = c
			changed = changed || ok
		}
		return out, changed
	case []any:
		out := make([]any, len(t))
		changed := false
		for i, item := range t {
			c, ok := convertScalars(item, toNumbers)
			out[i] = c
			changed = changed || ok
		}
		return out, changed
	default:
		return v, false
	}
}

// numericString reads "2", " 2 ", "d10" and "1d10" as integers
func numericString(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(strings.TrimPrefix(s, "1d"), "d")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func describe(v any) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("string %q", t)
	case float64, int, int64:
		return fmt.Sprintf("number %v", t)
	case bool:
		return "boolean"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func withoutKey(m map[string]any, key string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if k != key {
			out[k] = v
		}
	}
	return out
}
