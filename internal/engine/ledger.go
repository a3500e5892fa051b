package engine

import (
	"slices"
	"sort"
	"strconv"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

func levelKey(level int) string {
	return strconv.Itoa(level)
}

// IsApplied reports whether the character already reflects the level's
// progression node, which is the case exactly when its record is non-empty.
func IsApplied(char *entities.Character, level int) bool {
	if char == nil {
		return false
	}
	return len(char.Advancement[levelKey(level)]) > 0
}

// AppliedLevels returns the levels with a recorded advancement, ascending
func AppliedLevels(char *entities.Character) []int {
	if char == nil {
		return nil
	}
	var levels []int
	for key, record := range char.Advancement {
		level, err := strconv.Atoi(key)
		if err != nil || len(record) == 0 {
			continue
		}
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

// PendingLevels lists the levels in [from, to] that are not yet applied.
// A wizard interrupted after some levels resumes from this list.
func PendingLevels(char *entities.Character, from, to int) []int {
	from = max(from, entities.MinLevel)
	to = min(to, entities.MaxLevel)
	var pending []int
	for level := from; level <= to; level++ {
		if !IsApplied(char, level) {
			pending = append(pending, level)
		}
	}
	return pending
}

// RecordApplied returns a copy of the character with picks stored as the
// level's record, replacing any previous record whole.
func RecordApplied(char *entities.Character, level int, picks entities.AdvancementRecord) *entities.Character {
	out := char.Clone()
	if out == nil {
		return nil
	}
	recordApplied(out, level, picks)
	return out
}

func recordApplied(char *entities.Character, level int, picks entities.AdvancementRecord) {
	if char.Advancement == nil {
		char.Advancement = map[string]entities.AdvancementRecord{}
	}
	char.Advancement[levelKey(level)] = picks.Clone()
}

// Revert returns a copy of the character with the level's advancement undone:
// engine-owned features at that level are dropped, every picked id leaves the
// spell and infusion sets and the record is deleted. Manual features are kept.
// Reverting a level with no record returns an unchanged copy.
func Revert(char *entities.Character, level int) *entities.Character {
	out := char.Clone()
	if out == nil {
		return nil
	}
	revert(out, level)
	return out
}

// revert undoes an applied level in place and returns the index the level's
// first engine-owned feature held, or -1 when it had none.
func revert(char *entities.Character, level int) int {
	if !IsApplied(char, level) {
		return -1
	}
	key := levelKey(level)
	record := char.Advancement[key]

	slot := slices.IndexFunc(char.Features, func(f *entities.FeatureEntry) bool {
		return engineOwned(f, level)
	})
	char.Features = slices.DeleteFunc(char.Features, func(f *entities.FeatureEntry) bool {
		return engineOwned(f, level)
	})

	var picked []string
	for choiceID, ids := range record {
		if choiceID == entities.GrantedMarker {
			continue
		}
		picked = append(picked, ids...)
	}
	char.Spells.Cantrips = removeFromSet(char.Spells.Cantrips, picked)
	char.Spells.Known = removeFromSet(char.Spells.Known, picked)
	char.Infusions.Learned = removeFromSet(char.Infusions.Learned, picked)

	delete(char.Advancement, key)
	return slot
}

func engineOwned(f *entities.FeatureEntry, level int) bool {
	if f == nil || f.Level != level || f.HasTag(entities.FeatureTagManual) {
		return false
	}
	return f.HasTag(entities.FeatureTagGrant) || f.HasTag(entities.FeatureTagChoice)
}

// restoreSlot moves the features appended from index from onward back to
// slot, so a re-applied level keeps its place among the other levels.
func restoreSlot(char *entities.Character, from, slot int) {
	if slot < 0 || slot >= from || from >= len(char.Features) {
		return
	}
	added := slices.Clone(char.Features[from:])
	char.Features = slices.Insert(slices.Delete(char.Features, from, len(char.Features)), slot, added...)
}

// addToSet merges ids into a sorted, duplicate free set
func addToSet(set []string, ids ...string) []string {
	out := append(slices.Clone(set), ids...)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}

func removeFromSet(set []string, ids []string) []string {
	if len(ids) == 0 {
		return set
	}
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := make([]string, 0, len(set))
	for _, id := range set {
		if !drop[id] {
			out = append(out, id)
		}
	}
	return out
}

// dedupe keeps the first occurrence of each id, preserving order
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
