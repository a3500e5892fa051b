package ruleset

import (
	"sort"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// ScalarAt returns the value of the last table row at or below level.
// A table {2: 4, 6: 6} yields 4 at levels 2..5 and 6 from level 6.
func ScalarAt(table map[int]int, level, fallback int) int {
	val := fallback
	for _, k := range sortedLevels(table) {
		if level >= k {
			val = table[k]
		}
	}
	return val
}

// SpellSlotsAt merges every slot row at or below level, later rows
// overriding earlier ones per spell level.
func SpellSlotsAt(table map[int]map[int]int, level int) map[int]int {
	out := map[int]int{}
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	for _, k := range keys {
		if level < k {
			break
		}
		for slotLevel, count := range table[k] {
			out[slotLevel] = count
		}
	}
	return out
}

// Levels returns the sorted levels a class defines progression nodes for
func Levels(class *entities.ClassDef) []int {
	if class == nil {
		return nil
	}
	levels := make([]int, 0, len(class.Progression))
	for level, node := range class.Progression {
		if node != nil {
			levels = append(levels, level)
		}
	}
	sort.Ints(levels)
	return levels
}

func sortedLevels(table map[int]int) []int {
	keys := make([]int, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
