package engine

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

const cantripSuffix = "cantrip"

// OptionsFor returns the options of choice's pool that a class may pick at
// atLevel. Filtering runs in order: pool, class, minimum level, tags. The
// result keeps pool order and is empty, never nil, when nothing qualifies.
func OptionsFor(rs *entities.Ruleset, classID string, choice *entities.ChoiceSpec, atLevel int) []*entities.Option {
	return optionsFor(rs, classID, "", choice, atLevel)
}

// OptionsForCharacter is OptionsFor for a character's class and subclass
func OptionsForCharacter(rs *entities.Ruleset, char *entities.Character, choice *entities.ChoiceSpec, atLevel int) []*entities.Option {
	if char == nil {
		return []*entities.Option{}
	}
	return optionsFor(rs, char.ClassID, char.SubclassID, choice, atLevel)
}

func optionsFor(
	rs *entities.Ruleset,
	classID, subclassID string,
	choice *entities.ChoiceSpec,
	atLevel int,
) []*entities.Option {
	out := []*entities.Option{}
	if rs == nil || choice == nil {
		return out
	}

	var filter entities.ChoiceFilter
	if choice.Filter != nil {
		filter = *choice.Filter
	}
	wantClass := classID
	if filter.Class != "" {
		wantClass = filter.Class
	}

	for _, opt := range resolvePool(rs, choice.From) {
		if opt == nil {
			continue
		}
		if !matchesClass(opt, wantClass, filter.Class != "") {
			continue
		}
		if opt.Requires != nil && opt.Requires.MinLevel > atLevel {
			continue
		}
		if filter.Tag != "" && !opt.HasTag(filter.Tag) {
			continue
		}
		if len(filter.TagsAny) > 0 && !hasAnyTag(opt, filter.TagsAny) {
			continue
		}
		if len(filter.TagsAll) > 0 && !hasAllTags(opt, filter.TagsAll) {
			continue
		}
		if opt.Requires != nil && opt.Requires.Subclass != "" && subclassID != "" &&
			opt.Requires.Subclass != subclassID {
			continue
		}
		out = append(out, opt)
	}
	return out
}

// resolvePool looks up a pool key. Besides the four top-level pools it
// understands compound spell keys: "spells.cantrip" selects level 0 spells
// and "spells.N" selects spells of level N. Spells without a level count as
// cantrips.
func resolvePool(rs *entities.Ruleset, key string) []*entities.Option {
	if pool, ok := rs.Pools.ByName(key); ok {
		return pool
	}

	base, sub, found := strings.Cut(key, ".")
	if !found || base != entities.PoolSpells {
		return nil
	}

	want := -1
	if strings.HasPrefix(sub, cantripSuffix) {
		want = 0
	} else if n, err := strconv.Atoi(sub); err == nil {
		want = n
	} else {
		return nil
	}

	var out []*entities.Option
	for _, opt := range rs.Pools.Spells {
		if opt != nil && spellLevel(opt) == want {
			out = append(out, opt)
		}
	}
	return out
}

func spellLevel(opt *entities.Option) int {
	if opt.Level == nil {
		return 0
	}
	return *opt.Level
}

// matchesClass keeps options that name the class through requires.class or
// their class lists. Options naming neither are open to every class unless
// the choice filters on a class explicitly.
func matchesClass(opt *entities.Option, classID string, explicit bool) bool {
	hasRequirement := opt.Requires != nil && opt.Requires.Class != ""
	if !hasRequirement && len(opt.Lists) == 0 {
		return !explicit
	}
	if classID == "" {
		return false
	}
	if hasRequirement && opt.Requires.Class == classID {
		return true
	}
	for _, c := range opt.Lists {
		if c == classID {
			return true
		}
	}
	return false
}

func hasAnyTag(opt *entities.Option, tags []string) bool {
	for _, t := range tags {
		if opt.HasTag(t) {
			return true
		}
	}
	return false
}

func hasAllTags(opt *entities.Option, tags []string) bool {
	for _, t := range tags {
		if !opt.HasTag(t) {
			return false
		}
	}
	return true
}

// findOption searches the pool a choice draws from, then every pool, for id
func findOption(rs *entities.Ruleset, poolKey, id string) *entities.Option {
	if rs == nil {
		return nil
	}
	for _, opt := range resolvePool(rs, poolKey) {
		if opt != nil && opt.ID == id {
			return opt
		}
	}
	for _, pool := range [][]*entities.Option{rs.Pools.Spells, rs.Pools.Infusions, rs.Pools.Features, rs.Pools.Feats} {
		for _, opt := range pool {
			if opt != nil && opt.ID == id {
				return opt
			}
		}
	}
	return nil
}
