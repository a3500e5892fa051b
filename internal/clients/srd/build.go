package srd

import (
	"context"
	"log/slog"
	"strings"

	dndentities "github.com/fadedpez/dnd5e-api/entities"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// The level data carries no casting ability, so SRD casters are listed here
var castingAbility = map[string]entities.Ability{
	"artificer": entities.AbilityIntelligence,
	"bard":      entities.AbilityCharisma,
	"cleric":    entities.AbilityWisdom,
	"druid":     entities.AbilityWisdom,
	"paladin":   entities.AbilityCharisma,
	"ranger":    entities.AbilityWisdom,
	"sorcerer":  entities.AbilityCharisma,
	"warlock":   entities.AbilityCharisma,
	"wizard":    entities.AbilityIntelligence,
}

// Choice ids used for spell picks
const (
	choiceCantrips = "cantrips"
	choiceSpells   = "spells"
)

type classResult struct {
	def      *entities.ClassDef
	features map[string]*entities.FeatureDef
	options  []*entities.Option
}

func (c *client) buildClass(ctx context.Context, classID string, maxLevel int) (*classResult, error) {
	class, err := c.api.GetClass(classID)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get class").
			WithMeta("class_id", classID)
	}
	if class == nil {
		return nil, errors.NotFoundf("SRD has no class %q", classID)
	}

	res := &classResult{
		def: &entities.ClassDef{
			ID:          classID,
			Name:        class.Name,
			HitDie:      class.HitDie,
			Progression: map[int]*entities.ProgressionNode{},
		},
		features: map[string]*entities.FeatureDef{},
	}

	var prevCantrips, prevKnown, prevSlots int
	slots := map[int]map[int]int{}

	for level := 1; level <= maxLevel; level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		lvl, err := c.api.GetClassLevel(classID, level)
		if err != nil {
			return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get class level").
				WithMeta("class_id", classID).
				WithMeta("level", level)
		}
		if lvl == nil {
			continue
		}

		node := &entities.ProgressionNode{}
		for _, ref := range lvl.Features {
			if ref == nil || ref.Key == "" {
				continue
			}
			node.Grants = append(node.Grants, ref.Key)
			res.features[ref.Key] = &entities.FeatureDef{Name: ref.Name}

			if choice, options := c.featureChoice(ctx, classID, ref); choice != nil {
				node.Choices = append(node.Choices, choice)
				res.options = append(res.options, options...)
			}
		}

		if sc := lvl.SpellCasting; sc != nil {
			if n := sc.CantripsKnown - prevCantrips; n > 0 {
				node.Choices = append(node.Choices, &entities.ChoiceSpec{
					ID:    choiceCantrips,
					Title: "Cantrips",
					From:  entities.PoolSpells + ".cantrip",
					Count: n,
				})
			}
			if n := sc.SpellsKnown - prevKnown; n > 0 {
				node.Choices = append(node.Choices, &entities.ChoiceSpec{
					ID:    choiceSpells,
					Title: "Spells",
					Help:  "Only first level spells are offered",
					From:  entities.PoolSpells + ".1",
					Count: n,
				})
			}
			if sc.SpellSlotsLevel1 != prevSlots {
				slots[level] = map[int]int{1: sc.SpellSlotsLevel1}
			}
			prevCantrips = max(prevCantrips, sc.CantripsKnown)
			prevKnown = max(prevKnown, sc.SpellsKnown)
			prevSlots = sc.SpellSlotsLevel1
		}

		if len(node.Grants) > 0 || len(node.Choices) > 0 {
			res.def.Progression[level] = node
		}
	}

	if ability, ok := castingAbility[classID]; ok || len(slots) > 0 {
		res.def.Spellcasting = &entities.Spellcasting{Ability: ability, Slots: slots}
	}

	return res, nil
}

// featureChoice turns a feature's sub-options, such as a fighting style,
// into a choice over the features pool. Lookup failures are logged and the
// feature is imported as a plain grant.
func (c *client) featureChoice(
	ctx context.Context,
	classID string,
	ref *dndentities.ReferenceItem,
) (*entities.ChoiceSpec, []*entities.Option) {
	feature, err := c.api.GetFeature(ref.Key)
	if err != nil {
		slog.WarnContext(ctx, "failed to fetch feature details",
			"class_id", classID,
			"feature", ref.Key,
			"error", err.Error())
		return nil, nil
	}
	if feature == nil || feature.FeatureSpecific == nil {
		return nil, nil
	}
	sub := feature.FeatureSpecific.SubFeatureOptions
	if sub == nil || sub.OptionList == nil {
		return nil, nil
	}

	var options []*entities.Option
	for _, option := range sub.OptionList.Options {
		refOpt, ok := option.(*dndentities.ReferenceOption)
		if !ok || refOpt.Reference == nil || refOpt.Reference.Key == "" {
			continue
		}
		options = append(options, &entities.Option{
			ID:       refOpt.Reference.Key,
			Name:     refOpt.Reference.Name,
			Tags:     []string{ref.Key},
			Requires: &entities.Requires{Class: classID},
		})
	}
	if len(options) == 0 {
		return nil, nil
	}

	name := feature.Name
	if name == "" {
		name = ref.Name
	}
	return &entities.ChoiceSpec{
		ID:     ref.Key,
		Title:  name,
		From:   entities.PoolFeatures,
		Filter: &entities.ChoiceFilter{Tag: ref.Key},
		Count:  max(sub.ChoiceCount, 1),
	}, options
}

func spellOption(key string, spell *dndentities.Spell, lists []string) *entities.Option {
	opt := &entities.Option{ID: key, Name: key, Lists: lists}
	if spell == nil {
		return opt
	}

	level := spell.SpellLevel
	opt.Level = &level
	if spell.Name != "" {
		opt.Name = spell.Name
	}
	if spell.SpellSchool != nil && spell.SpellSchool.Name != "" {
		opt.Tags = append(opt.Tags, strings.ToLower(spell.SpellSchool.Name))
	}
	if spell.Ritual {
		opt.Tags = append(opt.Tags, "ritual")
	}
	if spell.Concentration {
		opt.Tags = append(opt.Tags, "concentration")
	}
	return opt
}

// assemble merges per-class results into one ruleset
func assemble(classes []*classResult, spells []*entities.Option) *entities.Ruleset {
	rs := &entities.Ruleset{
		Meta: entities.RulesetMeta{
			ID:      RulesetID,
			Name:    RulesetName,
			Version: RulesetVersion,
		},
		Classes:            make(map[string]*entities.ClassDef, len(classes)),
		Pools:              entities.Pools{Spells: spells},
		FeaturesDictionary: map[string]*entities.FeatureDef{},
	}

	type optionKey struct{ id, class, tag string }
	seen := map[optionKey]bool{}

	for _, res := range classes {
		if res == nil {
			continue
		}
		rs.Classes[res.def.ID] = res.def
		for key, def := range res.features {
			rs.FeaturesDictionary[key] = def
		}
		for _, opt := range res.options {
			k := optionKey{id: opt.ID, class: opt.Requires.Class, tag: opt.Tags[0]}
			if seen[k] {
				continue
			}
			seen[k] = true
			rs.Pools.Features = append(rs.Pools.Features, opt)
		}
	}

	return rs
}
