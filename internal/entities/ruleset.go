package entities

import "time"

// Ruleset is the normalised, read-only view of an imported rules document.
// It is replaced wholesale on re-import and never edited in place. The stored
// form is itself a valid source document, so an exported ruleset re-imports
// unchanged.
type Ruleset struct {
	Meta               RulesetMeta            `json:"meta"`
	Classes            map[string]*ClassDef   `json:"classes"`
	Pools              Pools                  `json:"pools"`
	FeaturesDictionary map[string]*FeatureDef `json:"featuresDictionary,omitempty"`
	ImportedAt         time.Time              `json:"importedAt,omitempty"`
}

// RulesetMeta identifies a ruleset
type RulesetMeta struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// GetID returns the ruleset id
func (r *Ruleset) GetID() string {
	if r == nil {
		return ""
	}
	return r.Meta.ID
}

// Class returns the class definition or nil
func (r *Ruleset) Class(classID string) *ClassDef {
	if r == nil || r.Classes == nil {
		return nil
	}
	return r.Classes[classID]
}

// FeatureName resolves a feature id through the dictionary, falling back to
// the id itself.
func (r *Ruleset) FeatureName(featureID string) string {
	if r != nil {
		if def, ok := r.FeaturesDictionary[featureID]; ok && def != nil && def.Name != "" {
			return def.Name
		}
	}
	return featureID
}

// FeatureDescription resolves a feature description through the dictionary
func (r *Ruleset) FeatureDescription(featureID string) string {
	if r != nil {
		if def, ok := r.FeaturesDictionary[featureID]; ok && def != nil {
			return def.Description
		}
	}
	return ""
}

// Pools holds the option pools choices draw from
type Pools struct {
	Spells    []*Option `json:"spells,omitempty"`
	Infusions []*Option `json:"infusions,omitempty"`
	Features  []*Option `json:"features,omitempty"`
	Feats     []*Option `json:"feats,omitempty"`
}

// Pool keys
const (
	PoolSpells    = "spells"
	PoolInfusions = "infusions"
	PoolFeatures  = "features"
	PoolFeats     = "feats"
)

// ByName returns the named top-level pool and whether the name is known
func (p *Pools) ByName(name string) ([]*Option, bool) {
	switch name {
	case PoolSpells:
		return p.Spells, true
	case PoolInfusions:
		return p.Infusions, true
	case PoolFeatures:
		return p.Features, true
	case PoolFeats:
		return p.Feats, true
	default:
		return nil, false
	}
}

// FeatureDef is a features dictionary entry
type FeatureDef struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

// ClassDef describes one class and its per-level progression
type ClassDef struct {
	ID           string                   `json:"id,omitempty"`
	Name         string                   `json:"name,omitempty"`
	HitDie       int                      `json:"hitDie,omitempty"`
	Progression  map[int]*ProgressionNode `json:"progression,omitempty"`
	Spellcasting *Spellcasting            `json:"spellcasting,omitempty"`
	Subclasses   []string                 `json:"subclasses,omitempty"`
	// Scalars holds named level tables such as infusions known, each mapping
	// the level a value starts at to the value.
	Scalars map[string]map[int]int `json:"scalars,omitempty"`
}

// Node returns the progression node at level, or nil when absent
func (c *ClassDef) Node(level int) *ProgressionNode {
	if c == nil || c.Progression == nil {
		return nil
	}
	return c.Progression[level]
}

// Spellcasting describes how a class casts spells
type Spellcasting struct {
	Ability Ability `json:"ability,omitempty"`
	// Slots maps character level to a row of spell level to slot count.
	// Rows merge upward, see ruleset.SpellSlotsAt.
	Slots map[int]map[int]int `json:"slots,omitempty"`
}

// ProgressionNode is what a class gains at one level
type ProgressionNode struct {
	Grants  []string      `json:"grants,omitempty"`
	Choices []*ChoiceSpec `json:"choices,omitempty"`
}

// ChoiceSpec is a single pick-N decision inside a progression node
type ChoiceSpec struct {
	ID     string        `json:"id"`
	Title  string        `json:"title,omitempty"`
	Help   string        `json:"help,omitempty"`
	From   string        `json:"from"`
	Filter *ChoiceFilter `json:"filter,omitempty"`
	Count  int           `json:"count,omitempty"`
}

// Required returns the number of picks the choice needs, at least one
func (c *ChoiceSpec) Required() int {
	if c == nil || c.Count < 1 {
		return 1
	}
	return c.Count
}

// ChoiceFilter narrows a pool to eligible options
type ChoiceFilter struct {
	Class string `json:"class,omitempty"`
	// MinLevel is accepted for document compatibility. Eligibility by level
	// is driven by the option's own requirement.
	MinLevel int      `json:"minLevel,omitempty"`
	Tag      string   `json:"tag,omitempty"`
	TagsAny  []string `json:"tagsAny,omitempty"`
	TagsAll  []string `json:"tagsAll,omitempty"`
}

// Option is an entry in a pool
type Option struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Level       *int      `json:"level,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Requires    *Requires `json:"requires,omitempty"`
	Lists       []string  `json:"lists,omitempty"`
	Description string    `json:"description,omitempty"`
}

// HasTag reports whether the option carries tag
func (o *Option) HasTag(tag string) bool {
	for _, t := range o.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// DisplayName returns the name, falling back to the id
func (o *Option) DisplayName() string {
	if o.Name != "" {
		return o.Name
	}
	return o.ID
}

// Requires lists an option's prerequisites
type Requires struct {
	Class    string `json:"class,omitempty"`
	MinLevel int    `json:"minLevel,omitempty"`
	Subclass string `json:"subclass,omitempty"`
}
