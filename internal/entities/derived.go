package entities

// DerivedStats is the computed view of a character. It is recomputed on
// demand and never persisted.
type DerivedStats struct {
	ProficiencyBonus    int             `json:"proficiencyBonus"`
	AbilityModifiers    map[Ability]int `json:"abilityModifiers"`
	SaveTotals          map[Ability]int `json:"saveTotals"`
	SkillTotals         map[Skill]int   `json:"skillTotals"`
	SpellcastingAbility Ability         `json:"spellcastingAbility"`
	SpellDC             int             `json:"spellDC"`
	SpellAttack         int             `json:"spellAttack"`
	PassivePerception   int             `json:"passivePerception"`
	Initiative          int             `json:"initiative"`
	SpellSlots          map[int]int     `json:"spellSlots,omitempty"`
	Scalars             map[string]int  `json:"scalars,omitempty"`
}

// LevelUpPlan is what a caller needs to present one level step. Missing is
// set when the class defines no node for the level.
type LevelUpPlan struct {
	ClassID string           `json:"classId"`
	Level   int              `json:"level"`
	Missing bool             `json:"missing,omitempty"`
	Applied bool             `json:"applied,omitempty"`
	Grants  []*PlannedGrant  `json:"grants,omitempty"`
	Choices []*PlannedChoice `json:"choices,omitempty"`
}

// PlannedGrant is a feature the level grants without a decision
type PlannedGrant struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// PlannedChoice pairs a choice with its eligible options
type PlannedChoice struct {
	Choice  *ChoiceSpec `json:"choice"`
	Options []*Option   `json:"options"`
	// Previous holds the picks recorded for this choice, if the level was
	// already applied
	Previous []string `json:"previous,omitempty"`
}
