package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// printJSON writes v as indented JSON to stdout
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode output")
	}
	return nil
}

type sheetView struct {
	Character *entities.Character    `json:"character"`
	Derived   *entities.DerivedStats `json:"derived,omitempty"`
}

func printSheet(char *entities.Character, derived *entities.DerivedStats) {
	fmt.Printf("%s (ID: %s)\n", char.Name, char.ID)
	fmt.Printf("   Class: %s", orDash(char.ClassID))
	if char.SubclassID != "" {
		fmt.Printf(" / %s", char.SubclassID)
	}
	fmt.Printf("   Level: %d   Ruleset: %s\n", char.Level, orDash(char.RulesetID))
	fmt.Printf("   HP: %d/%d", char.HP.Current, char.HP.Max)
	if char.HP.Temp > 0 {
		fmt.Printf(" (+%d temp)", char.HP.Temp)
	}
	fmt.Printf("   AC: %d   Speed: %d\n", char.AC, char.Speed)

	fmt.Printf("   Abilities:")
	for _, a := range entities.Abilities {
		mod := 0
		if derived != nil {
			mod = derived.AbilityModifiers[a]
		}
		fmt.Printf(" %s %d (%+d)", a, char.Score(a), mod)
	}
	fmt.Println()

	if derived != nil {
		fmt.Printf("   Proficiency: %+d   Initiative: %+d   Passive Perception: %d\n",
			derived.ProficiencyBonus, derived.Initiative, derived.PassivePerception)
		if derived.SpellcastingAbility != "" {
			fmt.Printf("   Spellcasting: %s   DC %d   Attack %+d\n",
				derived.SpellcastingAbility, derived.SpellDC, derived.SpellAttack)
		}
		if len(derived.SpellSlots) > 0 {
			levels := make([]int, 0, len(derived.SpellSlots))
			for l := range derived.SpellSlots {
				levels = append(levels, l)
			}
			sort.Ints(levels)
			parts := make([]string, 0, len(levels))
			for _, l := range levels {
				parts = append(parts, fmt.Sprintf("%d:%d", l, derived.SpellSlots[l]))
			}
			fmt.Printf("   Slots: %s\n", strings.Join(parts, " "))
		}
	}

	if len(char.SaveProfs) > 0 {
		saves := make([]string, 0, len(char.SaveProfs))
		for _, a := range char.SaveProfs {
			saves = append(saves, string(a))
		}
		fmt.Printf("   Saves: %s\n", strings.Join(saves, ", "))
	}

	if len(char.SkillProfs) > 0 {
		skills := make([]string, 0, len(char.SkillProfs))
		for s, rank := range char.SkillProfs {
			label := string(s)
			if rank >= entities.RankExpertise {
				label += "*"
			}
			if derived != nil {
				label = fmt.Sprintf("%s %+d", label, derived.SkillTotals[s])
			}
			skills = append(skills, label)
		}
		sort.Strings(skills)
		fmt.Printf("   Skills: %s\n", strings.Join(skills, ", "))
	}

	if len(char.Spells.Cantrips) > 0 {
		fmt.Printf("   Cantrips: %s\n", strings.Join(char.Spells.Cantrips, ", "))
	}
	if len(char.Spells.Known) > 0 {
		fmt.Printf("   Spells: %s\n", strings.Join(char.Spells.Known, ", "))
	}
	if len(char.Infusions.Learned) > 0 {
		fmt.Printf("   Infusions: %s\n", strings.Join(char.Infusions.Learned, ", "))
	}

	if len(char.Features) > 0 {
		fmt.Printf("   Features:\n")
		for _, f := range char.Features {
			fmt.Printf("     - [%d] %s (%s)", f.Level, f.Name, f.ID)
			if len(f.Tags) > 0 {
				fmt.Printf(" %s", strings.Join(f.Tags, ","))
			}
			fmt.Println()
		}
	}

	if len(char.Inventory) > 0 {
		fmt.Printf("   Inventory:\n")
		for _, item := range char.Inventory {
			fmt.Printf("     - %s x%d", item.Name, item.Qty)
			if item.Note != "" {
				fmt.Printf(" (%s)", item.Note)
			}
			fmt.Println()
		}
	}

	if char.Notes != "" {
		fmt.Printf("   Notes: %s\n", char.Notes)
	}
}

func printPlan(plan *entities.LevelUpPlan) {
	fmt.Printf("Level %d (%s)", plan.Level, plan.ClassID)
	switch {
	case plan.Missing:
		fmt.Printf(": no progression defined\n")
		return
	case plan.Applied:
		fmt.Printf(": already applied")
	}
	fmt.Println()

	for _, g := range plan.Grants {
		fmt.Printf("   + %s", g.Name)
		if g.Description != "" {
			fmt.Printf(": %s", g.Description)
		}
		fmt.Println()
	}

	for _, c := range plan.Choices {
		title := c.Choice.Title
		if title == "" {
			title = c.Choice.ID
		}
		fmt.Printf("   ? %s [%s] choose %d\n", title, c.Choice.ID, c.Choice.Required())
		if c.Choice.Help != "" {
			fmt.Printf("     %s\n", c.Choice.Help)
		}
		for i, opt := range c.Options {
			marker := " "
			for _, p := range c.Previous {
				if p == opt.ID {
					marker = "*"
				}
			}
			fmt.Printf("     %s%2d. %s (%s)\n", marker, i+1, optionName(opt), opt.ID)
		}
	}
}

func optionName(opt *entities.Option) string {
	if opt.Name != "" {
		return opt.Name
	}
	return opt.ID
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
