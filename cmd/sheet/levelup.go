package main

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/advancement"
)

var (
	levelupLevel int
	levelupPicks []string
	levelupForce bool
)

var levelupCmd = &cobra.Command{
	Use:   "levelup",
	Short: "Plan, apply and revert level advancement",
	Long: `Level-up commands read the character's class progression from its
ruleset. They work on the active character unless a character id is given.`,
}

var levelupPlanCmd = &cobra.Command{
	Use:   "plan [character-id]",
	Short: "Show the grants and choices of a level",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLevelupPlan,
}

var levelupApplyCmd = &cobra.Command{
	Use:   "apply [character-id]",
	Short: "Apply one level, asking for picks not given with --pick",
	Long: `Apply commits one level. Picks are given as --pick choice=option[,option]
and any choice left out is asked for on the terminal. A level that is already
recorded is left as it is; --force reverts it and records the new picks.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLevelupApply,
}

var levelupAdvanceCmd = &cobra.Command{
	Use:   "advance <target-level> [character-id]",
	Short: "Apply every pending level up to the target",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLevelupAdvance,
}

var levelupSetCmd = &cobra.Command{
	Use:   "set-level <level> [character-id]",
	Short: "Change the level without recording advancement",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLevelupSet,
}

var levelupRevertCmd = &cobra.Command{
	Use:   "revert <level> [character-id]",
	Short: "Undo a level's recorded advancement",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLevelupRevert,
}

func init() {
	levelupPlanCmd.Flags().IntVar(&levelupLevel, "level", 0, "Level to plan (default: next level)")
	levelupApplyCmd.Flags().IntVar(&levelupLevel, "level", 0, "Level to apply (default: next level)")
	levelupApplyCmd.Flags().StringArrayVar(&levelupPicks, "pick", nil, "Pick options as choice=option[,option] (repeatable)")
	levelupApplyCmd.Flags().BoolVar(&levelupForce, "force", false, "Replace an applied level's picks even when they are unchanged")

	levelupCmd.AddCommand(levelupPlanCmd)
	levelupCmd.AddCommand(levelupApplyCmd)
	levelupCmd.AddCommand(levelupAdvanceCmd)
	levelupCmd.AddCommand(levelupSetCmd)
	levelupCmd.AddCommand(levelupRevertCmd)
}

func runLevelupPlan(cmd *cobra.Command, args []string) error {
	id, err := resolveCharacterID(cmd.Context(), optionalArg(args))
	if err != nil {
		return err
	}

	out, err := sheet.advancement.Plan(cmd.Context(), &advancement.PlanInput{
		CharacterID: id,
		Level:       levelupLevel,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Plan)
	}
	printPlan(out.Plan)
	return nil
}

func runLevelupApply(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := resolveCharacterID(ctx, optionalArg(args))
	if err != nil {
		return err
	}

	selections, err := parseSelections(levelupPicks)
	if err != nil {
		return err
	}

	planned, err := sheet.advancement.Plan(ctx, &advancement.PlanInput{CharacterID: id, Level: levelupLevel})
	if err != nil {
		return err
	}

	keep := planned.Plan.Applied && !levelupForce
	missing := *planned.Plan
	missing.Choices = nil
	for _, c := range planned.Plan.Choices {
		if _, ok := selections[c.Choice.ID]; !ok && len(c.Options) > 0 && !keep {
			missing.Choices = append(missing.Choices, c)
		}
	}
	if len(missing.Choices) > 0 {
		asked, err := newPromptChooser(cmd.InOrStdin(), os.Stderr).Choose(ctx, &missing)
		if err != nil {
			return err
		}
		for k, v := range asked {
			selections[k] = v
		}
	}

	out, err := sheet.advancement.ApplyLevel(ctx, &advancement.ApplyLevelInput{
		CharacterID: id,
		Level:       planned.Plan.Level,
		Selections:  selections,
		Force:       levelupForce,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]any{
			"character": out.Character,
			"derived":   out.Derived,
			"applied":   out.Applied,
			"reverted":  out.Reverted,
			"granted":   out.Granted,
		})
	}

	switch {
	case !out.Applied && picksDiffer(planned.Plan, selections):
		fmt.Printf("Level %d is already applied, new picks ignored (use --force to replace them)\n", planned.Plan.Level)
	case !out.Applied:
		fmt.Printf("Level %d is already applied\n", planned.Plan.Level)
	case out.Reverted:
		fmt.Printf("Re-applied level %d for %s\n", planned.Plan.Level, out.Character.Name)
	default:
		fmt.Printf("Applied level %d for %s\n", planned.Plan.Level, out.Character.Name)
	}
	for _, g := range out.Granted {
		fmt.Printf("   + %s\n", g)
	}
	return nil
}

func runLevelupAdvance(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	target, err := levelArg(args[0])
	if err != nil {
		return err
	}
	id, err := resolveCharacterID(ctx, argAt(args, 1))
	if err != nil {
		return err
	}

	out, err := sheet.advancement.AdvanceTo(ctx, &advancement.AdvanceToInput{
		CharacterID: id,
		TargetLevel: target,
		Chooser:     newPromptChooser(cmd.InOrStdin(), os.Stderr),
	})
	if out != nil && len(out.Applied) > 0 && !jsonOutput {
		fmt.Printf("Applied levels %v for %s\n", out.Applied, out.Character.Name)
	}
	if err != nil {
		if errors.IsCanceled(err) && out != nil {
			fmt.Fprintf(os.Stderr, "Stopped at level %d\n", out.Character.Level)
		}
		return err
	}

	if jsonOutput {
		return printJSON(map[string]any{"character": out.Character, "applied": out.Applied})
	}
	fmt.Printf("%s is now level %d\n", out.Character.Name, out.Character.Level)
	return nil
}

func runLevelupSet(cmd *cobra.Command, args []string) error {
	level, err := levelArg(args[0])
	if err != nil {
		return err
	}
	id, err := resolveCharacterID(cmd.Context(), argAt(args, 1))
	if err != nil {
		return err
	}

	out, err := sheet.advancement.SetLevel(cmd.Context(), &advancement.SetLevelInput{CharacterID: id, Level: level})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]any{"character": out.Character, "pending": out.Pending})
	}
	fmt.Printf("%s is now level %d\n", out.Character.Name, out.Character.Level)
	if len(out.Pending) > 0 {
		fmt.Printf("Levels without recorded picks: %v\n", out.Pending)
	}
	return nil
}

func runLevelupRevert(cmd *cobra.Command, args []string) error {
	level, err := levelArg(args[0])
	if err != nil {
		return err
	}
	id, err := resolveCharacterID(cmd.Context(), argAt(args, 1))
	if err != nil {
		return err
	}

	out, err := sheet.advancement.Revert(cmd.Context(), &advancement.RevertInput{CharacterID: id, Level: level})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(map[string]any{"character": out.Character, "reverted": out.Reverted})
	}
	if !out.Reverted {
		fmt.Printf("Level %d has no recorded advancement\n", level)
		return nil
	}
	fmt.Printf("Reverted level %d for %s\n", level, out.Character.Name)
	return nil
}

// picksDiffer reports whether any given selection differs from the picks the
// plan shows as recorded
func picksDiffer(plan *entities.LevelUpPlan, selections engine.Selections) bool {
	previous := make(map[string][]string, len(plan.Choices))
	for _, c := range plan.Choices {
		previous[c.Choice.ID] = c.Previous
	}
	for choiceID, picks := range selections {
		recorded, ok := previous[choiceID]
		if !ok {
			return true
		}
		a, b := slices.Clone(picks), slices.Clone(recorded)
		slices.Sort(a)
		slices.Sort(b)
		if !slices.Equal(a, b) {
			return true
		}
	}
	return false
}

func levelArg(s string) (int, error) {
	level, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.InvalidArgumentf("level %q is not a number", s)
	}
	return level, nil
}

var _ advancement.Chooser = (*promptChooser)(nil)
