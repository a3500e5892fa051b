package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/character"
)

var (
	charName      string
	charRuleset   string
	charClass     string
	charSubclass  string
	charLevel     int
	charAbilities map[string]int
	charRoll      bool
	charUse       bool

	editNotes string
	editAC    int
	editSpeed int
	editMaxHP int
	editSkill map[string]int
	editSaves []string
	editItems []string

	listRuleset string

	featureText  string
	featureLevel int
	featureTags  []string
)

var characterCmd = &cobra.Command{
	Use:     "character",
	Aliases: []string{"char", "characters"},
	Short:   "Create and edit character sheets",
	Long: `Character commands work on the active character when no id is given.
Select one with "sheet character use <id>".`,
}

var characterNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a character",
	Args:  cobra.NoArgs,
	RunE:  runCharacterNew,
}

var characterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List characters",
	Args:  cobra.NoArgs,
	RunE:  runCharacterList,
}

var characterShowCmd = &cobra.Command{
	Use:   "show [character-id]",
	Short: "Show a character sheet with derived numbers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCharacterShow,
}

var characterUseCmd = &cobra.Command{
	Use:   "use <character-id|none>",
	Short: "Select the active character",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterUse,
}

var characterDeleteCmd = &cobra.Command{
	Use:   "delete <character-id>",
	Short: "Delete a character",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharacterDelete,
}

var characterDamageCmd = &cobra.Command{
	Use:   "damage <amount> [character-id]",
	Short: "Apply damage, spending temporary hit points first",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCharacterDamage,
}

var characterHealCmd = &cobra.Command{
	Use:   "heal <amount> [character-id]",
	Short: "Restore hit points up to the maximum",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCharacterHeal,
}

var characterTempCmd = &cobra.Command{
	Use:   "temp <amount> [character-id]",
	Short: "Set temporary hit points",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runCharacterTemp,
}

var characterEditCmd = &cobra.Command{
	Use:   "edit [character-id]",
	Short: "Edit sheet fields",
	Long: `Edit changes only the fields whose flags are given. Skill ranks merge
into the sheet: 0 removes, 1 is proficient and 2 is expertise.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCharacterEdit,
}

var characterFeatureCmd = &cobra.Command{
	Use:   "feature",
	Short: "Add or remove manual feature entries",
}

var characterFeatureAddCmd = &cobra.Command{
	Use:   "add <name> [character-id]",
	Short: "Add a manual feature entry",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runFeatureAdd,
}

var characterFeatureRemoveCmd = &cobra.Command{
	Use:   "remove <feature-id> [character-id]",
	Short: "Remove a manual feature entry",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runFeatureRemove,
}

func init() {
	characterNewCmd.Flags().StringVar(&charName, "name", "", "Character name")
	characterNewCmd.Flags().StringVar(&charRuleset, "ruleset", "", "Ruleset id (default: the active ruleset)")
	characterNewCmd.Flags().StringVar(&charClass, "class", "", "Class id from the ruleset")
	characterNewCmd.Flags().StringVar(&charSubclass, "subclass", "", "Subclass id")
	characterNewCmd.Flags().IntVar(&charLevel, "level", entities.MinLevel, "Starting level")
	characterNewCmd.Flags().StringToIntVar(&charAbilities, "ability", nil, "Ability scores, e.g. STR=15,DEX=14")
	characterNewCmd.Flags().BoolVar(&charRoll, "roll", false, "Roll 4d6 drop lowest for abilities not given")
	characterNewCmd.Flags().BoolVar(&charUse, "use", false, "Make the new character active")
	_ = characterNewCmd.MarkFlagRequired("name")

	characterListCmd.Flags().StringVar(&listRuleset, "ruleset", "", "Only list characters of this ruleset")

	characterEditCmd.Flags().StringVar(&charName, "name", "", "Character name")
	characterEditCmd.Flags().StringVar(&editNotes, "notes", "", "Free text notes")
	characterEditCmd.Flags().IntVar(&editAC, "ac", 0, "Armor class")
	characterEditCmd.Flags().IntVar(&editSpeed, "speed", 0, "Walking speed")
	characterEditCmd.Flags().IntVar(&editMaxHP, "max-hp", 0, "Maximum hit points")
	characterEditCmd.Flags().StringToIntVar(&charAbilities, "ability", nil, "Ability scores, e.g. STR=15,DEX=14")
	characterEditCmd.Flags().StringToIntVar(&editSkill, "skill", nil, "Skill ranks, e.g. arcana=1,stealth=2")
	characterEditCmd.Flags().StringSliceVar(&editSaves, "save", nil, "Replace saving throw proficiencies")
	characterEditCmd.Flags().StringArrayVar(&editItems, "item", nil, "Replace inventory with name[:qty[:note]] lines (repeatable)")

	characterFeatureAddCmd.Flags().StringVar(&featureText, "text", "", "Feature description")
	characterFeatureAddCmd.Flags().IntVar(&featureLevel, "level", 0, "Level the feature belongs to (default: current level)")
	characterFeatureAddCmd.Flags().StringSliceVar(&featureTags, "tag", nil, "Extra tags")

	characterFeatureCmd.AddCommand(characterFeatureAddCmd)
	characterFeatureCmd.AddCommand(characterFeatureRemoveCmd)

	characterCmd.AddCommand(characterNewCmd)
	characterCmd.AddCommand(characterListCmd)
	characterCmd.AddCommand(characterShowCmd)
	characterCmd.AddCommand(characterUseCmd)
	characterCmd.AddCommand(characterDeleteCmd)
	characterCmd.AddCommand(characterDamageCmd)
	characterCmd.AddCommand(characterHealCmd)
	characterCmd.AddCommand(characterTempCmd)
	characterCmd.AddCommand(characterEditCmd)
	characterCmd.AddCommand(characterFeatureCmd)
}

func runCharacterNew(cmd *cobra.Command, _ []string) error {
	abilities, err := parseAbilities(charAbilities)
	if err != nil {
		return err
	}

	out, err := sheet.characters.Create(cmd.Context(), &character.CreateInput{
		Name:          charName,
		RulesetID:     charRuleset,
		ClassID:       charClass,
		SubclassID:    charSubclass,
		Level:         charLevel,
		Abilities:     abilities,
		RollAbilities: charRoll,
	})
	if err != nil {
		return err
	}

	if charUse {
		if _, err := sheet.characters.SetActive(cmd.Context(), &character.SetActiveInput{
			CharacterID: out.Character.ID,
		}); err != nil {
			return err
		}
	}

	if jsonOutput {
		return printJSON(out.Character)
	}
	fmt.Printf("Created %s (ID: %s)\n", out.Character.Name, out.Character.ID)
	if out.Character.ClassID != "" {
		fmt.Printf("Record level picks with \"sheet levelup apply --level N\" for levels 1-%d\n", out.Character.Level)
	}
	return nil
}

func runCharacterList(cmd *cobra.Command, _ []string) error {
	out, err := sheet.characters.List(cmd.Context(), &character.ListInput{RulesetID: listRuleset})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Characters)
	}

	if len(out.Characters) == 0 {
		fmt.Println("No characters")
		return nil
	}

	active := activeCharacterID(cmd.Context())
	fmt.Printf("Found %d characters:\n\n", len(out.Characters))
	for _, c := range out.Characters {
		marker := " "
		if c.ID == active {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s %d  HP %d/%d\n", marker, c.ID, c.Name, orDash(c.ClassID), c.Level, c.HP.Current, c.HP.Max)
	}
	return nil
}

func runCharacterShow(cmd *cobra.Command, args []string) error {
	id, err := resolveCharacterID(cmd.Context(), optionalArg(args))
	if err != nil {
		return err
	}

	out, err := sheet.characters.Get(cmd.Context(), &character.GetInput{CharacterID: id})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(sheetView{Character: out.Character, Derived: out.Derived})
	}
	printSheet(out.Character, out.Derived)
	if out.Ruleset == nil && out.Character.RulesetID != "" {
		fmt.Printf("\nRuleset %s is not stored; derived numbers ignore class data\n", out.Character.RulesetID)
	}
	return nil
}

func runCharacterUse(cmd *cobra.Command, args []string) error {
	id := args[0]
	if id == "none" {
		id = ""
	}

	out, err := sheet.characters.SetActive(cmd.Context(), &character.SetActiveInput{CharacterID: id})
	if err != nil {
		return err
	}
	if out.Character == nil {
		fmt.Println("Cleared the active character")
		return nil
	}
	fmt.Printf("Active character is now %s (%s)\n", out.Character.Name, out.Character.ID)
	return nil
}

func runCharacterDelete(cmd *cobra.Command, args []string) error {
	if _, err := sheet.characters.Delete(cmd.Context(), &character.DeleteInput{CharacterID: args[0]}); err != nil {
		return err
	}
	fmt.Printf("Deleted character %s\n", args[0])
	return nil
}

func runCharacterDamage(cmd *cobra.Command, args []string) error {
	amount, id, err := amountArgs(cmd.Context(), args)
	if err != nil {
		return err
	}
	out, err := sheet.characters.Damage(cmd.Context(), &character.DamageInput{CharacterID: id, Amount: amount})
	if err != nil {
		return err
	}
	return printHitPoints(out)
}

func runCharacterHeal(cmd *cobra.Command, args []string) error {
	amount, id, err := amountArgs(cmd.Context(), args)
	if err != nil {
		return err
	}
	out, err := sheet.characters.Heal(cmd.Context(), &character.HealInput{CharacterID: id, Amount: amount})
	if err != nil {
		return err
	}
	return printHitPoints(out)
}

func runCharacterTemp(cmd *cobra.Command, args []string) error {
	amount, id, err := amountArgs(cmd.Context(), args)
	if err != nil {
		return err
	}
	out, err := sheet.characters.SetTempHP(cmd.Context(), &character.SetTempHPInput{CharacterID: id, Temp: amount})
	if err != nil {
		return err
	}
	return printHitPoints(out)
}

func printHitPoints(out *character.HitPointsOutput) error {
	if jsonOutput {
		return printJSON(map[string]any{"hp": out.Character.HP, "absorbed": out.Absorbed})
	}
	hp := out.Character.HP
	fmt.Printf("%s: HP %d/%d", out.Character.Name, hp.Current, hp.Max)
	if hp.Temp > 0 {
		fmt.Printf(" (+%d temp)", hp.Temp)
	}
	if out.Absorbed > 0 {
		fmt.Printf(", %d absorbed by temporary hit points", out.Absorbed)
	}
	fmt.Println()
	return nil
}

func runCharacterEdit(cmd *cobra.Command, args []string) error {
	id, err := resolveCharacterID(cmd.Context(), optionalArg(args))
	if err != nil {
		return err
	}

	input := &character.UpdateInput{CharacterID: id}
	flags := cmd.Flags()
	if flags.Changed("name") {
		input.Name = &charName
	}
	if flags.Changed("notes") {
		input.Notes = &editNotes
	}
	if flags.Changed("ac") {
		input.AC = &editAC
	}
	if flags.Changed("speed") {
		input.Speed = &editSpeed
	}
	if flags.Changed("max-hp") {
		input.MaxHP = &editMaxHP
	}
	if input.Abilities, err = parseAbilities(charAbilities); err != nil {
		return err
	}
	if len(editSkill) > 0 {
		input.SkillProfs = make(map[entities.Skill]int, len(editSkill))
		for s, rank := range editSkill {
			input.SkillProfs[entities.Skill(strings.ToLower(s))] = rank
		}
	}
	if flags.Changed("save") {
		input.SaveProfs = make([]entities.Ability, 0, len(editSaves))
		for _, a := range editSaves {
			input.SaveProfs = append(input.SaveProfs, entities.Ability(strings.ToUpper(strings.TrimSpace(a))))
		}
	}
	if flags.Changed("item") {
		if input.Inventory, err = parseItems(editItems); err != nil {
			return err
		}
	}

	out, err := sheet.characters.Update(cmd.Context(), input)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Character)
	}
	fmt.Printf("Updated %s\n", out.Character.Name)
	return nil
}

func runFeatureAdd(cmd *cobra.Command, args []string) error {
	id, err := resolveCharacterID(cmd.Context(), argAt(args, 1))
	if err != nil {
		return err
	}

	out, err := sheet.characters.AddFeature(cmd.Context(), &character.AddFeatureInput{
		CharacterID: id,
		Name:        args[0],
		Text:        featureText,
		Level:       featureLevel,
		Tags:        featureTags,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out.Feature)
	}
	fmt.Printf("Added %s (ID: %s) at level %d\n", out.Feature.Name, out.Feature.ID, out.Feature.Level)
	return nil
}

func runFeatureRemove(cmd *cobra.Command, args []string) error {
	id, err := resolveCharacterID(cmd.Context(), argAt(args, 1))
	if err != nil {
		return err
	}

	if _, err := sheet.characters.RemoveFeature(cmd.Context(), &character.RemoveFeatureInput{
		CharacterID: id,
		FeatureID:   args[0],
	}); err != nil {
		return err
	}
	fmt.Printf("Removed feature %s\n", args[0])
	return nil
}

// resolveCharacterID falls back to the active character when id is empty
func resolveCharacterID(ctx context.Context, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	out, err := sheet.characters.GetActive(ctx, &character.GetActiveInput{})
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errors.InvalidArgument("no character given and no active character")
		}
		return "", err
	}
	return out.Character.ID, nil
}

func activeCharacterID(ctx context.Context) string {
	out, err := sheet.characters.GetActive(ctx, &character.GetActiveInput{})
	if err != nil {
		return ""
	}
	return out.Character.ID
}

func amountArgs(ctx context.Context, args []string) (int, string, error) {
	amount, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, "", errors.InvalidArgumentf("amount %q is not a number", args[0])
	}
	id, err := resolveCharacterID(ctx, argAt(args, 1))
	if err != nil {
		return 0, "", err
	}
	return amount, id, nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func parseAbilities(in map[string]int) (map[entities.Ability]int, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[entities.Ability]int, len(in))
	for k, v := range in {
		a := entities.Ability(strings.ToUpper(strings.TrimSpace(k)))
		if !a.Valid() {
			return nil, errors.InvalidArgumentf("unknown ability %q", k)
		}
		out[a] = v
	}
	return out, nil
}

// parseItems reads name[:qty[:note]] inventory lines
func parseItems(lines []string) ([]*entities.Item, error) {
	items := make([]*entities.Item, 0, len(lines))
	for _, line := range lines {
		parts := strings.SplitN(line, ":", 3)
		item := &entities.Item{Name: strings.TrimSpace(parts[0]), Qty: 1}
		if item.Name == "" {
			return nil, errors.InvalidArgumentf("item %q has no name", line)
		}
		if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
			qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
			if err != nil {
				return nil, errors.InvalidArgumentf("item %q has a bad quantity", line)
			}
			item.Qty = qty
		}
		if len(parts) > 2 {
			item.Note = strings.TrimSpace(parts[2])
		}
		items = append(items, item)
	}
	return items, nil
}
