package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/ruleset"
)

var (
	activateRuleset bool
	srdClasses      []string
	srdMaxLevel     int
	exportOutFile   string
)

var rulesetCmd = &cobra.Command{
	Use:     "ruleset",
	Aliases: []string{"rulesets"},
	Short:   "Manage imported rulesets",
}

var rulesetImportCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a JSON or YAML ruleset document",
	Long: `Import validates a ruleset document and stores it, replacing any ruleset
with the same id. Use - to read the document from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesetImport,
}

var rulesetSRDCmd = &cobra.Command{
	Use:   "srd",
	Short: "Build and import a ruleset from the D&D 5e SRD API",
	RunE:  runRulesetSRD,
}

var rulesetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rulesets",
	Args:  cobra.NoArgs,
	RunE:  runRulesetList,
}

var rulesetShowCmd = &cobra.Command{
	Use:   "show [ruleset-id]",
	Short: "Show a ruleset (default: the active one)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesetShow,
}

var rulesetUseCmd = &cobra.Command{
	Use:   "use <ruleset-id|none>",
	Short: "Select the active ruleset",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesetUse,
}

var rulesetDeleteCmd = &cobra.Command{
	Use:   "delete <ruleset-id>",
	Short: "Delete a stored ruleset",
	Args:  cobra.ExactArgs(1),
	RunE:  runRulesetDelete,
}

var rulesetExportCmd = &cobra.Command{
	Use:   "export [ruleset-id]",
	Short: "Write a ruleset back out as a JSON document",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRulesetExport,
}

func init() {
	rulesetImportCmd.Flags().BoolVar(&activateRuleset, "use", false, "Make the imported ruleset active")
	rulesetSRDCmd.Flags().BoolVar(&activateRuleset, "use", false, "Make the imported ruleset active")
	rulesetSRDCmd.Flags().StringSliceVar(&srdClasses, "class", nil, "SRD class index to import (repeatable)")
	rulesetSRDCmd.Flags().IntVar(&srdMaxLevel, "max-level", entities.MaxLevel, "Highest level to import")
	_ = rulesetSRDCmd.MarkFlagRequired("class")
	rulesetExportCmd.Flags().StringVarP(&exportOutFile, "output", "o", "", "Write to this file instead of stdout")

	rulesetCmd.AddCommand(rulesetImportCmd)
	rulesetCmd.AddCommand(rulesetSRDCmd)
	rulesetCmd.AddCommand(rulesetListCmd)
	rulesetCmd.AddCommand(rulesetShowCmd)
	rulesetCmd.AddCommand(rulesetUseCmd)
	rulesetCmd.AddCommand(rulesetDeleteCmd)
	rulesetCmd.AddCommand(rulesetExportCmd)
}

func runRulesetImport(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	out, err := sheet.rulesets.Import(cmd.Context(), &ruleset.ImportInput{
		Data:     data,
		Activate: activateRuleset,
	})
	if err != nil {
		return err
	}
	return printImport(out)
}

func runRulesetSRD(cmd *cobra.Command, _ []string) error {
	fmt.Fprintf(os.Stderr, "Fetching %d classes from the SRD API...\n", len(srdClasses))

	out, err := sheet.rulesets.ImportSRD(cmd.Context(), &ruleset.ImportSRDInput{
		ClassIDs: srdClasses,
		MaxLevel: srdMaxLevel,
		Activate: activateRuleset,
	})
	if err != nil {
		return err
	}
	return printImport(out)
}

func printImport(out *ruleset.ImportOutput) error {
	if jsonOutput {
		return printJSON(map[string]any{
			"ruleset":  out.Ruleset.Meta,
			"warnings": out.Warnings,
			"replaced": out.Replaced,
		})
	}

	verb := "Imported"
	if out.Replaced {
		verb = "Replaced"
	}
	fmt.Printf("%s ruleset %s (%d classes)\n", verb, out.Ruleset.Meta.ID, len(out.Ruleset.Classes))
	for _, w := range out.Warnings {
		fmt.Printf("   warning: %s\n", w)
	}
	if activateRuleset {
		fmt.Printf("Active ruleset is now %s\n", out.Ruleset.Meta.ID)
	}
	return nil
}

func runRulesetList(cmd *cobra.Command, _ []string) error {
	out, err := sheet.rulesets.List(cmd.Context(), &ruleset.ListInput{})
	if err != nil {
		return err
	}

	if jsonOutput {
		metas := make([]entities.RulesetMeta, 0, len(out.Rulesets))
		for _, rs := range out.Rulesets {
			metas = append(metas, rs.Meta)
		}
		return printJSON(map[string]any{"rulesets": metas, "active": out.ActiveID})
	}

	if len(out.Rulesets) == 0 {
		fmt.Println("No rulesets imported")
		return nil
	}

	fmt.Printf("Found %d rulesets:\n\n", len(out.Rulesets))
	for _, rs := range out.Rulesets {
		marker := " "
		if rs.Meta.ID == out.ActiveID {
			marker = "*"
		}
		fmt.Printf("%s %s  %s %s  (%d classes)\n", marker, rs.Meta.ID, rs.Meta.Name, rs.Meta.Version, len(rs.Classes))
	}
	return nil
}

func runRulesetShow(cmd *cobra.Command, args []string) error {
	out, err := sheet.rulesets.Get(cmd.Context(), &ruleset.GetInput{RulesetID: optionalArg(args)})
	if err != nil {
		return err
	}
	rs := out.Ruleset

	if jsonOutput {
		return printJSON(rs)
	}

	fmt.Printf("%s (ID: %s)\n", orDash(rs.Meta.Name), rs.Meta.ID)
	if rs.Meta.Version != "" {
		fmt.Printf("   Version: %s\n", rs.Meta.Version)
	}

	classIDs := make([]string, 0, len(rs.Classes))
	for id := range rs.Classes {
		classIDs = append(classIDs, id)
	}
	sort.Strings(classIDs)

	fmt.Printf("   Classes:\n")
	for _, id := range classIDs {
		c := rs.Classes[id]
		fmt.Printf("     - %s (%s) d%d, %d levels", orDash(c.Name), id, c.HitDie, len(c.Progression))
		if c.Spellcasting != nil && c.Spellcasting.Ability != "" {
			fmt.Printf(", casts with %s", c.Spellcasting.Ability)
		}
		fmt.Println()
	}

	fmt.Printf("   Pools: %d spells, %d infusions, %d features\n",
		len(rs.Pools.Spells), len(rs.Pools.Infusions), len(rs.Pools.Features))
	return nil
}

func runRulesetUse(cmd *cobra.Command, args []string) error {
	id := args[0]
	if id == "none" {
		id = ""
	}

	out, err := sheet.rulesets.SetActive(cmd.Context(), &ruleset.SetActiveInput{RulesetID: id})
	if err != nil {
		return err
	}

	if out.Ruleset == nil {
		fmt.Println("Cleared the active ruleset")
		return nil
	}
	fmt.Printf("Active ruleset is now %s\n", out.Ruleset.Meta.ID)
	return nil
}

func runRulesetDelete(cmd *cobra.Command, args []string) error {
	if _, err := sheet.rulesets.Delete(cmd.Context(), &ruleset.DeleteInput{RulesetID: args[0]}); err != nil {
		return err
	}
	fmt.Printf("Deleted ruleset %s\n", args[0])
	return nil
}

func runRulesetExport(cmd *cobra.Command, args []string) error {
	out, err := sheet.rulesets.Export(cmd.Context(), &ruleset.ExportInput{RulesetID: optionalArg(args)})
	if err != nil {
		return err
	}
	return writeOutput(exportOutFile, out.Data)
}

// readInput reads a file argument, or stdin when the argument is -
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, errors.Wrap(err, "failed to read stdin")
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundf("file %s does not exist", path)
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return data, nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
