package main

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/character"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/ruleset"
)

var backupOutFile string

// backupDocument is every stored ruleset and character in one file
type backupDocument struct {
	ExportedAt time.Time             `json:"exportedAt"`
	Rulesets   []*entities.Ruleset   `json:"rulesets"`
	Characters []*entities.Character `json:"characters"`
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up stored data",
}

var backupExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all rulesets and characters as one JSON document",
	Args:  cobra.NoArgs,
	RunE:  runBackupExport,
}

func init() {
	backupExportCmd.Flags().StringVarP(&backupOutFile, "output", "o", "", "Write to this file instead of stdout")

	backupCmd.AddCommand(backupExportCmd)
}

func runBackupExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rulesets, err := sheet.rulesets.List(ctx, &ruleset.ListInput{})
	if err != nil {
		return err
	}
	chars, err := sheet.characters.List(ctx, &character.ListInput{})
	if err != nil {
		return err
	}

	doc := backupDocument{
		ExportedAt: time.Now().UTC(),
		Rulesets:   rulesets.Rulesets,
		Characters: chars.Characters,
	}
	if doc.Rulesets == nil {
		doc.Rulesets = []*entities.Ruleset{}
	}
	if doc.Characters == nil {
		doc.Characters = []*entities.Character{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode backup")
	}
	return writeOutput(backupOutFile, append(data, '\n'))
}
