package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-sheet/internal/engine"
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

func cantripPlan() *entities.LevelUpPlan {
	return &entities.LevelUpPlan{
		ClassID: "wizard",
		Level:   1,
		Choices: []*entities.PlannedChoice{
			{
				Choice: &entities.ChoiceSpec{ID: "cantrips", Title: "Cantrips", From: "spells", Count: 2},
				Options: []*entities.Option{
					{ID: "fire-bolt", Name: "Fire Bolt"},
					{ID: "light", Name: "Light"},
					{ID: "mage-hand", Name: "Mage Hand"},
				},
			},
		},
	}
}

func TestPromptChooserAcceptsNumbersAndIDs(t *testing.T) {
	var out bytes.Buffer
	chooser := newPromptChooser(strings.NewReader("1, mage-hand\n"), &out)

	sel, err := chooser.Choose(context.Background(), cantripPlan())
	require.NoError(t, err)
	assert.Equal(t, engine.Selections{"cantrips": {"fire-bolt", "mage-hand"}}, sel)
	assert.Contains(t, out.String(), "Cantrips (choose 2)")
}

func TestPromptChooserRetriesBadInput(t *testing.T) {
	var out bytes.Buffer
	chooser := newPromptChooser(strings.NewReader("1\n9 2\n2 3\n"), &out)

	sel, err := chooser.Choose(context.Background(), cantripPlan())
	require.NoError(t, err)
	assert.Equal(t, []string{"light", "mage-hand"}, sel["cantrips"])
	assert.Contains(t, out.String(), "pick exactly 2")
	assert.Contains(t, out.String(), "9 is not a listed option")
}

func TestPromptChooserQuit(t *testing.T) {
	chooser := newPromptChooser(strings.NewReader("q\n"), &bytes.Buffer{})

	_, err := chooser.Choose(context.Background(), cantripPlan())
	assert.True(t, errors.IsCanceled(err))
}

func TestPromptChooserEOF(t *testing.T) {
	chooser := newPromptChooser(strings.NewReader(""), &bytes.Buffer{})

	_, err := chooser.Choose(context.Background(), cantripPlan())
	assert.True(t, errors.IsCanceled(err))
}

func TestParsePicksRejectsDuplicates(t *testing.T) {
	_, err := parsePicks("1 fire-bolt", cantripPlan().Choices[0].Options, 2)
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestParseSelections(t *testing.T) {
	sel, err := parseSelections([]string{"cantrips=fire-bolt, light", "spells=magic-missile"})
	require.NoError(t, err)
	assert.Equal(t, engine.Selections{
		"cantrips": {"fire-bolt", "light"},
		"spells":   {"magic-missile"},
	}, sel)

	_, err = parseSelections([]string{"fire-bolt"})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestParseItems(t *testing.T) {
	items, err := parseItems([]string{"Rope", "Torch:5", "Potion:2:healing"})
	require.NoError(t, err)
	assert.Equal(t, []*entities.Item{
		{Name: "Rope", Qty: 1},
		{Name: "Torch", Qty: 5},
		{Name: "Potion", Qty: 2, Note: "healing"},
	}, items)

	_, err = parseItems([]string{"Torch:many"})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestParseAbilities(t *testing.T) {
	got, err := parseAbilities(map[string]int{"str": 15, "DEX": 12})
	require.NoError(t, err)
	assert.Equal(t, map[entities.Ability]int{
		entities.AbilityStrength:  15,
		entities.AbilityDexterity: 12,
	}, got)

	_, err = parseAbilities(map[string]int{"luck": 3})
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestPicksDiffer(t *testing.T) {
	plan := cantripPlan()
	plan.Applied = true
	plan.Choices[0].Previous = []string{"fire-bolt", "light"}

	assert.False(t, picksDiffer(plan, engine.Selections{}))
	assert.False(t, picksDiffer(plan, engine.Selections{"cantrips": {"light", "fire-bolt"}}))
	assert.True(t, picksDiffer(plan, engine.Selections{"cantrips": {"light", "mage-hand"}}))
	assert.True(t, picksDiffer(plan, engine.Selections{"spells": {"shield"}}))
}
