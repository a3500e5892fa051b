// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
	characterrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
	charactermock "github.com/KirkDiggler/rpg-sheet/internal/repositories/character/mock"
	rulesetrepo "github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset"
	rulesetmock "github.com/KirkDiggler/rpg-sheet/internal/repositories/ruleset/mock"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/settings"
	settingsmock "github.com/KirkDiggler/rpg-sheet/internal/repositories/settings/mock"
)

// ExpectCharacterGet sets up a mock expectation for reading a character
func ExpectCharacterGet(mockRepo *charactermock.MockRepository, char *entities.Character) *gomock.Call {
	return mockRepo.EXPECT().
		Get(gomock.Any(), characterrepo.GetInput{ID: char.ID}).
		Return(&characterrepo.GetOutput{Character: char}, nil)
}

// ExpectCharacterNotFound sets up a character read that misses
func ExpectCharacterNotFound(mockRepo *charactermock.MockRepository, characterID string, err error) *gomock.Call {
	return mockRepo.EXPECT().
		Get(gomock.Any(), characterrepo.GetInput{ID: characterID}).
		Return(nil, err)
}

// ExpectCharacterPut records every stored character into stored and echoes
// it back the way the stores do
func ExpectCharacterPut(mockRepo *charactermock.MockRepository, stored *[]*entities.Character) *gomock.Call {
	return mockRepo.EXPECT().
		Put(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input characterrepo.PutInput) (*characterrepo.PutOutput, error) {
			*stored = append(*stored, input.Character)
			return &characterrepo.PutOutput{Character: input.Character}, nil
		})
}

// ExpectRulesetGet sets up a mock expectation for reading a ruleset
func ExpectRulesetGet(mockRepo *rulesetmock.MockRepository, rs *entities.Ruleset) *gomock.Call {
	return mockRepo.EXPECT().
		Get(gomock.Any(), rulesetrepo.GetInput{ID: rs.Meta.ID}).
		Return(&rulesetrepo.GetOutput{Ruleset: rs}, nil)
}

// ExpectSetting sets up a read of one settings slot. An empty value reads as
// an unset slot.
func ExpectSetting(mockRepo *settingsmock.MockRepository, key, value string, notFound error) *gomock.Call {
	call := mockRepo.EXPECT().Get(gomock.Any(), settings.GetInput{Key: key})
	if value == "" {
		return call.Return(nil, notFound)
	}
	return call.Return(&settings.GetOutput{Value: value}, nil)
}

// ExpectSettingWrite sets up a write of one settings slot
func ExpectSettingWrite(mockRepo *settingsmock.MockRepository, key, value string) *gomock.Call {
	return mockRepo.EXPECT().
		Set(gomock.Any(), settings.SetInput{Key: key, Value: value}).
		Return(&settings.SetOutput{}, nil)
}
