package character

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

func TestApplyDamage(t *testing.T) {
	tests := []struct {
		name         string
		hp           entities.HitPoints
		amount       int
		want         entities.HitPoints
		wantAbsorbed int
	}{
		{
			name:   "no temp",
			hp:     entities.HitPoints{Current: 10, Max: 12},
			amount: 4,
			want:   entities.HitPoints{Current: 6, Max: 12},
		},
		{
			name:         "temp absorbs everything",
			hp:           entities.HitPoints{Current: 10, Max: 12, Temp: 5},
			amount:       3,
			want:         entities.HitPoints{Current: 10, Max: 12, Temp: 2},
			wantAbsorbed: 3,
		},
		{
			name:         "temp spent then current",
			hp:           entities.HitPoints{Current: 10, Max: 12, Temp: 2},
			amount:       5,
			want:         entities.HitPoints{Current: 7, Max: 12},
			wantAbsorbed: 2,
		},
		{
			name:   "floors at zero",
			hp:     entities.HitPoints{Current: 3, Max: 12},
			amount: 40,
			want:   entities.HitPoints{Current: 0, Max: 12},
		},
		{
			name:   "zero amount",
			hp:     entities.HitPoints{Current: 3, Max: 12, Temp: 1},
			amount: 0,
			want:   entities.HitPoints{Current: 3, Max: 12, Temp: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, absorbed := applyDamage(tt.hp, tt.amount)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAbsorbed, absorbed)
		})
	}
}

func TestApplyHeal(t *testing.T) {
	tests := []struct {
		name   string
		hp     entities.HitPoints
		amount int
		want   entities.HitPoints
	}{
		{
			name:   "partial",
			hp:     entities.HitPoints{Current: 2, Max: 12},
			amount: 5,
			want:   entities.HitPoints{Current: 7, Max: 12},
		},
		{
			name:   "capped at max",
			hp:     entities.HitPoints{Current: 10, Max: 12, Temp: 3},
			amount: 50,
			want:   entities.HitPoints{Current: 12, Max: 12, Temp: 3},
		},
		{
			name:   "negative ignored",
			hp:     entities.HitPoints{Current: 4, Max: 12},
			amount: -3,
			want:   entities.HitPoints{Current: 4, Max: 12},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyHeal(tt.hp, tt.amount))
		})
	}
}

func TestStartingHP(t *testing.T) {
	class := &entities.ClassDef{ID: "artificer", HitDie: 8}
	char := func(level, con int) *entities.Character {
		return &entities.Character{
			Level:     level,
			Abilities: map[entities.Ability]int{entities.AbilityConstitution: con},
		}
	}

	assert.Equal(t, 8, startingHP(class, char(1, 10)))
	assert.Equal(t, 10, startingHP(class, char(1, 14)))
	assert.Equal(t, 24, startingHP(class, char(3, 14)))
	// every level gains at least one
	assert.Equal(t, 3, startingHP(&entities.ClassDef{HitDie: 4}, char(3, 1)))
	assert.Equal(t, 0, startingHP(nil, char(3, 14)))
	assert.Equal(t, 0, startingHP(&entities.ClassDef{}, char(3, 14)))
}
