package character

import (
	"github.com/KirkDiggler/rpg-sheet/internal/entities"
)

// maxTempHP bounds temporary hit points
const maxTempHP = 9999

// applyDamage spends temporary hit points first and never drops current
// below zero. It returns the amount temp HP absorbed.
func applyDamage(hp entities.HitPoints, amount int) (entities.HitPoints, int) {
	if amount <= 0 {
		return hp, 0
	}
	absorbed := min(hp.Temp, amount)
	hp.Temp -= absorbed
	hp.Current = max(hp.Current-(amount-absorbed), 0)
	return hp, absorbed
}

// applyHeal raises current hit points up to the maximum
func applyHeal(hp entities.HitPoints, amount int) entities.HitPoints {
	if amount <= 0 {
		return hp
	}
	hp.Current = min(hp.Current+amount, hp.Max)
	return hp
}
