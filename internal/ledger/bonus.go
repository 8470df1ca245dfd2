package ledger

import (
	"math"
	"time"

	"github.com/neducation/spadays/internal/catalog"
)

const (
	// DailyCap is the ceiling on visit-sourced stars per calendar date.
	// The daily login bonus is exempt.
	DailyCap = 625

	comboPairBonus = 25 // 2+ services
	comboTrioBonus = 50 // 3+ services, on top of the pair bonus
	comboQuadBonus = 75 // 4+ services, on top of both

	aestheticMatchBonus = 50
	perfectPrepBonus    = 75
	photoBonus          = 50

	firstOfMonthMultiplier = 1.25

	luckyGlitterBonus  = 75
	luckyGlitterChance = 0.01
)

// Modifiers are the optional extras toggled when awarding a visit.
type Modifiers struct {
	AestheticMatch bool
	PerfectPrep    bool
	Photos         int
}

// ComputeVisitTotal scores a proposed visit at the given instant. Unknown
// service ids contribute zero stars rather than failing the whole award.
// The result excludes the lucky-glitter draw, which the award engine adds
// separately; everything here is deterministic.
func ComputeVisitTotal(serviceIDs []string, mods Modifiers, now time.Time) int {
	total := 0
	for _, id := range serviceIDs {
		if svc, ok := catalog.ServiceByID(id); ok {
			total += svc.Stars
		}
	}

	// Combo thresholds stack: three services pay the pair and trio
	// bonuses, four or more pay all three.
	n := len(serviceIDs)
	if n >= 2 {
		total += comboPairBonus
	}
	if n >= 3 {
		total += comboTrioBonus
	}
	if n >= 4 {
		total += comboQuadBonus
	}

	if mods.AestheticMatch {
		total += aestheticMatchBonus
	}
	if mods.PerfectPrep {
		total += perfectPrepBonus
	}

	// Both photo tiers pay the same flat bonus. Kept as two branches to
	// match the shipped behavior; 3+ photos earn nothing extra.
	if mods.Photos >= 3 {
		total += photoBonus
	} else if mods.Photos >= 1 {
		total += photoBonus
	}

	if now.Day() == 1 {
		total = int(math.Round(float64(total) * firstOfMonthMultiplier))
	}

	return total
}
