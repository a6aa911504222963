package search

import (
	"github.com/chewxy/math32"

	"github.com/brensch/snekfront/rules"
)

// ThreatRadius is how close, in Manhattan distance, an equal or larger
// opponent head has to be to count as a head-to-head threat.
const ThreatRadius = 2

// Score rates how well snake idx is doing on b, from 0 (dead) to 1. It
// multiplies three factors so any one of them near zero dominates:
//   - territory: share of the board the snake reaches first
//   - survival: whether it can reach food before it starves, falling back
//     to the odds of food spawning inside its territory in time
//   - safety: share of opponents that are not an imminent head-to-head threat
//
// territories must come from b.Territories().
func Score(b *rules.Board, idx int, territories []rules.Territory, spawnChance int) float32 {
	if idx < 0 || idx >= len(b.Snakes) || idx >= len(territories) {
		return 0
	}
	me := &b.Snakes[idx]
	boardArea := float32(b.Area())
	t := territories[idx]

	territory := float32(t.Area) / boardArea
	survival := survivalOdds(me.Health, t, float32(t.Area)/boardArea, spawnChance)
	safety := safetyFactor(b, idx)
	return clamp01(territory * survival * safety)
}

func survivalOdds(health int32, t rules.Territory, share float32, spawnChance int) float32 {
	if health <= 0 {
		return 0
	}
	if t.NumFood > 0 && t.NearestFood >= 0 && int32(t.NearestFood) <= health {
		return 1
	}
	perTurn := clamp01(float32(spawnChance) / 100 * share)
	return 1 - math32.Pow(1-perTurn, float32(health))
}

func safetyFactor(b *rules.Board, idx int) float32 {
	me := &b.Snakes[idx]
	opponents, safe := 0, 0
	for j := range b.Snakes {
		if j == idx {
			continue
		}
		opponents++
		other := &b.Snakes[j]
		if other.Size() >= me.Size() && other.Head().Manhattan(me.Head()) <= ThreatRadius {
			continue
		}
		safe++
	}
	return float32(1+safe) / float32(1+opponents)
}

func clamp01(v float32) float32 {
	return math32.Max(0, math32.Min(1, v))
}

// scoreChild rates the acting snake on a board produced by Advance. The
// acting snake is gone when it died, which scores below anything alive.
func scoreChild(b *rules.Board, deaths []rules.Death, spawnChance int) float32 {
	for _, d := range deaths {
		if d.Index == 0 {
			return deadScore
		}
	}
	return Score(b, 0, b.Territories(), spawnChance)
}

// deadScore is below every Score result.
const deadScore = float32(-1)
