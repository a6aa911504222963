package rules

import (
	"math/rand"

	"github.com/brensch/snekfront/game"
)

// FoodSettings matches the common Battlesnake server knobs:
// - MinimumFood: ensure at least this many food items exist after each turn
// - FoodSpawnChance: percentage chance (0-100) to spawn one extra food each turn
type FoodSettings struct {
	MinimumFood     int
	FoodSpawnChance int
}

var DefaultFoodSettings = FoodSettings{MinimumFood: 1, FoodSpawnChance: game.FoodSpawnChance}

// NoFood disables spawning.
var NoFood = FoodSettings{}

func (s FoodSettings) normalized() FoodSettings {
	s.MinimumFood = max(s.MinimumFood, 0)
	s.FoodSpawnChance = min(max(s.FoodSpawnChance, 0), 100)
	return s
}

// SpawnFood tops the board up to MinimumFood and then rolls FoodSpawnChance
// for one extra item. New food lands on uniformly random cells free of
// bodies and food. A nil rng spawns nothing.
func (b *Board) SpawnFood(rng *rand.Rand, settings FoodSettings) {
	if rng == nil {
		return
	}
	settings = settings.normalized()

	// Determine whether we will spawn any food BEFORE doing expensive work.
	toSpawn := max(settings.MinimumFood-len(b.Food), 0)
	if settings.FoodSpawnChance > 0 && rng.Intn(100) < settings.FoodSpawnChance {
		toSpawn++
	}
	if toSpawn == 0 {
		return
	}

	available := b.freeCells()
	for ; toSpawn > 0 && len(available) > 0; toSpawn-- {
		i := rng.Intn(len(available))
		b.Food = append(b.Food, available[i])
		// remove chosen slot
		available[i] = available[len(available)-1]
		available = available[:len(available)-1]
	}
}

// freeCells lists cells with no body segment and no food, row by row.
func (b *Board) freeCells() []game.Coord {
	w, h := b.Width(), b.Height()
	occupied := make([]bool, w*h)
	mark := func(c game.Coord) {
		if b.InBounds(c) {
			occupied[int(c.Y)*w+int(c.X)] = true
		}
	}
	for i := range b.Snakes {
		for _, c := range b.Snakes[i].Body.Cells() {
			mark(c)
		}
	}
	for _, f := range b.Food {
		mark(f)
	}

	available := make([]game.Coord, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !occupied[y*w+x] {
				available = append(available, game.Coord{X: int8(x), Y: int8(y)})
			}
		}
	}
	return available
}
