package rules_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
	"github.com/brensch/snekfront/rules/rulestest"
)

func TestTerritories_SplitsWithContestedMiddle(t *testing.T) {
	b := rulestest.MustParse(`
		|  |  |  |  |  |
		|Y0|  |  |  |A0|
		|  |()|()|  |  |`)
	m := b.TerritoryMap()
	assert.Equal(t, rules.Territory{Area: 6, NumFood: 1, NearestFood: 2}, m.Territories[0])
	assert.Equal(t, rules.Territory{Area: 6, NumFood: 0, NearestFood: -1}, m.Territories[1])
	for y := int8(0); y < 3; y++ {
		assert.Equal(t, rules.Contested, m.Owner(c(2, y)))
	}
	assert.Equal(t, 0, m.Owner(c(1, 0)))
	assert.Equal(t, 1, m.Owner(c(3, 2)))
}

func TestTerritories_BodiesBlockUntilVacated(t *testing.T) {
	b := rulestest.MustParse(`
		|  |A0|  |
		|  |A1|  |
		|Y0|A2|  |`)
	m := b.TerritoryMap()
	assert.Equal(t, 5, m.Territories[0].Area)
	assert.Equal(t, 4, m.Territories[1].Area)
	// Y crosses A's tail at ring 1 and A's neck at ring 2.
	assert.Equal(t, 0, m.Owner(c(1, 0)))
	assert.Equal(t, 0, m.Owner(c(1, 1)))
	assert.Equal(t, 1, m.Owner(c(0, 2)))
	assert.Equal(t, 1, m.Owner(c(2, 1)))
}

func TestTerritories_Disjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b, err := rules.NewStandardBoard(rng, 11, 11, []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	for turn := 0; turn < 40 && len(b.Snakes) > 1; turn++ {
		m := b.TerritoryMap()
		counted := map[int]int{}
		for _, owner := range m.Owners {
			if owner >= 0 {
				counted[owner]++
			}
		}
		total := 0
		for i, ter := range m.Territories {
			assert.Equal(t, counted[i], ter.Area, "turn %d snake %d", turn, i)
			total += ter.Area
		}
		assert.LessOrEqual(t, total, b.Area())

		moves := make([]game.Direction, len(b.Snakes))
		for i, options := range b.EnumerateSnakeMoves() {
			moves[i] = options[rng.Intn(len(options))]
		}
		b.Advance(moves, rng, rules.DefaultFoodSettings)
	}
}
