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

func TestAdvance_NormalMove_NoFood(t *testing.T) {
	before := board(t, 7, 7, nil, snake(t, "me", 10, c(3, 3), c(3, 2), c(3, 1)))
	after, deaths := advance(t, "normal move", before, game.Up)

	require.Empty(t, deaths)
	assert.Equal(t, []game.Coord{c(3, 4), c(3, 3), c(3, 2)}, after.Snakes[0].Body.Cells())
	assert.Equal(t, int32(9), after.Snakes[0].Health)
	assert.Equal(t, []game.Coord{c(3, 3), c(3, 2), c(3, 1)}, before.Snakes[0].Body.Cells(), "clone must not share bodies")
}

func TestAdvance_EatFood_GrowsByAppendingTail(t *testing.T) {
	before := board(t, 7, 7, []game.Coord{c(3, 4)}, snake(t, "me", 10, c(3, 3), c(3, 2), c(3, 1)))
	after, deaths := advance(t, "eat food", before, game.Up)

	require.Empty(t, deaths)
	assert.Equal(t, []game.Coord{c(3, 4), c(3, 3), c(3, 2), c(3, 2)}, after.Snakes[0].Body.Cells())
	assert.Equal(t, int32(game.MaxHealth), after.Snakes[0].Health)
	assert.Empty(t, after.Food)
}

func TestAdvance_StackedSpawn_EatFood(t *testing.T) {
	before := board(t, 7, 7, []game.Coord{c(1, 2)}, snake(t, "me", 10, c(1, 1), c(1, 1), c(1, 1)))
	after, _ := advance(t, "stacked spawn eat", before, game.Up)

	assert.Equal(t, []game.Coord{c(1, 2), c(1, 1), c(1, 1), c(1, 1)}, after.Snakes[0].Body.Cells())
	assert.Equal(t, 4, after.Snakes[0].Size())
}

func TestAdvance_MissingMovePlaysDefault(t *testing.T) {
	before := board(t, 7, 7, nil,
		snake(t, "me", 50, c(3, 3), c(3, 2)),
		snake(t, "them", 50, c(5, 5), c(4, 5)))
	after, _ := advance(t, "missing move", before, game.Left)

	assert.Equal(t, c(2, 3), after.Snakes[0].Head())
	assert.Equal(t, c(6, 5), after.Snakes[1].Head())
}

func TestAdvance_Starvation(t *testing.T) {
	before := board(t, 5, 5, nil, snake(t, "me", 1, c(2, 2), c(2, 1)))
	after, deaths := advance(t, "starvation", before, game.Up)

	require.Equal(t, []rules.Death{{Index: 0, ID: "me", Cause: rules.CauseStarvation}}, deaths)
	assert.Empty(t, after.Snakes)
	assert.Nil(t, after.You())
}

func TestAdvance_FoodOnLastTurnSaves(t *testing.T) {
	before := board(t, 5, 5, []game.Coord{c(2, 3)}, snake(t, "me", 1, c(2, 2), c(2, 1)))
	after, deaths := advance(t, "last bite", before, game.Up)

	assert.Empty(t, deaths)
	assert.Equal(t, int32(game.MaxHealth), after.Snakes[0].Health)
}

func TestAdvance_Wall(t *testing.T) {
	b := rulestest.MustParse(`
		|Y0|  |  |
		|Y1|  |  |
		|  |  |  |`)
	_, deaths := advance(t, "wall", b, game.Left)
	require.Equal(t, []rules.Death{{Index: 0, ID: "you", Cause: rules.CauseWall}}, deaths)
}

func TestAdvance_HeadToHead(t *testing.T) {
	bigger := rulestest.MustParse(`
		|  |  |  |  |  |
		|  |  |  |  |  |
		|Y1|Y0|  |A0|A1|
		|Y2|  |  |  |A2|
		|Y3|  |  |  |  |`)
	after, deaths := advance(t, "bigger wins", bigger, game.Right, game.Left)
	require.Equal(t, []rules.Death{{Index: 1, ID: "a", Cause: rules.CauseHeadToHead}}, deaths)
	require.Len(t, after.Snakes, 1)
	assert.Equal(t, "you", after.Snakes[0].ID)

	equal := rulestest.MustParse(`
		|  |  |  |  |  |
		|Y1|Y0|  |A0|A1|
		|Y2|  |  |  |A2|`)
	after, deaths = advance(t, "equal both die", equal, game.Right, game.Left)
	require.Len(t, deaths, 2)
	for _, d := range deaths {
		assert.Equal(t, rules.CauseHeadToHead, d.Cause)
	}
	assert.Empty(t, after.Snakes)
}

func TestAdvance_SharedFoodEatenByBoth(t *testing.T) {
	b := rulestest.MustParse(`
		|  |  |  |  |  |
		|  |  |  |  |  |
		|Y1|Y0|()|A0|A1|
		|Y2|  |  |  |A2|
		|Y3|  |  |  |  |`)
	rulestest.SetHealth(b, "you", 20)
	after, deaths := advance(t, "shared food", b, game.Right, game.Left)

	require.Equal(t, []rules.Death{{Index: 1, ID: "a", Cause: rules.CauseHeadToHead}}, deaths)
	assert.Empty(t, after.Food, "food is removed once")
	assert.Equal(t, 5, after.Snakes[0].Size())
	assert.Equal(t, int32(game.MaxHealth), after.Snakes[0].Health)
}

func TestAdvance_BodyCollision(t *testing.T) {
	b := rulestest.MustParse(`
		|  |  |  |
		|Y0|A1|A0|
		|Y1|A2|  |`)
	after, deaths := advance(t, "body collision", b, game.Right, game.Up)
	require.Equal(t, []rules.Death{{Index: 0, ID: "you", Cause: rules.CauseCollision}}, deaths)
	require.Len(t, after.Snakes, 1)
	assert.Equal(t, "a", after.Snakes[0].ID)
}

func TestAdvance_BodiesOfWallDeathsDoNotKill(t *testing.T) {
	b := rulestest.MustParse(`
		|  |  |  |
		|Y0|A1|A0|
		|Y1|A2|  |`)
	after, deaths := advance(t, "wall death body", b, game.Right, game.Right)
	require.Equal(t, []rules.Death{{Index: 1, ID: "a", Cause: rules.CauseWall}}, deaths)
	require.Len(t, after.Snakes, 1)
	assert.Equal(t, "you", after.Snakes[0].ID)
}

func TestAdvance_SelfCollision(t *testing.T) {
	b := rulestest.MustParse(`
		|  |Y1|Y2|
		|  |Y0|Y3|
		|  |  |Y4|`)
	_, deaths := advance(t, "self collision", b, game.Right)
	require.Equal(t, []rules.Death{{Index: 0, ID: "you", Cause: rules.CauseSelfCollision}}, deaths)
}

func TestAdvance_ChasingOwnTail(t *testing.T) {
	b := rulestest.MustParse(`
		|Y1|Y2|
		|Y0|Y3|`)
	after, deaths := advance(t, "tail chase", b, game.Right)
	require.Empty(t, deaths)
	assert.Equal(t, []game.Coord{c(1, 0), c(0, 0), c(0, 1), c(1, 1)}, after.Snakes[0].Body.Cells())
}

func TestAdvance_ReplayIsDeterministic(t *testing.T) {
	build := func() *rules.Board {
		return rulestest.MustParse(`
			|  |  |  |  |()|  |  |
			|  |Y0|  |  |  |  |  |
			|  |Y1|  |  |A2|A1|A0|
			|  |Y2|  |  |  |  |  |
			|  |  |  |()|  |  |  |
			|  |  |  |  |  |  |  |
			|  |  |  |  |  |  |  |`)
	}
	script := [][]game.Direction{
		{game.Right, game.Up},
		{game.Right, game.Up},
		{game.Up, game.Left},
		{game.Right, game.Left},
		{game.Down, game.Down},
	}

	a := build()
	for _, moves := range script {
		a.Advance(moves, nil, rules.NoFood)
	}
	b := build()
	for _, moves := range script {
		b.Clone().Advance(moves, nil, rules.NoFood)
		b.Advance(moves, nil, rules.NoFood)
	}

	require.Equal(t, len(a.Snakes), len(b.Snakes))
	for i := range a.Snakes {
		assert.True(t, a.Snakes[i].Body.Equal(b.Snakes[i].Body))
		assert.Equal(t, a.Snakes[i].Health, b.Snakes[i].Health)
	}
	assert.Equal(t, a.Food, b.Food)
}

func TestAdvance_RandomPlayoutProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	b, err := rules.NewStandardBoard(rng, 11, 11, []string{"a", "b", "c", "d"})
	require.NoError(t, err)

	for turn := 0; turn < 300 && len(b.Snakes) > 0; turn++ {
		before := b.Clone()
		moves := make([]game.Direction, len(b.Snakes))
		for i, options := range b.EnumerateSnakeMoves() {
			moves[i] = options[rng.Intn(len(options))]
		}
		deaths := b.Advance(moves, rng, rules.DefaultFoodSettings)

		require.Equal(t, len(before.Snakes)-len(deaths), len(b.Snakes), "turn %d", turn)
		for _, d := range deaths {
			assert.Equal(t, -1, b.SnakeIndex(d.ID), "dead snake %s still on board", d.ID)
		}
		for i := range b.Snakes {
			s := &b.Snakes[i]
			prev := before.Snakes[before.SnakeIndex(s.ID)]
			if s.Size() > prev.Size() {
				assert.Equal(t, int32(game.MaxHealth), s.Health)
			} else {
				assert.Equal(t, prev.Health-1, s.Health)
			}
		}
		assert.GreaterOrEqual(t, len(b.Food), 1)
	}
}

func TestSpawnFood(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := board(t, 5, 5, nil, snake(t, "me", 100, c(0, 0), c(0, 1), c(0, 2)))

	b.SpawnFood(nil, rules.FoodSettings{MinimumFood: 3})
	assert.Empty(t, b.Food, "nil rng spawns nothing")

	b.SpawnFood(rng, rules.FoodSettings{MinimumFood: 3})
	require.Len(t, b.Food, 3)
	for _, f := range b.Food {
		assert.False(t, b.Snakes[0].Body.Intersects(f))
	}

	b.SpawnFood(rng, rules.FoodSettings{MinimumFood: 3, FoodSpawnChance: 100})
	require.Len(t, b.Food, 4)
	seen := map[game.Coord]bool{}
	for _, f := range b.Food {
		assert.False(t, seen[f])
		seen[f] = true
	}

	b.SpawnFood(rng, rules.FoodSettings{MinimumFood: 3})
	assert.Len(t, b.Food, 4)
}

func TestSpawnFood_FullBoard(t *testing.T) {
	b := board(t, 2, 1, nil, snake(t, "me", 100, c(0, 0), c(1, 0)))
	b.SpawnFood(rand.New(rand.NewSource(1)), rules.FoodSettings{MinimumFood: 2, FoodSpawnChance: 100})
	assert.Empty(t, b.Food)
}
