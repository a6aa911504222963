package rules_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
	"github.com/brensch/snekfront/rules/rulestest"
)

func TestNewBoard_Validates(t *testing.T) {
	_, err := rules.NewBoard(0, 5, nil, nil)
	assert.Error(t, err)
	_, err = rules.NewBoard(5, rules.MaxDimension+1, nil, nil)
	assert.Error(t, err)
	_, err = rules.NewBoard(5, 5, []game.Coord{c(5, 0)}, nil)
	assert.Error(t, err)
	_, err = rules.NewBoard(5, 5, nil, []game.Snake{snake(t, "a", 100, c(4, 4), c(4, 5))})
	assert.Error(t, err)

	b, err := rules.NewBoard(7, 5, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, b.Width())
	assert.Equal(t, 5, b.Height())
	assert.Equal(t, 35, b.Area())
	assert.Nil(t, b.You())
}

func TestPerspective(t *testing.T) {
	b := rulestest.MustParse(`
		|Y0|A0|B0|C0|
		|Y1|A1|B1|C1|`)
	p := b.Perspective(2)
	ids := []string{}
	for _, s := range p.Snakes {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "you", "a", "c"}, ids)
	assert.Equal(t, "you", b.Snakes[0].ID, "original untouched")
	assert.Len(t, p.Enemies(), 3)
}

func TestString(t *testing.T) {
	b := rulestest.MustParse(`
		|  |()|  |
		|Y0|  |A0|
		|Y1|  |A1|`)
	out := b.String()
	t.Log("\n" + out)
	lines := strings.Split(out, "\n")
	assert.Equal(t, ".*.", lines[0])
	assert.Equal(t, "Y.A", lines[1])
	assert.Equal(t, "y.a", lines[2])
}

func TestNewStandardBoard_FixedStarts(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	b, err := rules.NewStandardBoard(rand.New(rand.NewSource(3)), 11, 11, ids)
	require.NoError(t, err)
	t.Log("\n" + b.String())

	starts := map[game.Coord]bool{
		c(1, 1): true, c(1, 5): true, c(1, 9): true, c(5, 1): true,
		c(5, 9): true, c(9, 1): true, c(9, 5): true, c(9, 9): true,
	}
	require.Len(t, b.Snakes, 4)
	heads := map[game.Coord]bool{}
	for i, s := range b.Snakes {
		assert.Equal(t, ids[i], s.ID)
		assert.Equal(t, game.StartSize, s.Size())
		assert.Equal(t, int32(game.MaxHealth), s.Health)
		assert.True(t, starts[s.Head()], "head %v is not a start point", s.Head())
		assert.False(t, heads[s.Head()])
		heads[s.Head()] = true
	}
	assert.Len(t, b.Food, 4)
	for _, f := range b.Food {
		assert.False(t, heads[f])
	}
}

func TestNewStandardBoard_RandomStarts(t *testing.T) {
	b, err := rules.NewStandardBoard(rand.New(rand.NewSource(3)), 12, 8, []string{"a", "b"})
	require.NoError(t, err)
	assert.NotEqual(t, b.Snakes[0].Head(), b.Snakes[1].Head())

	_, err = rules.NewStandardBoard(rand.New(rand.NewSource(3)), 1, 1, []string{"a", "b"})
	assert.Error(t, err)
	_, err = rules.NewStandardBoard(nil, 11, 11, []string{"a"})
	assert.Error(t, err)
}
