package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules/rulestest"
)

func TestFreeMoves_TailVacates(t *testing.T) {
	b := rulestest.MustParse(`
		|Y0|Y1|  |
		|Y3|Y2|  |
		|  |  |  |`)
	head := b.You().Head()
	assert.Equal(t, []game.Direction{game.Down}, b.FreeMoves(head, 1))
	assert.Empty(t, b.FreeMoves(head, 0))
	assert.Equal(t, []game.Direction{game.Down, game.Right}, b.FreeMoves(head, 3))
	assert.Equal(t, []game.Direction{game.Down}, b.SnakeMoves(0))
}

func TestFreeMoves_OtherSnakes(t *testing.T) {
	b := rulestest.MustParse(`
		|  |  |  |  |
		|Y0|A0|A1|  |
		|Y1|  |A2|  |`)
	assert.Equal(t, []game.Direction{game.Up, game.Down}, b.FreeMoves(b.You().Head(), 1))
	assert.Equal(t, []game.Direction{game.Up}, b.SnakeMoves(0))
	assert.Equal(t, []game.Direction{game.Up, game.Down}, b.FreeMoves(c(1, 1), 1))
}

func TestSnakeMoves_NeverIntoNeck(t *testing.T) {
	b := rulestest.MustParse(`
		|  |  |  |
		|  |Y0|  |
		|  |Y1|  |`)
	// The neck is also the tail, so the cell itself is free.
	assert.Contains(t, b.FreeMoves(b.You().Head(), 1), game.Down)
	assert.Equal(t, []game.Direction{game.Up, game.Left, game.Right}, b.SnakeMoves(0))
	assert.False(t, b.IsLegal(0, game.Down))
	assert.True(t, b.IsLegal(0, game.Left))
}

func TestSnakeMoves_TrappedFallsBackToDefault(t *testing.T) {
	b := rulestest.MustParse(`|Y0|Y1|`)
	assert.Equal(t, [][]game.Direction{{game.Left}}, b.EnumerateSnakeMoves())
	assert.False(t, b.IsLegal(0, game.Left))
}

func TestEnumerateSnakeMoves_AllSnakes(t *testing.T) {
	b := rulestest.MustParse(`
		|Y0|  |  |
		|Y1|  |A0|
		|  |  |A1|`)
	moves := b.EnumerateSnakeMoves()
	assert.Len(t, moves, 2)
	assert.Equal(t, []game.Direction{game.Right}, moves[0])
	assert.Equal(t, []game.Direction{game.Up, game.Left}, moves[1])
}
