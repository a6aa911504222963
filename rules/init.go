package rules

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/brensch/snekfront/game"
)

// NewStandardBoard sets up a fresh game. Square 7x7, 11x11 and 19x19 boards
// with up to eight snakes use the standard start points in random order;
// anything else starts snakes on random empty cells. Every snake starts
// stacked at full health, and one food is placed per snake.
func NewStandardBoard(rng *rand.Rand, width, height int, ids []string) (*Board, error) {
	if rng == nil {
		return nil, errors.New("standard board needs a random source")
	}
	b, err := NewBoard(width, height, nil, nil)
	if err != nil {
		return nil, err
	}
	if len(ids) > b.Area() {
		return nil, errors.Errorf("%d snakes do not fit on a %dx%d board", len(ids), width, height)
	}

	starts := fixedStarts(width, height)
	if len(starts) >= len(ids) {
		rng.Shuffle(len(starts), func(i, j int) { starts[i], starts[j] = starts[j], starts[i] })
	} else {
		starts = nil
	}

	for i, id := range ids {
		var at game.Coord
		if starts != nil {
			at = starts[i]
		} else {
			free := b.freeCells()
			at = free[rng.Intn(len(free))]
		}
		body := make([]game.Coord, game.StartSize)
		for j := range body {
			body[j] = at
		}
		s, err := game.NewSnake(id, game.MaxHealth, body)
		if err != nil {
			return nil, errors.Wrapf(err, "snake %q", id)
		}
		b.Snakes = append(b.Snakes, s)
	}

	b.SpawnFood(rng, FoodSettings{MinimumFood: len(ids)})
	return b, nil
}

func fixedStarts(width, height int) []game.Coord {
	if width != height {
		return nil
	}
	switch width {
	case 7, 11, 19:
	default:
		return nil
	}
	mn, md, mx := int8(1), int8((width-1)/2), int8(width-2)
	return []game.Coord{
		{X: mn, Y: mn}, {X: mn, Y: md}, {X: mn, Y: mx},
		{X: md, Y: mn}, {X: md, Y: mx},
		{X: mx, Y: mn}, {X: mx, Y: md}, {X: mx, Y: mx},
	}
}
