package api

import (
	"github.com/pkg/errors"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
)

// ToBoard converts a request into a board with the requesting snake at
// index 0. Other snakes keep their request order.
func ToBoard(req *GameRequest) (*rules.Board, error) {
	return BoardFor(&req.Board, req.You.ID)
}

// BoardFor converts a board as seen by snake youID.
func BoardFor(in *Board, youID string) (*rules.Board, error) {
	if !inRange(in.Width) || !inRange(in.Height) {
		return nil, errors.Errorf("invalid board size %dx%d", in.Width, in.Height)
	}

	you := -1
	snakes := make([]game.Snake, 0, len(in.Snakes))
	for _, s := range in.Snakes {
		body, err := toCoords(s.Body)
		if err != nil {
			return nil, errors.Wrapf(err, "snake %q", s.ID)
		}
		snake, err := game.NewSnake(s.ID, int32(s.Health), body)
		if err != nil {
			return nil, errors.Wrapf(err, "snake %q", s.ID)
		}
		if s.ID == youID {
			you = len(snakes)
		}
		snakes = append(snakes, snake)
	}
	if you < 0 {
		return nil, errors.Errorf("snake %q is not on the board", youID)
	}

	food, err := toCoords(in.Food)
	if err != nil {
		return nil, errors.Wrap(err, "food")
	}
	b, err := rules.NewBoard(in.Width, in.Height, food, snakes)
	if err != nil {
		return nil, err
	}
	return b.Perspective(you), nil
}

func toCoords(in []Coord) ([]game.Coord, error) {
	out := make([]game.Coord, len(in))
	for i, c := range in {
		if !inRange(c.X+1) || !inRange(c.Y+1) {
			return nil, errors.Errorf("coordinate (%d,%d) out of range", c.X, c.Y)
		}
		out[i] = game.Coord{X: int8(c.X), Y: int8(c.Y)}
	}
	return out, nil
}

func inRange(v int) bool {
	return v >= 1 && v <= rules.MaxDimension
}

// MoveToString converts a direction to its protocol name.
func MoveToString(d game.Direction) string {
	return d.String()
}

// InferMove works out which way snake id moved between two consecutive
// turns. It returns false when the snake is missing from either turn or its
// head did not move one cell.
func InferMove(prev, next *Board, id string) (game.Direction, bool) {
	before, ok := headOf(prev, id)
	if !ok {
		return game.Up, false
	}
	after, ok := headOf(next, id)
	if !ok {
		return game.Up, false
	}
	dx, dy := after.X-before.X, after.Y-before.Y
	if dx*dx+dy*dy != 1 {
		return game.Up, false
	}
	d, err := game.DirectionFromOffset(game.Offset{DX: int8(dx), DY: int8(dy)})
	return d, err == nil
}

func headOf(b *Board, id string) (Coord, bool) {
	for _, s := range b.Snakes {
		if s.ID == id && len(s.Body) > 0 {
			return s.Body[0], true
		}
	}
	return Coord{}, false
}
