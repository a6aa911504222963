// Package rules is the Battlesnake rules engine over compressed snake bodies:
// legal moves that account for tails vacating cells, time-aware pathfinding,
// territory estimation and the one-tick transition function.
//
// Snake 0 on a Board is always the snake making the decision.
package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/brensch/snekfront/game"
)

// MaxDimension bounds board sizes so that one step past any edge still fits
// in a game.Coord.
const MaxDimension = 100

type Board struct {
	Snakes []game.Snake
	Food   []game.Coord
	// Bound is the inclusive top-right corner. The origin is (0,0).
	Bound game.Coord
}

// NewBoard validates a board snapshot. Snakes are kept in the given order.
func NewBoard(width, height int, food []game.Coord, snakes []game.Snake) (*Board, error) {
	if width < 1 || height < 1 || width > MaxDimension || height > MaxDimension {
		return nil, errors.Errorf("invalid board size %dx%d", width, height)
	}
	b := &Board{
		Snakes: snakes,
		Food:   food,
		Bound:  game.Coord{X: int8(width - 1), Y: int8(height - 1)},
	}
	for _, f := range food {
		if !b.InBounds(f) {
			return nil, errors.Errorf("food %v outside %dx%d board", f, width, height)
		}
	}
	for i := range snakes {
		for _, cell := range snakes[i].Body.Cells() {
			if !b.InBounds(cell) {
				return nil, errors.Errorf("snake %q has segment %v outside %dx%d board", snakes[i].ID, cell, width, height)
			}
		}
	}
	return b, nil
}

func (b *Board) Width() int  { return int(b.Bound.X) + 1 }
func (b *Board) Height() int { return int(b.Bound.Y) + 1 }
func (b *Board) Area() int   { return b.Width() * b.Height() }

// InBounds reports whether c is on the board.
func (b *Board) InBounds(c game.Coord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X <= b.Bound.X && c.Y <= b.Bound.Y
}

// You returns the deciding snake, or nil once it is gone.
func (b *Board) You() *game.Snake {
	if len(b.Snakes) == 0 {
		return nil
	}
	return &b.Snakes[0]
}

// Enemies returns every snake but the deciding one.
func (b *Board) Enemies() []game.Snake {
	if len(b.Snakes) <= 1 {
		return nil
	}
	return b.Snakes[1:]
}

// SnakeIndex returns the index of the snake with the given id, or -1.
func (b *Board) SnakeIndex(id string) int {
	return slices.IndexFunc(b.Snakes, func(s game.Snake) bool { return s.ID == id })
}

// FindFood returns the index of food at c, or -1.
func (b *Board) FindFood(c game.Coord) int {
	return slices.Index(b.Food, c)
}

// Clone performs a deep copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{
		Bound: b.Bound,
		Food:  slices.Clone(b.Food),
	}
	if len(b.Snakes) > 0 {
		out.Snakes = make([]game.Snake, len(b.Snakes))
		for i := range b.Snakes {
			out.Snakes[i] = b.Snakes[i].Clone()
		}
	}
	return out
}

// Perspective returns a copy of the board with snake i moved to index 0. The
// other snakes keep their relative order.
func (b *Board) Perspective(i int) *Board {
	out := b.Clone()
	if i <= 0 || i >= len(out.Snakes) {
		return out
	}
	me := out.Snakes[i]
	copy(out.Snakes[1:i+1], out.Snakes[:i])
	out.Snakes[0] = me
	return out
}

// ClosestSnakesByManhattan returns the indices of the snakes whose heads are
// nearest to c, all of them when tied.
func (b *Board) ClosestSnakesByManhattan(c game.Coord) []int {
	best := -1
	var out []int
	for i := range b.Snakes {
		d := b.Snakes[i].Head().Manhattan(c)
		switch {
		case best < 0 || d < best:
			best = d
			out = append(out[:0], i)
		case d == best:
			out = append(out, i)
		}
	}
	return out
}

// ClosestSnakeByPathfind returns the snake with the shortest route to c and
// the route's length. It returns -1 when no snake can reach c.
func (b *Board) ClosestSnakeByPathfind(c game.Coord) (int, int) {
	best, bestDist := -1, 0
	for i := range b.Snakes {
		p, ok := b.Pathfind(b.Snakes[i].Head(), c)
		if !ok {
			continue
		}
		if d := p.Dist(); best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

// String renders the board top row first: the deciding snake as 'y',
// opponents as 'a', 'b', ... with upper-case heads, food as '*'.
func (b *Board) String() string {
	w, h := b.Width(), b.Height()
	grid := make([][]byte, h)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", w))
	}
	for _, f := range b.Food {
		grid[f.Y][f.X] = '*'
	}
	for i := len(b.Snakes) - 1; i >= 0; i-- {
		body, head := byte('y'), byte('Y')
		if i > 0 {
			body = 'a' + byte((i-1)%26)
			head = body - 'a' + 'A'
		}
		cells := b.Snakes[i].Body.Cells()
		for j := len(cells) - 1; j >= 0; j-- {
			cell := cells[j]
			if !b.InBounds(cell) {
				continue
			}
			if j == 0 {
				grid[cell.Y][cell.X] = head
			} else {
				grid[cell.Y][cell.X] = body
			}
		}
	}

	var sb strings.Builder
	for y := h - 1; y >= 0; y-- {
		sb.Write(grid[y])
		sb.WriteByte('\n')
	}
	for i := range b.Snakes {
		s := &b.Snakes[i]
		fmt.Fprintf(&sb, "%d %s health=%d size=%d head=%v\n", i, s.ID, s.Health, s.Size(), s.Head())
	}
	return sb.String()
}
