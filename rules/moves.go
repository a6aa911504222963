package rules

import (
	"slices"

	"github.com/brensch/snekfront/game"
)

// FreeMoves returns the directions from `from` whose destination is on the
// board and will not be covered by any body after nTurns turns. Body cells
// near a tail count as free once that tail will have moved off them.
func (b *Board) FreeMoves(from game.Coord, nTurns int) []game.Direction {
	moves := make([]game.Direction, 0, game.NumDirections)
	for _, d := range game.AllDirections {
		if b.cellFree(from.Add(d.Offset()), nTurns) {
			moves = append(moves, d)
		}
	}
	return moves
}

func (b *Board) cellFree(dest game.Coord, nTurns int) bool {
	// 1. Check Bounds
	if !b.InBounds(dest) {
		return false
	}

	// 2. Check bodies, ignoring segments that will have slid away
	for i := range b.Snakes {
		s := &b.Snakes[i]
		size := s.Size()
		if s.Head().Manhattan(dest) >= size {
			continue
		}
		if idx, hit := s.Body.FindFirstNode(dest, 0); hit && idx < size-nTurns {
			return false
		}
	}
	return true
}

// SnakeMoves returns the immediately free moves for snake i, never including
// its own neck. A snake with no free move is still forced to move, so it
// gets its default move.
func (b *Board) SnakeMoves(i int) []game.Direction {
	s := &b.Snakes[i]
	moves := b.FreeMoves(s.Head(), 1)
	if neck, ok := s.Neck(); ok {
		// 3. Neck check (don't move backwards into own neck)
		moves = slices.DeleteFunc(moves, func(d game.Direction) bool {
			return s.Head().Add(d.Offset()) == neck
		})
	}
	if len(moves) == 0 {
		return []game.Direction{s.DefaultMove()}
	}
	return moves
}

// EnumerateSnakeMoves returns SnakeMoves for every snake in board order.
func (b *Board) EnumerateSnakeMoves() [][]game.Direction {
	out := make([][]game.Direction, len(b.Snakes))
	for i := range b.Snakes {
		out[i] = b.SnakeMoves(i)
	}
	return out
}

// IsLegal reports whether d keeps snake i on a free cell this turn.
func (b *Board) IsLegal(i int, d game.Direction) bool {
	s := &b.Snakes[i]
	dest := s.Head().Add(d.Offset())
	if neck, ok := s.Neck(); ok && dest == neck {
		return false
	}
	return b.cellFree(dest, 1)
}
