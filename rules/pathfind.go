package rules

import (
	"container/heap"
	"slices"

	"github.com/brensch/snekfront/game"
)

// PathfindingHeuristicWeight inflates the Manhattan heuristic. Routes come
// back faster and may be slightly longer than optimal.
const PathfindingHeuristicWeight = 3

type pathNode struct {
	at game.Coord
	g  int
	f  int
}

// pathQueue is a min-heap on f, then g, then coordinate, so equal-cost
// searches always expand in the same order.
type pathQueue []pathNode

func (q pathQueue) Len() int { return len(q) }
func (q pathQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.g != b.g {
		return a.g < b.g
	}
	if a.at.X != b.at.X {
		return a.at.X < b.at.X
	}
	return a.at.Y < b.at.Y
}
func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *pathQueue) Push(x any)   { *q = append(*q, x.(pathNode)) }
func (q *pathQueue) Pop() any {
	old := *q
	n := old[len(old)-1]
	*q = old[:len(old)-1]
	return n
}

// Pathfind runs weighted A* from `from` to `to`. A cell reached after g
// steps only has to be clear of bodies after g turns, so routes may cross
// cells that tails vacate on the way. Entering a cell costs the turn, so
// the g-th step is checked against bodies after g turns, not g-1. The
// returned path starts at `from`. It returns false when `to` cannot be
// reached.
func (b *Board) Pathfind(from, to game.Coord) (game.Path, bool) {
	if !b.InBounds(from) || !b.InBounds(to) {
		return game.Path{}, false
	}
	if from == to {
		return game.MustPath(from), true
	}

	w := b.Width()
	index := func(c game.Coord) int { return int(c.Y)*w + int(c.X) }
	best := make([]int, b.Area())
	prev := make([]game.Coord, b.Area())
	for i := range best {
		best[i] = -1
	}
	best[index(from)] = 0

	q := &pathQueue{{at: from, g: 0, f: PathfindingHeuristicWeight * from.Manhattan(to)}}
	for q.Len() > 0 {
		cur := heap.Pop(q).(pathNode)
		if cur.at == to {
			return b.tracePath(from, to, prev, index), true
		}
		if cur.g > best[index(cur.at)] {
			continue
		}
		g := cur.g + 1
		for _, d := range b.FreeMoves(cur.at, g) {
			next := cur.at.Add(d.Offset())
			i := index(next)
			if best[i] >= 0 && best[i] <= g {
				continue
			}
			best[i] = g
			prev[i] = cur.at
			heap.Push(q, pathNode{at: next, g: g, f: g + PathfindingHeuristicWeight*next.Manhattan(to)})
		}
	}
	return game.Path{}, false
}

func (b *Board) tracePath(from, to game.Coord, prev []game.Coord, index func(game.Coord) int) game.Path {
	var cells []game.Coord
	for c := to; c != from; c = prev[index(c)] {
		cells = append(cells, c)
	}
	cells = append(cells, from)
	slices.Reverse(cells)
	return game.MustPath(cells...)
}
