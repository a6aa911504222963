package search

import (
	"slices"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
)

// prunePriority leaves full move lists only for the acting snake and its
// priority opponents: those within the priority radius, topped up with the
// nearest others to the minimum and capped at the maximum, nearest first.
// Every other snake is reduced to its default move when legal, else to its
// first legal move. It returns how many opponents kept full lists.
func (s *Searcher) prunePriority(b *rules.Board, moves [][]game.Direction) int {
	if len(b.Snakes) <= 1 {
		return 0
	}
	head := b.Snakes[0].Head()
	type near struct{ idx, dist int }
	byDist := make([]near, 0, len(b.Snakes)-1)
	for i := 1; i < len(b.Snakes); i++ {
		byDist = append(byDist, near{idx: i, dist: b.Snakes[i].Head().Manhattan(head)})
	}
	slices.SortStableFunc(byDist, func(a, b near) int { return a.dist - b.dist })

	keep := 0
	for keep < len(byDist) && keep < s.maxPrioritySnakes &&
		(byDist[keep].dist <= s.priorityRadius || keep < s.minPrioritySnakes) {
		keep++
	}
	for _, n := range byDist[keep:] {
		moves[n.idx] = collapse(b, n.idx, moves[n.idx])
	}
	return keep
}

func collapse(b *rules.Board, i int, options []game.Direction) []game.Direction {
	if len(options) <= 1 {
		return options
	}
	def := b.Snakes[i].DefaultMove()
	if slices.Contains(options, def) {
		return []game.Direction{def}
	}
	return options[:1]
}
