package search

import (
	"container/heap"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
)

// entry is one hypothetical future waiting to be expanded. It owns its board.
type entry struct {
	board *rules.Board
	// first is the move the acting snake makes at the root to get here.
	first    game.Direction
	hasFirst bool
	score    float32
	depth    int
	seq      uint64
}

// frontier is a max-heap on score. Ties go to the shallower entry, then to
// the one pushed first.
type frontier struct {
	entries []*entry
	seq     uint64
}

func (f *frontier) Len() int { return len(f.entries) }
func (f *frontier) Less(i, j int) bool {
	a, b := f.entries[i], f.entries[j]
	if a.score != b.score {
		return a.score > b.score
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.seq < b.seq
}
func (f *frontier) Swap(i, j int) { f.entries[i], f.entries[j] = f.entries[j], f.entries[i] }
func (f *frontier) Push(x any)   { f.entries = append(f.entries, x.(*entry)) }
func (f *frontier) Pop() any {
	old := f.entries
	e := old[len(old)-1]
	old[len(old)-1] = nil
	f.entries = old[:len(old)-1]
	return e
}

func (f *frontier) push(e *entry) {
	e.seq = f.seq
	f.seq++
	heap.Push(f, e)
}

func (f *frontier) pop() *entry {
	return heap.Pop(f).(*entry)
}
