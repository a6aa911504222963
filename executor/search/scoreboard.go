package search

import (
	"sync"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
)

// outcome is the worst result seen so far for one move of the acting snake.
type outcome struct {
	mu    sync.Mutex
	set   bool
	score float32
	combo int
	board *rules.Board
}

// scoreboard keeps, per move of the acting snake, the joint move that is
// worst for it. Each slot has its own lock. Equal scores keep the lower
// combo index, so the result does not depend on goroutine scheduling.
type scoreboard [game.NumDirections]outcome

func (sb *scoreboard) offer(d game.Direction, score float32, combo int, b *rules.Board) {
	o := &sb[d]
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.set && (score > o.score || (score == o.score && combo > o.combo)) {
		return
	}
	o.set, o.score, o.combo, o.board = true, score, combo, b
}
