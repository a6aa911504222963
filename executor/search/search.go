// Package search picks a move with an anytime best-first search over the
// joint moves of every snake.
//
// Each expansion plays every combination of the snakes' (pruned) moves and
// keeps, per move of the acting snake, only the combination that is worst
// for it. The worst case is blended with its parent's score and pushed back
// on a frontier ordered by score, so the search keeps deepening the line
// that looks safest until the deadline.
package search

import (
	"context"
	"runtime"
	"time"

	"github.com/chewxy/math32"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
)

const (
	// DefaultBudget bounds a search when no budget was set with WithBudget
	// and the context has no deadline.
	DefaultBudget = 250 * time.Millisecond

	DefaultPriorityRadius    = 4
	DefaultMinPrioritySnakes = 1
	DefaultMaxPrioritySnakes = 3
	DefaultParentWeight      = 0.5
	DefaultTraceSize         = 4
)

// Searcher holds the search configuration. It is safe to share between
// goroutines: each Search call owns its own state.
type Searcher struct {
	budget            time.Duration
	priorityRadius    int
	minPrioritySnakes int
	maxPrioritySnakes int
	parentWeight      float32
	parallelism       int
	spawnChance       int
	traceSize         int
}

// New returns a Searcher with default settings. See the Searcher.With...
// methods for the knobs.
func New() *Searcher {
	return &Searcher{
		priorityRadius:    DefaultPriorityRadius,
		minPrioritySnakes: DefaultMinPrioritySnakes,
		maxPrioritySnakes: DefaultMaxPrioritySnakes,
		parentWeight:      DefaultParentWeight,
		parallelism:       runtime.GOMAXPROCS(0),
		spawnChance:       rules.DefaultFoodSettings.FoodSpawnChance,
		traceSize:         DefaultTraceSize,
	}
}

// WithBudget sets the wall-clock time per decision. A context deadline that
// comes earlier wins. Without a budget, or with zero, the context deadline
// alone governs, or DefaultBudget if there is none.
func (s *Searcher) WithBudget(budget time.Duration) *Searcher {
	s.budget = budget
	return s
}

// WithPriorityRadius sets the Manhattan distance from the acting snake's
// head within which opponents have all their moves considered.
func (s *Searcher) WithPriorityRadius(radius int) *Searcher {
	s.priorityRadius = radius
	return s
}

// WithMinPrioritySnakes sets how many of the nearest opponents always have
// all their moves considered, however far away they are.
func (s *Searcher) WithMinPrioritySnakes(n int) *Searcher {
	s.minPrioritySnakes = max(n, 0)
	return s
}

// WithMaxPrioritySnakes caps the opponents with all moves considered. Each
// one multiplies the joint moves per expansion by up to four.
func (s *Searcher) WithMaxPrioritySnakes(n int) *Searcher {
	s.maxPrioritySnakes = max(n, 0)
	return s
}

// WithParentWeight sets how much of the parent's score is mixed into each
// child's score, between 0 and 1.
func (s *Searcher) WithParentWeight(w float32) *Searcher {
	s.parentWeight = clamp01(w)
	return s
}

// WithParallelism bounds the goroutines scoring joint moves. Values below 1
// mean GOMAXPROCS.
func (s *Searcher) WithParallelism(n int) *Searcher {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	s.parallelism = n
	return s
}

// WithFoodSpawnChance sets the per-turn food spawn percentage the heuristic
// assumes when no food is in reach.
func (s *Searcher) WithFoodSpawnChance(pct int) *Searcher {
	s.spawnChance = pct
	return s
}

// WithTraceSize sets how many candidates Result.Candidates reports.
func (s *Searcher) WithTraceSize(n int) *Searcher {
	s.traceSize = max(n, 0)
	return s
}

// StopReason tells why a search returned.
type StopReason string

const (
	StopDeadline  StopReason = "deadline"
	StopExhausted StopReason = "exhausted"
	StopWin       StopReason = "win"
)

// Candidate is one continuation still on the frontier when the search
// stopped.
type Candidate struct {
	Move  game.Direction
	Score float32
	Depth int
}

// Result is the decision and some statistics about how it was reached.
type Result struct {
	Move       game.Direction
	Stop       StopReason
	Expansions int
	MaxDepth   int
	Elapsed    time.Duration
	Candidates []Candidate
}

// Search decides the move for snake 0 of b. It always returns a move: when
// nothing was expanded in time it falls back to the default move if that is
// legal, else to the first legal move. b is not modified.
func (s *Searcher) Search(ctx context.Context, b *rules.Board) Result {
	start := time.Now()
	deadline := s.deadline(ctx, start)

	res := Result{Move: fallbackMove(b)}
	if len(b.Snakes) == 0 {
		res.Stop = StopExhausted
		return res
	}
	rootHadEnemies := len(b.Snakes) > 1

	f := &frontier{}
	f.push(&entry{board: b.Clone(), score: math32.Inf(1)})
	var best *entry
	for {
		if f.Len() == 0 {
			res.Stop = StopExhausted
			if best != nil {
				res.Move = best.first
			}
			break
		}
		e := f.pop()
		if ctx.Err() != nil || !time.Now().Before(deadline) {
			res.Stop = StopDeadline
			if e.hasFirst {
				res.Move = e.first
			}
			f.push(e)
			break
		}
		if rootHadEnemies && e.hasFirst && len(e.board.Snakes) == 1 {
			res.Stop = StopWin
			res.Move = e.first
			res.MaxDepth = max(res.MaxDepth, e.depth)
			break
		}

		best = higher(best, e)
		res.Expansions++
		res.MaxDepth = max(res.MaxDepth, e.depth)
		for _, child := range s.expand(e) {
			f.push(child)
		}
	}

	res.Candidates = s.trace(f)
	res.Elapsed = time.Since(start)
	if klog.V(2).Enabled() {
		klog.Infof("search: move=%s stop=%s expansions=%d depth=%d elapsed=%s candidates=%+v",
			res.Move, res.Stop, res.Expansions, res.MaxDepth, res.Elapsed, res.Candidates)
	}
	return res
}

// deadline is start+budget when a budget was set, cut short by an earlier
// context deadline. Otherwise the context deadline governs, falling back to
// DefaultBudget.
func (s *Searcher) deadline(ctx context.Context, start time.Time) time.Time {
	d, ok := ctx.Deadline()
	if s.budget > 0 {
		if own := start.Add(s.budget); !ok || own.Before(d) {
			return own
		}
		return d
	}
	if ok {
		return d
	}
	return start.Add(DefaultBudget)
}

// higher returns whichever of best and e scores higher among entries that
// carry a first move. Ties keep best, the one expanded earlier.
func higher(best, e *entry) *entry {
	if !e.hasFirst {
		return best
	}
	if best == nil || e.score > best.score {
		return e
	}
	return best
}

// expand plays every joint move from e and returns one child per move of the
// acting snake that it survives, scored by its worst case.
func (s *Searcher) expand(e *entry) []*entry {
	b := e.board
	moves := b.EnumerateSnakeMoves()
	s.prunePriority(b, moves)
	p := newProduct(moves)

	var sb scoreboard
	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for k := 0; k < p.size; k++ {
		g.Go(func() error {
			joint := make([]game.Direction, len(moves))
			p.at(k, joint)
			child := b.Clone()
			deaths := child.Advance(joint, nil, rules.NoFood)
			sb.offer(joint[0], scoreChild(child, deaths, s.spawnChance), k, child)
			return nil
		})
	}
	g.Wait()

	children := make([]*entry, 0, game.NumDirections)
	for _, d := range game.AllDirections {
		o := &sb[d]
		if !o.set || o.score <= deadScore {
			continue
		}
		child := &entry{
			board:    o.board,
			first:    e.first,
			hasFirst: e.hasFirst,
			score:    o.score,
			depth:    e.depth + 1,
		}
		if !e.hasFirst {
			child.first, child.hasFirst = d, true
		} else {
			child.score = s.parentWeight*e.score + (1-s.parentWeight)*o.score
		}
		children = append(children, child)
	}
	return children
}

// trace drains the best few entries left on the frontier.
func (s *Searcher) trace(f *frontier) []Candidate {
	var out []Candidate
	for len(out) < s.traceSize && f.Len() > 0 {
		e := f.pop()
		if !e.hasFirst {
			continue
		}
		out = append(out, Candidate{Move: e.first, Score: e.score, Depth: e.depth})
	}
	return out
}

// fallbackMove is what snake 0 plays when the search produced nothing: its
// default move if that is legal, else its first legal move.
func fallbackMove(b *rules.Board) game.Direction {
	if len(b.Snakes) == 0 {
		return game.Up
	}
	def := b.Snakes[0].DefaultMove()
	if b.IsLegal(0, def) {
		return def
	}
	return b.SnakeMoves(0)[0]
}
