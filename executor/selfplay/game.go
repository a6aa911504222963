// Package selfplay runs local games where every snake is driven by the
// search, and records per-decision statistics.
package selfplay

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/brensch/snekfront/executor/search"
	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/rules"
)

const (
	DefaultWidth    = 11
	DefaultHeight   = 11
	DefaultMaxTurns = 1000
)

// Config describes one self-play game.
type Config struct {
	Width, Height int
	// IDs names the snakes. Defaults to two snakes.
	IDs []string
	// MaxTurns ends a game that is still running. Zero means
	// DefaultMaxTurns.
	MaxTurns int
	Searcher *search.Searcher
	// Food defaults to rules.DefaultFoodSettings when zero.
	Food rules.FoodSettings
	// OnTurn, if set, sees the board after every tick. It must not keep
	// the board.
	OnTurn func(turn int, b *rules.Board)
}

func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if len(c.IDs) == 0 {
		c.IDs = []string{"alpha", "bravo"}
	}
	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.Searcher == nil {
		c.Searcher = search.New()
	}
	if c.Food == (rules.FoodSettings{}) {
		c.Food = rules.DefaultFoodSettings
	}
	return c
}

// DecisionStat is one snake's decision on one turn.
type DecisionStat struct {
	GameID      string  `parquet:"game_id,dict"`
	Turn        int32   `parquet:"turn"`
	SnakeID     string  `parquet:"snake_id,dict"`
	Move        string  `parquet:"move,dict"`
	Expansions  int32   `parquet:"expansions"`
	MaxDepth    int32   `parquet:"max_depth"`
	ElapsedMs   float32 `parquet:"elapsed_ms"`
	Stop        string  `parquet:"stop,dict"`
	SnakesAlive int32   `parquet:"snakes_alive"`
}

// Elimination is a death together with the turn it happened on.
type Elimination struct {
	Turn  int
	ID    string
	Cause rules.DeathCause
}

// Result summarises a finished game. WinnerID is empty for a draw or a game
// cut off at MaxTurns with several snakes alive.
type Result struct {
	WinnerID string
	Turns    int
	Deaths   []Elimination
}

// Outcome is everything PlayGame produced. Completed is false when the
// context ended the game early.
type Outcome struct {
	GameID    string
	Completed bool
	Result    Result
	Stats     []DecisionStat
}

// NewGameID returns an id unique to the worker and moment.
func NewGameID(workerID int) string {
	return fmt.Sprintf("selfplay_%d_%d", time.Now().UnixNano(), workerID)
}

// PlayGame plays one game to the end. rng drives the start positions and
// food; the search itself is deterministic apart from timing.
func PlayGame(ctx context.Context, gameID string, cfg Config, rng *rand.Rand) (Outcome, error) {
	cfg = cfg.withDefaults()
	b, err := rules.NewStandardBoard(rng, cfg.Width, cfg.Height, cfg.IDs)
	if err != nil {
		return Outcome{}, errors.Wrapf(err, "game %s", gameID)
	}

	out := Outcome{GameID: gameID, Stats: make([]DecisionStat, 0, 256)}
	turn := 0
	for ; !b.GameOver() && turn < cfg.MaxTurns; turn++ {
		if ctx.Err() != nil {
			out.Result.Turns = turn
			return out, nil
		}

		moves, stats := decide(ctx, cfg.Searcher, b)
		for i := range stats {
			stats[i].GameID = gameID
			stats[i].Turn = int32(turn)
		}
		out.Stats = append(out.Stats, stats...)

		for _, d := range b.Advance(moves, rng, cfg.Food) {
			out.Result.Deaths = append(out.Result.Deaths, Elimination{Turn: turn + 1, ID: d.ID, Cause: d.Cause})
			if klog.V(1).Enabled() {
				klog.Infof("game %s turn %d: %s died (%s)", gameID, turn+1, d.ID, d.Cause)
			}
		}
		if cfg.OnTurn != nil {
			cfg.OnTurn(turn+1, b)
		}
	}

	out.Completed = true
	out.Result.Turns = turn
	if len(b.Snakes) == 1 {
		out.Result.WinnerID = b.Snakes[0].ID
	}
	return out, nil
}

// decide runs every snake's search concurrently, each from its own
// perspective.
func decide(ctx context.Context, s *search.Searcher, b *rules.Board) ([]game.Direction, []DecisionStat) {
	moves := make([]game.Direction, len(b.Snakes))
	stats := make([]DecisionStat, len(b.Snakes))
	var g errgroup.Group
	for i := range b.Snakes {
		g.Go(func() error {
			res := s.Search(ctx, b.Perspective(i))
			moves[i] = res.Move
			stats[i] = DecisionStat{
				SnakeID:     b.Snakes[i].ID,
				Move:        res.Move.String(),
				Expansions:  int32(res.Expansions),
				MaxDepth:    int32(res.MaxDepth),
				ElapsedMs:   float32(res.Elapsed.Seconds() * 1000),
				Stop:        string(res.Stop),
				SnakesAlive: int32(len(b.Snakes)),
			}
			return nil
		})
	}
	g.Wait()
	return moves, stats
}
