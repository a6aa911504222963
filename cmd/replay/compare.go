package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/brensch/snekfront/api"
	"github.com/brensch/snekfront/executor/search"
	"github.com/brensch/snekfront/game"
	"github.com/brensch/snekfront/scraper/downloader"
)

// Mismatch is a turn where the search picked something other than what the
// snake played.
type Mismatch struct {
	Turn   int
	Played game.Direction
	Ours   game.Direction
	Stop   search.StopReason
}

// Report is how often the search agreed with one snake over one game.
type Report struct {
	GameID     string
	SnakeID    string
	Decisions  int
	Agreed     int
	Mismatches []Mismatch
}

func (r Report) Agreement() float64 {
	if r.Decisions == 0 {
		return 0
	}
	return float64(r.Agreed) / float64(r.Decisions)
}

func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "game %s snake %s: agreed %d/%d (%.1f%%)", r.GameID, r.SnakeID, r.Agreed, r.Decisions, 100*r.Agreement())
	for _, m := range r.Mismatches {
		fmt.Fprintf(&sb, "\n  turn %3d: played %-5s ours %-5s (%s)", m.Turn, m.Played, m.Ours, m.Stop)
	}
	return sb.String()
}

// compare re-runs the search on every frame where snakeID is alive and
// moves on the next frame, and checks it against the move it made.
func compare(ctx context.Context, s *search.Searcher, g *downloader.Game, snakeID string) (Report, error) {
	r := Report{GameID: g.Info.ID, SnakeID: snakeID}
	for i := 0; i+1 < len(g.Frames); i++ {
		if ctx.Err() != nil {
			return r, ctx.Err()
		}
		prev := g.Frames[i].APIBoard(g.Info.Width, g.Info.Height)
		next := g.Frames[i+1].APIBoard(g.Info.Width, g.Info.Height)
		played, ok := api.InferMove(prev, next, snakeID)
		if !ok {
			continue
		}

		b, err := g.Board(i, snakeID)
		if err != nil {
			return r, err
		}
		res := s.Search(ctx, b)
		r.Decisions++
		if res.Move == played {
			r.Agreed++
			continue
		}
		r.Mismatches = append(r.Mismatches, Mismatch{Turn: g.Frames[i].Turn, Played: played, Ours: res.Move, Stop: res.Stop})
	}
	return r, nil
}
