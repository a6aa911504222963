// Package downloader fetches finished games from the Battlesnake engine's
// websocket event stream.
package downloader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/brensch/snekfront/api"
	"github.com/brensch/snekfront/rules"
)

// Config holds downloader configuration
type Config struct {
	EngineURL      string // WebSocket URL template, %s is the game id
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		EngineURL:      "wss://engine.battlesnake.com/games/%s/events",
		ConnectTimeout: 10 * time.Second,
		ReadTimeout:    30 * time.Second,
	}
}

// GameEvent represents an event from the WebSocket stream
type GameEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// GameInfo from the "game_info" event
type GameInfo struct {
	Game GameDetails `json:"game"`
}

type GameDetails struct {
	ID      string      `json:"id"`
	Width   int         `json:"width"`
	Height  int         `json:"height"`
	Timeout int         `json:"timeout"`
	Ruleset RulesetInfo `json:"ruleset"`
}

type RulesetInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Frame is one turn of a game as the engine streams it. Dead snakes stay in
// the list with Death set.
type Frame struct {
	Turn   int         `json:"turn"`
	Snakes []SnakeData `json:"snakes"`
	Food   []api.Coord `json:"food"`
}

type SnakeData struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Health int         `json:"health"`
	Body   []api.Coord `json:"body"`
	Death  *Death      `json:"death,omitempty"`
}

type Death struct {
	Cause string `json:"cause"`
	Turn  int    `json:"turn"`
}

// Game is a downloaded game: its details and every frame in turn order.
type Game struct {
	Info   GameDetails
	Frames []Frame
}

// Alive reports whether the snake is still in play on this frame.
func (s *SnakeData) Alive() bool {
	return s.Death == nil && len(s.Body) > 0
}

// APIBoard converts the frame to the protocol board, keeping only live
// snakes.
func (f *Frame) APIBoard(width, height int) *api.Board {
	out := &api.Board{Width: width, Height: height, Food: f.Food}
	for _, s := range f.Snakes {
		if !s.Alive() {
			continue
		}
		out.Snakes = append(out.Snakes, api.Battlesnake{
			ID:     s.ID,
			Name:   s.Name,
			Health: s.Health,
			Body:   s.Body,
			Head:   s.Body[0],
			Length: len(s.Body),
		})
	}
	return out
}

// Board converts frame i of g to a rules board seen by snake youID.
func (g *Game) Board(i int, youID string) (*rules.Board, error) {
	if i < 0 || i >= len(g.Frames) {
		return nil, errors.Errorf("frame %d out of range [0,%d)", i, len(g.Frames))
	}
	f := &g.Frames[i]
	b, err := api.BoardFor(f.APIBoard(g.Info.Width, g.Info.Height), youID)
	if err != nil {
		return nil, errors.Wrapf(err, "game %s turn %d", g.Info.ID, f.Turn)
	}
	return b, nil
}

// SnakeID finds the id of the snake with the given display name or id.
func (g *Game) SnakeID(nameOrID string) (string, bool) {
	if len(g.Frames) == 0 {
		return "", false
	}
	for _, s := range g.Frames[0].Snakes {
		if s.ID == nameOrID || s.Name == nameOrID {
			return s.ID, true
		}
	}
	return "", false
}

// Winner returns the name of the only snake alive on the last frame, or
// "draw".
func (g *Game) Winner() string {
	if len(g.Frames) == 0 {
		return "unknown"
	}
	var alive []SnakeData
	for _, s := range g.Frames[len(g.Frames)-1].Snakes {
		if s.Alive() && s.Health > 0 {
			alive = append(alive, s)
		}
	}
	if len(alive) == 1 {
		return alive[0].Name
	}
	return "draw"
}

// FetchGame connects to the game's event stream and reads it until the
// engine closes it or sends game_end.
func FetchGame(ctx context.Context, cfg Config, gameID string) (*Game, error) {
	url := fmt.Sprintf(cfg.EngineURL, gameID)
	dialer := websocket.Dialer{HandshakeTimeout: cfg.ConnectTimeout}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", url)
	}
	defer conn.Close()

	// Unblock the read loop when ctx ends.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	g := &Game{Info: GameDetails{ID: gameID}}
	for {
		if cfg.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || len(g.Frames) > 0 {
				break
			}
			return nil, errors.Wrap(err, "read")
		}

		var event GameEvent
		if err := json.Unmarshal(message, &event); err != nil {
			klog.Warningf("game %s: bad event: %v", gameID, err)
			continue
		}

		done := false
		switch event.Type {
		case "game_info":
			var info GameInfo
			if err := json.Unmarshal(event.Data, &info); err != nil {
				klog.Warningf("game %s: bad game_info: %v", gameID, err)
				continue
			}
			g.Info = info.Game
			if g.Info.ID == "" {
				g.Info.ID = gameID
			}
		case "frame":
			var f Frame
			if err := json.Unmarshal(event.Data, &f); err != nil {
				klog.Warningf("game %s: bad frame: %v", gameID, err)
				continue
			}
			g.Frames = append(g.Frames, f)
		case "game_end":
			done = true
		}
		if done {
			break
		}
	}

	if len(g.Frames) == 0 {
		return nil, errors.Errorf("game %s: no frames", gameID)
	}
	if g.Info.Width == 0 || g.Info.Height == 0 {
		return nil, errors.Errorf("game %s: board size missing from game_info", gameID)
	}
	klog.V(1).Infof("downloaded %s: %d frames, winner %s", gameID, len(g.Frames), g.Winner())
	return g, nil
}
