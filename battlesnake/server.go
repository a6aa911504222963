package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"k8s.io/klog/v2"

	"github.com/brensch/snekfront/api"
	"github.com/brensch/snekfront/executor/search"
)

// Server answers the Battlesnake API with the best-first search.
type Server struct {
	searcher    *search.Searcher
	info        api.BattlesnakeInfoResponse
	moveTimeout time.Duration
	latency     time.Duration
	minCompute  time.Duration
}

func NewServer(searcher *search.Searcher, info api.BattlesnakeInfoResponse, moveTimeout, latency time.Duration) *Server {
	return &Server{
		searcher:    searcher,
		info:        info,
		moveTimeout: moveTimeout,
		latency:     latency,
		minCompute:  50 * time.Millisecond,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/start", s.handleStart)
	mux.HandleFunc("/move", s.handleMove)
	mux.HandleFunc("/end", s.handleEnd)
	return mux
}

// handleIndex returns the Battlesnake info
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, s.info)
}

// handleStart is called when a game starts
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req api.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	klog.Infof("Game started: %s, Turn: %d, You: %s", req.Game.ID, req.Turn, req.You.Name)
	w.WriteHeader(http.StatusOK)
}

// handleMove runs the search on the request's board
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	var req api.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	board, err := api.ToBoard(&req)
	if err != nil {
		klog.Errorf("Turn %d: bad board in game %s: %v", req.Turn, req.Game.ID, err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.computeTime(req.Game.Timeout))
	defer cancel()
	res := s.searcher.Search(ctx, board)

	moveStr := api.MoveToString(res.Move)
	klog.Infof("Turn %d: Move=%s, Stop=%s, Expansions=%d, Depth=%d, Time=%v",
		req.Turn, moveStr, res.Stop, res.Expansions, res.MaxDepth, time.Since(startTime))
	for _, c := range res.Candidates {
		klog.V(1).Infof("  candidate %s score=%.3f depth=%d", c.Move, c.Score, c.Depth)
	}

	writeJSON(w, api.MoveResponse{
		Move:  moveStr,
		Shout: fmt.Sprintf("Expanded %d boards", res.Expansions),
	})
}

// computeTime is the game timeout minus the latency reserve, never below
// the minimum.
func (s *Server) computeTime(gameTimeoutMs int) time.Duration {
	timeout := s.moveTimeout
	if gameTimeoutMs > 0 {
		timeout = time.Duration(gameTimeoutMs) * time.Millisecond
	}
	return max(timeout-s.latency, s.minCompute)
}

// handleEnd is called when a game ends
func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	var req api.GameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	klog.Infof("Game ended: %s, Turn: %d, Result: %s", req.Game.ID, req.Turn, gameResult(&req))
	w.WriteHeader(http.StatusOK)
}

func gameResult(req *api.GameRequest) string {
	for _, snake := range req.Board.Snakes {
		if snake.ID == req.You.ID {
			return "won"
		}
	}
	if len(req.Board.Snakes) == 0 {
		return "draw"
	}
	return "lost"
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.Errorf("write response: %v", err)
	}
}

