// Command selfplay runs games where every snake is driven by the search, with
// a live terminal view or plain log lines, and optionally writes the search
// statistics of every decision to parquet.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janpfeifer/must"
	"k8s.io/klog/v2"

	"github.com/brensch/snekfront/executor/search"
	"github.com/brensch/snekfront/executor/selfplay"
	"github.com/brensch/snekfront/logging"
	"github.com/brensch/snekfront/rules"
)

var (
	totalGames     atomic.Int64
	totalDecisions atomic.Int64
)

type GameUpdate struct {
	WorkerID int
	GameID   string
	Result   selfplay.Result
}

type boardMsg string

type gameWriteRequest struct {
	rows []selfplay.DecisionStat
}

type model struct {
	gamesPlayed int
	decisions   int64
	wins        map[string]int
	draws       int
	startTime   time.Time
	recentGames []string
	board       string
	updates     chan GameUpdate
	boards      chan string
}

func initialModel(updates chan GameUpdate, boards chan string) model {
	return model{
		wins:      make(map[string]int),
		startTime: time.Now(),
		updates:   updates,
		boards:    boards,
	}
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), waitForBoard(m.boards), tickCmd())
}

func waitForUpdate(updates chan GameUpdate) tea.Cmd {
	return func() tea.Msg {
		return <-updates
	}
}

func waitForBoard(boards chan string) tea.Cmd {
	return func() tea.Msg {
		return boardMsg(<-boards)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case TickMsg:
		m.decisions = totalDecisions.Load()
		return m, tickCmd()
	case boardMsg:
		m.board = string(msg)
		return m, waitForBoard(m.boards)
	case GameUpdate:
		m.gamesPlayed++
		if msg.Result.WinnerID == "" {
			m.draws++
		} else {
			m.wins[msg.Result.WinnerID]++
		}
		m.recentGames = append([]string{describe(msg)}, m.recentGames...)
		if len(m.recentGames) > 10 {
			m.recentGames = m.recentGames[:10]
		}
		return m, waitForUpdate(m.updates)
	}
	return m, nil
}

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

func (m model) View() string {
	duration := time.Since(m.startTime)
	gamesPerSec := float64(m.gamesPlayed) / duration.Seconds()
	decisionsPerSec := float64(m.decisions) / duration.Seconds()
	if duration.Seconds() < 1 {
		gamesPerSec = 0
		decisionsPerSec = 0
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("snekfront self-play"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Games Played:   %d\n", m.gamesPlayed)
	fmt.Fprintf(&sb, "Decisions:      %d\n", m.decisions)
	fmt.Fprintf(&sb, "Duration:       %s\n", duration.Round(time.Second))
	fmt.Fprintf(&sb, "Games/Sec:      %.2f\n", gamesPerSec)
	fmt.Fprintf(&sb, "Decisions/Sec:  %.2f\n", decisionsPerSec)
	fmt.Fprintf(&sb, "Wins:           %s (draws %d)\n\n", formatWins(m.wins), m.draws)

	stats := sb.String()
	if m.board != "" {
		stats = lipgloss.JoinHorizontal(lipgloss.Top, stats, "   ", m.board)
	}

	var out strings.Builder
	out.WriteString(stats)
	out.WriteString("\nRecent Games:\n")
	for _, g := range m.recentGames {
		out.WriteString(g + "\n")
	}
	out.WriteString("\nPress q to quit.\n")
	return out.String()
}

func describe(u GameUpdate) string {
	winner := u.Result.WinnerID
	if winner == "" {
		winner = "draw"
	}
	return fmt.Sprintf("Worker %d: %s winner %s, turns %d", u.WorkerID, u.GameID, winner, u.Result.Turns)
}

func formatWins(wins map[string]int) string {
	ids := make([]string, 0, len(wins))
	for id := range wins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%s=%d", id, wins[id])
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	klog.InitFlags(fs)

	outDir := fs.String("out-dir", "", "If set, write decision statistics parquet batches here")
	workers := fs.Int("workers", 2, "Number of concurrent games")
	gamesPerFlush := fs.Int("games-per-flush", 50, "Number of games to buffer per parquet flush")
	maxGames := fs.Int64("max-games", 0, "If > 0, stop after this many games (across all workers)")
	budget := fs.Duration("budget", 100*time.Millisecond, "Search time per decision")
	width := fs.Int("width", selfplay.DefaultWidth, "Board width")
	height := fs.Int("height", selfplay.DefaultHeight, "Board height")
	numSnakes := fs.Int("snakes", 2, "Snakes per game")
	maxTurns := fs.Int("max-turns", selfplay.DefaultMaxTurns, "Turn limit per game")
	headless := fs.Bool("headless", false, "Log progress instead of showing the terminal view")
	logFile := fs.String("log-file", "selfplay.log", "Where klog writes while the terminal view is up")
	logFormat := fs.String("log-format", logging.FormatText, "Log format: text, json or pretty")
	must.M(fs.Parse(os.Args[1:]))

	logOut := os.Stderr
	if !*headless {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			klog.Exitf("open log file: %v", err)
		}
		defer f.Close()
		klog.LogToStderr(false)
		klog.SetOutput(f)
		logOut = f
	}
	if err := logging.Setup(*logFormat, logOut); err != nil {
		klog.Exitf("logging: %v", err)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	ids := make([]string, *numSnakes)
	for i := range ids {
		ids[i] = fmt.Sprintf("snake%d", i+1)
	}
	searcher := search.New().WithBudget(*budget)

	updates := make(chan GameUpdate, *workers)
	boards := make(chan string, 1)
	writeReqs := make(chan gameWriteRequest, (*workers)*4)

	writerDone := make(chan struct{})
	go func() {
		statsWriterLoop(*outDir, *gamesPerFlush, writeReqs)
		close(writerDone)
	}()

	var workerWG sync.WaitGroup
	for i := 0; i < *workers; i++ {
		workerWG.Add(1)
		go func(workerID int) {
			defer workerWG.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)*1000003))
			cfg := selfplay.Config{
				Width: *width, Height: *height,
				IDs:      ids,
				MaxTurns: *maxTurns,
				Searcher: searcher,
			}
			if workerID == 0 && !*headless {
				cfg.OnTurn = func(turn int, b *rules.Board) {
					select {
					case boards <- selfplay.Render(b, turn):
					default:
					}
				}
			}

			for ctx.Err() == nil {
				gameID := selfplay.NewGameID(workerID)
				out, err := selfplay.PlayGame(ctx, gameID, cfg, rng)
				if err != nil {
					klog.Errorf("Worker %d: %v", workerID, err)
					cancel()
					return
				}
				totalDecisions.Add(int64(len(out.Stats)))
				if !out.Completed {
					klog.Infof("Worker %d: game %s aborted at turn %d", workerID, gameID, out.Result.Turns)
					return
				}

				total := totalGames.Add(1)
				if *maxGames > 0 && total >= *maxGames {
					// Cancel the whole run after the target number of games.
					cancel()
				}
				writeReqs <- gameWriteRequest{rows: out.Stats}

				// Avoid blocking shutdown if the UI loop stops consuming.
				select {
				case updates <- GameUpdate{WorkerID: workerID, GameID: gameID, Result: out.Result}:
				default:
				}
			}
		}(i)
	}

	if *headless {
		runHeadless(ctx, updates)
	} else {
		p := tea.NewProgram(initialModel(updates, boards), tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil && ctx.Err() == nil {
			klog.Errorf("terminal view: %v", err)
		}
	}

	cancel()
	klog.Infof("Shutdown requested; waiting for workers to finish current games...")
	workerWG.Wait()
	close(writeReqs)
	<-writerDone
	klog.Infof("Shutdown complete (games=%d)", totalGames.Load())
	klog.Flush()
}

func runHeadless(ctx context.Context, updates chan GameUpdate) {
	startTime := time.Now()
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case update := <-updates:
			klog.Info(describe(update))
		case <-ticker.C:
			duration := time.Since(startTime)
			klog.Infof("Stats: games=%d decisions/s=%.2f",
				totalGames.Load(), float64(totalDecisions.Load())/duration.Seconds())
		}
	}
}

func statsWriterLoop(outDir string, gamesPerFlush int, in <-chan gameWriteRequest) {
	if outDir == "" {
		for range in {
		}
		return
	}

	w := selfplay.NewStatsWriter(outDir, gamesPerFlush)
	for req := range in {
		path, err := w.Add(req.rows)
		if err != nil {
			klog.Errorf("Parquet flush failed: %v", err)
		} else if path != "" {
			klog.Infof("Parquet flush ok: %s", path)
		}
	}
	path, err := w.Flush()
	if err != nil {
		klog.Errorf("Parquet final flush failed: %v", err)
		return
	}
	if path != "" {
		klog.Infof("Parquet final flush ok: %s", path)
	}
}
