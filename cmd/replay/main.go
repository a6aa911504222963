// Command replay downloads real games and checks how often the search picks
// the move a given snake actually played.
//
//	replay -snake "My Snake" -game 0a1b...
//	replay -snake "My Snake" -player my-username -arena standard -max-games 10
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"k8s.io/klog/v2"

	"github.com/brensch/snekfront/executor/search"
	"github.com/brensch/snekfront/logging"
	"github.com/brensch/snekfront/scraper/discovery"
	"github.com/brensch/snekfront/scraper/downloader"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	klog.InitFlags(fs)

	gameID := fs.String("game", "", "Game id to replay")
	player := fs.String("player", "", "Replay the recent games of this leaderboard user instead")
	arena := fs.String("arena", "standard", "Leaderboard arena for -player")
	maxGames := fs.Int("max-games", 5, "Games to replay with -player (0 = all on the page)")
	snake := fs.String("snake", "", "Name or id of the snake to check (default: every snake)")
	budget := fs.Duration("budget", 200*time.Millisecond, "Search time per decision")
	engineURL := fs.String("engine-url", getEnvOrDefault("ENGINE_URL", downloader.DefaultConfig().EngineURL), "Engine websocket URL template")
	verbose := fs.Bool("mismatches", false, "List every turn where the search disagreed")
	logFormat := fs.String("log-format", logging.FormatText, "Log format: text, json or pretty")

	if err := fs.Parse(os.Args[1:]); err != nil {
		klog.Exitf("flag parse: %v", err)
	}
	if err := logging.Setup(*logFormat, os.Stderr); err != nil {
		klog.Exitf("logging: %v", err)
	}
	if (*gameID == "") == (*player == "") {
		klog.Exit("exactly one of -game or -player is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids := []string{*gameID}
	if *player != "" {
		cfg := discovery.DefaultConfig()
		cfg.MaxGames = *maxGames
		var err error
		ids, err = discovery.PlayerGames(ctx, cfg, discovery.PlayerStatsURL(*arena, *player))
		if err != nil {
			klog.Exitf("discovery: %v", err)
		}
		klog.Infof("Found %d games for %s", len(ids), *player)
	}

	dl := downloader.DefaultConfig()
	dl.EngineURL = *engineURL
	searcher := search.New().WithBudget(*budget)

	var decisions, agreed int
	for _, id := range ids {
		g, err := downloader.FetchGame(ctx, dl, id)
		if err != nil {
			klog.Errorf("download %s: %v", id, err)
			continue
		}
		for _, snakeID := range snakesToCheck(g, *snake) {
			r, err := compare(ctx, searcher, g, snakeID)
			if err != nil {
				klog.Errorf("replay %s: %v", id, err)
				break
			}
			decisions += r.Decisions
			agreed += r.Agreed
			if !*verbose {
				r.Mismatches = nil
			}
			fmt.Println(r)
		}
		if ctx.Err() != nil {
			break
		}
	}
	if decisions > 0 {
		fmt.Printf("total: agreed %d/%d (%.1f%%)\n", agreed, decisions, 100*float64(agreed)/float64(decisions))
	}
	klog.Flush()
}

func snakesToCheck(g *downloader.Game, nameOrID string) []string {
	if nameOrID != "" {
		id, ok := g.SnakeID(nameOrID)
		if !ok {
			klog.Warningf("game %s has no snake %q", g.Info.ID, nameOrID)
			return nil
		}
		return []string{id}
	}
	if len(g.Frames) == 0 {
		return nil
	}
	var ids []string
	for _, s := range g.Frames[0].Snakes {
		ids = append(ids, s.ID)
	}
	return ids
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
