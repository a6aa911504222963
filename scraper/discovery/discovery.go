// Package discovery finds game ids on the Battlesnake website.
package discovery

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const userAgent = "snekfront/1.0 (replay-checker)"

var (
	gameIDRe = regexp.MustCompile(`/game/([a-f0-9-]+)`)
	// Matches /leaderboard/{arena}/{username}/stats (standard, standard-duels, etc.)
	playerRe = regexp.MustCompile(`/leaderboard/[^/]+/([^/]+)/stats`)
)

// Config holds discovery configuration
type Config struct {
	Client       *http.Client
	RequestDelay time.Duration // Delay between HTTP requests to be polite
	MaxGames     int           // 0 = unlimited
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Client:       &http.Client{Timeout: 30 * time.Second},
		RequestDelay: 500 * time.Millisecond,
	}
}

// Player is a leaderboard entry.
type Player struct {
	Username string
	StatsURL string
}

// PlayerStatsURL is the stats page of a player on an arena leaderboard.
func PlayerStatsURL(arena, username string) string {
	return "https://play.battlesnake.com/leaderboard/" + url.PathEscape(arena) + "/" + url.PathEscape(username) + "/stats"
}

// PlayerGames returns the game ids linked from a player's stats page, in
// page order without duplicates.
func PlayerGames(ctx context.Context, cfg Config, statsURL string) ([]string, error) {
	doc, err := fetch(ctx, cfg, statsURL)
	if err != nil {
		return nil, err
	}

	var gameIDs []string
	seen := make(map[string]bool)
	doc.Find("a[href*='/game/']").Each(func(_ int, s *goquery.Selection) {
		if cfg.MaxGames > 0 && len(gameIDs) >= cfg.MaxGames {
			return
		}
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		m := gameIDRe.FindStringSubmatch(href)
		if len(m) < 2 || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		gameIDs = append(gameIDs, m[1])
	})
	klog.V(1).Infof("discovery: %d games on %s", len(gameIDs), statsURL)
	return gameIDs, nil
}

// LeaderboardPlayers returns the players linked from a leaderboard page.
// Stats URLs are resolved against the page URL.
func LeaderboardPlayers(ctx context.Context, cfg Config, leaderboardURL string) ([]Player, error) {
	base, err := url.Parse(leaderboardURL)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", leaderboardURL)
	}
	doc, err := fetch(ctx, cfg, leaderboardURL)
	if err != nil {
		return nil, err
	}

	var players []Player
	seen := make(map[string]bool)
	doc.Find("a[href*='/leaderboard/']").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		m := playerRe.FindStringSubmatch(href)
		if len(m) < 2 || seen[m[1]] {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		seen[m[1]] = true
		players = append(players, Player{Username: m[1], StatsURL: base.ResolveReference(ref).String()})
	})
	return players, nil
}

func fetch(ctx context.Context, cfg Config, pageURL string) (*goquery.Document, error) {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.RequestDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RequestDelay):
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "request %s", pageURL)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", pageURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("get %s: status %d", pageURL, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", pageURL)
	}
	return doc, nil
}
