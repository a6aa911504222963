// Package main implements a Battlesnake API server backed by the anytime
// best-first search in executor/search.
package main

import (
	"flag"
	"net/http"
	"os"
	"strconv"
	"time"

	"k8s.io/klog/v2"

	"github.com/brensch/snekfront/api"
	"github.com/brensch/snekfront/executor/search"
	"github.com/brensch/snekfront/logging"
)

func main() {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	klog.InitFlags(fs)

	listen := fs.String("listen", getEnvOrDefault("LISTEN", ":8080"), "HTTP listen address")
	moveTimeout := fs.Duration("move-timeout", 500*time.Millisecond, "Default move timeout when the game does not send one")
	latency := fs.Duration("latency", 200*time.Millisecond, "Time reserved for overhead and network latency")
	radius := fs.Int("priority-radius", search.DefaultPriorityRadius, "Opponents within this distance have every move searched")
	minPriority := fs.Int("min-priority", search.DefaultMinPrioritySnakes, "Nearest opponents always searched in full")
	maxPriority := fs.Int("max-priority", search.DefaultMaxPrioritySnakes, "Cap on opponents searched in full")
	parentWeight := fs.Float64("parent-weight", search.DefaultParentWeight, "Share of the parent score blended into children")
	parallelism := fs.Int("parallelism", getEnvIntOrDefault("PARALLELISM", 0), "Goroutines scoring joint moves (0 = GOMAXPROCS)")
	logFormat := fs.String("log-format", getEnvOrDefault("LOG_FORMAT", logging.FormatText), "Log format: text, json or pretty")
	color := fs.String("color", "#8a2be2", "Snake color")

	if err := fs.Parse(os.Args[1:]); err != nil {
		klog.Exitf("flag parse: %v", err)
	}
	if err := logging.Setup(*logFormat, os.Stderr); err != nil {
		klog.Exitf("logging: %v", err)
	}

	searcher := search.New().
		WithPriorityRadius(*radius).
		WithMinPrioritySnakes(*minPriority).
		WithMaxPrioritySnakes(*maxPriority).
		WithParentWeight(float32(*parentWeight)).
		WithParallelism(*parallelism)

	info := api.BattlesnakeInfoResponse{
		APIVersion: "1",
		Author:     "snekfront",
		Color:      *color,
		Head:       "default",
		Tail:       "default",
		Version:    "1.0.0",
	}
	server := NewServer(searcher, info, *moveTimeout, *latency)

	srv := &http.Server{
		Addr:              *listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	klog.Infof("Battlesnake server listening on http://%s", *listen)
	klog.Fatal(srv.ListenAndServe())
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
