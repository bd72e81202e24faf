// Command checkfeed fetches a podcast feed and prints its episodes.
// Useful for checking a feed before adding it to WRESTLEBOT_PODCAST_FEEDS.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/owdb/wrestlebot/internal/breaker"
	"github.com/owdb/wrestlebot/internal/fetch"
	"github.com/owdb/wrestlebot/internal/sources"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: checkfeed <feed-url>")
		os.Exit(1)
	}
	feedURL := os.Args[1]

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	breakers := breaker.NewManager(breaker.Config{
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		HalfOpenRequests: 2,
	}, logger)

	rss := sources.NewRSS(
		fetch.New(0, 30*time.Second),
		breakers.Get(sources.SourceRSS),
		logger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	feed, err := rss.Feed(ctx, feedURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR fetching feed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Feed: %s\n", feed.Title)
	if feed.Description != "" {
		fmt.Printf("Description: %s\n", feed.Description)
	}
	fmt.Printf("Episodes: %d\n\n", len(feed.Episodes))

	for i, ep := range feed.Episodes {
		fmt.Printf("%3d. %s\n", i+1, ep.Title)
		if !ep.Published.IsZero() {
			fmt.Printf("     published: %s\n", ep.Published.Format("2006-01-02"))
		}
		if ep.Duration > 0 {
			fmt.Printf("     duration: %s\n", ep.Duration)
		}
		if ep.AudioURL != "" {
			fmt.Printf("     audio: %s\n", ep.AudioURL)
		}
	}
}
