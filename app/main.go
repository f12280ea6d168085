package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallboard/app/api"
	"wallboard/app/calendar"
	"wallboard/app/cfg"
	"wallboard/app/config"
	"wallboard/app/fetch"
	"wallboard/app/news"
	"wallboard/app/reddit"
	"wallboard/app/rss"
	"wallboard/app/status"
	"wallboard/app/tasks"
	"wallboard/app/wallpaper"
	"wallboard/app/weather"
)

func main() {
	appConfig, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appConfig == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appConfig.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Wallboard server", "version", appConfig.Version)

	dashboardConfig, err := config.Load(appConfig.ConfigFile)
	if err != nil {
		slog.Error("Failed to load dashboard configuration", "path", appConfig.ConfigFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Dashboard configuration loaded",
		"rss_feeds", len(dashboardConfig.News.RSSFeeds),
		"news_subreddits", len(dashboardConfig.News.Reddit.Subreddits),
		"wallpaper_subreddits", len(dashboardConfig.Wallpaper.Subreddits))

	// Shared outbound HTTP capability and fatal-state board
	client := fetch.NewClient(appConfig.UserAgent, fetch.DefaultTimeout)
	board := status.NewBoard()

	// Adapters
	redditAdapter := reddit.NewAdapter(client)
	rssAdapter := rss.NewAdapter(client)
	weatherAdapter := weather.NewAdapter(client, dashboardConfig.Weather.APIKey, dashboardConfig.Weather.Location)

	// Streams
	headlines := news.NewAggregator(dashboardConfig.News, rssAdapter, redditAdapter, board)
	calendarStream := calendar.NewStream(dashboardConfig.Calendar, client, board)
	weatherStream := weather.NewStream(weatherAdapter, board)
	wallpaperPool := wallpaper.NewPool(dashboardConfig.Wallpaper, redditAdapter)

	// Background pre-warming keeps the first client poll off the slow path
	scheduler := tasks.NewScheduler(2)
	scheduler.Register(news.StreamName, headlines, time.Duration(dashboardConfig.News.RefreshInterval)*time.Second)
	scheduler.Register(wallpaper.StreamName, wallpaperPool, time.Duration(dashboardConfig.Wallpaper.ImagePoolRefreshInterval)*time.Second)
	if dashboardConfig.Calendar.ICSURL != "" {
		scheduler.Register(calendar.StreamName, calendarStream, 5*time.Minute)
	}
	if dashboardConfig.Weather.APIKey != "" {
		scheduler.Register(weather.StreamName, weatherStream, 15*time.Minute)
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(dashboardConfig, headlines, calendarStream, weatherStream, wallpaperPool, board)
	server := api.NewServer(handler, appConfig.StaticDir)

	httpServer := &http.Server{
		Addr:         ":" + appConfig.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appConfig.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
}
