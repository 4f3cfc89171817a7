// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/catalog"
	"github.com/danielhkuo/vivendo-na-fe/cliparse"
	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/notify"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
	"github.com/danielhkuo/vivendo-na-fe/router"
	"github.com/danielhkuo/vivendo-na-fe/scripture"
)

func main() {
	// A missing .env is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.LogFormat)

	// Connect and verify
	dbConn, err := db.Open(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables, triggers)
	if err := db.CreateSchema(dbConn, cfg.DatabaseType); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	store := db.NewStore(dbConn)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bootstrapAdmin(ctx, store, cfg); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.Load()
	if err != nil {
		slog.Error("catalog load failed", "error", err)
		os.Exit(1)
	}

	hub := realtime.NewHub()
	defer hub.Close()

	deps := router.Deps{
		Store:     store,
		Config:    cfg,
		Hub:       hub,
		Scripture: scripture.NewClient(cfg.ScriptureAPIURL, cfg.Translation, cat, &http.Client{}),
		Catalog:   cat,
	}

	// Postgres triggers feed the hub, so handlers must not publish as well
	if cfg.ChangeFeed == cliparse.FeedPostgres {
		deps.Publisher = realtime.NopPublisher{}
		bridge := realtime.NewPGBridge(cfg.DatabaseURL, db.ChangeChannel, hub, store.LoadRecord)
		go func() {
			if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("change bridge stopped", "error", err)
			}
		}()
		slog.Info("Change feed from postgres", "channel", db.ChangeChannel)
	}

	if cfg.NotificationsEnabled() {
		notifier := notify.NewNotifier(hub, notify.NewResendSender(cfg.ResendAPIKey, cfg.NotifyFrom), recipients(cfg.NotifyTo))
		go func() {
			if err := notifier.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("notifier stopped", "error", err)
			}
		}()
		slog.Info("Email notifications enabled")
	}

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(deps),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		// Websockets are hijacked and not tracked by Shutdown; closing the hub ends them
		hub.Close()
		server.Shutdown(shutdownCtx)
		cancel()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

func setupLogger(format string) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// bootstrapAdmin creates or refreshes the configured administrator
func bootstrapAdmin(ctx context.Context, store *db.Store, cfg cliparse.Config) error {
	if cfg.AdminUsername == "" {
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin, err := store.UpsertAdmin(ctx, cfg.AdminUsername, cfg.AdminName, hash)
	if err != nil {
		return err
	}
	slog.Info("Administrator ready", "username", admin.Username, "admin_id", admin.ID)
	return nil
}

func recipients(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
