package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fruettli/hauskal/internal/config"
	"github.com/fruettli/hauskal/internal/database"
	"github.com/fruettli/hauskal/internal/logging"
	"github.com/fruettli/hauskal/internal/notify"
	"github.com/fruettli/hauskal/internal/server"
)

func main() {
	configPath := flag.String("config", "hauskal.yaml", "path to the configuration file")
	genKeys := flag.Bool("generate-vapid-keys", false, "print a fresh VAPID key pair and exit")
	flag.Parse()

	if *genKeys {
		pub, priv, err := notify.GenerateVAPIDKeys()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("vapid_public_key: %s\nvapid_private_key: %s\n", pub, priv)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if listen := os.Getenv("HAUSKAL_LISTEN"); listen != "" {
		cfg.Listen = listen
	}
	if dbPath := os.Getenv("HAUSKAL_DB_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, cfg, logger)

	if sched := srv.Scheduler(); sched != nil {
		if err := sched.Start(cfg.Notify.DailyTime); err != nil {
			logger.Error("start notification scheduler", "error", err)
			os.Exit(1)
		}
		defer sched.Stop()
	}

	httpServer := &http.Server{
		Addr:         cfg.Listen,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.Listen, "timezone", cfg.Timezone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
