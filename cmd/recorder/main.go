package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tick-recorder/internal/config"
	"tick-recorder/internal/metrics"
	"tick-recorder/internal/model"
	"tick-recorder/internal/recorder"
	"tick-recorder/internal/resolver"
	"tick-recorder/internal/server"
	"tick-recorder/internal/store"
	"tick-recorder/internal/stream"
	"tick-recorder/internal/version"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "configs/recorder.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting recorder",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"storage_mode", cfg.Storage.Mode,
		"api_url", cfg.API.BaseURL,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Storage backend is fixed for the process lifetime; an unknown
	// mode refuses to start.
	st, err := store.New(ctx, cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			logger.Error("storage close failed", "error", err)
		}
	}()

	logger.Info("storage ready", "mode", cfg.Storage.Mode)

	apiClient := resolver.NewClient(
		cfg.API.BaseURL,
		resolver.WithTimeout(cfg.API.Timeout),
		resolver.WithLogger(logger),
	)

	m := metrics.New(prometheus.DefaultRegisterer)

	conn := stream.NewConn(stream.Config{
		URL:          cfg.Stream.WSURL,
		PingTimeout:  cfg.Stream.PingTimeout,
		WriteTimeout: cfg.Stream.WriteTimeout,
		QueueSize:    cfg.Stream.QueueSize,
	}, logger)
	conn.OnDrop(func(model.SubscriptionKey) { m.DroppedTicks.Inc() })
	defer conn.Close()

	supervisor := recorder.New(recorder.Config{
		PollInterval:     cfg.Stream.PollInterval,
		FirstTickTimeout: cfg.Stream.FirstTickTimeout,
	}, apiClient, conn, st, m, logger)

	handler := server.NewHandler(supervisor, apiClient, logger)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.NewRouter(handler),
	}

	go func() {
		logger.Info("starting http server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	logger.Info("recorder running",
		"instance_id", cfg.Instance.ID,
		"api_url", fmt.Sprintf("http://localhost:%d/api/v1", cfg.Server.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := supervisor.Shutdown(shutdownCtx); err != nil {
		logger.Error("session shutdown incomplete", "error", err)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}

	logger.Info("recorder stopped")
}
