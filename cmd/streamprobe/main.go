// streamprobe subscribes one instrument on the live stream and prints
// its ticks to the console. Useful for checking credentials and feed
// health without touching storage.
//
// Usage: go run ./cmd/streamprobe --config configs/recorder.yaml --ticker TCS.NSE
//
// Required environment variable:
//
//	ACCESS_TOKEN - provider access token for the session
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tick-recorder/internal/config"
	"tick-recorder/internal/dedup"
	"tick-recorder/internal/model"
	"tick-recorder/internal/normalize"
	"tick-recorder/internal/resolver"
	"tick-recorder/internal/stream"
)

func main() {
	configPath := flag.String("config", "configs/recorder.yaml", "path to config file")
	ticker := flag.String("ticker", "", "instrument to probe, e.g. TCS.NSE")
	raw := flag.Bool("raw", false, "print every push, skipping dedup")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if *ticker == "" {
		logger.Error("missing --ticker")
		os.Exit(1)
	}
	accessToken := os.Getenv("ACCESS_TOKEN")
	if accessToken == "" {
		logger.Error("ACCESS_TOKEN environment variable not set")
		os.Exit(1)
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	client := resolver.NewClient(
		cfg.API.BaseURL,
		resolver.WithTimeout(cfg.API.Timeout),
		resolver.WithLogger(logger),
	)

	inst, err := client.Resolve(ctx, *ticker, accessToken)
	if err != nil {
		logger.Error("failed to resolve ticker", "ticker", *ticker, "error", err)
		os.Exit(1)
	}
	logger.Info("instrument resolved",
		"ticker", inst.Ticker(),
		"token", inst.Token,
		"exchange_code", inst.ExchangeCode,
	)

	conn := stream.NewConn(stream.Config{
		URL:          cfg.Stream.WSURL,
		PingTimeout:  cfg.Stream.PingTimeout,
		WriteTimeout: cfg.Stream.WriteTimeout,
		QueueSize:    cfg.Stream.QueueSize,
	}, logger)
	defer conn.Close()

	conn.SetAccessToken(accessToken)
	if err := conn.Open(ctx); err != nil {
		logger.Error("failed to open stream", "error", err)
		os.Exit(1)
	}
	if err := conn.Subscribe(inst.ExchangeCode, inst.Token); err != nil {
		logger.Error("failed to subscribe", "error", err)
		os.Exit(1)
	}

	key := model.Key(inst.ExchangeCode, inst.Token)
	filter := dedup.New()
	count := 0

	logger.Info("streaming, press Ctrl-C to stop")
	for {
		select {
		case <-ctx.Done():
			logger.Info("probe finished", "ticks_printed", count)
			return
		default:
		}

		rawTick, ok := conn.Receive(key)
		if !ok {
			if !conn.IsOpen() {
				logger.Error("stream closed")
				os.Exit(1)
			}
			time.Sleep(cfg.Stream.PollInterval)
			continue
		}

		tick, ok := normalize.Tick(rawTick, inst.Symbol, inst.ExchangeCode)
		if !ok {
			continue
		}
		if !*raw && !filter.Keep(tick) {
			continue
		}

		count++
		fmt.Printf("%s  %s %s  LTP=%.2f LTQ=%d\n",
			tick.Symbol, tick.Date(), tick.Clock(), tick.LTP, tick.LTQ)
	}
}
