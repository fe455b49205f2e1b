/*
Command linecache-server runs a memcached-ASCII-compatible LRU cache
over TCP. It wires together a fixed-size worker pool, a bounded LRU
store, the wire-protocol codec, and the connection multiplexer, plus
an optional Prometheus listener.
*/
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/krishna8167/linecache/cache"
	"github.com/krishna8167/linecache/internal/metrics"
	"github.com/krishna8167/linecache/pool"
	"github.com/krishna8167/linecache/server"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("linecache-server", pflag.ContinueOnError)

	defaults := defaultConfig()
	port := flags.Int("port", defaults.Port, "TCP port to listen on")
	workers := flags.Int("workers", defaults.Workers, "number of fixed worker-pool goroutines")
	capacity := flags.Int("capacity", defaults.Capacity, "maximum resident entry count")
	reportInterval := flags.Int("report-interval", defaults.ReportInterval, "seconds between background stats log lines (0 disables)")
	metricsAddr := flags.String("metrics-addr", defaults.MetricsAddr, "address for the optional /metrics listener (empty disables it)")
	configPath := flags.String("config", "", "optional JSONC config file; flags override file values")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		cfg, err = loadConfigFile(*configPath, cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "port":
			cfg.Port = *port
		case "workers":
			cfg.Workers = *workers
		case "capacity":
			cfg.Capacity = *capacity
		case "report-interval":
			cfg.ReportInterval = *reportInterval
		case "metrics-addr":
			cfg.MetricsAddr = *metricsAddr
		}
	})

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		return 2
	}
	defer logger.Sync()

	return runServer(cfg, logger)
}

func runServer(cfg Config, logger *zap.Logger) int {
	storeOpts := []cache.Option{
		cache.WithCapacity(cfg.Capacity),
		cache.WithLogger(logger.Sugar()),
	}
	if cfg.ReportInterval > 0 {
		storeOpts = append(storeOpts, cache.WithReportInterval(time.Duration(cfg.ReportInterval)*time.Second))
	}

	store, err := cache.New(storeOpts...)
	if err != nil {
		logger.Error("failed to construct store", zap.Error(err))
		return 2
	}
	defer store.Close()

	var reg *metrics.Registry
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.MetricsAddr != "" {
		reg = metrics.New()
		go func() {
			if err := reg.ListenAndServe(cfg.MetricsAddr, logger); err != nil {
				logger.Error("metrics listener failed", zap.Error(err))
			}
		}()
		defer reg.Shutdown(context.Background())
	}

	workers := pool.New(cfg.Workers, logger)
	srv := server.New(store, workers, logger, reg)

	addr := net.JoinHostPort("", fmt.Sprint(cfg.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error during graceful shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting linecache-server",
		zap.Int("port", cfg.Port),
		zap.Int("workers", cfg.Workers),
		zap.Int("capacity", cfg.Capacity),
	)

	if err := srv.Serve(ctx, addr); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return 2
	}
	return 0
}
