package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avramidis/endpoint-monitor/config"
	"github.com/avramidis/endpoint-monitor/internal/endpoint"
	"github.com/avramidis/endpoint-monitor/internal/event"
	"github.com/avramidis/endpoint-monitor/internal/failover"
	"github.com/avramidis/endpoint-monitor/internal/healthcheck"
	"github.com/avramidis/endpoint-monitor/internal/httpserver"
	"github.com/avramidis/endpoint-monitor/internal/metrics"
	"github.com/avramidis/endpoint-monitor/internal/monitor"
	"github.com/avramidis/endpoint-monitor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, true, cfg.Server.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry, err := buildRegistry(cfg, log)
	if err != nil {
		log.Error("failed to build endpoint registry", slog.Any("err", err))
		os.Exit(1)
	}

	interval, checkTimeout, thresholds, err := monitorSettings(cfg)
	if err != nil {
		log.Error("invalid monitor settings", slog.Any("err", err))
		os.Exit(1)
	}

	collectors := metrics.NewCollectors()
	aggregator := metrics.NewAggregator(thresholds, collectors, log)
	engine := failover.NewEngine(registry, aggregator, collectors, failover.NewPrioritySelector(), log)
	bus := event.NewBus(log)
	checker := healthcheck.NewChecker(log)

	mon := monitor.New(registry, checker, aggregator, engine, bus, checkTimeout, log)
	mon.Start(interval)

	srv, err := httpserver.New(cfg.Server.Address, setupRouter(mon, collectors))
	if err != nil {
		log.Error("failed to create server", slog.Any("err", err))
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)

	go func() {
		srvErrCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down gracefully...")
		mon.Stop()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("error during shutdown", slog.Any("err", err))
		}
	case err := <-srvErrCh:
		mon.Stop()
		if err != nil {
			log.Error("error starting admin server", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

func buildRegistry(cfg *config.Config, log *slog.Logger) (*endpoint.Registry, error) {
	registry := endpoint.NewRegistry()

	for _, epCfg := range cfg.Endpoints {
		u, err := url.Parse(epCfg.URL)
		if err != nil {
			log.Error("failed to parse endpoint URL",
				slog.String("url", epCfg.URL),
				slog.String("error", err.Error()))
			continue
		}

		if err := registry.Add(endpoint.New(u, epCfg.Priority)); err != nil {
			return nil, err
		}
	}

	if registry.Len() == 0 {
		return nil, os.ErrInvalid
	}

	return registry, nil
}

func monitorSettings(cfg *config.Config) (interval, checkTimeout time.Duration, thresholds metrics.Thresholds, err error) {
	interval, err = time.ParseDuration(cfg.Monitor.Interval)
	if err != nil {
		return 0, 0, metrics.Thresholds{}, err
	}

	checkTimeout, err = time.ParseDuration(cfg.Monitor.CheckTimeout)
	if err != nil {
		return 0, 0, metrics.Thresholds{}, err
	}

	degradedLatency, err := time.ParseDuration(cfg.Monitor.DegradedLatency)
	if err != nil {
		return 0, 0, metrics.Thresholds{}, err
	}

	thresholds = metrics.Thresholds{
		FailureThreshold: cfg.Monitor.FailureThreshold,
		SuccessThreshold: cfg.Monitor.SuccessThreshold,
		DegradedLatency:  degradedLatency,
	}

	return interval, checkTimeout, thresholds, nil
}
