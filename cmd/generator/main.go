// v2
// cmd/generator/main.go

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/api"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/config"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/generator"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/logging"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/stream"
)

func main() {
	logger, logFile := logging.Init("generator")
	defer logFile.Close()
	logger.Info("generator starting")

	cfg, err := config.LoadGenerator(logger)
	if err != nil {
		logger.Error("config error", "err", err)
		os.Exit(1)
	}

	var sink stream.Producer
	if cfg.UseKafka() {
		sink = stream.NewKafkaProducer(cfg.KafkaBrokers, cfg.ReadingTopic, "generator", logger)
	} else {
		sink, err = stream.NewFileProducer(cfg.Path, cfg.FreshRun, logger)
		if err != nil {
			logger.Error("open stream file", "path", cfg.Path, "err", err)
			os.Exit(1)
		}
	}
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	gen := generator.New(cfg, sink, logger)
	go gen.Run(ctx)

	router := api.NewRouter("generator", func() any { return gen.Stats() })
	go api.Serve(ctx, cfg.HTTPBind, router, logger)

	<-stop
	logger.Info("shutdown signal received")
	cancel()
	logger.Info("shutdown complete")
}
