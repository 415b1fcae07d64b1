// v3
// cmd/classifier/main.go

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/api"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/config"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/engine"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/logging"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/stream"
)

func main() {
	logger, logFile := logging.Init("classifier")
	defer logFile.Close()
	logger.Info("classifier starting")

	cfg, err := config.LoadClassifier()
	if err != nil {
		logger.Error("config error", "err", err)
		os.Exit(1)
	}

	var source stream.Consumer
	var sink stream.Producer
	if cfg.UseKafka() {
		source = stream.NewKafkaConsumer(cfg.KafkaBrokers, cfg.ReadingTopic, cfg.GroupID, logger)
		sink = stream.NewKafkaProducer(cfg.KafkaBrokers, cfg.EnrichedTopic, "classifier", logger)
	} else {
		source = stream.NewFileConsumer(cfg.InputPath, cfg.PollInterval, false, logger)
		sink, err = stream.NewFileProducer(cfg.OutputPath, false, logger)
		if err != nil {
			logger.Error("open output file", "path", cfg.OutputPath, "err", err)
			os.Exit(1)
		}
	}
	defer source.Close()
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	eng := engine.New(source, sink, logger)
	go func() {
		if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("engine error", "err", err)
			cancel()
		}
	}()

	router := api.NewRouter("classifier", func() any { return eng.Stats() })
	go api.Serve(ctx, cfg.HTTPBind, router, logger)

	<-stop
	logger.Info("shutdown signal received")
	cancel()
	logger.Info("shutdown complete")
}
