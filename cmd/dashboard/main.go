// v2
// cmd/dashboard/main.go

package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/api"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/config"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/dashboard"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/logging"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/model"
	"github.com/ns20102009-a11y/env-monitoring-system-main/internal/stream"
)

func main() {
	logger, logFile := logging.Init("dashboard")
	defer logFile.Close()

	cfg, err := config.LoadDashboard()
	if err != nil {
		logger.Error("config error", "err", err)
		os.Exit(1)
	}

	var source stream.Consumer
	if cfg.UseKafka() {
		source = stream.NewKafkaConsumer(cfg.KafkaBrokers, cfg.EnrichedTopic, cfg.GroupID, logger)
	} else {
		source = stream.NewFileConsumer(cfg.OutputPath, cfg.PollInterval, false, logger)
	}
	defer source.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := dashboard.NewCache(cfg.TrendPoints)
	go feed(ctx, source, cache, logger)

	router := api.NewRouter("dashboard", func() any {
		return map[string]any{
			"records": cache.Total(),
			"sensors": cache.Sensors(),
		}
	})
	go api.Serve(ctx, cfg.HTTPBind, router, logger)

	if err := dashboard.Run(cache, cfg.PollInterval); err != nil {
		logger.Error("dashboard error", "err", err)
		os.Exit(1)
	}
}

// feed applies every enriched record from the stream to the cache.
// Records that fail to decode are skipped; the viewer must never crash on
// a torn or malformed line.
func feed(ctx context.Context, source stream.Consumer, cache *dashboard.Cache, logger *slog.Logger) {
	records, err := source.Consume(ctx)
	if err != nil {
		logger.Error("consume failed", "err", err)
		return
	}
	for rec := range records {
		var enriched model.EnrichedReading
		if err := json.Unmarshal(rec.Value, &enriched); err != nil {
			logger.Warn("skipping record", "offset", rec.Offset, "err", err)
			continue
		}
		cache.Apply(enriched)
	}
}
