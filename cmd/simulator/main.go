package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"airquality-platform/internal/config"
	"airquality-platform/internal/models"
	"airquality-platform/internal/series"
	"airquality-platform/internal/services"
	"airquality-platform/pkg/logging"
	"airquality-platform/pkg/metrics"
)

// The simulator walks the core pipeline offline: generate a series,
// aggregate it, invalidate the pending anomalies and revert the first one.
// It needs no database; audit events are skipped.
func main() {
	station := flag.String("station", "REPLAN", "Station code")
	parameter := flag.String("parameter", "SO2", "Measured parameter")
	period := flag.String("period", "last_24h", "Series period: last_24h, last_7d, last_30d, last_90d")
	granularity := flag.String("granularity", "native", "Aggregation granularity: native, 15min, 1h, 1d")
	actor := flag.String("actor", "simulador", "Operator identity used for invalidations")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewStructuredLogger("airquality-simulator", "1.0.0", logging.ParseLevel(cfg.Logging.Level))
	metricsCollector := metrics.NewCollector("airquality_simulator")

	ctx := context.Background()
	logger.Info(ctx, "[SIMULATOR_START] Starting validation pipeline walk-through", logging.Fields{
		"station":     *station,
		"parameter":   *parameter,
		"period":      *period,
		"granularity": *granularity,
	})

	g, ok := models.ParseGranularity(*granularity)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown granularity: %s\n", *granularity)
		os.Exit(1)
	}

	monitor := services.NewMonitorService(nil, logger, metricsCollector)
	monitor.Select(ctx, *station, *parameter, models.ParsePeriod(*period))
	monitor.SetGranularity(ctx, g)

	printSummary("After generation", monitor.Summary())

	// Invalidate every pending row the scenario injected
	monitor.SetTab(series.TabPending)
	pending := monitor.Readings()
	fmt.Printf("\nPending rows: %d\n", pending.Total)
	for _, row := range pending.Rows {
		fmt.Printf("  #%-4d %s  %s %s\n", row.ID, row.Timestamp, row.RawValue, row.Unit)
	}

	firstID := 0
	for _, row := range pending.Rows {
		if firstID == 0 {
			firstID = row.ID
		}
		if err := monitor.Invalidate(ctx, row.ID, "Falha de Sensor", *actor); err != nil {
			logger.Error(ctx, "[SIMULATOR_ERROR] Invalidation failed", logging.Fields{
				"reading_id": row.ID,
			}, err)
		}
	}
	printSummary("After invalidating pending rows", monitor.Summary())

	// Revert the first invalidation when the granularity allows it
	if firstID != 0 {
		if err := monitor.Revert(ctx, firstID, *actor); err != nil {
			fmt.Printf("\nRevert of #%d rejected: %v\n", firstID, err)
		} else {
			printSummary(fmt.Sprintf("After reverting #%d", firstID), monitor.Summary())
		}
	}

	logger.Info(ctx, "[SIMULATOR_COMPLETE] Walk-through finished", logging.Fields{
		"station":   *station,
		"parameter": *parameter,
	})
}

func printSummary(stage string, s series.Summary) {
	fmt.Printf("\n%s:\n", stage)
	fmt.Printf("  total=%d valid=%d invalid=%d pending=%d approval=%.1f%%\n",
		s.Total, s.Valid, s.Invalid, s.Pending, s.ApprovalRate*100)
}
