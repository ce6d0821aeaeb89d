package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"sar-trading-bot/internal/broker/samples"
	"sar-trading-bot/internal/broker/sourceobs"
	"sar-trading-bot/internal/broker/upstox"
	"sar-trading-bot/internal/broker/zerodha"
	"sar-trading-bot/internal/history"
	"sar-trading-bot/internal/indicator"
	"sar-trading-bot/internal/logger"
	"sar-trading-bot/internal/store"
	"sar-trading-bot/internal/strategy"
	"sar-trading-bot/internal/trace"
	"sar-trading-bot/internal/tradelog"
	"sar-trading-bot/internal/trademanager"
)

// initializeSystem initializes environment, logger and tracer.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old signal logs if retention is configured.
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// buildSelector wires the data sources behind the failover selector, each
// wrapped with observability.
func buildSelector(cfg *store.Config) *history.Selector {
	z := zerodha.New(zerodha.Params{
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Exchange,
	})
	u := upstox.New(upstox.Params{
		AccessToken: os.Getenv("UPSTOX_ACCESS_TOKEN"),
	})

	return history.NewSelector(cfg.PreferredHistorySource,
		sourceobs.Wrap(z),
		sourceobs.Wrap(u),
		sourceobs.Wrap(samples.New()),
	)
}

// buildStrategy assembles the SAR strategy with its collaborators.
func buildStrategy(cfg *store.Config, selector *history.Selector, tm *trademanager.Manager) *strategy.SARStrategy {
	gateway := indicator.NewGateway(indicator.Config{
		ADXPeriod:    cfg.Indicators.ADXPeriod,
		RSIPeriod:    cfg.Indicators.RSIPeriod,
		BBWindow:     cfg.Indicators.BBWindow,
		BBStdDev:     cfg.Indicators.BBStdDev,
		StochKPeriod: cfg.Indicators.StochKPeriod,
		StochDPeriod: cfg.Indicators.StochDPeriod,
	})
	return strategy.NewSAR(cfg, selector, tm, gateway)
}
