package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sar-trading-bot/internal/eod"
	"sar-trading-bot/internal/logger"
	"sar-trading-bot/internal/trace"
	"sar-trading-bot/internal/trademanager"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(ctx)
	must(err)

	compressOldLogs(ctx)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	selector := buildSelector(cfg)
	tm := trademanager.New()
	strat := buildStrategy(cfg, selector, tm)

	if cfg.Mode == "DRY_RUN" {
		logger.Info(ctx, ">> DRY_RUN mode")
	}

	processTick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer processTick.Stop()
	quoteTick := time.NewTicker(time.Duration(cfg.QuotePollSeconds) * time.Second)
	defer quoteTick.Stop()
	eodTick := time.NewTicker(60 * time.Second)
	defer eodTick.Stop()

	logger.Info(ctx, "Bot started", "strategy", strat.Name(), "stocks", len(strat.Stocks()))
	for {
		select {
		case <-processTick.C:
			if err := strat.Process(ctx); err != nil {
				logger.ErrorWithErr(ctx, "Process cycle failed", err)
			}
		case <-quoteTick.C:
			strat.EvaluateQuotes(ctx)
		case <-eodTick.C:
			if eod.ShouldRunNow() {
				if p, err := eod.SummarizeToday(); err == nil && p != "" {
					logger.Info(ctx, "EOD CSV written", "path", p)
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down")
			if p, err := eod.SummarizeToday(); err == nil && p != "" {
				logger.Info(ctx, "EOD CSV written", "path", p)
			}
			_ = trace.Shutdown(ctx)
			return
		case <-ctx.Done():
			_ = trace.Shutdown(ctx)
			return
		}
	}
}
