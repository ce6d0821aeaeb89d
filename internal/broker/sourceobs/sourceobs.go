// Package sourceobs wraps a DataSource with logging and tracing middleware.
package sourceobs

import (
	"context"
	"time"

	"sar-trading-bot/internal/interfaces"
	"sar-trading-bot/internal/logger"
	"sar-trading-bot/internal/trace"
	"sar-trading-bot/internal/types"
)

type observableSource struct {
	src interfaces.DataSource
}

var _ interfaces.DataSource = (*observableSource)(nil)

// Wrap decorates a data source with observability middleware.
func Wrap(src interfaces.DataSource) interfaces.DataSource {
	return &observableSource{src: src}
}

func (os *observableSource) Name() string { return os.src.Name() }

func (os *observableSource) IsAuthenticated() bool { return os.src.IsAuthenticated() }

func (os *observableSource) FetchHistory(ctx context.Context, symbol, interval string, from, to time.Time) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "datasource.FetchHistory")
	defer span.End()

	logger.Debug(ctx, "Fetching candle history", "provider", os.src.Name(), "symbol", symbol, "interval", interval)

	candles, err := os.src.FetchHistory(ctx, symbol, interval, from, to)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch candle history", err, "provider", os.src.Name(), "symbol", symbol)
		return nil, err
	}

	logger.Debug(ctx, "Candle history fetched", "provider", os.src.Name(), "symbol", symbol, "count", len(candles))
	return candles, nil
}

func (os *observableSource) LTP(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "datasource.LTP")
	defer span.End()

	price, err := os.src.LTP(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch LTP", err, "provider", os.src.Name(), "symbol", symbol)
		return 0, err
	}

	logger.Debug(ctx, "LTP fetched", "provider", os.src.Name(), "symbol", symbol, "price", price)
	return price, nil
}
